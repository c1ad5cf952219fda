package events

import (
	"github.com/valkolaci/poolsched/pkg/log"
	"github.com/valkolaci/poolsched/pkg/types"
)

// EventLogger subscribes to a broker and writes every event to the
// structured log, so resizes, suspensions and reloads show up in the
// process output even when nothing else consumes them.
type EventLogger struct {
	broker *Broker
	sub    Subscriber
	stopCh chan struct{}
	doneCh chan struct{}
}

// NewEventLogger creates a logging subscriber for the broker
func NewEventLogger(broker *Broker) *EventLogger {
	return &EventLogger{
		broker: broker,
		stopCh: make(chan struct{}),
		doneCh: make(chan struct{}),
	}
}

// Start subscribes and begins logging events
func (l *EventLogger) Start() {
	l.sub = l.broker.Subscribe()
	go l.run()
}

// Stop unsubscribes and stops logging
func (l *EventLogger) Stop() {
	close(l.stopCh)
	l.broker.Unsubscribe(l.sub)
	<-l.doneCh
}

func (l *EventLogger) run() {
	defer close(l.doneCh)

	logger := log.WithComponent("events")
	for {
		select {
		case event, ok := <-l.sub:
			if !ok {
				return
			}
			entry := logger.Info().
				Str("event", string(event.Type)).
				Time("timestamp", event.Timestamp)
			if event.Target != (types.Target{}) {
				entry = entry.Str("target", event.Target.String())
			}
			entry.Msg(event.Message)
		case <-l.stopCh:
			return
		}
	}
}
