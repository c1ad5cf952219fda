package events

import (
	"bytes"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/valkolaci/poolsched/pkg/log"
	"github.com/valkolaci/poolsched/pkg/types"
)

func TestBrokerPublishSubscribe(t *testing.T) {
	broker := NewBroker()
	broker.Start()
	defer broker.Stop()

	sub := broker.Subscribe()
	assert.Equal(t, 1, broker.SubscriberCount())

	broker.Publish(&Event{
		Type:    EventPoolResized,
		Target:  types.Target{Compartment: "sandbox/devops", Cluster: "dev", NodePool: "pool1"},
		Message: "resized 3 -> 0",
	})

	select {
	case event := <-sub:
		assert.Equal(t, EventPoolResized, event.Type)
		assert.Equal(t, "pool1", event.Target.NodePool)
		assert.False(t, event.Timestamp.IsZero(), "publish must stamp the event")
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
	}

	broker.Unsubscribe(sub)
	assert.Equal(t, 0, broker.SubscriberCount())

	_, open := <-sub
	require.False(t, open, "unsubscribed channel must be closed")
}

// syncBuffer makes bytes.Buffer safe for the logger goroutine
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestEventLoggerWritesPublishedEvents(t *testing.T) {
	out := &syncBuffer{}
	log.Init(log.Config{Level: log.InfoLevel, JSONOutput: true, Output: out})

	broker := NewBroker()
	broker.Start()
	defer broker.Stop()

	eventLog := NewEventLogger(broker)
	eventLog.Start()

	broker.Publish(&Event{
		Type:    EventPoolResized,
		Target:  types.Target{Compartment: "sandbox/devops", Cluster: "dev", NodePool: "pool1"},
		Message: "resized 3 -> 0",
	})

	require.Eventually(t, func() bool {
		return strings.Contains(out.String(), string(EventPoolResized))
	}, time.Second, 10*time.Millisecond, "published event never reached the log")
	assert.Contains(t, out.String(), "sandbox/devops/dev/pool1")

	eventLog.Stop()
}
