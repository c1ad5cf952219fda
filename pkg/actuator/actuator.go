package actuator

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/valkolaci/poolsched/pkg/cloud"
	"github.com/valkolaci/poolsched/pkg/events"
	"github.com/valkolaci/poolsched/pkg/log"
	"github.com/valkolaci/poolsched/pkg/metrics"
	"github.com/valkolaci/poolsched/pkg/storage"
	"github.com/valkolaci/poolsched/pkg/types"
)

// Actuator applies resolver decisions to live node pools. It compares
// the desired size against the live size and issues a resize only on
// mismatch; the decision core makes no assumption about current size.
type Actuator struct {
	provider cloud.Provider
	store    storage.Store  // nil disables audit records
	broker   *events.Broker // nil disables events
	dryRun   bool
}

// New creates an actuator. store and broker may be nil for one-shot
// use; dryRun logs and audits resizes without applying them.
func New(provider cloud.Provider, store storage.Store, broker *events.Broker, dryRun bool) *Actuator {
	return &Actuator{
		provider: provider,
		store:    store,
		broker:   broker,
		dryRun:   dryRun,
	}
}

// Apply carries out one decision for one node pool
func (a *Actuator) Apply(ctx context.Context, pool *types.NodePool, decision types.Decision) error {
	logger := log.WithNodePool(pool.Compartment, pool.Cluster, pool.Name)

	a.recordObservedSize(pool, logger)

	if decision.Action != types.ActionSetSize {
		logger.Debug().Str("reason", decision.Reason).Msg("no action")
		return nil
	}

	if pool.Size == decision.Size {
		metrics.ResizesSkipped.Inc()
		logger.Debug().Int("size", pool.Size).Str("reason", decision.Reason).Msg("size already matches")
		return nil
	}

	if a.dryRun {
		logger.Info().
			Int("from", pool.Size).
			Int("to", decision.Size).
			Str("reason", decision.Reason).
			Msg("dry run: would resize node pool")
		a.audit(pool, decision, logger)
		return nil
	}

	if err := a.provider.SetNodePoolSize(ctx, pool.ID, decision.Size); err != nil {
		metrics.ResizeFailuresTotal.Inc()
		a.publish(events.EventPoolResizeFailed, pool, fmt.Sprintf("resize to %d failed: %v", decision.Size, err))
		return fmt.Errorf("failed to apply decision for %s: %w", pool.Target(), err)
	}

	metrics.ResizesTotal.Inc()
	logger.Info().
		Int("from", pool.Size).
		Int("to", decision.Size).
		Str("reason", decision.Reason).
		Msg("resized node pool")
	a.audit(pool, decision, logger)
	a.publish(events.EventPoolResized, pool, fmt.Sprintf("resized %d -> %d: %s", pool.Size, decision.Size, decision.Reason))
	return nil
}

func (a *Actuator) recordObservedSize(pool *types.NodePool, logger zerolog.Logger) {
	if a.store == nil {
		return
	}
	if err := a.store.SetObservedSize(pool.ID, pool.Size, time.Now()); err != nil {
		logger.Warn().Err(err).Msg("failed to record observed size")
	}
}

func (a *Actuator) audit(pool *types.NodePool, decision types.Decision, logger zerolog.Logger) {
	if a.store == nil {
		return
	}
	record := &types.ResizeRecord{
		ID:         uuid.New().String(),
		NodePoolID: pool.ID,
		Target:     pool.Target(),
		FromSize:   pool.Size,
		ToSize:     decision.Size,
		Reason:     decision.Reason,
		DryRun:     a.dryRun,
		AppliedAt:  time.Now(),
	}
	if err := a.store.RecordResize(record); err != nil {
		logger.Warn().Err(err).Msg("failed to record resize audit entry")
	}
}

func (a *Actuator) publish(eventType events.EventType, pool *types.NodePool, message string) {
	if a.broker == nil {
		return
	}
	a.broker.Publish(&events.Event{
		ID:      uuid.New().String(),
		Type:    eventType,
		Target:  pool.Target(),
		Message: message,
	})
}
