package evaluator

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/valkolaci/poolsched/pkg/actuator"
	"github.com/valkolaci/poolsched/pkg/cloud"
	"github.com/valkolaci/poolsched/pkg/config"
	"github.com/valkolaci/poolsched/pkg/events"
	"github.com/valkolaci/poolsched/pkg/log"
	"github.com/valkolaci/poolsched/pkg/metrics"
	"github.com/valkolaci/poolsched/pkg/resolver"
	"github.com/valkolaci/poolsched/pkg/types"
)

// DefaultInterval is the pause between evaluation cycles
const DefaultInterval = 5 * time.Minute

// DefaultConcurrency bounds the number of node pools evaluated at once
const DefaultConcurrency = 4

// Evaluator runs the periodic evaluation loop: list every node pool,
// resolve its desired size against the current configuration snapshot
// and hand the decision to the actuator.
type Evaluator struct {
	store       *config.Store
	provider    cloud.Provider
	actuator    *actuator.Actuator
	broker      *events.Broker // nil disables events
	interval    time.Duration
	concurrency int
	stopCh      chan struct{}
	wg          sync.WaitGroup
}

// New creates an evaluator. interval and concurrency fall back to the
// defaults when zero.
func New(store *config.Store, provider cloud.Provider, act *actuator.Actuator, broker *events.Broker, interval time.Duration, concurrency int) *Evaluator {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	return &Evaluator{
		store:       store,
		provider:    provider,
		actuator:    act,
		broker:      broker,
		interval:    interval,
		concurrency: concurrency,
		stopCh:      make(chan struct{}),
	}
}

// Start begins the evaluation loop
func (e *Evaluator) Start(ctx context.Context) {
	e.wg.Add(1)
	go e.run(ctx)
}

// Stop stops the evaluation loop and waits for the current cycle
func (e *Evaluator) Stop() {
	close(e.stopCh)
	e.wg.Wait()
}

func (e *Evaluator) run(ctx context.Context) {
	defer e.wg.Done()

	logger := log.WithComponent("evaluator")
	logger.Info().Dur("interval", e.interval).Msg("evaluation loop started")

	// First cycle runs immediately, then on the ticker.
	if err := e.RunCycle(ctx); err != nil {
		logger.Error().Err(err).Msg("evaluation cycle failed")
	}

	ticker := time.NewTicker(e.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := e.RunCycle(ctx); err != nil {
				logger.Error().Err(err).Msg("evaluation cycle failed")
			}
		case <-e.stopCh:
			logger.Info().Msg("evaluation loop stopped")
			return
		case <-ctx.Done():
			logger.Info().Msg("evaluation loop canceled")
			return
		}
	}
}

// RunCycle performs one full evaluation pass over every node pool
func (e *Evaluator) RunCycle(ctx context.Context) error {
	timer := metrics.NewTimer()
	defer timer.ObserveDuration(metrics.EvaluationDuration)

	snap := e.store.Snapshot()
	now := snap.Now()

	pools, err := ListNodePools(ctx, e.provider)
	if err != nil {
		return fmt.Errorf("failed to list node pools: %w", err)
	}

	sem := make(chan struct{}, e.concurrency)
	var wg sync.WaitGroup
	for _, pool := range pools {
		wg.Add(1)
		sem <- struct{}{}
		go func(pool *types.NodePool) {
			defer wg.Done()
			defer func() { <-sem }()
			e.evaluatePool(ctx, snap, pool, now)
		}(pool)
	}
	wg.Wait()

	metrics.EvaluationCyclesTotal.Inc()
	e.publishCycle(len(pools))
	return nil
}

func (e *Evaluator) evaluatePool(ctx context.Context, snap *config.Snapshot, pool *types.NodePool, now time.Time) {
	target := pool.Target()
	decision := resolver.Decide(snap, target, now)

	metrics.TargetsEvaluated.Inc()
	metrics.DecisionsTotal.WithLabelValues(string(decision.Action)).Inc()

	if exc, ok := resolver.ResolveException(snap.Exceptions, target, now.In(snap.Location)); ok && exc.Size == nil {
		e.publishSuspended(target, decision.Reason)
	}

	if err := e.actuator.Apply(ctx, pool, decision); err != nil {
		logger := log.WithNodePool(pool.Compartment, pool.Cluster, pool.Name)
		logger.Error().Err(err).Msg("failed to apply decision")
	}
}

// ListNodePools walks compartments and clusters and returns every
// node pool the provider knows about.
func ListNodePools(ctx context.Context, provider cloud.Provider) ([]*types.NodePool, error) {
	compartments, err := provider.ListCompartments(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list compartments: %w", err)
	}

	var pools []*types.NodePool
	for _, compartment := range compartments {
		clusters, err := provider.ListClusters(ctx, compartment)
		if err != nil {
			return nil, fmt.Errorf("failed to list clusters in %s: %w", compartment.Path, err)
		}
		for _, cluster := range clusters {
			clusterPools, err := provider.ListNodePools(ctx, compartment, cluster)
			if err != nil {
				return nil, fmt.Errorf("failed to list node pools in %s/%s: %w", compartment.Path, cluster.Name, err)
			}
			pools = append(pools, clusterPools...)
		}
	}
	return pools, nil
}

func (e *Evaluator) publishCycle(targets int) {
	if e.broker == nil {
		return
	}
	e.broker.Publish(&events.Event{
		ID:        uuid.New().String(),
		Type:      events.EventEvaluationCycle,
		Timestamp: time.Now(),
		Message:   fmt.Sprintf("evaluated %d node pools", targets),
		Metadata:  map[string]string{"targets": fmt.Sprintf("%d", targets)},
	})
}

func (e *Evaluator) publishSuspended(target types.Target, reason string) {
	if e.broker == nil {
		return
	}
	e.broker.Publish(&events.Event{
		ID:        uuid.New().String(),
		Type:      events.EventPoolSuspended,
		Timestamp: time.Now(),
		Target:    target,
		Message:   reason,
	})
}
