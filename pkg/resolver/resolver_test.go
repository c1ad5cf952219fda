package resolver

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/valkolaci/poolsched/pkg/config"
	"github.com/valkolaci/poolsched/pkg/types"
)

const testConfig = `
timezone: UTC
schedules:
  nightly:
    - start: "0 20 * * *"
      end: "0 6 * * *"
      size: 0
  none: {}
rules:
  - compartment: sandbox/devops
    schedule: nightly
  - schedule: none
exceptions:
  - comment: Holiday freeze
    compartment: sandbox/devops
    start: 2025-12-24 00:00
    end: 2025-12-28 00:00
    size: 0
  - comment: Load test
    compartment: enap/cmp-tst
    start: 2025-12-24 00:00
    end: 2025-12-28 00:00
    size: on
`

func loadSnapshot(t *testing.T) *config.Snapshot {
	t.Helper()
	snap, err := config.Parse([]byte(testConfig))
	require.NoError(t, err)
	return snap
}

var (
	devTarget  = types.Target{Compartment: "sandbox/devops", Cluster: "dev", NodePool: "pool1"}
	tstTarget  = types.Target{Compartment: "enap/cmp-tst", Cluster: "tst", NodePool: "pool1"}
	prodTarget = types.Target{Compartment: "enap/cmp-prod", Cluster: "prod", NodePool: "pool1"}
)

// TestDecideScheduleLayers tests rule ordering and schedule evaluation
// outside any exception window.
func TestDecideScheduleLayers(t *testing.T) {
	snap := loadSnapshot(t)

	night := time.Date(2025, 6, 10, 23, 0, 0, 0, time.UTC)
	day := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)

	// First rule matches the devops compartment: nightly schedule.
	decision := Decide(snap, devTarget, night)
	assert.Equal(t, types.ActionSetSize, decision.Action)
	assert.Equal(t, 0, decision.Size)

	// Outside the window the schedule places no constraint.
	decision = Decide(snap, devTarget, day)
	assert.Equal(t, types.ActionNone, decision.Action)

	// Everything else falls through to the catch-all "none" rule,
	// whose empty schedule never activates.
	decision = Decide(snap, prodTarget, night)
	assert.Equal(t, types.ActionNone, decision.Action)
}

// TestDecideExceptionPrecedence verifies that a sized exception forces
// its size even when the schedule layer would be inactive.
func TestDecideExceptionPrecedence(t *testing.T) {
	snap := loadSnapshot(t)

	// Midday during the freeze: the nightly window is inactive, the
	// exception still forces size 0.
	midday := time.Date(2025, 12, 25, 12, 0, 0, 0, time.UTC)
	decision := Decide(snap, devTarget, midday)
	assert.Equal(t, types.ActionSetSize, decision.Action)
	assert.Equal(t, 0, decision.Size)
	assert.Contains(t, decision.Reason, "Holiday freeze")
}

// TestDecideExceptionSuspends verifies that a size-less exception
// suspends management entirely, including during active windows.
func TestDecideExceptionSuspends(t *testing.T) {
	snap := loadSnapshot(t)

	// The tst compartment is under the catch-all rule; at night its
	// schedule is the empty one, but during the load test window the
	// size-less exception must answer first.
	night := time.Date(2025, 12, 25, 23, 0, 0, 0, time.UTC)
	decision := Decide(snap, tstTarget, night)
	assert.Equal(t, types.ActionNone, decision.Action)
	assert.Contains(t, decision.Reason, "Load test")
}

// TestDecideExceptionBoundsInclusive pins the inclusive time range
func TestDecideExceptionBoundsInclusive(t *testing.T) {
	snap := loadSnapshot(t)

	onStart := time.Date(2025, 12, 24, 0, 0, 0, 0, time.UTC)
	onEnd := time.Date(2025, 12, 28, 0, 0, 0, 0, time.UTC)
	after := time.Date(2025, 12, 28, 0, 1, 0, 0, time.UTC)

	assert.Equal(t, types.ActionSetSize, Decide(snap, devTarget, onStart).Action)
	assert.Equal(t, types.ActionSetSize, Decide(snap, devTarget, onEnd).Action)

	// One minute past the end the exception no longer applies and the
	// schedule layer answers again; the nightly window that opened at
	// 20:00 on the 27th is still active.
	decision := Decide(snap, devTarget, after)
	assert.Equal(t, types.ActionSetSize, decision.Action)
	assert.Contains(t, decision.Reason, "nightly")
}

// TestDecideIdempotent verifies that identical inputs give identical
// decisions.
func TestDecideIdempotent(t *testing.T) {
	snap := loadSnapshot(t)
	at := time.Date(2025, 12, 25, 12, 0, 0, 0, time.UTC)

	first := Decide(snap, devTarget, at)
	second := Decide(snap, devTarget, at)
	assert.Equal(t, first, second)
}

// TestDecideReloadIsolation verifies that a held snapshot keeps
// answering consistently after a reload swapped in a new generation.
func TestDecideReloadIsolation(t *testing.T) {
	snap := loadSnapshot(t)
	store := config.NewStore(snap)

	night := time.Date(2025, 6, 10, 23, 0, 0, 0, time.UTC)
	held := store.Snapshot()
	before := Decide(held, devTarget, night)

	replacement, err := config.Parse([]byte("timezone: UTC\n"))
	require.NoError(t, err)
	store.Swap(replacement)

	// The held generation still resolves with its own rules.
	assert.Equal(t, before, Decide(held, devTarget, night))

	// The new generation has no rules at all.
	decision := Decide(store.Snapshot(), devTarget, night)
	assert.Equal(t, types.ActionNone, decision.Action)
	assert.Equal(t, "no matching rule", decision.Reason)
}

// TestResolveScheduleOrdering tests first-match rule resolution
func TestResolveScheduleOrdering(t *testing.T) {
	rules := []types.Rule{
		{Filter: types.TargetFilter{Compartment: "X"}, Schedule: "A"},
		{Filter: types.TargetFilter{}, Schedule: "B"},
	}

	name, ok := ResolveSchedule(rules, types.Target{Compartment: "X"})
	require.True(t, ok)
	assert.Equal(t, "A", name)

	name, ok = ResolveSchedule(rules, types.Target{Compartment: "Y"})
	require.True(t, ok)
	assert.Equal(t, "B", name)

	_, ok = ResolveSchedule(nil, types.Target{Compartment: "X"})
	assert.False(t, ok)
}

// TestResolveExceptionOrdering tests first-match exception resolution
func TestResolveExceptionOrdering(t *testing.T) {
	size := 2
	at := time.Date(2025, 12, 25, 12, 0, 0, 0, time.UTC)
	exceptions := []types.Exception{
		{Filter: types.TargetFilter{Compartment: "X"}, Size: &size, Comment: "first"},
		{Filter: types.TargetFilter{}, Comment: "second"},
	}

	exc, ok := ResolveException(exceptions, types.Target{Compartment: "X"}, at)
	require.True(t, ok)
	assert.Equal(t, "first", exc.Comment)

	exc, ok = ResolveException(exceptions, types.Target{Compartment: "Y"}, at)
	require.True(t, ok)
	assert.Equal(t, "second", exc.Comment)
}
