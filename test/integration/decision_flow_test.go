package integration

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/valkolaci/poolsched/pkg/actuator"
	"github.com/valkolaci/poolsched/pkg/cloud"
	"github.com/valkolaci/poolsched/pkg/config"
	"github.com/valkolaci/poolsched/pkg/evaluator"
	"github.com/valkolaci/poolsched/pkg/log"
	"github.com/valkolaci/poolsched/pkg/storage"
)

func init() {
	log.Init(log.Config{Level: log.ErrorLevel})
}

const flowConfig = `
timezone: UTC
schedules:
  always-down:
    - start: "* * * * *"
      end: "* * * * *"
      size: 0
rules:
  - compartment: sandbox
    schedule: always-down
`

// TestDecisionFlow walks the full path from configuration file to
// applied resize: load, evaluate, actuate, audit.
func TestDecisionFlow(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "rules.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(flowConfig), 0o644))

	snap, err := config.Load(cfgPath)
	require.NoError(t, err)
	store := config.NewStore(snap)

	provider := cloud.NewMemoryProvider()
	sandbox := provider.AddCompartment("c1", "sandbox")
	cluster := provider.AddCluster(sandbox, "cl1", "dev")
	provider.AddNodePool(sandbox, cluster, "np1", "pool1", 3)

	auditStore, err := storage.NewBoltStore(dir)
	require.NoError(t, err)
	defer auditStore.Close()

	act := actuator.New(provider, auditStore, nil, false)
	eval := evaluator.New(store, provider, act, nil, time.Minute, 1)

	require.NoError(t, eval.RunCycle(context.Background()))

	pool, err := provider.GetNodePool(context.Background(), "np1")
	require.NoError(t, err)
	assert.Equal(t, 0, pool.Size)

	records, err := auditStore.ListResizes("np1")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, 3, records[0].FromSize)
	assert.Equal(t, 0, records[0].ToSize)

	// Second cycle is a no-op: the live size now matches.
	require.NoError(t, eval.RunCycle(context.Background()))
	records, err = auditStore.ListResizes("np1")
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

// TestConfigReloadFlow verifies a rewritten configuration file reaches
// the evaluation loop through the watcher.
func TestConfigReloadFlow(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "rules.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(flowConfig), 0o644))

	snap, err := config.Load(cfgPath)
	require.NoError(t, err)
	store := config.NewStore(snap)

	swapped := make(chan *config.Snapshot, 1)
	watcher, err := config.NewWatcher(cfgPath, store, func(snap *config.Snapshot) {
		swapped <- snap
	})
	require.NoError(t, err)
	watcher.Start()
	defer watcher.Stop()

	require.NoError(t, os.WriteFile(cfgPath, []byte("timezone: Europe/Budapest\n"), 0o644))

	select {
	case snap := <-swapped:
		assert.Equal(t, "Europe/Budapest", snap.Location.String())
		assert.Same(t, snap, store.Snapshot())
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not pick up the rewritten configuration")
	}
}
