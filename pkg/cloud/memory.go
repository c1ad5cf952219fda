package cloud

import (
	"context"
	"fmt"
	"sync"

	"github.com/valkolaci/poolsched/pkg/types"
)

// MemoryProvider is a fixture-backed Provider for tests and dry runs.
// It records every resize instead of (or in addition to) applying it.
type MemoryProvider struct {
	mu           sync.Mutex
	compartments []*types.Compartment
	clusters     map[string][]*types.Cluster  // keyed by compartment ID
	pools        map[string][]*types.NodePool // keyed by cluster ID
	poolsByID    map[string]*types.NodePool
	resizes      []Resize
}

// Resize is one recorded SetNodePoolSize call
type Resize struct {
	NodePoolID string
	Size       int
}

// NewMemoryProvider creates an empty in-memory provider
func NewMemoryProvider() *MemoryProvider {
	return &MemoryProvider{
		clusters:  make(map[string][]*types.Cluster),
		pools:     make(map[string][]*types.NodePool),
		poolsByID: make(map[string]*types.NodePool),
	}
}

// AddCompartment adds a compartment fixture
func (m *MemoryProvider) AddCompartment(id, path string) *types.Compartment {
	m.mu.Lock()
	defer m.mu.Unlock()

	compartment := &types.Compartment{ID: id, Name: path, Path: path}
	m.compartments = append(m.compartments, compartment)
	return compartment
}

// AddCluster adds a cluster fixture under a compartment
func (m *MemoryProvider) AddCluster(compartment *types.Compartment, id, name string) *types.Cluster {
	m.mu.Lock()
	defer m.mu.Unlock()

	cluster := &types.Cluster{ID: id, Name: name, Compartment: compartment.Path}
	m.clusters[compartment.ID] = append(m.clusters[compartment.ID], cluster)
	return cluster
}

// AddNodePool adds a node pool fixture under a cluster
func (m *MemoryProvider) AddNodePool(compartment *types.Compartment, cluster *types.Cluster, id, name string, size int) *types.NodePool {
	m.mu.Lock()
	defer m.mu.Unlock()

	pool := &types.NodePool{
		ID:          id,
		Name:        name,
		Compartment: compartment.Path,
		Cluster:     cluster.Name,
		Size:        size,
	}
	m.pools[cluster.ID] = append(m.pools[cluster.ID], pool)
	m.poolsByID[id] = pool
	return pool
}

// ListCompartments returns the compartment fixtures
func (m *MemoryProvider) ListCompartments(ctx context.Context) ([]*types.Compartment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*types.Compartment(nil), m.compartments...), nil
}

// ListClusters returns the cluster fixtures of one compartment
func (m *MemoryProvider) ListClusters(ctx context.Context, compartment *types.Compartment) ([]*types.Cluster, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*types.Cluster(nil), m.clusters[compartment.ID]...), nil
}

// ListNodePools returns the node pool fixtures of one cluster
func (m *MemoryProvider) ListNodePools(ctx context.Context, compartment *types.Compartment, cluster *types.Cluster) ([]*types.NodePool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	pools := make([]*types.NodePool, 0, len(m.pools[cluster.ID]))
	for _, pool := range m.pools[cluster.ID] {
		copied := *pool
		pools = append(pools, &copied)
	}
	return pools, nil
}

// GetNodePool returns one node pool fixture by ID
func (m *MemoryProvider) GetNodePool(ctx context.Context, id string) (*types.NodePool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	pool, ok := m.poolsByID[id]
	if !ok {
		return nil, fmt.Errorf("node pool %s not found", id)
	}
	copied := *pool
	return &copied, nil
}

// SetNodePoolSize records and applies a resize
func (m *MemoryProvider) SetNodePoolSize(ctx context.Context, id string, size int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	pool, ok := m.poolsByID[id]
	if !ok {
		return fmt.Errorf("node pool %s not found", id)
	}
	pool.Size = size
	m.resizes = append(m.resizes, Resize{NodePoolID: id, Size: size})
	return nil
}

// Resizes returns the recorded resize calls
func (m *MemoryProvider) Resizes() []Resize {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Resize(nil), m.resizes...)
}
