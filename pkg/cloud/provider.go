package cloud

import (
	"context"

	"github.com/valkolaci/poolsched/pkg/types"
)

// Provider enumerates the managed inventory and reads/writes live
// node pool sizes. Implementations must be safe for concurrent use.
type Provider interface {
	// ListCompartments returns every compartment of the tenancy with
	// its slash-joined path from the root
	ListCompartments(ctx context.Context) ([]*types.Compartment, error)

	// ListClusters returns the OKE clusters of one compartment
	ListClusters(ctx context.Context, compartment *types.Compartment) ([]*types.Cluster, error)

	// ListNodePools returns the node pools of one cluster with their
	// live sizes
	ListNodePools(ctx context.Context, compartment *types.Compartment, cluster *types.Cluster) ([]*types.NodePool, error)

	// GetNodePool returns one node pool by ID
	GetNodePool(ctx context.Context, id string) (*types.NodePool, error)

	// SetNodePoolSize resizes one node pool
	SetNodePoolSize(ctx context.Context, id string, size int) error
}

// CompartmentPath joins compartment names from the tenancy root down
// to the given compartment by following parent links.
func CompartmentPath(byID map[string]*types.Compartment, tenancyID string, c *types.Compartment) string {
	path := c.Name
	for c.ParentID != tenancyID {
		parent, ok := byID[c.ParentID]
		if !ok {
			break
		}
		path = parent.Name + "/" + path
		c = parent
	}
	return path
}
