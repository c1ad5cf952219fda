package cloud

import (
	"context"
	"fmt"

	"github.com/oracle/oci-go-sdk/v65/common"
	"github.com/oracle/oci-go-sdk/v65/common/auth"
	"github.com/oracle/oci-go-sdk/v65/containerengine"
	"github.com/oracle/oci-go-sdk/v65/identity"

	"github.com/valkolaci/poolsched/pkg/metrics"
	"github.com/valkolaci/poolsched/pkg/types"
)

// AuthMode selects how the OCI clients authenticate
type AuthMode string

const (
	// AuthConfigFile uses ~/.oci/config, for CLI use outside the cloud
	AuthConfigFile AuthMode = "config-file"

	// AuthResourcePrincipal uses the resource principal of the
	// function/instance the process runs as
	AuthResourcePrincipal AuthMode = "resource-principal"
)

// OCIProvider implements Provider against the OCI identity and
// container engine APIs
type OCIProvider struct {
	identity  identity.IdentityClient
	engine    containerengine.ContainerEngineClient
	tenancyID string
}

// NewOCIProvider creates an OCI-backed provider with the given
// authentication mode
func NewOCIProvider(mode AuthMode) (*OCIProvider, error) {
	var cp common.ConfigurationProvider
	var err error

	switch mode {
	case AuthResourcePrincipal:
		cp, err = auth.ResourcePrincipalConfigurationProvider()
		if err != nil {
			return nil, fmt.Errorf("failed to create resource principal provider: %w", err)
		}
	case AuthConfigFile, "":
		cp = common.DefaultConfigProvider()
	default:
		return nil, fmt.Errorf("unknown auth mode %q", mode)
	}

	tenancyID, err := cp.TenancyOCID()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve tenancy: %w", err)
	}

	identityClient, err := identity.NewIdentityClientWithConfigurationProvider(cp)
	if err != nil {
		return nil, fmt.Errorf("failed to create identity client: %w", err)
	}

	engineClient, err := containerengine.NewContainerEngineClientWithConfigurationProvider(cp)
	if err != nil {
		return nil, fmt.Errorf("failed to create container engine client: %w", err)
	}

	return &OCIProvider{
		identity:  identityClient,
		engine:    engineClient,
		tenancyID: tenancyID,
	}, nil
}

func observe(operation string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	metrics.ProviderRequestsTotal.WithLabelValues(operation, outcome).Inc()
}

// ListCompartments returns all compartments and subcompartments of
// the tenancy, with slash-joined paths built from parent links
func (p *OCIProvider) ListCompartments(ctx context.Context) ([]*types.Compartment, error) {
	request := identity.ListCompartmentsRequest{
		CompartmentId:          common.String(p.tenancyID),
		CompartmentIdInSubtree: common.Bool(true),
		AccessLevel:            identity.ListCompartmentsAccessLevelAny,
	}

	byID := make(map[string]*types.Compartment)
	var compartments []*types.Compartment
	for {
		response, err := p.identity.ListCompartments(ctx, request)
		observe("list_compartments", err)
		if err != nil {
			return nil, fmt.Errorf("failed to list compartments: %w", err)
		}
		for _, item := range response.Items {
			compartment := &types.Compartment{
				ID:       *item.Id,
				Name:     *item.Name,
				ParentID: *item.CompartmentId,
			}
			byID[compartment.ID] = compartment
			compartments = append(compartments, compartment)
		}
		if response.OpcNextPage == nil {
			break
		}
		request.Page = response.OpcNextPage
	}

	for _, compartment := range compartments {
		compartment.Path = CompartmentPath(byID, p.tenancyID, compartment)
	}
	return compartments, nil
}

// ListClusters returns the OKE clusters of one compartment
func (p *OCIProvider) ListClusters(ctx context.Context, compartment *types.Compartment) ([]*types.Cluster, error) {
	request := containerengine.ListClustersRequest{
		CompartmentId: common.String(compartment.ID),
	}

	var clusters []*types.Cluster
	for {
		response, err := p.engine.ListClusters(ctx, request)
		observe("list_clusters", err)
		if err != nil {
			return nil, fmt.Errorf("failed to list clusters in %s: %w", compartment.Path, err)
		}
		for _, item := range response.Items {
			clusters = append(clusters, &types.Cluster{
				ID:          *item.Id,
				Name:        *item.Name,
				Compartment: compartment.Path,
			})
		}
		if response.OpcNextPage == nil {
			break
		}
		request.Page = response.OpcNextPage
	}
	return clusters, nil
}

// ListNodePools returns the node pools of one cluster with live sizes
func (p *OCIProvider) ListNodePools(ctx context.Context, compartment *types.Compartment, cluster *types.Cluster) ([]*types.NodePool, error) {
	request := containerengine.ListNodePoolsRequest{
		CompartmentId: common.String(compartment.ID),
		ClusterId:     common.String(cluster.ID),
	}

	var pools []*types.NodePool
	for {
		response, err := p.engine.ListNodePools(ctx, request)
		observe("list_node_pools", err)
		if err != nil {
			return nil, fmt.Errorf("failed to list node pools of %s: %w", cluster.Name, err)
		}
		for _, item := range response.Items {
			pool := &types.NodePool{
				ID:          *item.Id,
				Name:        *item.Name,
				Compartment: compartment.Path,
				Cluster:     cluster.Name,
			}
			if item.NodeConfigDetails != nil && item.NodeConfigDetails.Size != nil {
				pool.Size = *item.NodeConfigDetails.Size
			}
			pools = append(pools, pool)
		}
		if response.OpcNextPage == nil {
			break
		}
		request.Page = response.OpcNextPage
	}
	return pools, nil
}

// GetNodePool returns one node pool by ID. Compartment path and
// cluster name are not resolved here; callers that need the full
// target identity use the listing walk.
func (p *OCIProvider) GetNodePool(ctx context.Context, id string) (*types.NodePool, error) {
	response, err := p.engine.GetNodePool(ctx, containerengine.GetNodePoolRequest{
		NodePoolId: common.String(id),
	})
	observe("get_node_pool", err)
	if err != nil {
		return nil, fmt.Errorf("failed to get node pool %s: %w", id, err)
	}

	pool := &types.NodePool{
		ID:   *response.NodePool.Id,
		Name: *response.NodePool.Name,
	}
	if response.NodePool.NodeConfigDetails != nil && response.NodePool.NodeConfigDetails.Size != nil {
		pool.Size = *response.NodePool.NodeConfigDetails.Size
	}
	return pool, nil
}

// SetNodePoolSize resizes one node pool
func (p *OCIProvider) SetNodePoolSize(ctx context.Context, id string, size int) error {
	_, err := p.engine.UpdateNodePool(ctx, containerengine.UpdateNodePoolRequest{
		NodePoolId: common.String(id),
		UpdateNodePoolDetails: containerengine.UpdateNodePoolDetails{
			NodeConfigDetails: &containerengine.UpdateNodePoolNodeConfigDetails{
				Size: common.Int(size),
			},
		},
	})
	observe("update_node_pool", err)
	if err != nil {
		return fmt.Errorf("failed to resize node pool %s: %w", id, err)
	}
	return nil
}
