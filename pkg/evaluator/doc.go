// Package evaluator drives the periodic evaluation loop.
//
// Each cycle takes one configuration snapshot, lists every node pool
// through the cloud provider, resolves each pool's desired size and
// hands the decisions to the actuator. The snapshot is taken once per
// cycle so a configuration reload mid-cycle never produces a mixed
// view.
package evaluator
