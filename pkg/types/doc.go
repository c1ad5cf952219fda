/*
Package types defines the core data structures used throughout poolsched.

This package contains the fundamental types of the scheduling domain:
target identities, resolver decisions, targeting filters, rules,
exceptions, the cloud inventory shapes (compartments, clusters, node
pools) and the resize audit record. These types are used by all other
packages and have no dependencies of their own.

# Core Types

Resolution:
  - Target: compartment/cluster/nodepool identity of a managed pool
  - Decision: NoAction or SetSize(n), with a human-readable reason
  - TargetFilter: exact-match selector with wildcard empty fields
  - Rule: filter-to-schedule binding
  - Exception: time-bounded override that preempts rules and schedules

Inventory:
  - Compartment, Cluster, NodePool: what the cloud provider enumerates

Audit:
  - ResizeRecord: one applied resize, persisted by pkg/storage

All types are plain immutable values; filters and exceptions carry their
own matching logic so that resolution code stays free of string
comparisons.
*/
package types
