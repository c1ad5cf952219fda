/*
Package cloud enumerates the managed OKE inventory and applies node
pool resizes.

The Provider interface is the only way the rest of poolsched touches
the cloud: the evaluator walks compartments, clusters and node pools
through it and the actuator reads and writes live sizes through it.

OCIProvider talks to the OCI identity and container engine APIs. It
authenticates either from the local OCI config file (CLI use) or from
a resource principal (when running inside OCI). Compartment paths are
built by following parent links up to the tenancy root, so targeting
filters can match human-readable paths like "enap/cmp-tst" instead of
OCIDs.

MemoryProvider serves tests and --dry-run: a fixture-backed inventory
that records every resize call.
*/
package cloud
