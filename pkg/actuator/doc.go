/*
Package actuator turns resolver decisions into node pool resizes.

Apply compares a decision against the pool's live size, skips resizes
that would be no-ops, and otherwise calls the cloud provider. Every
applied (or dry-run) resize produces an audit record and an event; the
last observed size of each pool is stored before any change so that
operators can find the pre-window size later.

Dry-run mode performs the full comparison and audit trail but never
touches the cloud.
*/
package actuator
