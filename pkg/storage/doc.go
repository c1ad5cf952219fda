/*
Package storage persists poolsched's audit trail in an embedded
BoltDB database.

Two buckets are kept: resize history (one JSON record per applied or
dry-run resize, keyed by node pool, timestamp and record ID so a
cursor scan yields chronological order) and the last observed size per
node pool. Neither is consulted during resolution; the decision core
is stateless and the database exists for operators, not for the
algorithm.

	store, err := storage.NewBoltStore(dataDir)
	if err != nil { ... }
	defer store.Close()

BoltDB gives single-file, transactional storage with no external
process, which fits a scheduler that runs as one small daemon.
*/
package storage
