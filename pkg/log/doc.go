/*
Package log provides structured logging for poolsched using zerolog.

All packages log through the global logger configured once at process
startup via Init. Child loggers carry identifying fields:

	logger := log.WithComponent("evaluator")
	logger.Info().Str("schedule", name).Msg("window active")

Console output (human-readable, RFC3339 timestamps) is the default;
JSONOutput switches to machine-readable JSON for log shipping.
*/
package log
