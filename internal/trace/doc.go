// Package trace provides structured tracing for astgen runs.
//
// Every pipeline phase (load, symbols, link, layout, lower, generate, write)
// opens a span; per-file and per-generator work opens nested spans. Events
// are written as text or NDJSON to a stream, or kept in a ring buffer.
//
// # Levels
//
//   - LevelOff: No tracing
//   - LevelError: Only failed spans
//   - LevelPhase: Run and phase boundaries
//   - LevelDetail: Per file, per generator and per output
//   - LevelDebug: Everything including per type events
//
// # Context Propagation
//
//	ctx = trace.WithTracer(ctx, tracer)
//	span, ctx := trace.Start(ctx, trace.ScopePass, "link")
//	defer span.End("")
package trace
