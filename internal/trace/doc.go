// Package trace is the structured event log of irstore.
//
// Save and load runs emit span begin/end events for the whole call, for each
// phase of the load protocol and for each node kind, plus point events for
// things worth a second look (dangling references, empty artifacts).
//
// # Usage
//
//	irstore load ./out --trace=- --trace-level=detail
//
// # Tracers
//
//   - Nop: zero-overhead tracer used when tracing is off
//   - StreamTracer: writes each event immediately (file or stderr)
//   - RingTracer: keeps the last N events in memory, dumped on failure
//   - MultiTracer: fans out to several tracers
//
// # Levels and scopes
//
// Levels gate scopes: LevelPhase shows driver and phase spans, LevelDetail
// adds per-kind spans, LevelDebug adds node-level points.
//
// # Context propagation
//
//	ctx = trace.WithTracer(ctx, tracer)
//	t := trace.FromContext(ctx)
//
//	span := trace.Begin(t, trace.ScopePhase, "relocate", parentID)
//	defer span.End("")
package trace
