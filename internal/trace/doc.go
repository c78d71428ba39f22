// Package trace records what the lowering pipeline is doing.
//
// Tracing is switched on from the command line:
//
//	flexir lower --trace=- --trace-level=phase prog.astpack
//
// A Tracer receives Events. StreamTracer writes them as they arrive,
// RingTracer keeps the most recent ones in memory and MultiTracer fans out
// to several tracers. Nop is used when tracing is off.
//
// Levels filter by Scope: LevelPhase keeps driver and pass events,
// LevelDetail adds per-file events and LevelDebug adds per-node events
// such as block creation inside the lowerer.
//
// Tracers travel through the pipeline in a context:
//
//	ctx = trace.WithTracer(ctx, tracer)
//	span := trace.Begin(trace.FromContext(ctx), trace.ScopePass, "lower", 0)
//	defer span.End("")
package trace
