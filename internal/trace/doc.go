// Package trace records what glsllayout is doing while it evaluates block
// files.
//
// Spans nest by scope: a command span wraps one file span per input, which
// wraps one struct span per evaluated struct. Member placement is only
// traced at LevelDebug.
//
//	glsllayout struct --trace=- --trace-level=detail shaders/*.toml
//
// StreamTracer writes each event as it happens, RingTracer keeps the last
// N events for a dump on failure, and MultiTracer combines the two. The
// tracer travels through the pipeline in a context:
//
//	ctx = trace.WithTracer(ctx, tracer)
//	span := trace.Begin(trace.FromContext(ctx), trace.ScopeFile, "load", parent)
//	defer span.End("")
package trace
