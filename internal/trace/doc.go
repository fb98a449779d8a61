// Package trace records what a validation run is doing: run and file
// boundaries, each parsed script and, at debug level, every property hook
// the traversal fires.
//
// Enable it from the command line:
//
//	addonlint validate --trace=- --trace-level=detail my-addon.xpi
//
// Tracers:
//
//   - Nop: zero-overhead default when tracing is off
//   - StreamTracer: writes each event immediately (text or NDJSON)
//   - Recorder: keeps the last N events in memory for dumps
//
// Mode "both" writes and records at once.
//
// Levels select scopes: phase shows run and file spans, detail adds script
// spans, debug adds hook and finding points.
//
// The tracer and the innermost span travel on the context, so a hook point
// knows its file and nesting depth:
//
//	ctx = trace.WithTracer(ctx, tracer)
//	ctx, span := trace.File(ctx, path, "script")
//	defer span.End("")
//	trace.Hook(ctx, "innerHTML", "set")
package trace
