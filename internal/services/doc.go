// Package services defines shared utilities consumed by the pipeline stages
// and external tool integrations.
//
// Key responsibilities:
//   - Context helpers that stamp paper IDs, stage names, and run identifiers
//     for logging and tracing.
//   - Structured error markers plus the Wrap helper that classify failures
//     (validation, retrieval, extraction, selection, conversion).
//   - The Executor abstraction that makes external command invocation
//     testable.
//
// Use these helpers when wiring new stage logic so operational behaviour
// (error handling, observability) stays uniform across the pipeline.
package services
