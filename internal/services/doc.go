// Package services defines shared utilities consumed by the conversion stages
// and the pipeline orchestrator.
//
// Key responsibilities:
//   - Context helpers that stamp request IDs and stage names for logging.
//   - Structured error markers plus the Wrap helper that translate failures
//     into the terminal error kinds reported to callers.
//   - Details, which recovers the kind, stage and operation from a wrapped
//     error so the orchestrator can report which stage failed and why.
//
// Use these helpers when wiring new stage logic so failure reporting stays
// uniform across the pipeline.
package services
