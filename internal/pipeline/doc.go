// Package pipeline sequences conversion stages for one request.
//
// An Orchestrator validates a Request, acquires the workspace beside the
// source file, runs the stages the (source, target) pair needs, copies the
// requested artifacts next to the source and removes the workspace. Each run
// delivers an ordered stream of progress, log and completion events and
// finishes in exactly one of Completed, Aborted or Failed.
//
// Cancellation is cooperative: the caller sets a cancel.Token and the run
// stops at the next poll point, tears the workspace down and reports
// Aborted. A failed run leaves the workspace in place for inspection.
package pipeline
