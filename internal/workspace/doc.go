// Package workspace owns the scratch directory a conversion request works in.
//
// A Layout names every path a request touches: the scratch directory next to
// the source file, the intermediate document and image folder inside it, and
// the final artifact locations beside the source. Workspace adds the lifecycle
// on top: an advisory lock that keeps two requests out of the same source
// directory, creation (replacing a leftover from a crashed run), and teardown.
//
// Find and CleanStale serve the maintenance commands that list or remove
// scratch directories abandoned by interrupted runs.
package workspace
