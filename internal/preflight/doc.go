// Package preflight provides readiness checks run before a conversion starts.
//
// The convert command calls RunAll so a doomed request (unwritable source
// directory, missing renderer) is reported before any workspace is created.
// The deps command uses CheckSystemDeps to list external programs.
package preflight
