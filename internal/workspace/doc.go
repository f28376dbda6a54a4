// Package workspace manages the local staging area used by the build pipeline.
//
// Every run starts from a known-empty state: Manager.Reset destroys any
// previous checkout before a fresh clone, and Manager.Ensure creates the
// workspace root when absent.
package workspace
