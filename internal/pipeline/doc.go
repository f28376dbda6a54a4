// Package pipeline orchestrates the full custom-build publication flow:
// workspace preparation, cloning, source patching, repository publication,
// submodule rewiring, and the tag push that triggers the release workflow.
package pipeline
