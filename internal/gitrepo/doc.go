// Package gitrepo contains helpers for interrogating and manipulating Git repositories.
//
// It exposes RepositoryManager for cloning, committing, pushing, tagging, and
// submodule maintenance over shell git execution, along with remote URL
// parsing consumed by the build pipeline.
package gitrepo
