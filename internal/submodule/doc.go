// Package submodule rewires a repository's embedded library submodule so it
// tracks a freshly published fork instead of the upstream project.
package submodule
