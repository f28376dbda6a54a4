// Package cleanup lists the authenticated user's repositories, filters them
// against safe lists and name patterns, and deletes the matches after
// interactive confirmation. Dry-run is the default mode.
package cleanup
