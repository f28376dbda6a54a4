// Package patch rewrites embedded build-time constants inside the library
// source tree.
//
// Each ConstantPatch pairs an anchored pattern with its replacement so patch
// correctness is testable against representative source snippets without any
// git or network call. FileRewriter applies a patch set to one file while
// preserving the file mode.
package patch
