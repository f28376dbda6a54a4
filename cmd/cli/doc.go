// Package cli assembles the rustdesk-builder command hierarchy. It loads the
// layered configuration (embedded defaults, configuration file, environment
// variables, flags), constructs the shared structured logger, and registers
// the build and cleanup commands.
package cli
