// Package release derives build versions from Cargo manifests and publishes
// the timestamped tags that trigger release workflows.
package release
