package release

import (
	"os"
	"regexp"
)

const (
	manifestVersionPatternConstant = `version\s*=\s*"([^"]+)"`
	fallbackVersionConstant        = "1.0.0"
)

var manifestVersionExpression = regexp.MustCompile(manifestVersionPatternConstant)

// DeriveVersion extracts the first version declaration from Cargo manifest
// content. Missing declarations resolve to a fixed fallback so tagging never
// blocks on manifest drift.
func DeriveVersion(manifestContent string) string {
	versionMatch := manifestVersionExpression.FindStringSubmatch(manifestContent)
	if len(versionMatch) < 2 {
		return fallbackVersionConstant
	}
	return versionMatch[1]
}

// DeriveVersionFromManifestFile reads the manifest at the supplied path and
// derives its version. An unreadable manifest resolves to the fallback.
func DeriveVersionFromManifestFile(manifestPath string) string {
	manifestContent, readError := os.ReadFile(manifestPath)
	if readError != nil {
		return fallbackVersionConstant
	}
	return DeriveVersion(string(manifestContent))
}
