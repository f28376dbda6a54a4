package cleanup

import (
	"regexp"
	"strings"
)

const (
	globWildcardLiteralConstant     = `\*`
	globSingleLiteralConstant       = `\?`
	regexWildcardReplacementLiteral = ".*"
	regexSingleReplacementLiteral   = "."
)

// MatchesPattern reports whether the repository name matches the glob
// pattern. `*` matches any run of characters and `?` a single character;
// matching is anchored and case-insensitive. Unparseable patterns never match.
func MatchesPattern(repositoryName string, pattern string) bool {
	trimmedPattern := strings.TrimSpace(pattern)
	if len(trimmedPattern) == 0 {
		return false
	}

	quotedPattern := regexp.QuoteMeta(trimmedPattern)
	quotedPattern = strings.ReplaceAll(quotedPattern, globWildcardLiteralConstant, regexWildcardReplacementLiteral)
	quotedPattern = strings.ReplaceAll(quotedPattern, globSingleLiteralConstant, regexSingleReplacementLiteral)

	compiledPattern, compileError := regexp.Compile("(?i)^" + quotedPattern + "$")
	if compileError != nil {
		return false
	}
	return compiledPattern.MatchString(repositoryName)
}
