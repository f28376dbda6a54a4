package patch

import (
	"fmt"
	"regexp"
)

const (
	rendezvousServersPatternConstant             = `(?s)pub const RENDEZVOUS_SERVERS: &\[&str\] = &\[.*?\];`
	rendezvousServersReplacementTemplateConstant = `pub const RENDEZVOUS_SERVERS: &[&str] = &["%s"];`
	signingKeyPatternConstant                    = `pub const RS_PUB_KEY: &str = ".*?";`
	signingKeyReplacementTemplateConstant        = `pub const RS_PUB_KEY: &str = "%s";`
	rendezvousServersPatchNameConstant           = "rendezvous_servers"
	signingKeyPatchNameConstant                  = "signing_key"
)

// ConstantPatch replaces an anchored constant declaration with new content.
// Application is a pure function of the input: an unmatched anchor leaves the
// content untouched, and replacements re-match their own anchor so applying a
// patch twice yields the same output as applying it once.
type ConstantPatch struct {
	Name          string
	anchorPattern *regexp.Regexp
	replacement   string
}

// NewConstantPatch constructs a patch from an anchor expression and its replacement.
func NewConstantPatch(name string, anchorExpression string, replacement string) (ConstantPatch, error) {
	anchorPattern, compileError := regexp.Compile(anchorExpression)
	if compileError != nil {
		return ConstantPatch{}, compileError
	}
	return ConstantPatch{Name: name, anchorPattern: anchorPattern, replacement: replacement}, nil
}

// NewRendezvousServerPatch builds the patch replacing the rendezvous server
// list with a single-element list containing the configured address. The
// anchor matches across line breaks because upstream formats the declaration
// over multiple lines.
func NewRendezvousServerPatch(serverAddress string) ConstantPatch {
	return ConstantPatch{
		Name:          rendezvousServersPatchNameConstant,
		anchorPattern: regexp.MustCompile(rendezvousServersPatternConstant),
		replacement:   fmt.Sprintf(rendezvousServersReplacementTemplateConstant, serverAddress),
	}
}

// NewSigningKeyPatch builds the patch replacing the rendezvous server public
// key declaration with the configured key.
func NewSigningKeyPatch(publicKey string) ConstantPatch {
	return ConstantPatch{
		Name:          signingKeyPatchNameConstant,
		anchorPattern: regexp.MustCompile(signingKeyPatternConstant),
		replacement:   fmt.Sprintf(signingKeyReplacementTemplateConstant, publicKey),
	}
}

// Apply replaces every anchor match and reports whether the anchor matched.
func (constantPatch ConstantPatch) Apply(content string) (string, bool) {
	if constantPatch.anchorPattern == nil {
		return content, false
	}
	if !constantPatch.anchorPattern.MatchString(content) {
		return content, false
	}
	return constantPatch.anchorPattern.ReplaceAllLiteralString(content, constantPatch.replacement), true
}
