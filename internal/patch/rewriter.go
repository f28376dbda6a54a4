package patch

import (
	"fmt"
	"os"

	"go.uber.org/zap"
)

const (
	readFileErrorTemplateConstant  = "unable to read source file %s: %w"
	statFileErrorTemplateConstant  = "unable to stat source file %s: %w"
	writeFileErrorTemplateConstant = "unable to write source file %s: %w"
	patchAppliedLogMessageConstant = "applied source patch"
	patchSkippedLogMessageConstant = "patch anchor not found"
	sourceFileLogFieldNameConstant = "source_file"
	patchNameLogFieldNameConstant  = "patch_name"
)

// FileRewriter applies constant patches to source files in place.
type FileRewriter struct {
	logger *zap.Logger
}

// NewFileRewriter constructs a FileRewriter.
func NewFileRewriter(logger *zap.Logger) *FileRewriter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FileRewriter{logger: logger}
}

// ApplyPatches returns the content with every matching patch applied along
// with the names of the patches whose anchors matched.
func ApplyPatches(content string, patches []ConstantPatch) (string, []string) {
	appliedNames := make([]string, 0, len(patches))
	patchedContent := content
	for _, constantPatch := range patches {
		updatedContent, matched := constantPatch.Apply(patchedContent)
		if matched {
			appliedNames = append(appliedNames, constantPatch.Name)
		}
		patchedContent = updatedContent
	}
	return patchedContent, appliedNames
}

// RewriteFile reads the file, applies the patch set, and writes the result
// back preserving the original file mode. A missing file is a fatal error;
// unmatched anchors are logged and reported through the returned names.
func (rewriter *FileRewriter) RewriteFile(filePath string, patches []ConstantPatch) ([]string, error) {
	fileContent, readError := os.ReadFile(filePath)
	if readError != nil {
		return nil, fmt.Errorf(readFileErrorTemplateConstant, filePath, readError)
	}

	patchedContent, appliedNames := ApplyPatches(string(fileContent), patches)

	appliedSet := make(map[string]struct{}, len(appliedNames))
	for _, appliedName := range appliedNames {
		appliedSet[appliedName] = struct{}{}
	}
	for _, constantPatch := range patches {
		if _, applied := appliedSet[constantPatch.Name]; applied {
			rewriter.logger.Info(
				patchAppliedLogMessageConstant,
				zap.String(sourceFileLogFieldNameConstant, filePath),
				zap.String(patchNameLogFieldNameConstant, constantPatch.Name),
			)
			continue
		}
		rewriter.logger.Warn(
			patchSkippedLogMessageConstant,
			zap.String(sourceFileLogFieldNameConstant, filePath),
			zap.String(patchNameLogFieldNameConstant, constantPatch.Name),
		)
	}

	if patchedContent == string(fileContent) {
		return appliedNames, nil
	}

	fileInfo, statError := os.Stat(filePath)
	if statError != nil {
		return nil, fmt.Errorf(statFileErrorTemplateConstant, filePath, statError)
	}
	if writeError := os.WriteFile(filePath, []byte(patchedContent), fileInfo.Mode().Perm()); writeError != nil {
		return nil, fmt.Errorf(writeFileErrorTemplateConstant, filePath, writeError)
	}

	return appliedNames, nil
}
