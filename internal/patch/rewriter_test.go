package patch_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Jiang1756/Rustdesk-builde/internal/patch"
)

func TestRewriteFileAppliesPatchesAndPreservesMode(testInstance *testing.T) {
	sourcePath := filepath.Join(testInstance.TempDir(), "config.rs")
	require.NoError(testInstance, os.WriteFile(sourcePath, []byte(testMultiLineSourceConstant), 0o640))

	rewriter := patch.NewFileRewriter(zap.NewNop())
	appliedNames, rewriteError := rewriter.RewriteFile(sourcePath, []patch.ConstantPatch{
		patch.NewRendezvousServerPatch(testServerAddressConstant),
		patch.NewSigningKeyPatch(testPublicKeyConstant),
	})
	require.NoError(testInstance, rewriteError)
	require.Len(testInstance, appliedNames, 2)

	rewrittenContent, readError := os.ReadFile(sourcePath)
	require.NoError(testInstance, readError)
	require.Contains(testInstance, string(rewrittenContent), testPatchedServerLineConstant)
	require.Contains(testInstance, string(rewrittenContent), testPatchedKeyLineConstant)

	fileInfo, statError := os.Stat(sourcePath)
	require.NoError(testInstance, statError)
	require.Equal(testInstance, os.FileMode(0o640), fileInfo.Mode().Perm())
}

func TestRewriteFileFailsWhenFileMissing(testInstance *testing.T) {
	rewriter := patch.NewFileRewriter(zap.NewNop())
	_, rewriteError := rewriter.RewriteFile(filepath.Join(testInstance.TempDir(), "absent.rs"), nil)
	require.Error(testInstance, rewriteError)
}

func TestRewriteFileSkipsWriteWhenNothingMatched(testInstance *testing.T) {
	sourcePath := filepath.Join(testInstance.TempDir(), "config.rs")
	originalContent := "pub const RENDEZVOUS_PORT: i32 = 21116;\n"
	require.NoError(testInstance, os.WriteFile(sourcePath, []byte(originalContent), 0o644))

	rewriter := patch.NewFileRewriter(zap.NewNop())
	appliedNames, rewriteError := rewriter.RewriteFile(sourcePath, []patch.ConstantPatch{
		patch.NewRendezvousServerPatch(testServerAddressConstant),
	})
	require.NoError(testInstance, rewriteError)
	require.Empty(testInstance, appliedNames)

	unchangedContent, readError := os.ReadFile(sourcePath)
	require.NoError(testInstance, readError)
	require.Equal(testInstance, originalContent, string(unchangedContent))
}
