package workspace

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"go.uber.org/zap"
)

const (
	workspaceRootPermissionsConstant       = fs.FileMode(0o755)
	pathFieldNameConstant                  = "path"
	requiredValueMessageConstant           = "value required"
	removingDirectoryLogMessageConstant    = "removing existing directory"
	workspaceRootReadyLogMessageConstant   = "workspace root ready"
	directoryRemovalErrorTemplateConstant  = "unable to remove directory %s: %w"
	directoryCreationErrorTemplateConstant = "unable to create workspace root %s: %w"
	pathInspectionErrorTemplateConstant    = "unable to inspect path %s: %w"
)

// ErrFileSystemNotConfigured indicates the manager was constructed without a filesystem.
var ErrFileSystemNotConfigured = errors.New("workspace manager requires a filesystem")

// InvalidPathError reports an empty or blank path argument.
type InvalidPathError struct {
	FieldName string
	Message   string
}

// Error describes the invalid path.
func (pathError InvalidPathError) Error() string {
	return fmt.Sprintf("%s: %s", pathError.FieldName, pathError.Message)
}

// Manager owns the local filesystem staging area for pipeline runs.
type Manager struct {
	logger     *zap.Logger
	fileSystem FileSystem
}

// NewManager validates collaborators and constructs a Manager.
func NewManager(logger *zap.Logger, fileSystem FileSystem) (*Manager, error) {
	if fileSystem == nil {
		return nil, ErrFileSystemNotConfigured
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{logger: logger, fileSystem: fileSystem}, nil
}

// Reset deletes the directory at path when present. Absence is the success
// condition, so a missing path returns nil without touching the filesystem.
func (manager *Manager) Reset(path string) error {
	trimmedPath := strings.TrimSpace(path)
	if len(trimmedPath) == 0 {
		return InvalidPathError{FieldName: pathFieldNameConstant, Message: requiredValueMessageConstant}
	}

	_, statError := manager.fileSystem.Stat(trimmedPath)
	if statError != nil {
		if errors.Is(statError, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf(pathInspectionErrorTemplateConstant, trimmedPath, statError)
	}

	manager.logger.Info(removingDirectoryLogMessageConstant, zap.String(pathFieldNameConstant, trimmedPath))
	if removalError := manager.fileSystem.RemoveAll(trimmedPath); removalError != nil {
		return fmt.Errorf(directoryRemovalErrorTemplateConstant, trimmedPath, removalError)
	}
	return nil
}

// Ensure creates the workspace root when absent.
func (manager *Manager) Ensure(root string) error {
	trimmedRoot := strings.TrimSpace(root)
	if len(trimmedRoot) == 0 {
		return InvalidPathError{FieldName: pathFieldNameConstant, Message: requiredValueMessageConstant}
	}

	if creationError := manager.fileSystem.MkdirAll(trimmedRoot, workspaceRootPermissionsConstant); creationError != nil {
		return fmt.Errorf(directoryCreationErrorTemplateConstant, trimmedRoot, creationError)
	}

	manager.logger.Info(workspaceRootReadyLogMessageConstant, zap.String(pathFieldNameConstant, trimmedRoot))
	return nil
}
