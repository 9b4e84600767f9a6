package backup

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/bcambl/cub/internal/pkg/participant"
)

// COLLABORATORS
// =================================================================================================

// API is the subset of the participant client used by backup and restore
type API interface {
	ListUsers(ctx context.Context) ([]participant.UserRecord, error)
	ListUserRights(ctx context.Context, userID string) (json.RawMessage, error)
	CreateUser(ctx context.Context, user participant.UserRecord) (json.RawMessage, error)
}

// Prompter asks the operator for the values the core cannot decide alone
type Prompter interface {
	// AskFilename returns the chosen filename, or def for an empty answer
	AskFilename(def string) (string, error)
	// ConfirmOverwrite reports whether an existing file may be replaced
	ConfirmOverwrite(path string) (bool, error)
}

// RESULTS
// =================================================================================================

// RestoreResult lists per-record outcomes in the order they were processed
type RestoreResult struct {
	Succeeded []string `json:"succeeded"`
	Failed    []string `json:"failed"`
}

// ERRORS
// =================================================================================================

// BackupNotFoundError means there is no backup file to restore from
type BackupNotFoundError struct {
	Path string
}

func (e *BackupNotFoundError) Error() string {
	return fmt.Sprintf("backup file not found: %s", e.Path)
}

// BackupCorruptError means the backup file is not a JSON array of users
type BackupCorruptError struct {
	Path string
	Err  error
}

func (e *BackupCorruptError) Error() string {
	return fmt.Sprintf("backup file %s is corrupt: %v", e.Path, e.Err)
}

func (e *BackupCorruptError) Unwrap() error { return e.Err }
