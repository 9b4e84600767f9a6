package backup

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/bcambl/cub/internal/pkg/participant"
)

// fileMode keeps party mappings readable by the operator only
const fileMode = 0600

// Save writes users to path as a single JSON array
func Save(path string, users []participant.UserRecord) error {
	if users == nil {
		users = []participant.UserRecord{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(users); err != nil {
		return fmt.Errorf("encoding backup: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), fileMode); err != nil {
		return fmt.Errorf("writing backup %s: %w", path, err)
	}
	return nil
}

// Load reads a backup written by Save
func Load(path string) ([]participant.UserRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &BackupNotFoundError{Path: path}
		}
		return nil, fmt.Errorf("reading backup %s: %w", path, err)
	}
	var users []participant.UserRecord
	if err := json.Unmarshal(data, &users); err != nil {
		return nil, &BackupCorruptError{Path: path, Err: err}
	}
	return users, nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
