package backup

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bcambl/cub/internal/pkg/config"
	"github.com/bcambl/cub/internal/pkg/participant"
)

func writeBackup(t *testing.T, name string) {
	t.Helper()
	users := sampleUsers()
	for i := range users {
		users[i].Rights = sampleRights()[users[i].UserID]
	}
	require.NoError(t, Save(name, users))
}

func TestRestore_AllSucceed(t *testing.T) {
	chdir(t)
	writeBackup(t, "dev-devnet-backup.json")
	settings := &config.Settings{Network: "devnet", Stage: "dev", BackupFile: "${stage}-${network}-backup.json"}
	api := &fakeAPI{}

	result, err := newTestService(t, settings, api, &scriptedPrompter{}).Restore(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"alice", "bob", "carol"}, result.Succeeded)
	assert.Empty(t, result.Failed)
	assert.Equal(t, []string{"alice", "bob", "carol"}, api.created)
}

func TestRestore_ConflictIsSoftFailure(t *testing.T) {
	chdir(t)
	writeBackup(t, "users.json")
	settings := &config.Settings{Network: "testnet", Stage: "test"}
	api := &fakeAPI{createErr: map[string]error{
		"alice": &participant.APIError{Status: 409, Body: `{"code":"USER_ALREADY_EXISTS"}`},
		"carol": &participant.APIError{Status: 400, Body: `{"error":"invalid party"}`},
	}}
	prompt := &scriptedPrompter{filenames: []string{"users.json"}}

	result, err := newTestService(t, settings, api, prompt).Restore(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"bob"}, result.Succeeded)
	assert.Equal(t, []string{
		"User alice already exists",
		`{"error":"invalid party"}`,
	}, result.Failed)
	assert.Equal(t, []string{"alice", "bob", "carol"}, api.created, "every record is attempted")
	assert.Empty(t, prompt.confirmed, "restore never asks to overwrite")
}

func TestRestore_MissingFile(t *testing.T) {
	chdir(t)
	settings := &config.Settings{Network: "mainnet", Stage: "mainnet"}
	prompt := &scriptedPrompter{filenames: []string{""}}
	api := &fakeAPI{}

	result, err := newTestService(t, settings, api, prompt).Restore(context.Background())

	var notFound *BackupNotFoundError
	require.True(t, errors.As(err, &notFound), "got %v", err)
	assert.Equal(t, "mainnet-mainnet-users.json", notFound.Path)
	assert.Nil(t, result)
	assert.Empty(t, api.created)
}

func TestRestore_CorruptFile(t *testing.T) {
	chdir(t)
	require.NoError(t, os.WriteFile("users.json", []byte(`[{"userId":"alice"},`), 0600))
	settings := &config.Settings{Network: "devnet", Stage: "dev", BackupFile: "users.json"}

	_, err := newTestService(t, settings, &fakeAPI{}, &scriptedPrompter{}).Restore(context.Background())

	var corrupt *BackupCorruptError
	assert.True(t, errors.As(err, &corrupt), "got %v", err)
}

func TestRestore_NetworkErrorStops(t *testing.T) {
	chdir(t)
	writeBackup(t, "users.json")
	settings := &config.Settings{Network: "devnet", Stage: "dev", BackupFile: "users.json"}
	api := &fakeAPI{createNet: &participant.NetworkError{Method: "POST", URL: "http://participant/user/create", Err: errors.New("timeout")}}

	result, err := newTestService(t, settings, api, &scriptedPrompter{}).Restore(context.Background())

	var netErr *participant.NetworkError
	require.True(t, errors.As(err, &netErr), "got %v", err)
	require.NotNil(t, result)
	assert.Empty(t, result.Succeeded)
	assert.Equal(t, []string{"alice"}, api.created)
}
