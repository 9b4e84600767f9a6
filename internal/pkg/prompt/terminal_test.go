package prompt

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scripted(input string) (*Terminal, *bytes.Buffer) {
	var out bytes.Buffer
	return New(strings.NewReader(input), &out), &out
}

func TestAskNetwork_RetriesUntilValid(t *testing.T) {
	term, out := scripted("localnet\n  TestNet \n")

	network, err := term.AskNetwork()
	require.NoError(t, err)

	assert.Equal(t, "testnet", network)
	assert.Contains(t, out.String(), "Available Networks: devnet, testnet, mainnet")
	assert.Contains(t, out.String(), "Invalid Network")
}

func TestAskNetwork_EOF(t *testing.T) {
	term, _ := scripted("bogus\n")

	_, err := term.AskNetwork()
	assert.ErrorIs(t, err, io.EOF)
}

func TestAskFilename(t *testing.T) {
	term, out := scripted("\ncustom.json\n")

	name, err := term.AskFilename("dev-devnet-users.json")
	require.NoError(t, err)
	assert.Equal(t, "dev-devnet-users.json", name)
	assert.Contains(t, out.String(), "Backup Filename [default: dev-devnet-users.json]: ")

	name, err = term.AskFilename("dev-devnet-users.json")
	require.NoError(t, err)
	assert.Equal(t, "custom.json", name)
}

func TestConfirmOverwrite(t *testing.T) {
	term, out := scripted("Y\nn\nyes\n")

	ok, err := term.ConfirmOverwrite("users.json")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Contains(t, out.String(), "Backup file users.json already exists")

	ok, err = term.ConfirmOverwrite("users.json")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = term.ConfirmOverwrite("users.json")
	require.NoError(t, err)
	assert.False(t, ok, "only a bare y confirms")
}

func TestAskSecret_SharesReader(t *testing.T) {
	term, out := scripted("s3cret\nbackup_users")

	secret, err := term.AskSecret("devnet")
	require.NoError(t, err)
	assert.Equal(t, "s3cret", secret)
	assert.Contains(t, out.String(), "Client credentials can be retrieved from Keycloak.")
	assert.Contains(t, out.String(), "devnet Client Secret: ")

	line, err := term.ReadLine("> ")
	require.NoError(t, err)
	assert.Equal(t, "backup_users", line, "final line without newline is still returned")

	_, err = term.ReadLine("> ")
	assert.ErrorIs(t, err, io.EOF)
}
