package config

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender_BackupFilename(t *testing.T) {
	s := &Settings{Network: "devnet", Stage: "dev"}

	got, err := s.Render("${stage}-${network}-backup.json")
	require.NoError(t, err)
	assert.Equal(t, "dev-devnet-backup.json", got)
}

func TestDefaultBackupFile(t *testing.T) {
	s := &Settings{Network: "mainnet", Stage: "mainnet"}
	assert.Equal(t, "mainnet-mainnet-users.json", s.DefaultBackupFile())

	s = &Settings{Network: "devnet", Stage: "dev"}
	rendered, err := s.Render("${stage}-${network}-users.json")
	require.NoError(t, err)
	assert.Equal(t, s.DefaultBackupFile(), rendered)
}

func TestSubstitute(t *testing.T) {
	vars := map[string]string{"network": "testnet", "stage": "test"}

	tests := []struct {
		name string
		tmpl string
		want string
	}{
		{"braced", "https://${network}.example/${stage}", "https://testnet.example/test"},
		{"bare", "$stage-$network.json", "test-testnet.json"},
		{"escaped dollar", "cost: $$5 on $network", "cost: $5 on testnet"},
		{"bare name ends at punctuation", "$network.$stage", "testnet.test"},
		{"no placeholders", "plain.json", "plain.json"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Substitute(tt.tmpl, vars)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSubstitute_Strict(t *testing.T) {
	vars := map[string]string{"network": "testnet", "stage": "test"}

	tests := []struct {
		name        string
		tmpl        string
		placeholder string
	}{
		{"unknown braced", "${region}-users.json", "region"},
		{"unknown bare", "$region-users.json", "region"},
		{"unterminated", "${network", ""},
		{"empty braces", "${}", ""},
		{"dangling dollar", "users-$.json", ""},
		{"digit name", "${1st}", "1st"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Substitute(tt.tmpl, vars)

			var tmplErr *TemplateError
			require.True(t, errors.As(err, &tmplErr), "got %v", err)
			assert.Equal(t, tt.placeholder, tmplErr.Placeholder)
		})
	}
}
