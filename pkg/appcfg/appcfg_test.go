package appcfg

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadAppliesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.yaml")
	require.NoError(t, os.WriteFile(path, []byte("hide_secrets_in_console: true\n"), 0o644))

	c, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "info", c.LogLevel)
	require.True(t, c.HideSecretsInConsole)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log_level: [broken\n"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
}
