package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tributary-data/tributary/internal/core/domain"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestVersionCmd(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "tributary dev")
}

func TestSourcesCmd(t *testing.T) {
	t.Run("no sources configured", func(t *testing.T) {
		out, err := execute(t, "sources", "--config-dir", t.TempDir())
		require.NoError(t, err)
		assert.Contains(t, out, "No sources configured")
	})

	t.Run("lists configured sources", func(t *testing.T) {
		tmpDir := t.TempDir()
		content := `
[[sources]]
id = "gh-acme"
type = "github"
name = "Acme GitHub"
[sources.config]
org = "acme"
access_token = "ghp_token"
`
		require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte(content), 0600))

		out, err := execute(t, "sources", "--config-dir", tmpDir)
		require.NoError(t, err)
		assert.Contains(t, out, "gh-acme")
		assert.Contains(t, out, "github")
	})
}

func TestSyncCmd_UnknownSource(t *testing.T) {
	tmpDir := t.TempDir()
	_, err := execute(t, "sync", "missing",
		"--config-dir", tmpDir,
		"--data-dir", filepath.Join(tmpDir, "data"),
		"--output", filepath.Join(tmpDir, "out.jsonl"))
	assert.ErrorIs(t, err, domain.ErrSourceNotFound)
}
