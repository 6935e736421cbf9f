package memconfig

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromFileJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"mode":"heuristic","stm_max_length":42}`), 0o644))

	cfg, err := FromFile(path)
	require.NoError(t, err)
	assert.Equal(t, ModeHeuristic, cfg.Mode)
	assert.Equal(t, 42, cfg.STMMaxLength)
}

func TestFromFileYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("mode: hybrid\nstm_max_length: 77\n"), 0o644))

	cfg, err := FromFile(path)
	require.NoError(t, err)
	assert.Equal(t, ModeHybrid, cfg.Mode)
	assert.Equal(t, 77, cfg.STMMaxLength)
}

func TestFromFileUnsupportedExtension(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("mode = \"hybrid\""), 0o644))

	_, err := FromFile(path)
	assert.Error(t, err)
}
