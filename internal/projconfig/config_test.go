package projconfig

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDecodesDeptreeToml(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deptree.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
source_root = "src"

[exclude]
scripts = ["tests/*", "scripts/legacy/*"]

[output]
format = "mermaid"
include_orphans = true
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "src", cfg.SourceRoot)
	assert.Equal(t, []string{"tests/*", "scripts/legacy/*"}, cfg.Exclude.Scripts)
	assert.Equal(t, "mermaid", cfg.Output.Format)
	assert.True(t, cfg.Output.IncludeOrphans)
}

func TestLoadReportsParseFailureOnMalformedToml(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deptree.toml")
	require.NoError(t, os.WriteFile(path, []byte("not = [valid"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadIfPresentReturnsNilForMissingFile(t *testing.T) {
	cfg, err := LoadIfPresent(filepath.Join(t.TempDir(), "missing.toml"))
	assert.NoError(t, err)
	assert.Nil(t, cfg)
}

func TestLoadIfPresentLoadsExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deptree.toml")
	require.NoError(t, os.WriteFile(path, []byte(`source_root = "lib"`), 0o644))

	cfg, err := LoadIfPresent(path)
	require.NoError(t, err)
	require.NotNil(t, cfg)
	assert.Equal(t, "lib", cfg.SourceRoot)
}
