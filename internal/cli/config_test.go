package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsJSONCPath(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"baseconf.json", true},
		{"baseconf.JSONC", true},
		{"baseconf.conf", false},
		{"baseconf.nginx", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, isJSONCPath(tt.path), tt.path)
	}
}

func TestDecodeJSONCBaseConf(t *testing.T) {
	data := []byte(`[
		// top-level server block
		{"directive": "server", "args": [], "block": [
			{"directive": "listen", "args": ["80"]},
			{"directive": "#", "comment": "managed"}
		]}
	]`)

	out, err := decodeJSONCBaseConf(data)
	require.NoError(t, err)
	assert.Contains(t, out, "server {")
	assert.Contains(t, out, "listen 80;")
	assert.Contains(t, out, "# managed")
}

func TestDecodeJSONCBaseConfInvalid(t *testing.T) {
	_, err := decodeJSONCBaseConf([]byte(`not json`))
	assert.Error(t, err)
}

func TestLoadScratchConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ctrsnaprc.jsonc")
	require.NoError(t, os.WriteFile(path, []byte(`{
		// prefer json output
		"format": "json",
		"verbose": true
	}`), 0o644))

	cfg, err := LoadScratchConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "json", cfg.Format)
	assert.True(t, cfg.Verbose)
}

func TestLoadScratchConfigMissingFile(t *testing.T) {
	cfg, err := LoadScratchConfig(filepath.Join(t.TempDir(), "missing.jsonc"))
	require.NoError(t, err)
	assert.Equal(t, ScratchConfig{}, cfg)
}
