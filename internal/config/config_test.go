package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"imgstrip/internal/layout"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	return p
}

func TestLoadFile_MissingReturnsDefault(t *testing.T) {
	t.Setenv(LogFileEnv, "")
	cfg, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, layout.Preview, cfg.PreviewParams())
	assert.Equal(t, layout.Export, cfg.ExportParams())
}

func TestLoadFile_Overrides(t *testing.T) {
	t.Setenv("STRIP_OUT", "/tmp/strips")
	p := writeConfig(t, `
orientation: vertical
gap: 0
export_dir: ${STRIP_OUT}
preview:
  max_primary_axis: 400
export:
  normalized_size: 2160
`)
	cfg, err := LoadFile(p)
	require.NoError(t, err)

	assert.Equal(t, layout.Vertical, cfg.InitialOrientation())
	assert.Equal(t, 0, cfg.Gap)
	assert.Equal(t, "/tmp/strips", cfg.ExportDir)
	assert.Equal(t, 200.0, cfg.PreviewParams().NormalizedSize, "unset field keeps preset")
	assert.Equal(t, 400.0, cfg.PreviewParams().MaxPrimaryAxis)
	assert.Equal(t, 2160.0, cfg.ExportParams().NormalizedSize)
	assert.Zero(t, cfg.ExportParams().MaxPrimaryAxis)
}

func TestLoadFile_Invalid(t *testing.T) {
	tests := map[string]string{
		"orientation": "orientation: diagonal\n",
		"gap":         "gap: -3\n",
		"compression": "compression: maximum\n",
		"yaml":        "gap: [\n",
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := LoadFile(writeConfig(t, body))
			assert.Error(t, err)
		})
	}
}

func TestPath_EnvOverride(t *testing.T) {
	t.Setenv(PathEnv, "/etc/imgstrip.yaml")
	p, err := Path()
	require.NoError(t, err)
	assert.Equal(t, "/etc/imgstrip.yaml", p)
}

func TestLogFileEnv(t *testing.T) {
	t.Setenv(LogFileEnv, "/tmp/imgstrip.log")
	cfg, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "/tmp/imgstrip.log", cfg.LogFile)
}
