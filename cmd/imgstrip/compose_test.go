package main

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"imgstrip/internal/config"
)

func writePNG(t *testing.T, dir, name string, w, h int) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: 200, A: 255})
		}
	}
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
	return path
}

func runRoot(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv(config.PathEnv, filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv(config.LogFileEnv, "")

	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func decodeSize(t *testing.T, path string) image.Point {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	cfg, err := png.DecodeConfig(f)
	require.NoError(t, err)
	return image.Pt(cfg.Width, cfg.Height)
}

func TestCompose_Horizontal(t *testing.T) {
	src := t.TempDir()
	out := t.TempDir()
	a := writePNG(t, src, "a.png", 40, 20)
	b := writePNG(t, src, "b.png", 30, 30)

	stdout, _, err := runRoot(t, "compose", "--out", out, a, b)
	require.NoError(t, err)

	want := filepath.Join(out, config.ExportFileName)
	assert.Equal(t, want, strings.TrimSpace(stdout))
	// 2:1 and 1:1 at 1080 high with the default 10px gap.
	assert.Equal(t, image.Pt(2160+10+1080, 1080), decodeSize(t, want))
}

func TestCompose_VerticalOverrides(t *testing.T) {
	src := t.TempDir()
	out := t.TempDir()
	a := writePNG(t, src, "a.png", 40, 20)
	b := writePNG(t, src, "b.png", 30, 30)

	_, _, err := runRoot(t, "compose", "--vertical", "--gap", "0", "--normalized", "100", "-o", out, a, b)
	require.NoError(t, err)

	assert.Equal(t, image.Pt(100, 50+100), decodeSize(t, filepath.Join(out, config.ExportFileName)))
}

func TestCompose_MissingFile(t *testing.T) {
	out := t.TempDir()

	_, _, err := runRoot(t, "compose", "--out", out, filepath.Join(out, "nope.png"))
	require.Error(t, err)

	_, statErr := os.Stat(filepath.Join(out, config.ExportFileName))
	assert.True(t, os.IsNotExist(statErr))
}

func TestCompose_RequiresArgs(t *testing.T) {
	_, _, err := runRoot(t, "compose")
	assert.Error(t, err)
}

func TestLogLevel(t *testing.T) {
	assert.Equal(t, "DEBUG", logLevel("info", true).String())
	assert.Equal(t, "DEBUG", logLevel("debug", false).String())
	assert.Equal(t, "WARN", logLevel("warning", false).String())
	assert.Equal(t, "ERROR", logLevel("ERROR", false).String())
	assert.Equal(t, "INFO", logLevel("", false).String())
}
