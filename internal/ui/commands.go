package ui

import (
	"context"
	"image"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"imgstrip/internal/composite"
	"imgstrip/internal/imageio"
	"imgstrip/internal/sequence"
)

// decodeCmd decodes path off the update loop and reports an ImageLoadedMsg.
func decodeCmd(d *imageio.Decoder, slot sequence.ID, path string) tea.Cmd {
	return func() tea.Msg {
		dec, err := d.Decode(path)
		if err != nil {
			slog.Warn("decode failed", "slot", slot, "path", path, "error", err)
			return ImageLoadedMsg{Slot: slot, Path: path, Err: err}
		}
		return ImageLoadedMsg{Slot: slot, Path: dec.Path, Image: dec.Image}
	}
}

// exportCmd renders and writes the composite off the update loop.
func exportCmd(e *composite.Exporter, imgs []image.Image, s composite.Settings) tea.Cmd {
	return func() tea.Msg {
		path, err := e.Export(context.Background(), imgs, s)
		return ExportDoneMsg{Path: path, Err: err}
	}
}

func expandHome(p string) string {
	if p == "~" || strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(p, "~"))
		}
	}
	return p
}
