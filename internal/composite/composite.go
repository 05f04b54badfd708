// Package composite draws laid-out images onto a surface and exports the
// full-resolution result as a PNG.
package composite

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	xdraw "golang.org/x/image/draw"

	"imgstrip/internal/layout"
	"imgstrip/internal/trace"
)

// ErrEmptyComposite is returned by Export when there is nothing to draw.
var ErrEmptyComposite = errors.New("composite: no loaded images")

// Background fills every surface before images are drawn.
var Background = color.White

var tracer = trace.Tracer("composite")

// Quality picks the resampling kernel.
type Quality int

const (
	// Fast is used for interactive previews.
	Fast Quality = iota
	// High is used for export.
	High
)

func (q Quality) scaler() xdraw.Scaler {
	if q == High {
		return xdraw.CatmullRom
	}
	return xdraw.ApproxBiLinear
}

// Settings are the current layout settings shared by preview and export.
type Settings struct {
	Orientation layout.Orientation
	Gap         int
}

// Render draws imgs into a new surface sized to res. Rects refer to imgs by
// Rect.Source. A zero-sized result yields an empty surface.
func Render(imgs []image.Image, res layout.Result, q Quality) *image.RGBA {
	size := res.CanvasSize()
	dst := image.NewRGBA(image.Rect(0, 0, size.X, size.Y))
	xdraw.Draw(dst, dst.Bounds(), image.NewUniform(Background), image.Point{}, xdraw.Src)

	s := q.scaler()
	for _, r := range res.Rects {
		if r.Source < 0 || r.Source >= len(imgs) {
			continue
		}
		src := imgs[r.Source]
		rect := r.Bounds().Intersect(dst.Bounds())
		if rect.Empty() {
			continue
		}
		s.Scale(dst, rect, src, src.Bounds(), xdraw.Over, nil)
	}
	return dst
}

// Preview is a rendered preview surface.
type Preview struct {
	Surface *image.RGBA
	Layout  layout.Result
	// Empty is set when there were no loaded images; Surface is then 0x0.
	Empty bool
}

// RenderPreview lays out imgs at preview resolution and draws them.
func RenderPreview(ctx context.Context, imgs []image.Image, s Settings, p layout.Params) Preview {
	ctx, span := tracer.Start(ctx, "composite.render")
	defer span.End()

	res := computeLayout(ctx, imgs, p.With(s.Orientation, s.Gap))
	span.SetAttributes(attribute.Int("imgstrip.images", len(res.Rects)))
	if res.Empty() {
		return Preview{Surface: image.NewRGBA(image.Rectangle{}), Layout: res, Empty: true}
	}
	return Preview{Surface: Render(imgs, res, Fast), Layout: res}
}

// Exporter writes full-resolution composites.
type Exporter struct {
	Params layout.Params
	// Dir is the output directory; empty means the working directory.
	Dir      string
	FileName string
	// Compression is passed to the PNG encoder.
	Compression png.CompressionLevel
}

// Path is where Export writes.
func (e *Exporter) Path() string {
	return filepath.Join(e.Dir, e.FileName)
}

// Export renders imgs at export resolution and writes a PNG to Path. The file
// is written to a temporary name and renamed, so a failed export leaves no
// file behind. With no images it returns ErrEmptyComposite and writes nothing.
func (e *Exporter) Export(ctx context.Context, imgs []image.Image, s Settings) (string, error) {
	ctx, span := tracer.Start(ctx, "composite.export")
	defer span.End()

	res := computeLayout(ctx, imgs, e.Params.With(s.Orientation, s.Gap))
	if res.Empty() {
		return "", ErrEmptyComposite
	}
	size := res.CanvasSize()
	span.SetAttributes(
		attribute.Int("imgstrip.images", len(res.Rects)),
		attribute.Int("imgstrip.width", size.X),
		attribute.Int("imgstrip.height", size.Y),
	)

	surface := Render(imgs, res, High)
	path := e.Path()
	if err := writeAtomic(path, func(w io.Writer) error {
		return Encode(w, surface, e.Compression)
	}); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", fmt.Errorf("export %s: %w", path, err)
	}
	slog.Info("exported composite", "path", path, "width", size.X, "height", size.Y, "images", len(res.Rects))
	return path, nil
}

// Encode writes img as a PNG.
func Encode(w io.Writer, img image.Image, level png.CompressionLevel) error {
	enc := png.Encoder{CompressionLevel: level}
	return enc.Encode(w, img)
}

// CompressionLevel maps a config name to a PNG compression level.
func CompressionLevel(name string) png.CompressionLevel {
	switch name {
	case "speed":
		return png.BestSpeed
	case "best":
		return png.BestCompression
	default:
		return png.DefaultCompression
	}
}

func computeLayout(ctx context.Context, imgs []image.Image, p layout.Params) layout.Result {
	_, span := tracer.Start(ctx, "layout.compute")
	defer span.End()
	res := layout.Compute(layout.SizesOf(imgs), p)
	span.SetAttributes(
		attribute.String("imgstrip.orientation", p.Orientation.String()),
		attribute.Int("imgstrip.gap", p.Gap),
		attribute.Float64("imgstrip.scale", res.Scale),
	)
	return res
}

func writeAtomic(path string, write func(io.Writer) error) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".imgstrip-*.png")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op after a successful rename

	if err := write(tmp); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}
