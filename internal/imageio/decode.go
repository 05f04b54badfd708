// Package imageio decodes local image files for the composer.
package imageio

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	// Registered decoders.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/patrickmn/go-cache"
	"golang.org/x/sync/errgroup"
)

const (
	defaultCacheExpiration = 30 * time.Minute
	cacheCleanupInterval   = time.Hour
	// DefaultConcurrency bounds DecodeAll when limit <= 0.
	DefaultConcurrency = 4
)

// ErrEmptyImage is returned for files that decode to zero pixels.
var ErrEmptyImage = errors.New("imageio: image has no pixels")

// Decoded is a decoded file.
type Decoded struct {
	Path   string
	Image  image.Image
	Format string
}

// Decoder decodes files and caches results by path and modification time.
// Safe for concurrent use.
type Decoder struct {
	cache *cache.Cache
}

// NewDecoder creates a decoder with an in-memory cache.
func NewDecoder() *Decoder {
	return &Decoder{cache: cache.New(defaultCacheExpiration, cacheCleanupInterval)}
}

// Decode reads and decodes the image at path.
func (d *Decoder) Decode(path string) (Decoded, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return Decoded{}, fmt.Errorf("resolve %q: %w", path, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return Decoded{}, fmt.Errorf("stat %q: %w", path, err)
	}
	if info.IsDir() {
		return Decoded{}, fmt.Errorf("%q is a directory", path)
	}

	key := fmt.Sprintf("%s@%d", abs, info.ModTime().UnixNano())
	if v, ok := d.cache.Get(key); ok {
		slog.Debug("decode cache hit", "path", abs)
		return v.(Decoded), nil
	}

	f, err := os.Open(abs)
	if err != nil {
		return Decoded{}, fmt.Errorf("open %q: %w", path, err)
	}
	defer f.Close()

	img, format, err := image.Decode(f)
	if err != nil {
		return Decoded{}, fmt.Errorf("decode %q: %w", path, err)
	}
	if b := img.Bounds(); b.Dx() <= 0 || b.Dy() <= 0 {
		return Decoded{}, fmt.Errorf("decode %q: %w", path, ErrEmptyImage)
	}

	dec := Decoded{Path: abs, Image: img, Format: format}
	d.cache.SetDefault(key, dec)
	slog.Debug("decoded image", "path", abs, "format", format,
		"width", img.Bounds().Dx(), "height", img.Bounds().Dy())
	return dec, nil
}

// DecodeAll decodes paths concurrently, at most limit at a time, and returns
// results in input order. The first failure cancels the rest.
func (d *Decoder) DecodeAll(ctx context.Context, paths []string, limit int) ([]Decoded, error) {
	if limit <= 0 {
		limit = DefaultConcurrency
	}
	out := make([]Decoded, len(paths))
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(limit)

	for i, p := range paths {
		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				return err
			}
			dec, err := d.Decode(p)
			if err != nil {
				return err
			}
			out[i] = dec
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
