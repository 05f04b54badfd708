// Package layout computes where each image of a composite strip goes.
//
// Images are normalized to a common cross-axis size (height for a horizontal
// strip, width for a vertical one), placed edge to edge with a fixed gap along
// the primary axis, and optionally downscaled so the primary extent fits a cap.
package layout

import (
	"image"
	"math"
)

// Orientation selects the primary axis of a strip.
type Orientation int

const (
	Horizontal Orientation = iota
	Vertical
)

func (o Orientation) String() string {
	switch o {
	case Horizontal:
		return "horizontal"
	case Vertical:
		return "vertical"
	default:
		return "unknown"
	}
}

// Toggle returns the other orientation.
func (o Orientation) Toggle() Orientation {
	if o == Horizontal {
		return Vertical
	}
	return Horizontal
}

// ParseOrientation maps "horizontal"/"h" and "vertical"/"v" to an Orientation.
func ParseOrientation(s string) (Orientation, bool) {
	switch s {
	case "horizontal", "h", "row":
		return Horizontal, true
	case "vertical", "v", "column":
		return Vertical, true
	}
	return Horizontal, false
}

// Size is an intrinsic pixel size.
type Size struct {
	W, H int
}

// Degenerate reports whether the size cannot produce a finite aspect ratio.
func (s Size) Degenerate() bool {
	return s.W <= 0 || s.H <= 0
}

// SizesOf returns the intrinsic size of each image.
func SizesOf(imgs []image.Image) []Size {
	out := make([]Size, len(imgs))
	for i, img := range imgs {
		b := img.Bounds()
		out[i] = Size{W: b.Dx(), H: b.Dy()}
	}
	return out
}

// Params configures one layout pass.
type Params struct {
	Orientation Orientation
	Gap         int
	// NormalizedSize is the cross-axis size every image is scaled to.
	NormalizedSize float64
	// MaxPrimaryAxis caps the primary extent of the composite. Zero means no cap.
	MaxPrimaryAxis float64
}

// Preview and Export are the two resolutions a composite is laid out at.
var (
	Preview = Params{NormalizedSize: 200, MaxPrimaryAxis: 800}
	Export  = Params{NormalizedSize: 1080}
)

// With returns a copy of p using the given orientation and gap.
func (p Params) With(o Orientation, gap int) Params {
	p.Orientation = o
	p.Gap = gap
	return p
}

// Rect is a placed image in composite coordinates.
type Rect struct {
	X, Y, W, H float64
	// Source is the index of the image in the input sequence.
	Source int
}

// Bounds rounds the rect to integer pixels.
func (r Rect) Bounds() image.Rectangle {
	return image.Rect(
		int(math.Round(r.X)), int(math.Round(r.Y)),
		int(math.Round(r.X+r.W)), int(math.Round(r.Y+r.H)),
	)
}

// Result is a computed layout.
type Result struct {
	Rects []Rect
	// Width and Height are the composite canvas size after scaling.
	Width, Height float64
	// Scale is the uniform downscale applied to fit MaxPrimaryAxis, in (0, 1].
	Scale float64
}

// Empty reports whether nothing was placed.
func (r Result) Empty() bool {
	return len(r.Rects) == 0
}

// CanvasSize returns the canvas size rounded to integer pixels.
func (r Result) CanvasSize() image.Point {
	return image.Pt(int(math.Round(r.Width)), int(math.Round(r.Height)))
}

// Compute lays out sizes according to p. Degenerate sizes are skipped, so
// Rect.Source may not equal the rect's index when some inputs were dropped.
func Compute(sizes []Size, p Params) Result {
	res := Result{Scale: 1}
	gap := float64(max(p.Gap, 0))

	var primary, cross float64
	for i, sz := range sizes {
		if sz.Degenerate() {
			continue
		}
		aspect := float64(sz.W) / float64(sz.H)
		var w, h float64
		if p.Orientation == Horizontal {
			h = p.NormalizedSize
			w = h * aspect
			primary += w
			cross = math.Max(cross, h)
		} else {
			w = p.NormalizedSize
			h = w / aspect
			primary += h
			cross = math.Max(cross, w)
		}
		res.Rects = append(res.Rects, Rect{W: w, H: h, Source: i})
	}
	if len(res.Rects) == 0 {
		res.Rects = nil
		return res
	}
	primary += gap * float64(len(res.Rects)-1)

	if p.MaxPrimaryAxis > 0 && primary > 0 {
		res.Scale = math.Min(1, p.MaxPrimaryAxis/primary)
	}
	s := res.Scale

	var pos float64
	for i := range res.Rects {
		r := &res.Rects[i]
		r.W *= s
		r.H *= s
		if p.Orientation == Horizontal {
			r.X = pos
			pos += r.W + gap*s
		} else {
			r.Y = pos
			pos += r.H + gap*s
		}
	}

	if p.Orientation == Horizontal {
		res.Width, res.Height = primary*s, cross*s
	} else {
		res.Width, res.Height = cross*s, primary*s
	}
	return res
}
