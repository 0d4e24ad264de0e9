// Package watermark renders proof images of card fronts: a thumbnail, a
// watermarked large version and a mock-up composited onto a background.
package watermark

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"
	"math/rand"
	"os"

	"github.com/nfnt/resize"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

const DefaultText = "PROOF - Macabre Greetings"

type Options struct {
	Text string

	ThumbSize image.Point
	LargeSize image.Point

	// Stamps are placed with their top-left corner in [0,MaxX]x[0,MaxY] and
	// kept at least Spacing apart on each axis when possible.
	MaxX, MaxY int
	Spacing    int

	MinFontSize, MaxFontSize int

	// CardOffset is where the card lands on the bottom background.
	CardOffset image.Point
	// InSituScale divides the composited mock-up's dimensions.
	InSituScale int
}

func DefaultOptions() Options {
	return Options{
		Text:        DefaultText,
		ThumbSize:   image.Pt(500, 700),
		LargeSize:   image.Pt(1375, 1925),
		MaxX:        2300,
		MaxY:        3400,
		Spacing:     200,
		MinFontSize: 30,
		MaxFontSize: 110,
		CardOffset:  image.Pt(4210, 1940),
		InSituScale: 3,
	}
}

// FaceFunc returns a font face of the given size in points.
type FaceFunc func(size float64) (font.Face, error)

// BasicFace ignores size and always uses the built-in 7x13 bitmap font.
func BasicFace(float64) (font.Face, error) { return basicfont.Face7x13, nil }

// LoadTTF parses a TrueType/OpenType font file.
func LoadTTF(path string) (FaceFunc, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read font: %w", err)
	}
	f, err := opentype.Parse(b)
	if err != nil {
		return nil, fmt.Errorf("parse font %s: %w", path, err)
	}
	return func(size float64) (font.Face, error) {
		return opentype.NewFace(f, &opentype.FaceOptions{Size: size, DPI: 72, Hinting: font.HintingFull})
	}, nil
}

// SelectFrom draws a value in [lo, hi] that is more than space away from every
// value in taken. After five tries it settles for the last draw.
func SelectFrom(r *rand.Rand, lo, hi int, taken []int, space int) int {
	const tries = 5
	v := lo + r.Intn(hi-lo+1)
	for i := 0; i < tries; i++ {
		if !near(v, taken, space) {
			return v
		}
		v = lo + r.Intn(hi-lo+1)
	}
	return v
}

func near(v int, taken []int, space int) bool {
	for _, t := range taken {
		if abs(t-v) <= space {
			return true
		}
	}
	return false
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// Thumbnail scales img to opts.ThumbSize, ignoring aspect ratio.
func Thumbnail(img image.Image, opts Options) image.Image {
	return resize.Resize(uint(opts.ThumbSize.X), uint(opts.ThumbSize.Y), img, resize.Lanczos3)
}

// Stamp is one placed watermark string.
type Stamp struct {
	At    image.Point
	Size  float64
	Color color.RGBA
}

// PlanStamps picks between 5 and 10 stamp positions, sizes and colours.
func PlanStamps(r *rand.Rand, opts Options) []Stamp {
	n := r.Intn(6) + 5
	var xs, ys []int
	stamps := make([]Stamp, 0, n)
	for i := 0; i < n; i++ {
		size := float64(opts.MinFontSize + r.Intn(opts.MaxFontSize-opts.MinFontSize+1))
		x := SelectFrom(r, 0, opts.MaxX, xs, opts.Spacing)
		xs = append(xs, x)
		y := SelectFrom(r, 0, opts.MaxY, ys, opts.Spacing)
		ys = append(ys, y)
		stamps = append(stamps, Stamp{
			At:   image.Pt(x, y),
			Size: size,
			Color: color.RGBA{
				R: uint8(r.Intn(251)),
				G: uint8(r.Intn(251)),
				B: uint8(r.Intn(251)),
				A: 0xff,
			},
		})
	}
	return stamps
}

// Watermark draws the stamps onto a copy of img and scales the result to
// opts.LargeSize.
func Watermark(img image.Image, stamps []Stamp, faces FaceFunc, opts Options) (image.Image, error) {
	canvas := image.NewRGBA(img.Bounds())
	draw.Draw(canvas, canvas.Bounds(), img, img.Bounds().Min, draw.Src)

	for _, s := range stamps {
		face, err := faces(s.Size)
		if err != nil {
			return nil, fmt.Errorf("font face %.0fpt: %w", s.Size, err)
		}
		// At is the top-left of the text; the drawer wants the baseline.
		origin := canvas.Bounds().Min.Add(s.At)
		d := &font.Drawer{
			Dst:  canvas,
			Src:  image.NewUniform(s.Color),
			Face: face,
			Dot:  fixed.P(origin.X, origin.Y).Add(fixed.Point26_6{Y: face.Metrics().Ascent}),
		}
		d.DrawString(opts.Text)
	}

	return resize.Resize(uint(opts.LargeSize.X), uint(opts.LargeSize.Y), canvas, resize.Lanczos3), nil
}

// InSitu places card on bottom at opts.CardOffset, lays top over it using
// top's alpha, and scales the result down by opts.InSituScale.
func InSitu(card, top, bottom image.Image, opts Options) image.Image {
	b := bottom.Bounds()
	combined := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(combined, combined.Bounds(), bottom, b.Min, draw.Src)

	cardRect := card.Bounds().Sub(card.Bounds().Min).Add(opts.CardOffset)
	draw.Draw(combined, cardRect, card, card.Bounds().Min, draw.Src)

	draw.Draw(combined, combined.Bounds(), top, top.Bounds().Min, draw.Over)

	scale := opts.InSituScale
	if scale < 1 {
		scale = 1
	}
	w := uint(math.Round(float64(b.Dx()) / float64(scale)))
	h := uint(math.Round(float64(b.Dy()) / float64(scale)))
	return resize.Resize(w, h, combined, resize.Lanczos3)
}
