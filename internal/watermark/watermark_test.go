package watermark

import (
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func solid(w, h int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
	return img
}

func smallOptions() Options {
	o := DefaultOptions()
	o.ThumbSize = image.Pt(20, 28)
	o.LargeSize = image.Pt(55, 77)
	o.MaxX, o.MaxY = 150, 200
	o.Spacing = 10
	o.CardOffset = image.Pt(10, 10)
	return o
}

func TestSelectFrom_AvoidsTakenValues(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	taken := []int{}
	for i := 0; i < 5; i++ {
		v := SelectFrom(r, 0, 2300, taken, 200)
		assert.GreaterOrEqual(t, v, 0)
		assert.LessOrEqual(t, v, 2300)
		taken = append(taken, v)
	}

	// every value in range is taken, so it gives up and returns a draw
	v := SelectFrom(r, 0, 10, []int{5}, 100)
	assert.GreaterOrEqual(t, v, 0)
	assert.LessOrEqual(t, v, 10)
}

func TestPlanStamps(t *testing.T) {
	opts := DefaultOptions()
	for seed := int64(0); seed < 20; seed++ {
		stamps := PlanStamps(rand.New(rand.NewSource(seed)), opts)
		require.GreaterOrEqual(t, len(stamps), 5)
		require.LessOrEqual(t, len(stamps), 10)
		for _, s := range stamps {
			assert.GreaterOrEqual(t, s.Size, 30.0)
			assert.LessOrEqual(t, s.Size, 110.0)
			assert.LessOrEqual(t, s.Color.R, uint8(250))
			assert.LessOrEqual(t, s.At.X, opts.MaxX)
			assert.LessOrEqual(t, s.At.Y, opts.MaxY)
		}
	}

	a := PlanStamps(rand.New(rand.NewSource(42)), opts)
	b := PlanStamps(rand.New(rand.NewSource(42)), opts)
	assert.Equal(t, a, b)
}

func TestThumbnailAndWatermarkSizes(t *testing.T) {
	opts := smallOptions()
	card := solid(100, 140, color.White)

	thumb := Thumbnail(card, opts)
	assert.Equal(t, image.Pt(20, 28), thumb.Bounds().Size())

	stamps := []Stamp{{At: image.Pt(5, 5), Size: 13, Color: color.RGBA{A: 0xff}}}
	large, err := Watermark(card, stamps, BasicFace, opts)
	require.NoError(t, err)
	assert.Equal(t, image.Pt(55, 77), large.Bounds().Size())
}

func TestWatermark_DrawsText(t *testing.T) {
	opts := smallOptions()
	opts.LargeSize = image.Pt(100, 140)
	card := solid(100, 140, color.White)

	out, err := Watermark(card, []Stamp{{At: image.Pt(0, 0), Size: 13, Color: color.RGBA{A: 0xff}}}, BasicFace, opts)
	require.NoError(t, err)

	dark := 0
	for y := 0; y < 20; y++ {
		for x := 0; x < 100; x++ {
			r, _, _, _ := out.At(x, y).RGBA()
			if r < 0x8000 {
				dark++
			}
		}
	}
	assert.Greater(t, dark, 0)

	// the source is untouched
	r, g, b, _ := card.At(1, 5).RGBA()
	assert.Equal(t, uint32(0xffff), r&g&b)
}

func TestInSitu(t *testing.T) {
	opts := smallOptions()
	bottom := solid(90, 60, color.RGBA{B: 0xff, A: 0xff})
	top := image.NewRGBA(image.Rect(0, 0, 90, 60))
	// opaque red band across the top rows, transparent elsewhere
	draw.Draw(top, image.Rect(0, 0, 90, 15), image.NewUniform(color.RGBA{R: 0xff, A: 0xff}), image.Point{}, draw.Src)
	card := solid(30, 30, color.RGBA{G: 0xff, A: 0xff})

	out := InSitu(card, top, bottom, opts)
	assert.Equal(t, image.Pt(30, 20), out.Bounds().Size())

	// card area (10..40 → 3..13 after scaling) is green
	_, g, _, _ := out.At(8, 10).RGBA()
	assert.Greater(t, g, uint32(0x8000))
	// top band stays red
	r, _, _, _ := out.At(20, 0).RGBA()
	assert.Greater(t, r, uint32(0x8000))
	// untouched background stays blue
	_, _, b, _ := out.At(25, 18).RGBA()
	assert.Greater(t, b, uint32(0x8000))
}

func TestProcessor_Run(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a_front.jpg", "b_front.jpg"} {
		f, err := os.Create(filepath.Join(dir, name))
		require.NoError(t, err)
		require.NoError(t, jpeg.Encode(f, solid(40, 56, color.White), nil))
		require.NoError(t, f.Close())
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a_back.jpg"), []byte("skip"), 0o600))

	p := Processor{
		Dir:    dir,
		Top:    image.NewRGBA(image.Rect(0, 0, 90, 60)),
		Bottom: solid(90, 60, color.Black),
		Faces:  BasicFace,
		Rand:   rand.New(rand.NewSource(7)),
		Opts:   smallOptions(),
	}
	results, err := p.Run()
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "a_front.jpg", results[0].Source)
	assert.Equal(t, "b_front_with_background.png", results[1].InSitu)

	for _, r := range results {
		for _, name := range []string{r.Small, r.Large, r.InSitu} {
			img, err := Open(filepath.Join(dir, name))
			require.NoError(t, err, name)
			assert.False(t, img.Bounds().Empty())
		}
	}
}
