package watermark

import (
	"fmt"
	"image"
	_ "image/jpeg"
	"image/png"
	"math/rand"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// FrontSuffix selects which files in a directory are card fronts.
const FrontSuffix = "front.jpg"

// Result lists the files written for one card front.
type Result struct {
	Source string
	Small  string
	Large  string
	InSitu string
	Stamps int
}

// Processor renders every card front in Dir.
type Processor struct {
	Dir    string
	Top    image.Image
	Bottom image.Image
	Faces  FaceFunc
	Rand   *rand.Rand
	Opts   Options
}

// Run processes fronts in name order. Each card gets its own mock-up.
func (p Processor) Run() ([]Result, error) {
	entries, err := os.ReadDir(p.Dir)
	if err != nil {
		return nil, err
	}
	var fronts []string
	for _, e := range entries {
		if !e.IsDir() && strings.Contains(e.Name(), FrontSuffix) {
			fronts = append(fronts, e.Name())
		}
	}
	sort.Strings(fronts)

	out := make([]Result, 0, len(fronts))
	for _, name := range fronts {
		res, err := p.one(name)
		if err != nil {
			return out, fmt.Errorf("%s: %w", name, err)
		}
		out = append(out, res)
	}
	return out, nil
}

func (p Processor) one(name string) (Result, error) {
	card, err := Open(filepath.Join(p.Dir, name))
	if err != nil {
		return Result{}, err
	}
	stem := strings.TrimSuffix(name, filepath.Ext(name))
	res := Result{
		Source: name,
		Small:  stem + "_small.png",
		Large:  stem + "_large_watermark.png",
		InSitu: stem + "_with_background.png",
	}

	if err := Save(filepath.Join(p.Dir, res.Small), Thumbnail(card, p.Opts)); err != nil {
		return res, err
	}

	stamps := PlanStamps(p.Rand, p.Opts)
	large, err := Watermark(card, stamps, p.Faces, p.Opts)
	if err != nil {
		return res, err
	}
	res.Stamps = len(stamps)
	if err := Save(filepath.Join(p.Dir, res.Large), large); err != nil {
		return res, err
	}

	if p.Top != nil && p.Bottom != nil {
		if err := Save(filepath.Join(p.Dir, res.InSitu), InSitu(card, p.Top, p.Bottom, p.Opts)); err != nil {
			return res, err
		}
	} else {
		res.InSitu = ""
	}
	return res, nil
}

// Open decodes a JPEG or PNG file.
func Open(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return img, nil
}

// Save writes img as PNG.
func Save(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		_ = f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}
