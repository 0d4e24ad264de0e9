package main

import (
	"flag"
	"math/rand"
	"os"
	"time"

	"go.uber.org/zap"

	"printify/internal/logging"
	"printify/internal/watermark"
)

func main() {
	var (
		dir    = flag.String("dir", "card_files", "directory holding *front.jpg cards; outputs are written next to them")
		top    = flag.String("top", "backgrounds/background_2_top_layer.png", "top background layer (alpha is honoured)")
		bottom = flag.String("bottom", "backgrounds/background_2_bottom_layer.png", "bottom background layer")
		fontF  = flag.String("font", "", "TTF/OTF font for the watermark text (built-in bitmap font when empty)")
		text   = flag.String("text", watermark.DefaultText, "watermark text")
		seed   = flag.Int64("seed", 0, "random seed (time based when 0)")
	)
	flag.Parse()

	logger, err := logging.New(os.Getenv("APP_ENV"), os.Getenv("LOG_LEVEL"))
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()

	faces := watermark.FaceFunc(watermark.BasicFace)
	if *fontF != "" {
		if faces, err = watermark.LoadTTF(*fontF); err != nil {
			logger.Fatal("load font", zap.Error(err))
		}
	}

	p := watermark.Processor{
		Dir:   *dir,
		Faces: faces,
		Opts:  watermark.DefaultOptions(),
	}
	p.Opts.Text = *text

	if *top != "" && *bottom != "" {
		if p.Top, err = watermark.Open(*top); err != nil {
			logger.Fatal("open top background", zap.Error(err))
		}
		if p.Bottom, err = watermark.Open(*bottom); err != nil {
			logger.Fatal("open bottom background", zap.Error(err))
		}
	}

	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}
	p.Rand = rand.New(rand.NewSource(*seed))

	results, err := p.Run()
	for _, r := range results {
		logger.Info("card rendered",
			zap.String("source", r.Source),
			zap.String("small", r.Small),
			zap.String("large", r.Large),
			zap.String("in_situ", r.InSitu),
			zap.Int("stamps", r.Stamps),
		)
	}
	if err != nil {
		logger.Fatal("watermark", zap.Error(err), zap.Int64("seed", *seed))
	}
}
