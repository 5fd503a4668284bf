package motion

import (
	"context"
	"image"
	_ "image/jpeg"
	"math"
	"os"
	"time"

	"github.com/nfnt/resize"
	"github.com/rs/zerolog"
)

// diffRaster is the fixed edge length frames are downscaled to before
// comparison. Small enough to be cheap, large enough to catch motion.
const diffRaster = 64

// PixelDiffAnalyzer compares mean luminance between two downscaled stills.
// It is a sharper proxy than the encoded-size delta and keeps the same
// three-tier contract, including the fail-open default.
type PixelDiffAnalyzer struct {
	logger  zerolog.Logger
	frames  FrameExtractor
	tempDir string
	timeout time.Duration
}

// NewPixelDiffAnalyzer creates a pixel-difference motion analyzer.
func NewPixelDiffAnalyzer(logger zerolog.Logger, frames FrameExtractor) *PixelDiffAnalyzer {
	return &PixelDiffAnalyzer{
		logger:  logger.With().Str("analyzer", "pixel_diff").Logger(),
		frames:  frames,
		tempDir: os.TempDir(),
		timeout: DefaultFrameTimeout,
	}
}

// Classify scores motion at an offset by mean absolute luminance delta.
func (a *PixelDiffAnalyzer) Classify(ctx context.Context, source string, offsetSeconds float64) (Score, error) {
	first, second, cleanup, err := extractFramePair(ctx, a.frames, a.tempDir, a.timeout, source, offsetSeconds)
	defer cleanup()
	if err != nil {
		if ctx.Err() != nil {
			return ScoreStatic, ctx.Err()
		}
		a.logger.Debug().Err(err).Float64("offset", offsetSeconds).
			Msg("frame extraction failed, assuming motion")
		return ScoreWeak, nil
	}

	imgA, err := loadScaled(first)
	if err == nil {
		var imgB image.Image
		imgB, err = loadScaled(second)
		if err == nil {
			delta := luminanceDelta(imgA, imgB)
			score := classifyDelta(delta)
			a.logger.Debug().
				Float64("offset", offsetSeconds).
				Float64("pixel_delta", delta).
				Int("score", int(score)).
				Msg("motion classified")
			return score, nil
		}
	}

	a.logger.Debug().Err(err).Float64("offset", offsetSeconds).
		Msg("frame decode failed, assuming motion")
	return ScoreWeak, nil
}

func loadScaled(path string) (image.Image, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, err
	}
	return resize.Resize(diffRaster, diffRaster, img, resize.Bilinear), nil
}

// luminanceDelta returns the mean absolute luminance difference between two
// equally sized images, normalized to [0,1].
func luminanceDelta(a, b image.Image) float64 {
	bounds := a.Bounds()
	pixels := float64(bounds.Dx() * bounds.Dy())
	if pixels == 0 {
		return 0
	}

	var sum float64
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			sum += math.Abs(luminance(a, x, y) - luminance(b, x, y))
		}
	}
	return sum / pixels / 255.0
}

func luminance(img image.Image, x, y int) float64 {
	r, g, b, _ := img.At(x, y).RGBA()
	return 0.299*float64(r>>8) + 0.587*float64(g>>8) + 0.114*float64(b>>8)
}
