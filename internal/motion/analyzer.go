// Package motion classifies sampled offsets as static, weakly moving, or
// strongly moving. The classification is a coarse proxy, not a perceptual
// motion metric: it exists only to decide whether an offset is worth a clip.
package motion

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/keagan/keyclip/pkg/util"
)

// Score is a three-way motion classification for a sampled offset.
type Score int

const (
	// ScoreStatic marks an offset with no detectable change; samplers skip it.
	ScoreStatic Score = 0
	// ScoreWeak marks mild change. It is also the fail-open default when
	// classification itself fails, so content is kept rather than dropped.
	ScoreWeak Score = 1
	// ScoreStrong marks clear change.
	ScoreStrong Score = 2
)

// frameGapSeconds separates the two compared frames.
const frameGapSeconds = 1.0

// DefaultFrameTimeout bounds each single-frame extraction so a hung
// subprocess cannot stall the whole run.
const DefaultFrameTimeout = 10 * time.Second

const (
	strongThreshold = 0.10
	weakThreshold   = 0.05
)

// Analyzer classifies motion at one offset of a source video.
type Analyzer interface {
	Classify(ctx context.Context, source string, offsetSeconds float64) (Score, error)
}

// FrameExtractor is the slice of the media tool the analyzers need.
type FrameExtractor interface {
	ExtractFrame(ctx context.Context, source string, atSeconds float64, outputPath string) error
}

// classifyDelta maps a relative difference in [0,1] onto the three tiers.
func classifyDelta(delta float64) Score {
	switch {
	case delta > strongThreshold:
		return ScoreStrong
	case delta > weakThreshold:
		return ScoreWeak
	default:
		return ScoreStatic
	}
}

// SizeDeltaAnalyzer compares the encoded sizes of two stills taken one
// second apart. Similar frames compress to similar sizes, so a large
// relative size gap is taken as motion. Crude, but cheap and good enough
// to separate fully static scenes from everything else.
type SizeDeltaAnalyzer struct {
	logger  zerolog.Logger
	frames  FrameExtractor
	tempDir string
	timeout time.Duration
}

// NewSizeDeltaAnalyzer creates the default frame-size-delta analyzer.
func NewSizeDeltaAnalyzer(logger zerolog.Logger, frames FrameExtractor) *SizeDeltaAnalyzer {
	return &SizeDeltaAnalyzer{
		logger:  logger.With().Str("analyzer", "size_delta").Logger(),
		frames:  frames,
		tempDir: os.TempDir(),
		timeout: DefaultFrameTimeout,
	}
}

// Classify scores motion at an offset. Frame extraction failures yield
// ScoreWeak rather than an error; only context cancellation propagates.
func (a *SizeDeltaAnalyzer) Classify(ctx context.Context, source string, offsetSeconds float64) (Score, error) {
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

	sizeA := util.FileSize(first)
	sizeB := util.FileSize(second)
	base := max(sizeA, sizeB, 1)
	delta := float64(abs64(sizeA-sizeB)) / float64(base)

	score := classifyDelta(delta)
	a.logger.Debug().
		Float64("offset", offsetSeconds).
		Float64("size_delta", delta).
		Int("score", int(score)).
		Msg("motion classified")
	return score, nil
}

// extractFramePair grabs stills at offset and offset+1s into uniquely named
// temp files. The returned cleanup removes both files on every exit path.
func extractFramePair(ctx context.Context, frames FrameExtractor, tempDir string, timeout time.Duration, source string, offsetSeconds float64) (first, second string, cleanup func(), err error) {
	first = filepath.Join(tempDir, fmt.Sprintf("keyclip_frame_%s.jpg", uuid.NewString()))
	second = filepath.Join(tempDir, fmt.Sprintf("keyclip_frame_%s.jpg", uuid.NewString()))
	cleanup = func() { util.CleanupFiles(first, second) }

	frameCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err = frames.ExtractFrame(frameCtx, source, offsetSeconds, first); err != nil {
		return first, second, cleanup, fmt.Errorf("first frame: %w", err)
	}

	frameCtx2, cancel2 := context.WithTimeout(ctx, timeout)
	defer cancel2()
	if err = frames.ExtractFrame(frameCtx2, source, offsetSeconds+frameGapSeconds, second); err != nil {
		return first, second, cleanup, fmt.Errorf("second frame: %w", err)
	}

	return first, second, cleanup, nil
}

func abs64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
