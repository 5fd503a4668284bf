// Package sampler walks a source video's timeline at a fixed stride and
// produces short keyframe-aligned clips for each retained offset.
package sampler

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/rs/zerolog"

	"github.com/keagan/keyclip/internal/clips"
	"github.com/keagan/keyclip/internal/motion"
)

// ValidStrides enumerates the supported gaps between sample offsets.
var ValidStrides = []int{10, 15, 20, 30}

const (
	// DefaultClipLength is the requested sub-clip length in seconds.
	// Stream copy cuts at the next keyframe, so produced clips usually
	// run 2-4s regardless of the request.
	DefaultClipLength = 2.0

	// minClipBytes is a sanity floor, not a precise threshold: outputs
	// smaller than this are treated as failed extractions.
	minClipBytes = 1000
)

// ErrNoClips is returned when sampling finishes without a single clip.
var ErrNoClips = errors.New("no clips were produced")

// MediaTool is the slice of the external media tool the sampler drives.
type MediaTool interface {
	ProbeDuration(ctx context.Context, path string) (float64, error)
	ExtractSubclip(ctx context.Context, source string, startSeconds, lengthSeconds float64, outputPath string) error
}

// Config holds sampling parameters.
type Config struct {
	StrideSeconds     int
	ClipLengthSeconds float64
	WorkDir           string
}

// Sampler produces an ordered clip sequence from one source video.
type Sampler struct {
	logger zerolog.Logger
	media  MediaTool
	motion motion.Analyzer // nil disables motion filtering
	cfg    Config
}

// New validates the configuration and builds a sampler. A nil analyzer
// disables motion filtering.
func New(logger zerolog.Logger, media MediaTool, analyzer motion.Analyzer, cfg Config) (*Sampler, error) {
	if media == nil {
		return nil, fmt.Errorf("media tool is required")
	}
	if !slices.Contains(ValidStrides, cfg.StrideSeconds) {
		return nil, fmt.Errorf("invalid stride %ds: must be one of %v", cfg.StrideSeconds, ValidStrides)
	}
	if cfg.WorkDir == "" {
		return nil, fmt.Errorf("working directory is required")
	}
	if cfg.ClipLengthSeconds <= 0 {
		cfg.ClipLengthSeconds = DefaultClipLength
	}

	return &Sampler{
		logger: logger.With().Str("component", "sampler").Logger(),
		media:  media,
		motion: analyzer,
		cfg:    cfg,
	}, nil
}

// Offsets returns the sample positions for a duration and stride:
// 0, stride, 2*stride, ... strictly below the duration.
func Offsets(durationSeconds float64, strideSeconds int) []float64 {
	if durationSeconds <= 0 || strideSeconds <= 0 {
		return nil
	}
	var offsets []float64
	for offset := 0.0; offset < durationSeconds; offset += float64(strideSeconds) {
		offsets = append(offsets, offset)
	}
	return offsets
}

// Sample probes the source and extracts one clip per retained offset.
// Individual offset failures are absorbed: the offset is skipped and
// sampling continues. ErrNoClips is returned when nothing survives.
func (s *Sampler) Sample(ctx context.Context, source string) ([]clips.Clip, error) {
	duration, err := s.media.ProbeDuration(ctx, source)
	if err != nil {
		return nil, fmt.Errorf("failed to probe source duration: %w", err)
	}

	offsets := Offsets(duration, s.cfg.StrideSeconds)
	s.logger.Info().
		Str("source", source).
		Float64("duration", duration).
		Int("stride", s.cfg.StrideSeconds).
		Int("offsets", len(offsets)).
		Bool("motion_filter", s.motion != nil).
		Msg("sampling source")

	var produced []clips.Clip
	for _, offset := range offsets {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if s.motion != nil {
			score, err := s.motion.Classify(ctx, source, offset)
			if err != nil {
				if ctx.Err() != nil {
					return nil, err
				}
				// Fail open: treat a broken classification as weak motion.
				score = motion.ScoreWeak
			}
			if score == motion.ScoreStatic {
				s.logger.Debug().Float64("offset", offset).Msg("static scene, skipping offset")
				continue
			}
		}

		if clip, ok := s.extractAt(ctx, source, offset, len(produced)+1); ok {
			produced = append(produced, clip)
		}
	}

	s.logger.Info().Int("clips", len(produced)).Msg("sampling complete")
	if len(produced) == 0 {
		return nil, ErrNoClips
	}
	return produced, nil
}

// extractAt attempts one sub-clip extraction. Any failure is logged and
// absorbed; the sequence number is only consumed on success, so emitted
// clips stay gapless.
func (s *Sampler) extractAt(ctx context.Context, source string, offset float64, sequence int) (clips.Clip, bool) {
	outputPath := filepath.Join(s.cfg.WorkDir, clips.FileName(sequence))

	if err := s.media.ExtractSubclip(ctx, source, offset, s.cfg.ClipLengthSeconds, outputPath); err != nil {
		s.logger.Warn().Err(err).Float64("offset", offset).Msg("extraction failed, skipping offset")
		return clips.Clip{}, false
	}

	info, err := os.Stat(outputPath)
	if err != nil || info.Size() < minClipBytes {
		s.logger.Warn().Float64("offset", offset).Msg("extraction produced no usable file, skipping offset")
		_ = os.Remove(outputPath)
		return clips.Clip{}, false
	}

	measured, err := s.media.ProbeDuration(ctx, outputPath)
	if err != nil {
		s.logger.Warn().Err(err).Float64("offset", offset).Msg("produced clip is unmeasurable, discarding")
		_ = os.Remove(outputPath)
		return clips.Clip{}, false
	}

	s.logger.Debug().
		Int("sequence", sequence).
		Float64("offset", offset).
		Float64("measured", measured).
		Msg("clip produced")

	return clips.Clip{
		Path:     outputPath,
		Sequence: sequence,
		Duration: measured,
	}, true
}
