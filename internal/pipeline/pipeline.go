// Package pipeline wires the sampler and assembler stages into one run:
// probe, sample, assemble, clean up, exactly once, fully sequential.
package pipeline

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"
	"github.com/rs/zerolog"

	"github.com/keagan/keyclip/internal/assembler"
	"github.com/keagan/keyclip/internal/clips"
	"github.com/keagan/keyclip/internal/config"
	"github.com/keagan/keyclip/internal/ffmpeg"
	"github.com/keagan/keyclip/internal/motion"
	"github.com/keagan/keyclip/internal/sampler"
	"github.com/keagan/keyclip/internal/staging"
	"github.com/keagan/keyclip/pkg/util"
)

const (
	// WorkDirName is the per-run working directory under the output dir.
	WorkDirName = "temp_clips"
	// OutputSuffix is appended to the source stem for the final video.
	OutputSuffix = "_keyframe_highlights.mp4"
)

// Pipeline orchestrates the clip extraction workflow.
type Pipeline struct {
	logger zerolog.Logger
	media  MediaTool
}

// New builds a pipeline backed by the configured ffmpeg binaries.
func New(logger zerolog.Logger, cfg *config.Config) (*Pipeline, error) {
	media, err := ffmpeg.New(logger, ffmpeg.Config{
		FFmpegPath:  cfg.FFmpeg.BinaryPath,
		FFprobePath: cfg.FFmpeg.ProbePath,
		Threads:     cfg.FFmpeg.Threads,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize ffmpeg: %w", err)
	}
	return &Pipeline{
		logger: logger.With().Str("component", "pipeline").Logger(),
		media:  media,
	}, nil
}

// Run executes one full sample-and-assemble pass over a source video.
func (p *Pipeline) Run(ctx context.Context, opts Options) (*Summary, error) {
	started := time.Now()

	if opts.Source == "" {
		return nil, fmt.Errorf("source path cannot be empty")
	}
	if !util.FileExists(opts.Source) {
		return nil, fmt.Errorf("source video not found: %s", opts.Source)
	}

	outputDir := opts.OutputDir
	if outputDir == "" {
		outputDir = "."
	}
	if err := util.EnsureDir(outputDir); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	workDir := filepath.Join(outputDir, WorkDirName)
	stem := strings.TrimSuffix(filepath.Base(opts.Source), filepath.Ext(opts.Source))
	outputPath := filepath.Join(outputDir, stem+OutputSuffix)

	// The working directory belongs to one run at a time.
	lock := flock.New(workDir + ".lock")
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("failed to acquire run lock: %w", err)
	}
	if !locked {
		return nil, fmt.Errorf("another run owns %s", workDir)
	}
	defer func() { _ = lock.Unlock() }()

	if err := staging.Reset(workDir); err != nil {
		return nil, err
	}
	if !opts.KeepTemp {
		// Leave nothing behind when a run aborts mid-way. On success the
		// regular cleanup below has already emptied the directory.
		defer func() { _ = staging.Clean(p.logger, workDir, true, nil) }()
	}

	duration, err := p.media.ProbeDuration(ctx, opts.Source)
	if err != nil {
		return nil, fmt.Errorf("failed to probe source duration: %w", err)
	}

	planned := sampler.Offsets(duration, opts.Stride)
	p.logger.Info().
		Str("source", opts.Source).
		Str("length", util.FormatSeconds(duration)).
		Int("stride", opts.Stride).
		Int("estimated_clips", len(planned)).
		Msg("starting run")

	smp, err := sampler.New(p.logger, p.media, p.buildAnalyzer(opts), sampler.Config{
		StrideSeconds: opts.Stride,
		WorkDir:       workDir,
	})
	if err != nil {
		return nil, err
	}

	produced, err := smp.Sample(ctx, opts.Source)
	if err != nil {
		return nil, fmt.Errorf("extraction failed: %w", err)
	}

	asm := assembler.New(p.logger, p.media)
	result, err := asm.Assemble(ctx, produced, workDir, outputPath)
	if err != nil {
		if result != nil {
			// The partition still drives cleanup on assembly failure.
			_ = staging.Clean(p.logger, workDir, !opts.KeepTemp, result.Discarded)
		}
		return nil, err
	}

	if err := staging.Clean(p.logger, workDir, !opts.KeepTemp, result.Discarded); err != nil {
		p.logger.Warn().Err(err).Msg("cleanup failed")
	}

	summary := &Summary{
		Source:            opts.Source,
		SourceDuration:    duration,
		OffsetsPlanned:    len(planned),
		ClipsProduced:     len(produced),
		ValidClips:        len(result.Valid),
		DiscardedClips:    len(result.Discarded),
		ValidDuration:     clips.TotalDuration(result.Valid),
		DiscardedDuration: clips.TotalDuration(result.Discarded),
		OutputPath:        result.OutputPath,
		OutputDuration:    result.OutputDuration,
		Elapsed:           time.Since(started),
	}

	p.logger.Info().
		Int("valid", summary.ValidClips).
		Int("discarded", summary.DiscardedClips).
		Str("output", summary.OutputPath).
		Dur("elapsed", summary.Elapsed).
		Msg("run complete")
	return summary, nil
}

// buildAnalyzer returns the configured motion classifier, or nil when
// motion filtering is disabled.
func (p *Pipeline) buildAnalyzer(opts Options) motion.Analyzer {
	if !opts.MotionFilter {
		return nil
	}
	if opts.Analyzer == config.AnalyzerPixelDiff {
		return motion.NewPixelDiffAnalyzer(p.logger, p.media)
	}
	return motion.NewSizeDeltaAnalyzer(p.logger, p.media)
}
