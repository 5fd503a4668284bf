// Package assembler validates and combines sampled clips into one muted
// highlight video.
package assembler

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/keagan/keyclip/internal/clips"
)

const (
	// DurationCap is the inclusive upper bound for a clip to make the
	// final cut. A clip measuring exactly 3.0s is kept.
	DurationCap = 3.0

	// ManifestName is the concat list written into the working directory.
	ManifestName = "filelist.txt"
)

var (
	// ErrNoClips is returned when there is nothing to assemble.
	ErrNoClips = errors.New("no clips found to combine")
	// ErrNoValidClips is returned when every clip exceeded the duration cap.
	ErrNoValidClips = errors.New("no clips at or under the duration cap")
)

// MediaTool is the slice of the external media tool the assembler drives.
type MediaTool interface {
	ProbeDuration(ctx context.Context, path string) (float64, error)
	Concat(ctx context.Context, manifestPath, outputPath string) error
}

// Result partitions the input clips and records the final artifact.
// Valid and Discarded are disjoint and exhaustive over the input.
type Result struct {
	Valid     []clips.Clip
	Discarded []clips.Clip
	// OutputPath is set when concatenation succeeded.
	OutputPath string
	// OutputDuration is the post-hoc measured length of the final video,
	// 0 when the best-effort probe failed.
	OutputDuration float64
}

// Assembler combines a clip sequence into a single muted output file.
type Assembler struct {
	logger zerolog.Logger
	media  MediaTool
}

// New creates an assembler.
func New(logger zerolog.Logger, media MediaTool) *Assembler {
	return &Assembler{
		logger: logger.With().Str("component", "assembler").Logger(),
		media:  media,
	}
}

// Assemble probes every clip, keeps those at or under the duration cap,
// and concatenates the keepers in sequence order into outputPath with the
// audio stripped. A partial Result is returned alongside ErrNoValidClips
// and concatenation errors so callers can still run cleanup.
func (a *Assembler) Assemble(ctx context.Context, list []clips.Clip, workDir, outputPath string) (*Result, error) {
	if len(list) == 0 {
		return nil, ErrNoClips
	}

	ordered := make([]clips.Clip, len(list))
	copy(ordered, list)
	clips.SortBySequence(ordered)

	result := &Result{}
	for _, clip := range ordered {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		measured, err := a.media.ProbeDuration(ctx, clip.Path)
		if err != nil {
			a.logger.Warn().Err(err).Str("clip", clip.Path).Msg("clip is unmeasurable, discarding")
			clip.Duration = 0
			result.Discarded = append(result.Discarded, clip)
			continue
		}

		clip.Duration = measured
		if measured <= DurationCap {
			result.Valid = append(result.Valid, clip)
		} else {
			a.logger.Debug().
				Str("clip", clip.Path).
				Float64("duration", measured).
				Msg("clip over duration cap, discarding")
			result.Discarded = append(result.Discarded, clip)
		}
	}

	a.logger.Info().
		Int("valid", len(result.Valid)).
		Int("discarded", len(result.Discarded)).
		Msg("clips classified")

	if len(result.Valid) == 0 {
		return result, ErrNoValidClips
	}

	manifestPath := filepath.Join(workDir, ManifestName)
	if err := WriteManifest(manifestPath, result.Valid); err != nil {
		return result, fmt.Errorf("failed to write manifest: %w", err)
	}

	if err := a.media.Concat(ctx, manifestPath, outputPath); err != nil {
		return result, fmt.Errorf("failed to combine clips: %w", err)
	}
	result.OutputPath = outputPath

	// Best effort: a failed post-hoc probe does not fail the run.
	if finalDuration, err := a.media.ProbeDuration(ctx, outputPath); err == nil {
		result.OutputDuration = finalDuration
	} else {
		a.logger.Warn().Err(err).Msg("could not measure final video")
	}

	a.logger.Info().
		Str("output", outputPath).
		Float64("duration", result.OutputDuration).
		Msg("final video created")
	return result, nil
}

// WriteManifest writes a concat demuxer file list: one single-quoted
// relative path per valid clip, in ascending sequence order, resolved
// against the manifest's own directory.
func WriteManifest(manifestPath string, valid []clips.Clip) error {
	baseDir := filepath.Dir(manifestPath)

	var b strings.Builder
	for _, clip := range valid {
		rel, err := filepath.Rel(baseDir, clip.Path)
		if err != nil {
			rel = clip.Path
		}
		fmt.Fprintf(&b, "file '%s'\n", rel)
	}

	return os.WriteFile(manifestPath, []byte(b.String()), 0644)
}
