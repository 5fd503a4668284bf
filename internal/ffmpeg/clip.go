package ffmpeg

import (
	"context"
	"fmt"

	"github.com/keagan/keyclip/pkg/util"
)

// ExtractSubclip cuts a short segment from a video using stream copy.
// Seeking happens before the input is opened, so ffmpeg snaps to the
// nearest keyframe and the produced clip may run longer than requested.
func (e *Executor) ExtractSubclip(ctx context.Context, source string, startSeconds, lengthSeconds float64, outputPath string) error {
	if source == "" {
		return fmt.Errorf("source path is required")
	}
	if outputPath == "" {
		return fmt.Errorf("output path is required")
	}
	if lengthSeconds <= 0 {
		return fmt.Errorf("invalid clip length %.3f", lengthSeconds)
	}

	e.logger.Debug().
		Str("source", source).
		Str("output", outputPath).
		Float64("start", startSeconds).
		Float64("length", lengthSeconds).
		Msg("extracting sub-clip")

	if err := e.run(ctx, subclipArgs(source, startSeconds, lengthSeconds, outputPath)); err != nil {
		return fmt.Errorf("sub-clip extraction failed: %w", err)
	}
	return nil
}

func subclipArgs(source string, startSeconds, lengthSeconds float64, outputPath string) []string {
	return []string{
		"-ss", util.FormatTimestamp(startSeconds),
		"-i", source,
		"-t", util.FormatTimestamp(lengthSeconds),
		"-c", "copy",
		"-avoid_negative_ts", "make_zero",
		outputPath,
	}
}
