package ffmpeg

import (
	"context"
	"fmt"

	"github.com/keagan/keyclip/pkg/util"
)

// frameQuality is the JPEG quantizer used for motion-analysis stills.
// Low fidelity is fine; the frames only feed a coarse comparison.
const frameQuality = 10

// ExtractFrame grabs a single frame as a JPEG still at the given offset.
func (e *Executor) ExtractFrame(ctx context.Context, source string, atSeconds float64, outputPath string) error {
	if source == "" {
		return fmt.Errorf("source path is required")
	}
	if outputPath == "" {
		return fmt.Errorf("output path is required")
	}

	e.logger.Debug().
		Str("source", source).
		Str("output", outputPath).
		Float64("at", atSeconds).
		Msg("extracting frame")

	if err := e.run(ctx, frameArgs(source, atSeconds, outputPath)); err != nil {
		return fmt.Errorf("frame extraction failed: %w", err)
	}
	return nil
}

func frameArgs(source string, atSeconds float64, outputPath string) []string {
	return []string{
		"-ss", util.FormatTimestamp(atSeconds),
		"-i", source,
		"-frames:v", "1",
		"-q:v", fmt.Sprintf("%d", frameQuality),
		outputPath,
	}
}
