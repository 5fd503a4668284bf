package ffmpeg

import (
	"context"
	"fmt"

	"github.com/keagan/keyclip/pkg/util"
)

// Concat merges the clips listed in a concat manifest into one file.
// Video streams are copied without re-encoding and audio is dropped
// entirely. Relative paths in the manifest resolve against the
// manifest's own directory.
func (e *Executor) Concat(ctx context.Context, manifestPath, outputPath string) error {
	if manifestPath == "" {
		return fmt.Errorf("manifest path is required")
	}
	if outputPath == "" {
		return fmt.Errorf("output path is required")
	}
	if !util.FileExists(manifestPath) {
		return fmt.Errorf("manifest not found: %s", manifestPath)
	}

	e.logger.Info().
		Str("manifest", manifestPath).
		Str("output", outputPath).
		Msg("concatenating clips")

	if err := e.run(ctx, concatArgs(manifestPath, outputPath)); err != nil {
		return fmt.Errorf("concatenation failed: %w", err)
	}

	e.logger.Info().Str("output", outputPath).Msg("concatenation complete")
	return nil
}

func concatArgs(manifestPath, outputPath string) []string {
	return []string{
		"-f", "concat",
		"-safe", "0",
		"-i", manifestPath,
		"-c:v", "copy",
		"-an",
		outputPath,
	}
}
