// Package staging owns the transient working directory a pipeline run
// writes its clips into.
package staging

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/keagan/keyclip/internal/assembler"
	"github.com/keagan/keyclip/internal/clips"
)

// Reset removes any stale working directory from a previous run and
// creates a fresh one.
func Reset(workDir string) error {
	if workDir == "" {
		return fmt.Errorf("working directory is required")
	}
	if err := os.RemoveAll(workDir); err != nil {
		return fmt.Errorf("failed to clear working directory: %w", err)
	}
	if err := os.MkdirAll(workDir, 0755); err != nil {
		return fmt.Errorf("failed to create working directory: %w", err)
	}
	return nil
}

// Clean finalizes the working directory after a run. With deleteEverything
// the whole directory goes; otherwise only the discarded clips and the
// concat manifest are removed, leaving valid clips in place. Individual
// removal failures are logged, not fatal.
func Clean(logger zerolog.Logger, workDir string, deleteEverything bool, discarded []clips.Clip) error {
	log := logger.With().Str("component", "staging").Logger()

	if deleteEverything {
		if err := os.RemoveAll(workDir); err != nil {
			return fmt.Errorf("failed to delete working directory: %w", err)
		}
		log.Info().Str("dir", workDir).Msg("working directory deleted")
		return nil
	}

	for _, clip := range discarded {
		if err := os.Remove(clip.Path); err != nil && !os.IsNotExist(err) {
			log.Warn().Err(err).Str("clip", clip.Path).Msg("could not delete discarded clip")
			continue
		}
		log.Debug().Str("clip", clip.Path).Msg("discarded clip deleted")
	}

	manifest := filepath.Join(workDir, assembler.ManifestName)
	if err := os.Remove(manifest); err != nil && !os.IsNotExist(err) {
		log.Warn().Err(err).Str("manifest", manifest).Msg("could not delete manifest")
	}

	log.Info().Str("dir", workDir).Msg("working directory kept with valid clips")
	return nil
}
