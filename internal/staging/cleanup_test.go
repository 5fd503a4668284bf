package staging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"

	"github.com/keagan/keyclip/internal/assembler"
	"github.com/keagan/keyclip/internal/clips"
)

func populate(t *testing.T, dir string, names ...string) {
	t.Helper()
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	for _, name := range names {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
	}
}

func TestResetClearsStaleRun(t *testing.T) {
	workDir := filepath.Join(t.TempDir(), "temp_clips")
	populate(t, workDir, "clip_001.mp4", "filelist.txt")

	if err := Reset(workDir); err != nil {
		t.Fatalf("Reset failed: %v", err)
	}

	entries, err := os.ReadDir(workDir)
	if err != nil {
		t.Fatalf("working directory missing after Reset: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("working directory not empty after Reset: %d entries", len(entries))
	}
}

func TestResetCreatesMissingDir(t *testing.T) {
	workDir := filepath.Join(t.TempDir(), "fresh", "temp_clips")
	if err := Reset(workDir); err != nil {
		t.Fatalf("Reset failed: %v", err)
	}
	if _, err := os.Stat(workDir); err != nil {
		t.Errorf("working directory not created: %v", err)
	}
}

func TestCleanDeleteEverything(t *testing.T) {
	workDir := filepath.Join(t.TempDir(), "temp_clips")
	populate(t, workDir, "clip_001.mp4", "clip_002.mp4", assembler.ManifestName)

	if err := Clean(zerolog.Nop(), workDir, true, nil); err != nil {
		t.Fatalf("Clean failed: %v", err)
	}
	if _, err := os.Stat(workDir); !os.IsNotExist(err) {
		t.Error("working directory should be gone")
	}
}

func TestCleanSelective(t *testing.T) {
	workDir := filepath.Join(t.TempDir(), "temp_clips")
	populate(t, workDir, "clip_001.mp4", "clip_002.mp4", "clip_003.mp4", assembler.ManifestName)

	discarded := []clips.Clip{
		{Path: filepath.Join(workDir, "clip_002.mp4"), Sequence: 2},
	}
	if err := Clean(zerolog.Nop(), workDir, false, discarded); err != nil {
		t.Fatalf("Clean failed: %v", err)
	}

	for _, kept := range []string{"clip_001.mp4", "clip_003.mp4"} {
		if _, err := os.Stat(filepath.Join(workDir, kept)); err != nil {
			t.Errorf("valid clip %s should remain: %v", kept, err)
		}
	}
	for _, gone := range []string{"clip_002.mp4", assembler.ManifestName} {
		if _, err := os.Stat(filepath.Join(workDir, gone)); !os.IsNotExist(err) {
			t.Errorf("%s should be deleted", gone)
		}
	}
}

func TestCleanSelectiveToleratesMissingFiles(t *testing.T) {
	workDir := filepath.Join(t.TempDir(), "temp_clips")
	populate(t, workDir, "clip_001.mp4")

	discarded := []clips.Clip{
		{Path: filepath.Join(workDir, "clip_009.mp4"), Sequence: 9},
	}
	if err := Clean(zerolog.Nop(), workDir, false, discarded); err != nil {
		t.Fatalf("Clean must tolerate already-missing files: %v", err)
	}
}
