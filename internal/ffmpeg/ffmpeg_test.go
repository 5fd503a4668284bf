package ffmpeg

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/rs/zerolog"
)

// skipIfNoFFmpeg skips the test if ffmpeg is not available
func skipIfNoFFmpeg(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		t.Skip("ffmpeg not found in PATH")
	}
	if _, err := exec.LookPath("ffprobe"); err != nil {
		t.Skip("ffprobe not found in PATH")
	}
}

func TestSubclipArgs(t *testing.T) {
	got := subclipArgs("in.mp4", 30, 2, "out.mp4")
	want := []string{
		"-ss", "30.000",
		"-i", "in.mp4",
		"-t", "2.000",
		"-c", "copy",
		"-avoid_negative_ts", "make_zero",
		"out.mp4",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("subclipArgs = %v, want %v", got, want)
	}
}

func TestFrameArgs(t *testing.T) {
	got := frameArgs("in.mp4", 12.5, "frame.jpg")
	want := []string{
		"-ss", "12.500",
		"-i", "in.mp4",
		"-frames:v", "1",
		"-q:v", "10",
		"frame.jpg",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("frameArgs = %v, want %v", got, want)
	}
}

func TestConcatArgs(t *testing.T) {
	got := concatArgs("filelist.txt", "out.mp4")
	want := []string{
		"-f", "concat",
		"-safe", "0",
		"-i", "filelist.txt",
		"-c:v", "copy",
		"-an",
		"out.mp4",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("concatArgs = %v, want %v", got, want)
	}
}

func TestNewMissingBinary(t *testing.T) {
	if _, err := New(zerolog.Nop(), Config{FFmpegPath: "definitely-not-ffmpeg-xyz"}); err == nil {
		t.Error("expected error for missing ffmpeg binary")
	}
}

func TestExecutorCreation(t *testing.T) {
	skipIfNoFFmpeg(t)

	e, err := New(zerolog.Nop(), Config{Threads: 2})
	if err != nil {
		t.Fatalf("failed to create executor: %v", err)
	}
	if e.ffmpegPath == "" || e.ffprobePath == "" {
		t.Error("binary paths not resolved")
	}
}

func TestProbeDurationInvalidFile(t *testing.T) {
	skipIfNoFFmpeg(t)

	e, err := New(zerolog.Nop(), Config{})
	if err != nil {
		t.Fatalf("failed to create executor: %v", err)
	}

	ctx := context.Background()
	if _, err := e.ProbeDuration(ctx, "nonexistent.mp4"); err == nil {
		t.Error("ProbeDuration should fail for non-existent file")
	}

	invalidPath := filepath.Join(t.TempDir(), "invalid.mp4")
	if err := os.WriteFile(invalidPath, []byte("not a video"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := e.ProbeDuration(ctx, invalidPath); err == nil {
		t.Error("ProbeDuration should fail for invalid video file")
	}
}

func TestExtractAndProbeRoundTrip(t *testing.T) {
	skipIfNoFFmpeg(t)

	dir := t.TempDir()
	source := filepath.Join(dir, "source.mp4")

	// Synthesize a short test pattern; skip when lavfi is unavailable.
	gen := exec.Command("ffmpeg", "-f", "lavfi", "-i", "testsrc=duration=5:size=320x240:rate=30",
		"-pix_fmt", "yuv420p", "-y", source)
	if err := gen.Run(); err != nil {
		t.Skipf("could not generate test video: %v", err)
	}

	e, err := New(zerolog.Nop(), Config{Threads: 2})
	if err != nil {
		t.Fatalf("failed to create executor: %v", err)
	}

	ctx := context.Background()
	duration, err := e.ProbeDuration(ctx, source)
	if err != nil {
		t.Fatalf("ProbeDuration failed: %v", err)
	}
	if duration < 4.5 || duration > 5.5 {
		t.Errorf("probed duration %f, want ~5", duration)
	}

	clip := filepath.Join(dir, "clip_001.mp4")
	if err := e.ExtractSubclip(ctx, source, 1, 2, clip); err != nil {
		t.Fatalf("ExtractSubclip failed: %v", err)
	}
	if _, err := os.Stat(clip); err != nil {
		t.Fatalf("clip not created: %v", err)
	}

	frame := filepath.Join(dir, "frame.jpg")
	if err := e.ExtractFrame(ctx, source, 1, frame); err != nil {
		t.Fatalf("ExtractFrame failed: %v", err)
	}
	if info, err := os.Stat(frame); err != nil || info.Size() == 0 {
		t.Error("frame not created")
	}
}
