package motion

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"os"
	"testing"

	"github.com/rs/zerolog"
)

// imageFrames serves pre-encoded frame payloads for successive calls.
type imageFrames struct {
	payloads [][]byte
	calls    int
}

func (f *imageFrames) ExtractFrame(ctx context.Context, source string, atSeconds float64, outputPath string) error {
	payload := f.payloads[len(f.payloads)-1]
	if f.calls < len(f.payloads) {
		payload = f.payloads[f.calls]
	}
	f.calls++
	return os.WriteFile(outputPath, payload, 0644)
}

func encodeUniform(t *testing.T, c color.Color) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 32, 32))
	for y := 0; y < 32; y++ {
		for x := 0; x < 32; x++ {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, nil); err != nil {
		t.Fatalf("jpeg encode failed: %v", err)
	}
	return buf.Bytes()
}

func newPixelDiff(t *testing.T, frames FrameExtractor) *PixelDiffAnalyzer {
	t.Helper()
	a := NewPixelDiffAnalyzer(zerolog.Nop(), frames)
	a.tempDir = t.TempDir()
	return a
}

func TestPixelDiffIdenticalFrames(t *testing.T) {
	black := encodeUniform(t, color.Black)
	a := newPixelDiff(t, &imageFrames{payloads: [][]byte{black, black}})

	score, err := a.Classify(context.Background(), "video.mp4", 10)
	if err != nil {
		t.Fatalf("Classify failed: %v", err)
	}
	if score != ScoreStatic {
		t.Errorf("score = %d, want %d for identical frames", score, ScoreStatic)
	}
}

func TestPixelDiffOppositeFrames(t *testing.T) {
	a := newPixelDiff(t, &imageFrames{payloads: [][]byte{
		encodeUniform(t, color.Black),
		encodeUniform(t, color.White),
	}})

	score, err := a.Classify(context.Background(), "video.mp4", 10)
	if err != nil {
		t.Fatalf("Classify failed: %v", err)
	}
	if score != ScoreStrong {
		t.Errorf("score = %d, want %d for black vs white", score, ScoreStrong)
	}
}

func TestPixelDiffDecodeFailure(t *testing.T) {
	a := newPixelDiff(t, &imageFrames{payloads: [][]byte{
		[]byte("not a jpeg"),
		[]byte("also not a jpeg"),
	}})

	score, err := a.Classify(context.Background(), "video.mp4", 10)
	if err != nil {
		t.Fatalf("Classify should absorb decode failures, got %v", err)
	}
	if score != ScoreWeak {
		t.Errorf("score = %d, want fail-open default %d", score, ScoreWeak)
	}
}

func TestPixelDiffCleansTempFrames(t *testing.T) {
	black := encodeUniform(t, color.Black)
	a := newPixelDiff(t, &imageFrames{payloads: [][]byte{black, black}})

	if _, err := a.Classify(context.Background(), "video.mp4", 10); err != nil {
		t.Fatalf("Classify failed: %v", err)
	}

	entries, err := os.ReadDir(a.tempDir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("temp frames left behind: %d entries", len(entries))
	}
}
