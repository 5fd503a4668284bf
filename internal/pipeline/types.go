package pipeline

import (
	"context"
	"time"
)

// Options configures a single pipeline run.
type Options struct {
	// Source is the video to sample. Must exist and be probe-able.
	Source string
	// OutputDir receives the final video and the temp_clips working
	// directory. Empty means the current directory.
	OutputDir string
	// Stride is the gap in seconds between sample offsets.
	Stride int
	// MotionFilter skips offsets classified as fully static.
	MotionFilter bool
	// Analyzer selects the motion classifier when MotionFilter is set.
	Analyzer string
	// KeepTemp preserves the working directory (valid clips only)
	// instead of deleting it.
	KeepTemp bool
}

// Summary reports what one run did.
type Summary struct {
	Source         string
	SourceDuration float64
	OffsetsPlanned int

	ClipsProduced  int
	ValidClips     int
	DiscardedClips int

	ValidDuration     float64
	DiscardedDuration float64

	OutputPath     string
	OutputDuration float64

	Elapsed time.Duration
}

// MediaTool is everything the pipeline needs from the external media
// processor. *ffmpeg.Executor satisfies it.
type MediaTool interface {
	ProbeDuration(ctx context.Context, path string) (float64, error)
	ExtractSubclip(ctx context.Context, source string, startSeconds, lengthSeconds float64, outputPath string) error
	ExtractFrame(ctx context.Context, source string, atSeconds float64, outputPath string) error
	Concat(ctx context.Context, manifestPath, outputPath string) error
}
