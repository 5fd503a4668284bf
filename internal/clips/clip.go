// Package clips defines the clip data model shared by the sampler and
// assembler stages, plus the on-disk naming convention for clip files.
package clips

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

const (
	// FilePrefix and FileExt form the clip naming convention. Sequence
	// numbers are zero-padded to three digits so lexicographic filename
	// order matches sequence order.
	FilePrefix = "clip_"
	FileExt    = ".mp4"
)

// Clip is one extracted sub-clip on disk.
type Clip struct {
	Path string
	// Sequence is 1-based and gapless over successfully produced clips.
	Sequence int
	// Duration is the measured length in seconds, 0 when not yet probed.
	Duration float64
}

// FileName returns the canonical clip filename for a sequence number,
// e.g. clip_001.mp4.
func FileName(sequence int) string {
	return fmt.Sprintf("%s%03d%s", FilePrefix, sequence, FileExt)
}

// ParseSequence extracts the sequence number from a clip filename.
// The second return value is false for names outside the convention.
func ParseSequence(name string) (int, bool) {
	if !strings.HasPrefix(name, FilePrefix) || !strings.HasSuffix(name, FileExt) {
		return 0, false
	}
	digits := strings.TrimSuffix(strings.TrimPrefix(name, FilePrefix), FileExt)
	if len(digits) == 0 {
		return 0, false
	}
	seq, err := strconv.Atoi(digits)
	if err != nil || seq < 1 {
		return 0, false
	}
	return seq, true
}

// ScanDir enumerates clip files in a directory, ordered by sequence number.
// Durations are left unset; callers probe them as needed.
func ScanDir(dir string) ([]Clip, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to scan clip directory: %w", err)
	}

	var found []Clip
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		seq, ok := ParseSequence(entry.Name())
		if !ok {
			continue
		}
		found = append(found, Clip{
			Path:     filepath.Join(dir, entry.Name()),
			Sequence: seq,
		})
	}

	sort.Slice(found, func(i, j int) bool {
		return found[i].Sequence < found[j].Sequence
	})
	return found, nil
}

// SortBySequence orders clips by ascending sequence number in place.
func SortBySequence(list []Clip) {
	sort.Slice(list, func(i, j int) bool {
		return list[i].Sequence < list[j].Sequence
	})
}

// TotalDuration sums the measured durations of a clip list.
func TotalDuration(list []Clip) float64 {
	var total float64
	for _, c := range list {
		total += c.Duration
	}
	return total
}
