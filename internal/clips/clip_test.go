package clips

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFileName(t *testing.T) {
	cases := []struct {
		seq  int
		want string
	}{
		{1, "clip_001.mp4"},
		{42, "clip_042.mp4"},
		{123, "clip_123.mp4"},
	}

	for _, tc := range cases {
		if got := FileName(tc.seq); got != tc.want {
			t.Errorf("FileName(%d) = %q, want %q", tc.seq, got, tc.want)
		}
	}
}

func TestParseSequence(t *testing.T) {
	cases := []struct {
		name string
		seq  int
		ok   bool
	}{
		{"clip_001.mp4", 1, true},
		{"clip_042.mp4", 42, true},
		{"clip_1000.mp4", 1000, true},
		{"clip_000.mp4", 0, false},
		{"clip_abc.mp4", 0, false},
		{"clip_.mp4", 0, false},
		{"other_001.mp4", 0, false},
		{"clip_001.txt", 0, false},
		{"filelist.txt", 0, false},
	}

	for _, tc := range cases {
		seq, ok := ParseSequence(tc.name)
		if ok != tc.ok || seq != tc.seq {
			t.Errorf("ParseSequence(%q) = (%d, %v), want (%d, %v)", tc.name, seq, ok, tc.seq, tc.ok)
		}
	}
}

func TestScanDir(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"clip_003.mp4", "clip_001.mp4", "clip_010.mp4", "filelist.txt", "notes.md", "clip_xyz.mp4"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
	}

	found, err := ScanDir(dir)
	if err != nil {
		t.Fatalf("ScanDir failed: %v", err)
	}

	wantSeqs := []int{1, 3, 10}
	if len(found) != len(wantSeqs) {
		t.Fatalf("expected %d clips, got %d", len(wantSeqs), len(found))
	}
	for i, c := range found {
		if c.Sequence != wantSeqs[i] {
			t.Errorf("clip %d: sequence %d, want %d", i, c.Sequence, wantSeqs[i])
		}
		if c.Path != filepath.Join(dir, FileName(wantSeqs[i])) {
			t.Errorf("clip %d: unexpected path %q", i, c.Path)
		}
	}
}

func TestScanDirMissing(t *testing.T) {
	if _, err := ScanDir(filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Error("expected error for missing directory")
	}
}

func TestSortBySequence(t *testing.T) {
	list := []Clip{{Sequence: 3}, {Sequence: 1}, {Sequence: 2}}
	SortBySequence(list)
	for i, c := range list {
		if c.Sequence != i+1 {
			t.Fatalf("position %d holds sequence %d", i, c.Sequence)
		}
	}
}

func TestTotalDuration(t *testing.T) {
	list := []Clip{{Duration: 2.1}, {Duration: 2.3}, {Duration: 1.9}}
	if got := TotalDuration(list); got < 6.299 || got > 6.301 {
		t.Errorf("TotalDuration = %f, want 6.3", got)
	}
	if got := TotalDuration(nil); got != 0 {
		t.Errorf("TotalDuration(nil) = %f, want 0", got)
	}
}
