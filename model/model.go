package model

import "time"

// FileResult counts what happened to one target file.
type FileResult struct {
	Path          string
	Blocks        int
	Unrecognized  int
	Malformed     int
	Units         int
	Edited        int
	Unchanged     int
	Canonicalized int
	Skipped       int
}

// Modified reports whether the output text differs from the input.
func (r FileResult) Modified() bool {
	return r.Edited > 0 || r.Canonicalized > 0
}

// Summary holds the results of an operation for display. Undo fills only
// the run fields, Undone and Failed.
type Summary struct {
	RunID    string
	Time     time.Time
	Mode     string
	Augments []string
	Files    []FileResult
	Copied   int
	LogPath  string
	Reports  []string
	DryRun   bool
	Undone   []string
	Failed   []string
	Message  string
}

// Totals sums the per-file counters.
func (s Summary) Totals() FileResult {
	var t FileResult
	for _, f := range s.Files {
		t.Blocks += f.Blocks
		t.Unrecognized += f.Unrecognized
		t.Malformed += f.Malformed
		t.Units += f.Units
		t.Edited += f.Edited
		t.Unchanged += f.Unchanged
		t.Canonicalized += f.Canonicalized
		t.Skipped += f.Skipped
	}
	return t
}
