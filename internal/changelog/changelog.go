// Package changelog accumulates the per-file record of edited and unchanged
// unit entries.
package changelog

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/victor-takai/ff12-augment-tool/internal/catalog"
)

// Snapshot is one side (before or after) of an ability call.
type Snapshot struct {
	Expression        string   `json:"btl_atel_set_ability"`
	FirstArgAugments  []string `json:"first_arg_augments"`
	SecondArgAugments []string `json:"second_arg_augments"`
}

// NewSnapshot resolves both values of expr against the catalogs.
func NewSnapshot(set *catalog.Set, expr string, first, second uint32) Snapshot {
	return Snapshot{
		Expression:        expr,
		FirstArgAugments:  set.First.Names(first),
		SecondArgAugments: set.Second.Names(second),
	}
}

// EditedEntry is a unit whose augments changed.
type EditedEntry struct {
	Unit     int      `json:"unit"`
	Unpacked Snapshot `json:"unpacked"`
	Edited   Snapshot `json:"edited"`
}

// UnchangedEntry is a unit the instructions left as it was.
type UnchangedEntry struct {
	Unit     int      `json:"unit"`
	Unpacked Snapshot `json:"unpacked"`
}

type EditedSection struct {
	Total   int           `json:"total"`
	Entries []EditedEntry `json:"entries"`
}

type UnchangedSection struct {
	Total   int              `json:"total"`
	Entries []UnchangedEntry `json:"entries"`
}

// Record is everything logged for one source file. TotalEntries counts
// qualifying entry blocks; Edited and Unchanged count units.
type Record struct {
	Path         string           `json:"path"`
	TotalEntries int              `json:"total_entries"`
	Edited       EditedSection    `json:"edited"`
	Unchanged    UnchangedSection `json:"unchanged"`
}

func newRecord(path string) *Record {
	return &Record{
		Path:      path,
		Edited:    EditedSection{Entries: []EditedEntry{}},
		Unchanged: UnchangedSection{Entries: []UnchangedEntry{}},
	}
}

// Log maps source paths to their records. It is not safe for concurrent
// use; parallel runs build one Log per file and Merge them.
type Log struct {
	records map[string]*Record
}

// New returns an empty log.
func New() *Log {
	return &Log{records: make(map[string]*Record)}
}

// Touch returns the record for path, creating it on first use.
func (l *Log) Touch(path string) *Record {
	if r, ok := l.records[path]; ok {
		return r
	}
	r := newRecord(path)
	l.records[path] = r
	return r
}

// Get returns the record for path, if any.
func (l *Log) Get(path string) (*Record, bool) {
	r, ok := l.records[path]
	return r, ok
}

// AddEdited appends a changed unit to path's record.
func (l *Log) AddEdited(path string, unit int, before, after Snapshot) {
	r := l.Touch(path)
	r.Edited.Entries = append(r.Edited.Entries, EditedEntry{Unit: unit, Unpacked: before, Edited: after})
	r.Edited.Total++
}

// AddUnchanged appends an unchanged unit to path's record.
func (l *Log) AddUnchanged(path string, unit int, before Snapshot) {
	r := l.Touch(path)
	r.Unchanged.Entries = append(r.Unchanged.Entries, UnchangedEntry{Unit: unit, Unpacked: before})
	r.Unchanged.Total++
}

// AddBlock counts one qualifying entry block of path. A block with several
// unit tags still counts once.
func (l *Log) AddBlock(path string) {
	l.Touch(path).TotalEntries++
}

// Merge folds other into l. Entries for a path already present are
// appended to the existing record.
func (l *Log) Merge(other *Log) {
	for path, src := range other.records {
		dst := l.Touch(path)
		dst.Edited.Entries = append(dst.Edited.Entries, src.Edited.Entries...)
		dst.Edited.Total += src.Edited.Total
		dst.Unchanged.Entries = append(dst.Unchanged.Entries, src.Unchanged.Entries...)
		dst.Unchanged.Total += src.Unchanged.Total
		dst.TotalEntries += src.TotalEntries
	}
}

// Len returns the number of records.
func (l *Log) Len() int {
	return len(l.records)
}

// Records returns the records sorted by path.
func (l *Log) Records() []*Record {
	out := make([]*Record, 0, len(l.records))
	for _, r := range l.records {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}

// MarshalJSON encodes the log as the sorted record array.
func (l *Log) MarshalJSON() ([]byte, error) {
	return json.Marshal(l.Records())
}

// Encode returns the log as the indented JSON written to log.json.
func (l *Log) Encode() ([]byte, error) {
	data, err := json.MarshalIndent(l.Records(), "", "    ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode log: %w", err)
	}
	return append(data, '\n'), nil
}
