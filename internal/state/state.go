package state

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/victor-takai/ff12-augment-tool/internal/fs"
)

const (
	stateDirName  = ".augedit"
	stateFileName = "state.json"
	TrashDir      = "trash"
)

const (
	ActionCreate = "create"
	ActionModify = "modify"
)

// MaxHistory is the number of runs kept in the journal. Older runs and
// their trash are dropped on Commit.
const MaxHistory = 10

// ErrNoHistory is returned by Undo when no run is recorded.
var ErrNoHistory = errors.New("no run to undo")

// Operation is one file written by a run, relative to the output root.
type Operation struct {
	Path        string `json:"path"`
	Action      string `json:"action"`
	ContentHash string `json:"hash"` // SHA256 of the content written
}

// HistoryEntry represents one complete run of the tool.
type HistoryEntry struct {
	ID         string      `json:"id"`
	Timestamp  int64       `json:"timestamp"`
	Mode       string      `json:"mode"`
	Augments   []string    `json:"augments"`
	Operations []Operation `json:"operations"`
}

// State represents the entire state file.
type State struct {
	History []HistoryEntry `json:"history"`
}

// Manager handles the run journal kept inside an output tree.
type Manager struct {
	root      string
	statePath string
	state     *State
	StateDir  string
}

// New creates and loads the journal of the output tree at root.
func New(root string) (*Manager, error) {
	stateDir := filepath.Join(root, stateDirName)
	if err := os.MkdirAll(stateDir, 0755); err != nil {
		return nil, fmt.Errorf("could not create state directory: %w", err)
	}
	m := &Manager{
		root:      root,
		statePath: filepath.Join(stateDir, stateFileName),
		StateDir:  stateDir,
	}
	if err := m.load(); err != nil {
		return nil, err
	}
	return m, nil
}

// Dir returns the state directory of the output tree at root.
func Dir(root string) string {
	return filepath.Join(root, stateDirName)
}

func (m *Manager) load() error {
	data, err := os.ReadFile(m.statePath)
	if err != nil {
		if os.IsNotExist(err) {
			m.state = &State{History: []HistoryEntry{}}
			return nil
		}
		return fmt.Errorf("could not read state file: %w", err)
	}
	var st State
	if err := json.Unmarshal(data, &st); err != nil {
		return fmt.Errorf("invalid state file %s: %w", m.statePath, err)
	}
	if st.History == nil {
		st.History = []HistoryEntry{}
	}
	m.state = &st
	return nil
}

func (m *Manager) save() error {
	data, err := json.MarshalIndent(m.state, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(m.statePath, data, 0644); err != nil {
		return fmt.Errorf("could not write state file: %w", err)
	}
	return nil
}

// History returns the recorded runs, oldest first.
func (m *Manager) History() []HistoryEntry {
	return m.state.History
}

// Last returns the most recent run.
func (m *Manager) Last() (HistoryEntry, bool) {
	if len(m.state.History) == 0 {
		return HistoryEntry{}, false
	}
	return m.state.History[len(m.state.History)-1], true
}

// Run records the files written by one invocation. Its methods are safe
// for concurrent use.
type Run struct {
	m        *Manager
	id       string
	mode     string
	augments []string

	mu  sync.Mutex
	ops []Operation
}

// Begin starts recording a run.
func (m *Manager) Begin(mode string, augments []string) *Run {
	return &Run{
		m:        m,
		id:       uuid.NewString(),
		mode:     mode,
		augments: augments,
	}
}

// ID returns the run id.
func (r *Run) ID() string {
	return r.id
}

// stash moves an existing output file into this run's trash so Undo can
// restore it. It reports the action the following write amounts to.
func (r *Run) stash(rel string) (string, error) {
	dst := filepath.Join(r.m.root, rel)
	if !fs.Exists(dst) {
		return ActionCreate, nil
	}
	trashPath := filepath.Join(r.m.StateDir, TrashDir, r.id, rel)
	if err := os.MkdirAll(filepath.Dir(trashPath), 0755); err != nil {
		return "", fmt.Errorf("could not create trash directory: %w", err)
	}
	if err := os.Rename(dst, trashPath); err != nil {
		return "", fmt.Errorf("could not move %s to trash: %w", rel, err)
	}
	return ActionModify, nil
}

func (r *Run) record(rel, action, hash string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ops = append(r.ops, Operation{Path: rel, Action: action, ContentHash: hash})
}

// Write stores data at rel under the output root.
func (r *Run) Write(rel string, data []byte) error {
	action, err := r.stash(rel)
	if err != nil {
		return err
	}
	if err := fs.WriteFile(filepath.Join(r.m.root, rel), data); err != nil {
		return err
	}
	r.record(rel, action, fs.HashBytes(data))
	return nil
}

// Copy copies src to rel under the output root.
func (r *Run) Copy(rel, src string) error {
	action, err := r.stash(rel)
	if err != nil {
		return err
	}
	dst := filepath.Join(r.m.root, rel)
	if err := fs.CopyFile(src, dst); err != nil {
		return err
	}
	hash, err := fs.GetFileSHA256(dst)
	if err != nil {
		// Undo will refuse to touch a file without a matching hash.
		hash = ""
	}
	r.record(rel, action, hash)
	return nil
}

// Commit appends the run to the journal.
func (r *Run) Commit() error {
	r.mu.Lock()
	ops := make([]Operation, len(r.ops))
	copy(ops, r.ops)
	r.mu.Unlock()

	sort.Slice(ops, func(i, j int) bool { return ops[i].Path < ops[j].Path })
	r.m.state.History = append(r.m.state.History, HistoryEntry{
		ID:         r.id,
		Timestamp:  time.Now().UTC().Unix(),
		Mode:       r.mode,
		Augments:   r.augments,
		Operations: ops,
	})
	r.m.prune()
	return r.m.save()
}

// prune drops the runs beyond MaxHistory, oldest first, with their trash.
func (m *Manager) prune() {
	extra := len(m.state.History) - MaxHistory
	if extra <= 0 {
		return
	}
	for _, old := range m.state.History[:extra] {
		os.RemoveAll(filepath.Join(m.StateDir, TrashDir, old.ID))
	}
	m.state.History = append([]HistoryEntry(nil), m.state.History[extra:]...)
}

// Undo reverts the latest run: files it created are removed and files it
// overwrote are restored from trash. Files edited since the run are left
// alone and reported as failed.
func (m *Manager) Undo() (entry HistoryEntry, undone, failed []string, err error) {
	entry, ok := m.Last()
	if !ok {
		return HistoryEntry{}, nil, nil, ErrNoHistory
	}

	trashRoot := filepath.Join(m.StateDir, TrashDir, entry.ID)
	for _, op := range entry.Operations {
		path := filepath.Join(m.root, op.Path)
		hash, herr := fs.GetFileSHA256(path)
		if herr != nil || hash != op.ContentHash {
			failed = append(failed, op.Path)
			continue
		}

		switch op.Action {
		case ActionCreate:
			if err := os.Remove(path); err != nil {
				failed = append(failed, op.Path)
				continue
			}
		case ActionModify:
			if err := os.Rename(filepath.Join(trashRoot, op.Path), path); err != nil {
				failed = append(failed, op.Path)
				continue
			}
		default:
			failed = append(failed, op.Path)
			continue
		}
		undone = append(undone, op.Path)
	}

	if len(failed) == 0 {
		os.RemoveAll(trashRoot)
	}
	m.state.History = m.state.History[:len(m.state.History)-1]
	return entry, undone, failed, m.save()
}
