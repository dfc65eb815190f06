package augedit

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/victor-takai/ff12-augment-tool/cli"
	"github.com/victor-takai/ff12-augment-tool/internal/catalog"
	"github.com/victor-takai/ff12-augment-tool/internal/changelog"
	"github.com/victor-takai/ff12-augment-tool/internal/editor"
	"github.com/victor-takai/ff12-augment-tool/internal/engine"
	"github.com/victor-takai/ff12-augment-tool/internal/fs"
	"github.com/victor-takai/ff12-augment-tool/internal/logging"
	"github.com/victor-takai/ff12-augment-tool/internal/parser"
	"github.com/victor-takai/ff12-augment-tool/internal/report"
	"github.com/victor-takai/ff12-augment-tool/internal/source"
	"github.com/victor-takai/ff12-augment-tool/internal/state"
	"github.com/victor-takai/ff12-augment-tool/internal/watch"
	"github.com/victor-takai/ff12-augment-tool/model"
)

// Files written at the root of the output tree next to the edited scripts.
const (
	LogFile        = "log.json"
	ReportMarkdown = "report.md"
	ReportHTML     = "report.html"
)

// ProgressUpdate is a callback function to report progress.
type ProgressUpdate func(current, total int)

// App orchestrates the entire application logic.
type App struct {
	cfg              *cli.Config
	catalogs         *catalog.Set
	policy           parser.SignPolicy
	sourceProvider   *source.SourceProvider
	logger           *zap.Logger
	progressCallback ProgressUpdate

	// instructions are resolved once and reused by every run of a watch.
	instructions *editor.Instructions
}

// DetailedError enhances a standard error with a stack trace.
type DetailedError struct {
	Err   error
	Stack []byte
}

func (e *DetailedError) Error() string {
	return e.Err.Error()
}

func (e *DetailedError) Unwrap() error {
	return e.Err
}

// New creates a new App instance.
func New(cfg *cli.Config) (*App, error) {
	catalogs := catalog.Default()
	if cfg.Catalog != "" {
		c, err := catalog.LoadFile(cfg.Catalog)
		if err != nil {
			return nil, fmt.Errorf("failed to load catalog: %w", err)
		}
		catalogs = c
	}
	policy, err := parser.ParseSignPolicy(cfg.Sign)
	if err != nil {
		return nil, err
	}
	jobs := cfg.Jobs
	if jobs < 1 {
		jobs = 1
	}
	cfg.Jobs = jobs

	return &App{
		cfg:            cfg,
		catalogs:       catalogs,
		policy:         policy,
		sourceProvider: source.New(),
		logger:         logging.New(cfg.Verbose, os.Stderr),
	}, nil
}

// Catalogs returns the augment catalogs names are resolved against.
func (a *App) Catalogs() *catalog.Set {
	return a.catalogs
}

// SetProgressCallback sets a function to be called for progress updates.
func (a *App) SetProgressCallback(cb ProgressUpdate) {
	a.progressCallback = cb
}

// SetLogger replaces the diagnostics logger.
func (a *App) SetLogger(l *zap.Logger) {
	a.logger = l
}

// Select fixes the augments and mode used by every following run,
// bypassing --augment, stdin and the clipboard.
func (a *App) Select(names []string, mode editor.Mode) error {
	first, second, err := a.catalogs.Resolve(names)
	if err != nil {
		return err
	}
	a.instructions = &editor.Instructions{Mode: mode, First: first, Second: second}
	return nil
}

// Instructions returns the edit of this run, reading augment names from
// the flags, then stdin or the clipboard, on first use.
func (a *App) Instructions() (editor.Instructions, error) {
	if a.instructions != nil {
		return *a.instructions, nil
	}
	names := a.cfg.Augments
	if len(names) == 0 {
		content, err := a.sourceProvider.GetContent(a.cfg.Clipboard)
		if err != nil {
			return editor.Instructions{}, err
		}
		names = source.Names(content)
	}
	mode := editor.Add
	if a.cfg.Remove {
		mode = editor.Remove
	}
	if err := a.Select(names, mode); err != nil {
		return editor.Instructions{}, err
	}
	return *a.instructions, nil
}

// Execute executes the main application logic based on parsed flags.
func (a *App) Execute(ctx context.Context) (summary model.Summary, err error) {
	// Centralized panic recovery.
	defer func() {
		if r := recover(); r != nil {
			err = &DetailedError{
				Err:   fmt.Errorf("internal panic: %v", r),
				Stack: debug.Stack(),
			}
		}
	}()

	if a.cfg.Undo {
		return a.undoLastRun()
	}
	return a.processTree(ctx)
}

// Watch runs once, then again after every change to the input tree until
// ctx is done. onRun receives the outcome of each run and is the only place
// a failed run is reported.
func (a *App) Watch(ctx context.Context, debounce time.Duration, onRun func(model.Summary, error)) error {
	if _, err := a.Instructions(); err != nil {
		return err
	}
	run := func(ctx context.Context) error {
		s, err := a.Execute(ctx)
		onRun(s, err)
		return nil
	}
	run(ctx)
	return watch.Run(ctx, a.cfg.Input, watch.Options{
		Debounce: debounce,
		Skip:     []string{a.cfg.Output},
		Logger:   a.logger,
	}, run)
}

// processTree edits every target file of the input tree into the output
// tree and copies the other files through.
func (a *App) processTree(ctx context.Context) (model.Summary, error) {
	in, err := a.Instructions()
	if err != nil {
		return model.Summary{}, err
	}
	entries, err := a.collect()
	if err != nil {
		return model.Summary{}, err
	}

	summary := model.Summary{
		Time:     time.Now(),
		Mode:     in.Mode.String(),
		Augments: in.Names(),
		DryRun:   a.cfg.DryRun,
	}
	if in.Empty() {
		summary.Message = "No augments selected. Calls are left as they are."
	}

	var run *state.Run
	if !a.cfg.DryRun {
		manager, err := state.New(a.cfg.Output)
		if err != nil {
			return model.Summary{}, fmt.Errorf("failed to initialize state manager: %w", err)
		}
		run = manager.Begin(summary.Mode, summary.Augments)
		summary.RunID = run.ID()
	}

	eng := &engine.Engine{
		Catalogs:     a.catalogs,
		Instructions: in,
		SignPolicy:   a.policy,
		Canonicalize: a.cfg.Canonicalize,
		Logger:       a.logger,
	}
	log := changelog.New()
	results := make([]*model.FileResult, len(entries))

	var (
		mu     sync.Mutex
		done   int
		copied int
	)
	total := len(entries)
	a.progress(0, total)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.cfg.Jobs)
	for i, entry := range entries {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			if !entry.IsTarget {
				if run != nil {
					if err := run.Copy(entry.Rel, entry.Src); err != nil {
						return err
					}
				}
				mu.Lock()
				copied++
				done++
				a.progress(done, total)
				mu.Unlock()
				return nil
			}

			res, fileLog, err := a.processFile(eng, entry, run)
			if err != nil {
				return err
			}
			mu.Lock()
			log.Merge(fileLog)
			results[i] = &res
			done++
			a.progress(done, total)
			mu.Unlock()
			return nil
		})
	}
	runErr := g.Wait()

	for _, r := range results {
		if r != nil {
			summary.Files = append(summary.Files, *r)
		}
	}
	summary.Copied = copied

	if runErr == nil {
		runErr = a.writeOutputs(run, log, &summary)
	}
	if run != nil {
		// Commit even a failed run so whatever was written can be undone.
		if err := run.Commit(); err != nil && runErr == nil {
			runErr = err
		}
	}
	return summary, runErr
}

// collect lists the input tree, leaving out the output tree and files that
// would collide with the generated log and reports.
func (a *App) collect() ([]fs.Entry, error) {
	entries, err := fs.Collect(a.cfg.Input, a.cfg.Target, a.cfg.Output)
	if err != nil {
		return nil, err
	}
	kept := entries[:0]
	for _, e := range entries {
		if reserved(e.Rel) {
			a.logger.Warn("input file shadowed by generated output, not copied", zap.String("path", e.Rel))
			continue
		}
		kept = append(kept, e)
	}
	return kept, nil
}

func (a *App) processFile(eng *engine.Engine, entry fs.Entry, run *state.Run) (model.FileResult, *changelog.Log, error) {
	data, err := os.ReadFile(entry.Src)
	if err != nil {
		return model.FileResult{}, nil, fmt.Errorf("could not read %s: %w", entry.Src, err)
	}

	fileLog := changelog.New()
	out, res := eng.Process(a.logPath(entry), string(data), fileLog)
	if run != nil {
		if err := run.Write(entry.Rel, []byte(out)); err != nil {
			return model.FileResult{}, nil, err
		}
	}
	return res, fileLog, nil
}

// logPath is the path a file is logged under: its location in the input
// tree, with forward slashes.
func (a *App) logPath(entry fs.Entry) string {
	return filepath.ToSlash(filepath.Join(a.cfg.Input, entry.Rel))
}

type output struct {
	name string
	data []byte
}

func (a *App) writeOutputs(run *state.Run, log *changelog.Log, summary *model.Summary) error {
	data, err := log.Encode()
	if err != nil {
		return err
	}
	outputs := []output{{LogFile, data}}

	if a.cfg.Report {
		md := report.Markdown(log.Records(), report.Meta{
			RunID:    summary.RunID,
			Mode:     summary.Mode,
			Augments: summary.Augments,
			Time:     summary.Time,
		})
		html, err := report.HTML(md)
		if err != nil {
			return err
		}
		outputs = append(outputs, output{ReportMarkdown, []byte(md)}, output{ReportHTML, html})
	}

	for _, o := range outputs {
		if run != nil {
			if err := run.Write(o.name, o.data); err != nil {
				return err
			}
		}
		path := filepath.Join(a.cfg.Output, o.name)
		if o.name == LogFile {
			summary.LogPath = path
		} else {
			summary.Reports = append(summary.Reports, path)
		}
	}
	return nil
}

// undoLastRun reverts the latest run recorded in the output tree.
func (a *App) undoLastRun() (model.Summary, error) {
	if !fs.Exists(state.Dir(a.cfg.Output)) {
		return model.Summary{Message: "No run to undo."}, nil
	}
	manager, err := state.New(a.cfg.Output)
	if err != nil {
		return model.Summary{}, fmt.Errorf("failed to initialize state manager: %w", err)
	}

	entry, undone, failed, err := manager.Undo()
	if errors.Is(err, state.ErrNoHistory) {
		return model.Summary{Message: "No run to undo."}, nil
	}
	summary := model.Summary{
		RunID:    entry.ID,
		Time:     time.Unix(entry.Timestamp, 0),
		Mode:     entry.Mode,
		Augments: entry.Augments,
		Undone:   undone,
		Failed:   failed,
		Message:  "Undid last run.",
	}
	return summary, err
}

func (a *App) progress(current, total int) {
	if a.progressCallback != nil {
		a.progressCallback(current, total)
	}
}

func reserved(rel string) bool {
	switch filepath.ToSlash(rel) {
	case LogFile, ReportMarkdown, ReportHTML:
		return true
	}
	return false
}
