package augedit

import (
	"context"
	"fmt"

	"github.com/victor-takai/ff12-augment-tool/cli"
	"github.com/victor-takai/ff12-augment-tool/internal/changelog"
	"github.com/victor-takai/ff12-augment-tool/internal/editor"
	"github.com/victor-takai/ff12-augment-tool/internal/engine"
	"github.com/victor-takai/ff12-augment-tool/internal/logging"
	"github.com/victor-takai/ff12-augment-tool/model"
)

// Config for using augedit as a library.
type Config struct {
	// Input and Output trees; Target is the script file name to edit.
	Input, Output, Target string
	// Augments to add, or to remove when Remove is set.
	Augments []string
	Remove   bool
	// Sign is the policy for negative literals: magnitude (default),
	// complement or twos.
	Sign         string
	Canonicalize bool
	Jobs         int
	Report       bool
	DryRun       bool
	// Catalog optionally replaces the built-in augment catalog.
	Catalog string
}

func (c Config) cli() *cli.Config {
	cfg := &cli.Config{
		Input:        c.Input,
		Output:       c.Output,
		Target:       c.Target,
		Augments:     c.Augments,
		Remove:       c.Remove,
		Sign:         c.Sign,
		Canonicalize: c.Canonicalize,
		Jobs:         c.Jobs,
		Report:       c.Report,
		DryRun:       c.DryRun,
		Catalog:      c.Catalog,
	}
	if cfg.Input == "" {
		cfg.Input = cli.DefaultInput
	}
	if cfg.Output == "" {
		cfg.Output = cli.DefaultOutput
	}
	if cfg.Target == "" {
		cfg.Target = cli.DefaultTarget
	}
	return cfg
}

func newLibraryApp(config Config) (*App, error) {
	app, err := New(config.cli())
	if err != nil {
		return nil, fmt.Errorf("failed to initialize augedit app: %w", err)
	}
	app.SetLogger(logging.Nop())
	mode := editor.Add
	if config.Remove {
		mode = editor.Remove
	}
	if err := app.Select(config.Augments, mode); err != nil {
		return nil, err
	}
	return app, nil
}

// Apply edits the tree described by config and returns the run summary.
func Apply(ctx context.Context, config Config) (model.Summary, error) {
	app, err := newLibraryApp(config)
	if err != nil {
		return model.Summary{}, err
	}
	return app.Execute(ctx)
}

// Patch edits the text of a single script. It returns the patched text,
// the per-file counters and the log.json record for path.
func Patch(path, text string, config Config) (string, model.FileResult, *changelog.Record, error) {
	app, err := newLibraryApp(config)
	if err != nil {
		return "", model.FileResult{}, nil, err
	}
	in, err := app.Instructions()
	if err != nil {
		return "", model.FileResult{}, nil, err
	}

	eng := &engine.Engine{
		Catalogs:     app.catalogs,
		Instructions: in,
		SignPolicy:   app.policy,
		Canonicalize: config.Canonicalize,
		Logger:       app.logger,
	}
	log := changelog.New()
	out, res := eng.Process(path, text, log)
	rec, _ := log.Get(path)
	return out, res, rec, nil
}
