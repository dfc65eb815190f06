package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/pflag"

	"github.com/victor-takai/ff12-augment-tool/augedit"
	"github.com/victor-takai/ff12-augment-tool/cli"
	"github.com/victor-takai/ff12-augment-tool/internal/editor"
	"github.com/victor-takai/ff12-augment-tool/internal/tui"
	"github.com/victor-takai/ff12-augment-tool/internal/ui"
	"github.com/victor-takai/ff12-augment-tool/model"
)

const watchDebounce = 300 * time.Millisecond

func main() {
	cfg, err := cli.ParseFlags()
	if err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		// pflag already prints the error message.
		if !errors.Is(err, cli.ErrUsage) {
			ui.Error("%v", err)
		}
		os.Exit(2)
	}

	app, err := augedit.New(cfg)
	if err != nil {
		ui.Error("Failed to initialize application: %v", err)
		os.Exit(1)
	}

	if cfg.List {
		ui.PrintCatalog(app.Catalogs())
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Resolve the selection before any view takes over stdin.
	if !cfg.Undo {
		if err := selectAugments(app, cfg); err != nil {
			if errors.Is(err, tui.ErrCancelled) {
				ui.Warning("Cancelled.")
				return
			}
			ui.Error("%v", err)
			os.Exit(1)
		}
	}

	if cfg.Watch {
		ui.Info("Watching %s for changes. Press Ctrl-C to stop.", cfg.Input)
		err := app.Watch(ctx, watchDebounce, func(s model.Summary, err error) {
			if err != nil {
				ui.Error("Error: %v", err)
				return
			}
			ui.PrintRunSummary(s)
		})
		if err != nil {
			ui.Error("Error: %v", err)
			os.Exit(1)
		}
		return
	}

	if cfg.Plain {
		os.Exit(runPlain(ctx, app, cfg))
	}

	m := tui.New(ctx, app, cfg.Undo)
	p := tea.NewProgram(m, tea.WithContext(ctx))
	m.SetProgram(p)
	final, err := p.Run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error running program: %v\n", err)
		os.Exit(1)
	}
	if fm, ok := final.(tui.Model); ok && fm.Err() != nil {
		os.Exit(1)
	}
}

// selectAugments fixes the run's augments, from the picker when asked.
func selectAugments(app *augedit.App, cfg *cli.Config) error {
	if !cfg.Pick {
		_, err := app.Instructions()
		return err
	}
	mode := editor.Add
	if cfg.Remove {
		mode = editor.Remove
	}
	sel, err := tui.Pick(app.Catalogs(), mode, cfg.Augments)
	if err != nil {
		return err
	}
	return app.Select(sel.Names, sel.Mode)
}

func runPlain(ctx context.Context, app *augedit.App, cfg *cli.Config) int {
	var bar *ui.ProgressBar
	app.SetProgressCallback(func(current, total int) {
		if bar == nil {
			bar = ui.NewProgressBar(total, "Processing")
			bar.Start()
		}
		bar.Set(current)
	})

	summary, err := app.Execute(ctx)
	if bar != nil {
		bar.Finish()
	}
	if err != nil {
		ui.Error("Error: %v", err)
		var de *augedit.DetailedError
		if errors.As(err, &de) {
			fmt.Fprintf(os.Stderr, "\n--- Stack Trace ---\n%s\n", de.Stack)
		}
		return 1
	}

	if cfg.Undo {
		ui.PrintUndoSummary(summary)
	} else {
		ui.PrintRunSummary(summary)
	}
	return 0
}
