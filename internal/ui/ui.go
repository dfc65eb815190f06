package ui

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/victor-takai/ff12-augment-tool/internal/catalog"
	"github.com/victor-takai/ff12-augment-tool/model"
)

var (
	HeaderColor  = color.New(color.FgBlue, color.Bold)
	InfoColor    = color.New(color.FgCyan)
	SuccessColor = color.New(color.FgGreen)
	WarningColor = color.New(color.FgYellow)
	ErrorColor   = color.New(color.FgRed)
	PathColor    = color.New(color.FgYellow)
	FaintColor   = color.New(color.Faint)
)

// Output is where summaries are printed. Messages always go to stderr.
var Output io.Writer = os.Stdout

func Header(format string, a ...interface{}) {
	HeaderColor.Fprintf(os.Stderr, format+"\n", a...)
}

func Info(format string, a ...interface{}) {
	InfoColor.Fprintf(os.Stderr, format+"\n", a...)
}

func Success(format string, a ...interface{}) {
	SuccessColor.Fprintf(os.Stderr, format+"\n", a...)
}

func Warning(format string, a ...interface{}) {
	WarningColor.Fprintf(os.Stderr, format+"\n", a...)
}

func Error(format string, a ...interface{}) {
	ErrorColor.Fprintf(os.Stderr, format+"\n", a...)
}

func Path(format string, a ...interface{}) {
	PathColor.Fprintf(os.Stderr, "  "+format+"\n", a...)
}

// --- Summaries ---

func PrintRunSummary(s model.Summary) {
	Header("\n--- Augment Summary ---")
	if s.Message != "" {
		Info("%s", s.Message)
	}
	if len(s.Files) == 0 {
		Info("No target files were found.")
		return
	}

	for _, f := range s.Files {
		switch {
		case f.Edited > 0:
			SuccessColor.Fprintf(Output, "  %s\n", f.Path)
		case f.Units == 0:
			FaintColor.Fprintf(Output, "  %s\n", f.Path)
		default:
			fmt.Fprintf(Output, "  %s\n", f.Path)
		}
		fmt.Fprintf(Output, "    %d unit(s): %d edited, %d unchanged", f.Units, f.Edited, f.Unchanged)
		if f.Canonicalized > 0 {
			fmt.Fprintf(Output, ", %d canonicalized", f.Canonicalized)
		}
		if n := f.Unrecognized + f.Malformed + f.Skipped; n > 0 {
			WarningColor.Fprintf(Output, ", %d skipped", n)
		}
		fmt.Fprintln(Output)
	}

	t := s.Totals()
	verb := "Modified"
	if s.DryRun {
		verb = "Would modify"
	}
	Success("%s %d unit(s) in %d file(s); %d unchanged; %d other file(s) copied.", verb, t.Edited, len(s.Files), t.Unchanged, s.Copied)
	if s.LogPath != "" {
		Path("log: %s", s.LogPath)
	}
	for _, r := range s.Reports {
		Path("report: %s", r)
	}
}

func PrintUndoSummary(s model.Summary) {
	Header("\n--- Undo Summary ---")
	if s.RunID == "" {
		Info("%s", s.Message)
		return
	}
	Info("Run %s (%s %s) from %s", s.RunID, s.Mode, strings.Join(s.Augments, ", "), s.Time.Format(time.RFC3339))
	if len(s.Undone) > 0 {
		Success("Successfully reverted %d file(s):", len(s.Undone))
		for _, f := range s.Undone {
			fmt.Fprintf(Output, "  - %s\n", f)
		}
	}
	if len(s.Failed) > 0 {
		Error("Left %d file(s) untouched (changed since the run or missing):", len(s.Failed))
		for _, f := range s.Failed {
			fmt.Fprintf(Output, "  - %s\n", f)
		}
	}
}

// PrintCatalog lists both catalogs, one entry per line.
func PrintCatalog(set *catalog.Set) {
	for _, c := range []*catalog.Catalog{set.First, set.Second} {
		Header("\n--- %s field ---", c.Field())
		for _, e := range c.Entries() {
			if e.IsNone() {
				continue
			}
			fmt.Fprintf(Output, "  0x%08x  %-22s %s\n", e.Mask, e.Name, FaintColor.Sprint(e.Description))
		}
	}
}

// --- Progress Bar ---

type ProgressBar struct {
	total   int
	prefix  string
	current int
}

func NewProgressBar(total int, prefix string) *ProgressBar {
	return &ProgressBar{total: total, prefix: prefix}
}

func (p *ProgressBar) Start() {
	p.draw()
}

func (p *ProgressBar) Set(current int) {
	p.current = current
	p.draw()
}

func (p *ProgressBar) Finish() {
	fmt.Fprintln(os.Stderr)
}

func (p *ProgressBar) draw() {
	if p.total == 0 {
		return
	}
	const barLength = 40
	percent := float64(p.current) / float64(p.total)
	filledLength := int(percent * barLength)
	bar := strings.Repeat("█", filledLength) + strings.Repeat("-", barLength-filledLength)

	percentStr := fmt.Sprintf("%.1f%%", percent*100)
	countStr := fmt.Sprintf("[%d/%d]", p.current, p.total)

	fmt.Fprintf(os.Stderr, "\r%s |%s| %s %s", p.prefix, bar, countStr, percentStr)
}
