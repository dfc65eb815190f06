package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/pflag"

	"github.com/victor-takai/ff12-augment-tool/internal/config"
)

// Default locations, matching the layout produced by the script unpacker.
const (
	DefaultInput  = "unpacked"
	DefaultOutput = "edited"
	DefaultTarget = "section_000.c"
)

// ErrUsage marks a command line pflag rejected; pflag has already printed
// the reason and the usage text.
var ErrUsage = errors.New("invalid usage")

// Config holds all the command-line flag values.
type Config struct {
	Input        string
	Output       string
	Target       string
	Augments     []string
	Remove       bool
	Sign         string
	Canonicalize bool
	Jobs         int
	Catalog      string
	ConfigFile   string
	Clipboard    bool
	Pick         bool
	Watch        bool
	Undo         bool
	Report       bool
	List         bool
	Plain        bool
	Verbose      bool
	DryRun       bool

	changed map[string]bool
}

// ParseFlags parses os.Args and merges the config file found for them.
func ParseFlags() (*Config, error) {
	cfg, err := Parse(os.Args[1:], os.Stderr)
	if errors.Is(err, pflag.ErrHelp) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUsage, err)
	}
	file, err := config.Find(cfg.ConfigFile)
	if err != nil {
		return nil, err
	}
	cfg.Merge(file)
	return cfg, cfg.Validate()
}

// Parse defines the flags on a fresh set and parses args. Usage and parse
// errors are written to out.
func Parse(args []string, out io.Writer) (*Config, error) {
	cfg := &Config{}
	fs := pflag.NewFlagSet("augedit", pflag.ContinueOnError)
	fs.SetOutput(out)

	// Paths
	fs.StringVarP(&cfg.Input, "input", "i", DefaultInput, "Directory holding the unpacked scripts.")
	fs.StringVarP(&cfg.Output, "output", "o", DefaultOutput, "Directory the edited tree is written to.")
	fs.StringVarP(&cfg.Target, "target", "t", DefaultTarget, "Name of the script files to edit.")

	// Edit
	fs.StringSliceVarP(&cfg.Augments, "augment", "a", []string{}, "Augment to toggle; repeatable or comma separated (e.g. 'FOCUS,ANTI_LIBRA').")
	fs.BoolVarP(&cfg.Remove, "remove", "r", false, "Remove the augments instead of adding them.")
	fs.StringVar(&cfg.Sign, "sign", "magnitude", "How negative literals are read: magnitude, complement or twos.")
	fs.BoolVar(&cfg.Canonicalize, "canonicalize", false, "Rewrite unchanged calls in canonical hex form.")
	fs.IntVarP(&cfg.Jobs, "jobs", "j", 1, "Number of target files processed in parallel.")
	fs.StringVar(&cfg.Catalog, "catalog", "", "YAML file replacing the built-in augment catalog.")
	fs.StringVar(&cfg.ConfigFile, "config", "", "INI file with default settings (default ./"+config.FileName+").")

	// Selection sources
	fs.BoolVar(&cfg.Clipboard, "clipboard", false, "Read augment names from the clipboard.")
	fs.BoolVar(&cfg.Pick, "pick", false, "Choose augments in an interactive picker.")

	// Modes
	fs.BoolVarP(&cfg.Watch, "watch", "w", false, "Re-run whenever the input tree changes.")
	fs.BoolVarP(&cfg.Undo, "undo", "u", false, "Undo the last run in the output directory.")
	fs.BoolVar(&cfg.List, "list", false, "List the augment catalog and exit.")

	// Output
	fs.BoolVar(&cfg.Report, "report", false, "Also write report.md and report.html to the output directory.")
	fs.BoolVar(&cfg.Plain, "plain", false, "Print plain output instead of the interactive view.")
	fs.BoolVarP(&cfg.Verbose, "verbose", "v", false, "Log every call that is visited.")
	fs.BoolVar(&cfg.DryRun, "dry-run", false, "Process everything but write nothing.")

	fs.Usage = func() {
		fmt.Fprintln(out, "Usage: augedit [flags]")
		fmt.Fprintln(out, "\nAdd or remove augments in the btlAtelSetAbility calls of unpacked battle scripts.")
		fmt.Fprintln(out, "\nExample: augedit -a FOCUS,ANTI_LIBRA -i unpacked -o edited")
		fmt.Fprintln(out, "         echo SAFETY | augedit --remove")
		fmt.Fprintln(out, "\nFlags:")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	cfg.changed = make(map[string]bool)
	fs.Visit(func(f *pflag.Flag) { cfg.changed[f.Name] = true })
	return cfg, nil
}

// Changed reports whether the named flag was given on the command line.
func (c *Config) Changed(name string) bool {
	return c.changed[name]
}

// Merge fills every setting not given on the command line from file.
func (c *Config) Merge(file config.File) {
	str := func(flag string, dst *string, v string) {
		if v != "" && !c.Changed(flag) {
			*dst = v
		}
	}
	str("input", &c.Input, file.Input)
	str("output", &c.Output, file.Output)
	str("target", &c.Target, file.Target)
	str("sign", &c.Sign, file.Sign)
	str("catalog", &c.Catalog, file.Catalog)

	if file.Canonicalize != nil && !c.Changed("canonicalize") {
		c.Canonicalize = *file.Canonicalize
	}
	if file.Jobs != 0 && !c.Changed("jobs") {
		c.Jobs = file.Jobs
	}
}

// Validate checks flag combinations.
func (c *Config) Validate() error {
	if c.Undo && c.Watch {
		return fmt.Errorf("error: --undo and --watch are mutually exclusive")
	}
	if c.Undo && c.DryRun {
		return fmt.Errorf("error: --undo and --dry-run are mutually exclusive")
	}
	if c.Jobs < 1 {
		return fmt.Errorf("error: --jobs must be at least 1, got %d", c.Jobs)
	}
	if c.Input == "" || c.Output == "" || c.Target == "" {
		return fmt.Errorf("error: --input, --output and --target must not be empty")
	}
	return nil
}
