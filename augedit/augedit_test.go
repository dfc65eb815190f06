package augedit_test

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/victor-takai/ff12-augment-tool/augedit"
	"github.com/victor-takai/ff12-augment-tool/cli"
	"github.com/victor-takai/ff12-augment-tool/internal/catalog"
	"github.com/victor-takai/ff12-augment-tool/internal/editor"
	"github.com/victor-takai/ff12-augment-tool/internal/logging"
	"github.com/victor-takai/ff12-augment-tool/model"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func script(first, second string) string {
	return "function init()\n{\n\treturn;\n}\n\n" +
		"function entry0()\n{\n\tbtlAtelSetUnit(3);\n\tbtlAtelSetAbility(" + first + ", " + second + ");\n}\n"
}

const noEntries = "function init()\n{\n\treturn;\n}\n"

func write(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func read(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

// setupTree creates an input tree with two target files and one other file.
func setupTree(t *testing.T) (in, out string) {
	t.Helper()
	in = t.TempDir()
	out = filepath.Join(t.TempDir(), "edited")
	write(t, filepath.Join(in, "0001", "section_000.c"), script("0x00000001", "0"))
	write(t, filepath.Join(in, "0002", "section_000.c"), noEntries)
	write(t, filepath.Join(in, "0001", "section_001.c"), script("0x00000001", "0"))
	return in, out
}

type logRecord struct {
	Path         string `json:"path"`
	TotalEntries int    `json:"total_entries"`
	Edited       struct {
		Total   int `json:"total"`
		Entries []struct {
			Unit   int `json:"unit"`
			Edited struct {
				Expression string   `json:"btl_atel_set_ability"`
				First      []string `json:"first_arg_augments"`
			} `json:"edited"`
		} `json:"entries"`
	} `json:"edited"`
	Unchanged struct {
		Total int `json:"total"`
	} `json:"unchanged"`
}

func TestApplyTree(t *testing.T) {
	in, out := setupTree(t)

	summary, err := augedit.Apply(context.Background(), augedit.Config{
		Input:    in,
		Output:   out,
		Augments: []string{"focus"},
		Jobs:     2,
		Report:   true,
	})
	require.NoError(t, err)

	assert.NotEmpty(t, summary.RunID)
	assert.Equal(t, "add", summary.Mode)
	assert.Equal(t, []string{"FOCUS"}, summary.Augments)
	require.Len(t, summary.Files, 2)
	assert.Equal(t, 1, summary.Files[0].Edited)
	assert.Equal(t, 0, summary.Files[1].Units)
	assert.Equal(t, 1, summary.Copied)
	assert.Equal(t, filepath.Join(out, augedit.LogFile), summary.LogPath)
	assert.Len(t, summary.Reports, 2)

	assert.Equal(t, script("0x00000801", "0"), read(t, filepath.Join(out, "0001", "section_000.c")))
	assert.Equal(t, noEntries, read(t, filepath.Join(out, "0002", "section_000.c")))
	// Only files named like the target are edited.
	assert.Equal(t, script("0x00000001", "0"), read(t, filepath.Join(out, "0001", "section_001.c")))

	var recs []logRecord
	require.NoError(t, json.Unmarshal([]byte(read(t, summary.LogPath)), &recs))
	require.Len(t, recs, 2)
	assert.Equal(t, filepath.ToSlash(filepath.Join(in, "0001", "section_000.c")), recs[0].Path)
	assert.Equal(t, 1, recs[0].Edited.Total)
	assert.Equal(t, 3, recs[0].Edited.Entries[0].Unit)
	assert.Equal(t, "btlAtelSetAbility(0x00000801, 0)", recs[0].Edited.Entries[0].Edited.Expression)
	assert.Equal(t, []string{"STABILITY", "FOCUS"}, recs[0].Edited.Entries[0].Edited.First)
	assert.Zero(t, recs[1].TotalEntries)

	assert.Contains(t, read(t, filepath.Join(out, augedit.ReportMarkdown)), "+FOCUS")
	assert.Contains(t, read(t, filepath.Join(out, augedit.ReportHTML)), "<table>")
}

func TestApplyDryRun(t *testing.T) {
	in, out := setupTree(t)

	summary, err := augedit.Apply(context.Background(), augedit.Config{
		Input:    in,
		Output:   out,
		Augments: []string{"STABILITY"},
		Remove:   true,
		DryRun:   true,
	})
	require.NoError(t, err)

	assert.True(t, summary.DryRun)
	assert.Empty(t, summary.RunID)
	assert.Equal(t, 1, summary.Totals().Edited)
	_, err = os.Stat(out)
	assert.True(t, os.IsNotExist(err))
}

func TestApplyUnknownAugment(t *testing.T) {
	in, out := setupTree(t)
	_, err := augedit.Apply(context.Background(), augedit.Config{
		Input:    in,
		Output:   out,
		Augments: []string{"FOCSU"},
	})
	require.ErrorIs(t, err, catalog.ErrUnknownAugment)
	assert.ErrorContains(t, err, "FOCUS")
}

func TestApplyMissingInput(t *testing.T) {
	_, err := augedit.Apply(context.Background(), augedit.Config{
		Input:    filepath.Join(t.TempDir(), "missing"),
		Output:   t.TempDir(),
		Augments: []string{"FOCUS"},
	})
	assert.Error(t, err)
}

func TestApplySkipsNestedOutput(t *testing.T) {
	in, _ := setupTree(t)
	out := filepath.Join(in, "edited")

	cfg := augedit.Config{Input: in, Output: out, Augments: []string{"FOCUS"}}
	_, err := augedit.Apply(context.Background(), cfg)
	require.NoError(t, err)

	// A second run must not pick up the first run's output as input.
	summary, err := augedit.Apply(context.Background(), cfg)
	require.NoError(t, err)
	assert.Len(t, summary.Files, 2)
	assert.NoDirExists(t, filepath.Join(out, "edited"))
}

func TestUndo(t *testing.T) {
	in, out := setupTree(t)
	write(t, filepath.Join(out, "0001", "section_000.c"), "previous")

	_, err := augedit.Apply(context.Background(), augedit.Config{Input: in, Output: out, Augments: []string{"FOCUS"}})
	require.NoError(t, err)

	app, err := augedit.New(&cli.Config{Input: in, Output: out, Target: cli.DefaultTarget, Undo: true, Jobs: 1})
	require.NoError(t, err)
	app.SetLogger(logging.Nop())

	summary, err := app.Execute(context.Background())
	require.NoError(t, err)
	assert.Empty(t, summary.Failed)
	assert.Len(t, summary.Undone, 4)

	assert.Equal(t, "previous", read(t, filepath.Join(out, "0001", "section_000.c")))
	assert.NoFileExists(t, filepath.Join(out, augedit.LogFile))
	assert.NoFileExists(t, filepath.Join(out, "0001", "section_001.c"))

	summary, err = app.Execute(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "No run to undo.", summary.Message)
}

func TestUndoWithoutJournal(t *testing.T) {
	out := t.TempDir()
	app, err := augedit.New(&cli.Config{Output: out, Undo: true})
	require.NoError(t, err)

	summary, err := app.Execute(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "No run to undo.", summary.Message)
}

func TestProgress(t *testing.T) {
	in, out := setupTree(t)
	app, err := augedit.New(&cli.Config{Input: in, Output: out, Target: cli.DefaultTarget, Jobs: 3})
	require.NoError(t, err)
	app.SetLogger(logging.Nop())
	require.NoError(t, app.Select([]string{"FOCUS"}, editor.Add))

	var mu sync.Mutex
	var calls [][2]int
	app.SetProgressCallback(func(current, total int) {
		mu.Lock()
		defer mu.Unlock()
		calls = append(calls, [2]int{current, total})
	})

	_, err = app.Execute(context.Background())
	require.NoError(t, err)

	require.Len(t, calls, 4)
	assert.Equal(t, [2]int{0, 3}, calls[0])
	assert.Equal(t, [2]int{3, 3}, calls[3])
}

func TestNewBadSettings(t *testing.T) {
	_, err := augedit.New(&cli.Config{Sign: "sideways"})
	assert.Error(t, err)

	_, err = augedit.New(&cli.Config{Catalog: filepath.Join(t.TempDir(), "missing.yaml")})
	assert.Error(t, err)
}

func TestWatch(t *testing.T) {
	in, out := setupTree(t)
	app, err := augedit.New(&cli.Config{Input: in, Output: out, Target: cli.DefaultTarget, Jobs: 1})
	require.NoError(t, err)
	app.SetLogger(logging.Nop())
	require.NoError(t, app.Select([]string{"FOCUS"}, editor.Add))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	runs := make(chan model.Summary, 16)
	errc := make(chan error, 1)
	go func() {
		errc <- app.Watch(ctx, 20*time.Millisecond, func(s model.Summary, err error) {
			assert.NoError(t, err)
			runs <- s
		})
	}()

	<-runs
	target := filepath.Join(in, "0002", "section_000.c")
	deadline := time.After(5 * time.Second)
	for i := 0; ; i++ {
		write(t, target, script("0", "0")+fmt.Sprintf("// %d\n", i))
		select {
		case <-runs:
			cancel()
			require.NoError(t, <-errc)
			assert.Equal(t, script("0x00000800", "0"), read(t, filepath.Join(out, "0002", "section_000.c"))[:len(script("0x00000800", "0"))])
			return
		case <-deadline:
			t.Fatal("watch never re-ran")
		case <-time.After(50 * time.Millisecond):
		}
	}
}

func TestWatchReportsFailureOnce(t *testing.T) {
	in, out := setupTree(t)
	app, err := augedit.New(&cli.Config{Input: in, Output: out, Target: cli.DefaultTarget, Jobs: 1})
	require.NoError(t, err)
	core, logs := observer.New(zapcore.ErrorLevel)
	app.SetLogger(zap.New(core))
	require.NoError(t, app.Select([]string{"FOCUS"}, editor.Add))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	results := make(chan error, 16)
	errc := make(chan error, 1)
	go func() {
		errc <- app.Watch(ctx, 20*time.Millisecond, func(_ model.Summary, err error) {
			results <- err
		})
	}()
	require.NoError(t, <-results)

	// An unreadable journal makes every following run fail.
	journal := filepath.Join(out, ".augedit", "state.json")
	require.NoError(t, os.RemoveAll(journal))
	require.NoError(t, os.Mkdir(journal, 0755))

	target := filepath.Join(in, "0002", "section_000.c")
	deadline := time.After(5 * time.Second)
	for i := 0; ; i++ {
		write(t, target, noEntries+fmt.Sprintf("// %d\n", i))
		select {
		case err := <-results:
			require.Error(t, err)
			cancel()
			require.NoError(t, <-errc)
			assert.Zero(t, logs.Len(), "the failure is reported by onRun only")
			return
		case <-deadline:
			t.Fatal("watch never re-ran")
		case <-time.After(50 * time.Millisecond):
		}
	}
}

func TestPatch(t *testing.T) {
	text := script("-0x00000801", "0x00000200")

	out, res, rec, err := augedit.Patch("0001/section_000.c", text, augedit.Config{
		Augments: []string{"FOCUS", "ANTI_LIBRA"},
		Remove:   true,
	})
	require.NoError(t, err)

	assert.Equal(t, script("0x00000001", "0"), out)
	assert.Equal(t, 1, res.Edited)
	require.NotNil(t, rec)
	require.Len(t, rec.Edited.Entries, 1)
	assert.Equal(t, []string{"STABILITY", "FOCUS"}, rec.Edited.Entries[0].Unpacked.FirstArgAugments)
	assert.Equal(t, []string{"STABILITY"}, rec.Edited.Entries[0].Edited.FirstArgAugments)
	assert.Equal(t, []string{}, rec.Edited.Entries[0].Edited.SecondArgAugments)

	_, _, _, err = augedit.Patch("x", text, augedit.Config{Sign: "sideways"})
	assert.Error(t, err)
}
