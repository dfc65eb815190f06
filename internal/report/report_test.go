package report

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/victor-takai/ff12-augment-tool/internal/changelog"
)

func sampleRecords() []*changelog.Record {
	log := changelog.New()
	log.Touch("empty.c")
	log.AddBlock("section_000.c")
	log.AddEdited("section_000.c", 0,
		changelog.Snapshot{Expression: "btlAtelSetAbility(0x00000800, 0)", FirstArgAugments: []string{"FOCUS"}, SecondArgAugments: []string{}},
		changelog.Snapshot{Expression: "btlAtelSetAbility(0x00000800, 0x00000200)", FirstArgAugments: []string{"FOCUS"}, SecondArgAugments: []string{"ANTI_LIBRA"}})
	log.AddUnchanged("section_000.c", 1,
		changelog.Snapshot{Expression: "btlAtelSetAbility(0, 0x00000200)", FirstArgAugments: []string{}, SecondArgAugments: []string{"ANTI_LIBRA"}})
	return log.Records()
}

func TestMarkdown(t *testing.T) {
	md := Markdown(sampleRecords(), Meta{
		RunID:    "abc",
		Mode:     "add",
		Augments: []string{"ANTI_LIBRA"},
		Time:     time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
	})

	assert.Contains(t, md, "- Run: `abc`")
	assert.Contains(t, md, "- Date: 2024-01-02T03:04:05Z")
	assert.Contains(t, md, "- Augments: ANTI_LIBRA")
	assert.Contains(t, md, "2 file(s), 1 unit(s) edited, 1 unchanged.")
	assert.Contains(t, md, "## `empty.c`\n\n_No entries._")
	assert.Contains(t, md, "1 entry block(s): 1 unit(s) edited, 1 unchanged.")
	assert.Contains(t, md, "| 0 | `btlAtelSetAbility(0x00000800, 0)` | `btlAtelSetAbility(0x00000800, 0x00000200)` |  | +ANTI_LIBRA |")
	assert.Less(t, strings.Index(md, "empty.c"), strings.Index(md, "section_000.c"))
}

func TestMarkdownNoAugments(t *testing.T) {
	md := Markdown(nil, Meta{Mode: "remove"})
	assert.Contains(t, md, "- Augments: _none_")
	assert.NotContains(t, md, "- Run:")
	assert.NotContains(t, md, "- Date:")
}

func TestHTML(t *testing.T) {
	out, err := HTML(Markdown(sampleRecords(), Meta{Mode: "add"}))
	require.NoError(t, err)

	html := string(out)
	assert.True(t, strings.HasPrefix(html, "<!DOCTYPE html>"))
	assert.Contains(t, html, "<h1>Augment report</h1>")
	assert.Contains(t, html, "<table>")
	assert.Contains(t, html, "<code>empty.c</code>")
}

func TestDelta(t *testing.T) {
	assert.Equal(t, "+B -A", delta([]string{"A", "C"}, []string{"B", "C"}))
	assert.Equal(t, "", delta([]string{"A"}, []string{"A"}))
}
