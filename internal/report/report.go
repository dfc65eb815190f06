// Package report renders the change log as Markdown and HTML.
package report

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/victor-takai/ff12-augment-tool/internal/changelog"
)

// Meta describes the run a report belongs to.
type Meta struct {
	RunID    string
	Mode     string
	Augments []string
	Time     time.Time
}

// Markdown builds a per-file report of the records.
func Markdown(records []*changelog.Record, meta Meta) string {
	var b strings.Builder

	b.WriteString("# Augment report\n\n")
	if meta.RunID != "" {
		fmt.Fprintf(&b, "- Run: `%s`\n", meta.RunID)
	}
	if !meta.Time.IsZero() {
		fmt.Fprintf(&b, "- Date: %s\n", meta.Time.UTC().Format(time.RFC3339))
	}
	fmt.Fprintf(&b, "- Mode: %s\n", meta.Mode)
	fmt.Fprintf(&b, "- Augments: %s\n\n", list(meta.Augments))

	edited, unchanged := 0, 0
	for _, r := range records {
		edited += r.Edited.Total
		unchanged += r.Unchanged.Total
	}
	fmt.Fprintf(&b, "%d file(s), %d unit(s) edited, %d unchanged.\n\n", len(records), edited, unchanged)

	for _, r := range records {
		fmt.Fprintf(&b, "## `%s`\n\n", r.Path)
		if r.TotalEntries == 0 {
			b.WriteString("_No entries._\n\n")
			continue
		}
		fmt.Fprintf(&b, "%d entry block(s): %d unit(s) edited, %d unchanged.\n\n", r.TotalEntries, r.Edited.Total, r.Unchanged.Total)
		if len(r.Edited.Entries) == 0 {
			continue
		}
		b.WriteString("| Unit | Before | After | First field | Second field |\n")
		b.WriteString("|---:|---|---|---|---|\n")
		for _, e := range r.Edited.Entries {
			fmt.Fprintf(&b, "| %d | `%s` | `%s` | %s | %s |\n",
				e.Unit,
				e.Unpacked.Expression,
				e.Edited.Expression,
				delta(e.Unpacked.FirstArgAugments, e.Edited.FirstArgAugments),
				delta(e.Unpacked.SecondArgAugments, e.Edited.SecondArgAugments))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// HTML renders markdown to a standalone HTML document.
func HTML(markdown string) ([]byte, error) {
	md := goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithRendererOptions(html.WithUnsafe()),
	)
	var body bytes.Buffer
	if err := md.Convert([]byte(markdown), &body); err != nil {
		return nil, fmt.Errorf("failed to render report: %w", err)
	}

	var out bytes.Buffer
	out.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n<title>Augment report</title>\n</head>\n<body>\n")
	out.Write(body.Bytes())
	out.WriteString("</body>\n</html>\n")
	return out.Bytes(), nil
}

func list(names []string) string {
	if len(names) == 0 {
		return "_none_"
	}
	return strings.Join(names, ", ")
}

// delta lists the names gained (+) and lost (-) between two name lists.
func delta(before, after []string) string {
	had := make(map[string]bool, len(before))
	for _, n := range before {
		had[n] = true
	}
	has := make(map[string]bool, len(after))
	for _, n := range after {
		has[n] = true
	}

	var parts []string
	for _, n := range after {
		if !had[n] {
			parts = append(parts, "+"+n)
		}
	}
	for _, n := range before {
		if !has[n] {
			parts = append(parts, "-"+n)
		}
	}
	if len(parts) == 0 {
		return ""
	}
	return strings.Join(parts, " ")
}
