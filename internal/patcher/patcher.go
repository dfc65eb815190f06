package patcher

import (
	"fmt"
	"sort"
	"strings"

	"github.com/victor-takai/ff12-augment-tool/internal/editor"
	"github.com/victor-takai/ff12-augment-tool/internal/extractor"
)

// Render formats a field value the way the patched script carries it:
// "0" for an empty field, 0x%08x otherwise.
func Render(v uint32) string {
	if v == 0 {
		return "0"
	}
	return fmt.Sprintf("0x%08x", v)
}

// Expression rebuilds an ability call from two literals.
func Expression(first, second string) string {
	return extractor.AbilityCall + "(" + first + ", " + second + ")"
}

type edit struct {
	start, end int
	text       string
}

// Buffer holds a file's original text and the span edits made against it.
// Edits are anchored to byte offsets of the original text, so two call
// sites with identical literals are patched independently.
type Buffer struct {
	text  string
	edits []edit
}

// NewBuffer wraps text.
func NewBuffer(text string) *Buffer {
	return &Buffer{text: text}
}

// Replace schedules text[start:end] to become replacement. Nothing is
// recorded, and false is returned, when the span does not read expected or
// collides with a different edit. Repeating an identical edit is allowed.
func (b *Buffer) Replace(start, end int, expected, replacement string) bool {
	if start < 0 || end > len(b.text) || start > end {
		return false
	}
	if b.text[start:end] != expected {
		return false
	}
	for _, e := range b.edits {
		if e.start == start && e.end == end {
			return e.text == replacement
		}
		if start < e.end && e.start < end {
			return false
		}
	}
	if replacement == expected {
		return true
	}
	b.edits = append(b.edits, edit{start: start, end: end, text: replacement})
	return true
}

// Dirty reports whether any edit is pending.
func (b *Buffer) Dirty() bool {
	return len(b.edits) > 0
}

// String returns the text with all edits applied.
func (b *Buffer) String() string {
	if len(b.edits) == 0 {
		return b.text
	}
	edits := make([]edit, len(b.edits))
	copy(edits, b.edits)
	sort.Slice(edits, func(i, j int) bool { return edits[i].start < edits[j].start })

	var sb strings.Builder
	sb.Grow(len(b.text))
	pos := 0
	for _, e := range edits {
		sb.WriteString(b.text[pos:e.start])
		sb.WriteString(e.text)
		pos = e.end
	}
	sb.WriteString(b.text[pos:])
	return sb.String()
}

// Outcome is what Apply did with one edit result.
type Outcome int

const (
	// Unchanged: values equal and the call text was left alone.
	Unchanged Outcome = iota
	// Edited: at least one value changed and the call was rewritten.
	Edited
	// Canonicalized: values equal but the literals were normalized.
	Canonicalized
	// Skipped: the call site no longer matched the parsed text.
	Skipped
)

func (o Outcome) String() string {
	switch o {
	case Edited:
		return "edited"
	case Canonicalized:
		return "canonicalized"
	case Skipped:
		return "skipped"
	default:
		return "unchanged"
	}
}

// Apply writes res back into buf. Unchanged values are only rewritten when
// canonicalize is set and the canonical literals differ from the source.
func Apply(buf *Buffer, res editor.Result, canonicalize bool) Outcome {
	call := res.Call
	changed := res.Changed()
	if !changed && !canonicalize {
		return Unchanged
	}

	replacement := Expression(Render(res.First), Render(res.Second))
	if !buf.Replace(call.Start, call.End, call.Expr, replacement) {
		return Skipped
	}

	switch {
	case changed:
		return Edited
	case replacement != call.Expr:
		return Canonicalized
	default:
		return Unchanged
	}
}
