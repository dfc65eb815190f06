// Package editor applies add/remove augment instructions to parsed bitfields.
package editor

import (
	"fmt"
	"strings"

	"github.com/victor-takai/ff12-augment-tool/internal/catalog"
	"github.com/victor-takai/ff12-augment-tool/internal/parser"
)

// Mode selects whether instructions set or clear their bits.
type Mode int

const (
	Add Mode = iota
	Remove
)

func (m Mode) String() string {
	if m == Remove {
		return "remove"
	}
	return "add"
}

// ParseMode maps "add"/"remove" to a Mode.
func ParseMode(name string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "add":
		return Add, nil
	case "remove", "rm":
		return Remove, nil
	default:
		return Add, fmt.Errorf("unknown mode %q (want add or remove)", name)
	}
}

// Apply runs entries over value in order.
func Apply(value uint32, mode Mode, entries []catalog.Entry) uint32 {
	for _, e := range entries {
		value = applyOne(value, mode, e.Mask)
	}
	return value
}

func applyOne(value uint32, mode Mode, mask uint32) uint32 {
	if mask == 0 {
		return value
	}
	switch mode {
	case Add:
		if value&mask != mask {
			value |= mask
		}
	case Remove:
		if value&mask != 0 {
			value ^= value & mask
		}
	}
	return value
}

// Instructions is the per-run edit applied to every call.
type Instructions struct {
	Mode   Mode
	First  []catalog.Entry
	Second []catalog.Entry
}

// Empty reports whether no instruction can change a value.
func (in Instructions) Empty() bool {
	for _, e := range in.First {
		if !e.IsNone() {
			return false
		}
	}
	for _, e := range in.Second {
		if !e.IsNone() {
			return false
		}
	}
	return true
}

// Names lists the instruction entries, first field first.
func (in Instructions) Names() []string {
	names := make([]string, 0, len(in.First)+len(in.Second))
	for _, e := range in.First {
		names = append(names, e.Name)
	}
	for _, e := range in.Second {
		names = append(names, e.Name)
	}
	return names
}

// Result pairs a parsed call with its edited field values.
type Result struct {
	Call   parser.Call
	First  uint32
	Second uint32
}

// Changed reports whether either field differs from the parsed value.
func (r Result) Changed() bool {
	return r.First != r.Call.First || r.Second != r.Call.Second
}

// Edit applies the instructions to both fields of call.
func (in Instructions) Edit(call parser.Call) Result {
	return Result{
		Call:   call,
		First:  Apply(call.First, in.Mode, in.First),
		Second: Apply(call.Second, in.Mode, in.Second),
	}
}
