// Package extractor finds the flat entryN() { ... } blocks of a decompiled
// battle script.
package extractor

import (
	"iter"
	"regexp"
	"strconv"
	"strings"
)

const (
	// UnitCall tags the unit an entry block sets up.
	UnitCall = "btlAtelSetUnit"
	// AbilityCall carries the two augment bitfields.
	AbilityCall = "btlAtelSetAbility"
)

// entryPattern matches a single-level entry block. Bodies containing braces
// do not match, so nested blocks are never split. The header must be the
// whole identifier: reentry7() is not an entry block.
var entryPattern = regexp.MustCompile(`(?:\bfunction\s+)?\bentry([0-9]+)\(\)\s*\{([^{}]*)\}`)

// Block is one entry block located in a file.
type Block struct {
	// Index is N from the entryN header.
	Index int
	// Body is the text between the braces.
	Body string
	// Start and End delimit the whole block, header included.
	Start, End int
	// BodyStart is the offset of Body within the file text.
	BodyStart int
	// Qualified is set when the body carries both a unit tag and an ability call.
	Qualified bool
}

// Scan yields the entry blocks of text in file order. Each range over the
// returned sequence starts a fresh scan.
func Scan(text string) iter.Seq[Block] {
	return func(yield func(Block) bool) {
		pos := 0
		for pos < len(text) {
			loc := entryPattern.FindStringSubmatchIndex(text[pos:])
			if loc == nil {
				return
			}
			b := newBlock(text, pos, loc)
			if !yield(b) {
				return
			}
			pos += loc[1]
		}
	}
}

func newBlock(text string, base int, loc []int) Block {
	index, _ := strconv.Atoi(text[base+loc[2] : base+loc[3]])
	body := text[base+loc[4] : base+loc[5]]
	return Block{
		Index:     index,
		Body:      body,
		Start:     base + loc[0],
		End:       base + loc[1],
		BodyStart: base + loc[4],
		Qualified: Qualifies(body),
	}
}

// Qualifies reports whether body contains both required calls.
func Qualifies(body string) bool {
	return strings.Contains(body, UnitCall+"(") && strings.Contains(body, AbilityCall+"(")
}
