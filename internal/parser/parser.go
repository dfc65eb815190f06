package parser

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/victor-takai/ff12-augment-tool/internal/extractor"
)

var (
	ErrNoUnit           = errors.New("no btlAtelSetUnit call")
	ErrMalformedAbility = errors.New("malformed btlAtelSetAbility call")
	ErrAmbiguousAbility = errors.New("more than one btlAtelSetAbility call")
	ErrOutOfRange       = errors.New("value does not fit in 32 bits")
)

var (
	// unitRegex captures the unit id of btlAtelSetUnit(<decimal>).
	unitRegex = regexp.MustCompile(`btlAtelSetUnit\(\s*(?P<unit>[0-9]+)\s*\)`)

	// abilityRegex captures both literals of btlAtelSetAbility(<hex>, <hex>),
	// where each literal is -?(0x<hex>|0).
	abilityRegex = regexp.MustCompile(
		`btlAtelSetAbility\(\s*` +
			`(?P<first>-?(?:0[xX][0-9a-fA-F]+|0))` +
			`\s*,\s*` +
			`(?P<second>-?(?:0[xX][0-9a-fA-F]+|0))` +
			`\s*\)`)
)

// Call is one (unit tag, ability call) pairing of an entry block.
type Call struct {
	Unit int
	// FirstRaw and SecondRaw are the literals exactly as written.
	FirstRaw  string
	SecondRaw string
	First     uint32
	Second    uint32
	// Expr is the matched call expression; Start and End locate it in the file.
	Expr       string
	Start, End int
}

// ParseValue converts one hex literal to its 32-bit field value.
func ParseValue(raw string, policy SignPolicy) (uint32, error) {
	negative := strings.HasPrefix(raw, "-")
	digits := strings.TrimPrefix(raw, "-")
	digits = strings.TrimPrefix(strings.TrimPrefix(digits, "0x"), "0X")
	if digits == "" {
		return 0, fmt.Errorf("%w: %q", ErrMalformedAbility, raw)
	}
	magnitude, err := strconv.ParseUint(digits, 16, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q: %v", ErrMalformedAbility, raw, err)
	}
	if magnitude > 0xffffffff {
		return 0, fmt.Errorf("%w: %q", ErrOutOfRange, raw)
	}
	if !negative {
		return uint32(magnitude), nil
	}
	return policy.apply(uint32(magnitude)), nil
}

// ParseBlock extracts every unit tag of block and pairs it with the block's
// only ability call. Offsets in the returned calls are absolute file offsets.
func ParseBlock(block extractor.Block, policy SignPolicy) ([]Call, error) {
	units := unitRegex.FindAllStringSubmatch(block.Body, -1)
	if len(units) == 0 {
		return nil, fmt.Errorf("entry%d: %w", block.Index, ErrNoUnit)
	}
	if n := strings.Count(block.Body, extractor.AbilityCall+"("); n > 1 {
		return nil, fmt.Errorf("entry%d: %d calls: %w", block.Index, n, ErrAmbiguousAbility)
	}

	loc := abilityRegex.FindStringSubmatchIndex(block.Body)
	if loc == nil {
		return nil, fmt.Errorf("entry%d: %w", block.Index, ErrMalformedAbility)
	}
	firstRaw := block.Body[loc[2]:loc[3]]
	secondRaw := block.Body[loc[4]:loc[5]]

	first, err := ParseValue(firstRaw, policy)
	if err != nil {
		return nil, fmt.Errorf("entry%d: first argument: %w", block.Index, err)
	}
	second, err := ParseValue(secondRaw, policy)
	if err != nil {
		return nil, fmt.Errorf("entry%d: second argument: %w", block.Index, err)
	}

	calls := make([]Call, 0, len(units))
	for _, m := range units {
		unit, err := strconv.Atoi(m[1])
		if err != nil {
			return nil, fmt.Errorf("entry%d: unit id %q: %w", block.Index, m[1], err)
		}
		calls = append(calls, Call{
			Unit:      unit,
			FirstRaw:  firstRaw,
			SecondRaw: secondRaw,
			First:     first,
			Second:    second,
			Expr:      block.Body[loc[0]:loc[1]],
			Start:     block.BodyStart + loc[0],
			End:       block.BodyStart + loc[1],
		})
	}
	return calls, nil
}
