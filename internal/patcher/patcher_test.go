package patcher

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/victor-takai/ff12-augment-tool/internal/editor"
	"github.com/victor-takai/ff12-augment-tool/internal/extractor"
	"github.com/victor-takai/ff12-augment-tool/internal/parser"
)

func TestRender(t *testing.T) {
	assert.Equal(t, "0", Render(0))
	assert.Equal(t, "0x00000002", Render(2))
	assert.Equal(t, "0xdeadbeef", Render(0xdeadbeef))
	assert.Equal(t, "btlAtelSetAbility(0, 0x00000001)", Expression(Render(0), Render(1)))
}

func TestRenderRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	values := []uint32{0, 1, 0x80000000, 0xffffffff}
	for i := 0; i < 200; i++ {
		values = append(values, rng.Uint32())
	}
	for _, v := range values {
		for _, p := range []parser.SignPolicy{parser.SignMagnitude, parser.SignComplement, parser.SignTwos} {
			got, err := parser.ParseValue(Render(v), p)
			require.NoError(t, err)
			assert.Equal(t, v, got)
		}
	}
}

func TestBufferReplace(t *testing.T) {
	text := "aaa XX bbb XX ccc"
	first := strings.Index(text, "XX")
	second := strings.LastIndex(text, "XX")

	buf := NewBuffer(text)
	assert.False(t, buf.Dirty())
	assert.False(t, buf.Replace(first, first+2, "YY", "ZZ"), "expected text mismatch")
	assert.False(t, buf.Replace(-1, 2, "aaa", "b"))

	require.True(t, buf.Replace(second, second+2, "XX", "22"))
	require.True(t, buf.Replace(first, first+2, "XX", "1"))
	assert.True(t, buf.Replace(first, first+2, "XX", "1"), "identical edit collapses")
	assert.False(t, buf.Replace(first, first+2, "XX", "other"), "conflicting edit")
	assert.False(t, buf.Replace(first-1, first+1, " X", "--"), "overlap")

	assert.True(t, buf.Dirty())
	assert.Equal(t, "aaa 1 bbb 22 ccc", buf.String())
}

func TestBufferNoopReplacement(t *testing.T) {
	buf := NewBuffer("abc")
	assert.True(t, buf.Replace(0, 1, "a", "a"))
	assert.False(t, buf.Dirty())
	assert.Equal(t, "abc", buf.String())
}

func parseAll(t *testing.T, text string) []parser.Call {
	t.Helper()
	var calls []parser.Call
	for b := range extractor.Scan(text) {
		cs, err := parser.ParseBlock(b, parser.SignMagnitude)
		require.NoError(t, err)
		calls = append(calls, cs...)
	}
	return calls
}

const twoEntries = `function entry0()
{
	btlAtelSetUnit(1);
	btlAtelSetAbility(0x00000001, 0);
}

function entry1()
{
	btlAtelSetUnit(2);
	btlAtelSetAbility(0x00000001, 0);
}
`

func TestApplyIdenticalExpressions(t *testing.T) {
	calls := parseAll(t, twoEntries)
	require.Len(t, calls, 2)

	buf := NewBuffer(twoEntries)
	for _, c := range calls {
		res := editor.Result{Call: c, First: 0, Second: c.Second}
		assert.Equal(t, Edited, Apply(buf, res, false))
	}
	out := buf.String()
	assert.Equal(t, 2, strings.Count(out, "btlAtelSetAbility(0, 0)"))
	assert.Equal(t, strings.ReplaceAll(twoEntries, "btlAtelSetAbility(0x00000001, 0)", "btlAtelSetAbility(0, 0)"), out)
}

func TestApplyUnchanged(t *testing.T) {
	text := "entry0() { btlAtelSetUnit(1); btlAtelSetAbility(-0x4, 0x0); }"
	calls := parseAll(t, text)
	require.Len(t, calls, 1)
	res := editor.Result{Call: calls[0], First: calls[0].First, Second: calls[0].Second}

	t.Run("left alone", func(t *testing.T) {
		buf := NewBuffer(text)
		assert.Equal(t, Unchanged, Apply(buf, res, false))
		assert.Equal(t, text, buf.String())
	})

	t.Run("canonicalized", func(t *testing.T) {
		buf := NewBuffer(text)
		assert.Equal(t, Canonicalized, Apply(buf, res, true))
		assert.Equal(t, "entry0() { btlAtelSetUnit(1); btlAtelSetAbility(0x00000004, 0); }", buf.String())
	})

	t.Run("already canonical", func(t *testing.T) {
		canonical := "entry0() { btlAtelSetUnit(1); btlAtelSetAbility(0x00000004, 0); }"
		calls := parseAll(t, canonical)
		buf := NewBuffer(canonical)
		res := editor.Result{Call: calls[0], First: 4, Second: 0}
		assert.Equal(t, Unchanged, Apply(buf, res, true))
		assert.False(t, buf.Dirty())
	})
}

func TestApplySkipsStaleSpan(t *testing.T) {
	calls := parseAll(t, twoEntries)
	buf := NewBuffer(strings.Replace(twoEntries, "0x00000001", "0x00000003", 1))
	res := editor.Result{Call: calls[0], First: 0}
	assert.Equal(t, Skipped, Apply(buf, res, false))
}
