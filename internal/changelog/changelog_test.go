package changelog

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/victor-takai/ff12-augment-tool/internal/catalog"
)

func TestSnapshot(t *testing.T) {
	set := catalog.Default()
	s := NewSnapshot(set, "btlAtelSetAbility(0x00000005, 0)", 0x5, 0)

	want := Snapshot{
		Expression:        "btlAtelSetAbility(0x00000005, 0)",
		FirstArgAugments:  []string{"STABILITY", "ACCURACY_BOOST"},
		SecondArgAugments: []string{},
	}
	if diff := cmp.Diff(want, s); diff != "" {
		t.Errorf("snapshot mismatch (-want +got):\n%s", diff)
	}
}

func TestRecordLifecycle(t *testing.T) {
	set := catalog.Default()
	log := New()

	_, ok := log.Get("a/section_000.c")
	assert.False(t, ok)

	before := NewSnapshot(set, "btlAtelSetAbility(0x00000001, 0)", 1, 0)
	after := NewSnapshot(set, "btlAtelSetAbility(0, 0)", 0, 0)
	log.AddBlock("a/section_000.c")
	log.AddEdited("a/section_000.c", 10, before, after)
	log.AddBlock("a/section_000.c")
	log.AddUnchanged("a/section_000.c", 11, after)
	log.AddUnchanged("a/section_000.c", 12, after)

	require.Equal(t, 1, log.Len(), "records are extended, never duplicated")
	r, ok := log.Get("a/section_000.c")
	require.True(t, ok)
	assert.Equal(t, 2, r.TotalEntries, "blocks, not units")
	assert.Equal(t, 1, r.Edited.Total)
	assert.Equal(t, 2, r.Unchanged.Total)
	assert.Equal(t, []int{11, 12}, []int{r.Unchanged.Entries[0].Unit, r.Unchanged.Entries[1].Unit})
	assert.Empty(t, r.Edited.Entries[0].Edited.FirstArgAugments)
}

func TestZeroEntryRecord(t *testing.T) {
	log := New()
	log.Touch("empty/section_000.c")

	data, err := json.Marshal(log)
	require.NoError(t, err)

	var got []map[string]any
	require.NoError(t, json.Unmarshal(data, &got))
	require.Len(t, got, 1)
	assert.Equal(t, float64(0), got[0]["total_entries"])
	assert.Equal(t, map[string]any{"total": float64(0), "entries": []any{}}, got[0]["edited"])
	assert.Equal(t, map[string]any{"total": float64(0), "entries": []any{}}, got[0]["unchanged"])
}

func TestMerge(t *testing.T) {
	set := catalog.Default()
	s := NewSnapshot(set, "btlAtelSetAbility(0, 0)", 0, 0)

	a := New()
	a.AddBlock("x")
	a.AddUnchanged("x", 1, s)
	b := New()
	b.AddBlock("x")
	b.AddUnchanged("x", 2, s)
	b.AddEdited("y", 3, s, s)
	b.Touch("z")

	a.Merge(b)
	recs := a.Records()
	require.Len(t, recs, 3)
	assert.Equal(t, []string{"x", "y", "z"}, []string{recs[0].Path, recs[1].Path, recs[2].Path})
	assert.Equal(t, 2, recs[0].TotalEntries)
	assert.Equal(t, 2, recs[0].Unchanged.Total)
	assert.Equal(t, 1, recs[1].Edited.Total)
	assert.Zero(t, recs[2].TotalEntries)
}

func TestEncode(t *testing.T) {
	set := catalog.Default()
	log := New()
	log.AddEdited("p", 4,
		NewSnapshot(set, "btlAtelSetAbility(0, 0)", 0, 0),
		NewSnapshot(set, "btlAtelSetAbility(0, 0x00000200)", 0, 0x200))

	data, err := log.Encode()
	require.NoError(t, err)

	var recs []Record
	require.NoError(t, json.Unmarshal(data, &recs))
	require.Len(t, recs, 1)
	assert.Equal(t, []string{"ANTI_LIBRA"}, recs[0].Edited.Entries[0].Edited.SecondArgAugments)
	assert.Contains(t, string(data), `"btl_atel_set_ability": "btlAtelSetAbility(0, 0x00000200)"`)
}
