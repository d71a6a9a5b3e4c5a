package dedup

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/pmc-harvester/internal/types"
)

func TestContentHash_Deterministic(t *testing.T) {
	raw := map[string]any{"b": "two", "a": []any{json.Number("1"), "x"}}
	same := map[string]any{"a": []any{json.Number("1"), "x"}, "b": "two"}

	h1, err := ContentHash(raw, types.LangEnglish, "https://example.com/api")
	require.NoError(t, err)
	h2, err := ContentHash(same, types.LangEnglish, "https://example.com/api")
	require.NoError(t, err)

	assert.Equal(t, h1, h2)
	assert.Len(t, h1, 64)
}

func TestContentHash_SensitiveToEachInput(t *testing.T) {
	base, err := ContentHash(map[string]any{"k": "v"}, types.LangEnglish, "https://example.com/a")
	require.NoError(t, err)

	tests := []struct {
		name string
		raw  any
		lang types.Lang
		url  string
	}{
		{"raw differs", map[string]any{"k": "w"}, types.LangEnglish, "https://example.com/a"},
		{"lang differs", map[string]any{"k": "v"}, types.LangMarathi, "https://example.com/a"},
		{"source differs", map[string]any{"k": "v"}, types.LangEnglish, "https://example.com/b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, err := ContentHash(tt.raw, tt.lang, tt.url)
			require.NoError(t, err)
			assert.NotEqual(t, base, h)
		})
	}
}

func TestRecordHash_IgnoresDerivedFields(t *testing.T) {
	a := &types.Record{Raw: "x", Lang: types.LangEnglish, SourceURL: "u"}
	b := &types.Record{Raw: "x", Lang: types.LangEnglish, SourceURL: "u", PDFLinks: []string{"https://e.com/a.pdf"}}

	ha, err := RecordHash(a)
	require.NoError(t, err)
	hb, err := RecordHash(b)
	require.NoError(t, err)
	assert.Equal(t, ha, hb)
}

func TestContentHash_UnserializableRaw(t *testing.T) {
	_, err := ContentHash(math.NaN(), types.LangEnglish, "")
	assert.Error(t, err)
}
