package output

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/pmc-harvester/internal/types"
)

func readLines(t *testing.T, path string) []string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
}

func TestAppender_CreatesParentAndAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "pmc_data_en.jsonl")

	a, err := OpenAppender(path)
	require.NoError(t, err)

	require.NoError(t, a.Append(&types.Record{Raw: map[string]any{"n": "1"}, SourceURL: "u1", Lang: types.LangEnglish}))
	require.NoError(t, a.Append(&types.Record{Raw: map[string]any{"n": "2"}, SourceURL: "u2", Lang: types.LangEnglish}))
	assert.Equal(t, 2, a.Written())
	assert.Equal(t, path, a.Path())
	require.NoError(t, a.Close())

	lines := readLines(t, path)
	require.Len(t, lines, 2)
	assert.JSONEq(t, `{"pdf_links":[],"phone_numbers":[],"map_links":[],"raw":{"n":"1"},"source_url":"u1","lang":"en"}`, lines[0])
	assert.Contains(t, lines[1], `"source_url":"u2"`)
}

func TestAppender_AppendsAcrossOpens(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.jsonl")

	for i := 0; i < 2; i++ {
		a, err := OpenAppender(path)
		require.NoError(t, err)
		require.NoError(t, a.Append(&types.Record{Raw: "x", Lang: types.LangMarathi}))
		require.NoError(t, a.Close())
	}

	assert.Len(t, readLines(t, path), 2)
}

func TestAppender_RepairsMissingTrailingNewline(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.jsonl")
	require.NoError(t, os.WriteFile(path, []byte(`{"raw":"old","lang":"en","source_url":""}`), 0644))

	a, err := OpenAppender(path)
	require.NoError(t, err)
	require.NoError(t, a.Append(&types.Record{Raw: "new", Lang: types.LangEnglish}))
	require.NoError(t, a.Close())

	lines := readLines(t, path)
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], `"old"`)
	assert.Contains(t, lines[1], `"new"`)
}

func TestScanLines_SkipsBlankLinesAndNumbers(t *testing.T) {
	path := filepath.Join(t.TempDir(), "in.txt")
	require.NoError(t, os.WriteFile(path, []byte("first\n\n   \nsecond\r\nthird"), 0644))

	var got []string
	var nums []int
	err := ScanLines(path, func(lineNo int, line []byte) error {
		got = append(got, string(line))
		nums = append(nums, lineNo)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"first", "second", "third"}, got)
	assert.Equal(t, []int{1, 4, 5}, nums)
}

func TestScanLines_LongLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "long.jsonl")
	long := strings.Repeat("a", 1<<20)
	require.NoError(t, os.WriteFile(path, []byte(long+"\n"), 0644))

	var n int
	require.NoError(t, ScanLines(path, func(_ int, line []byte) error {
		n = len(line)
		return nil
	}))
	assert.Equal(t, len(long), n)
}

func TestScanLines_MissingFile(t *testing.T) {
	err := ScanLines(filepath.Join(t.TempDir(), "nope"), func(int, []byte) error { return nil })
	assert.True(t, errors.Is(err, fs.ErrNotExist))
}

func TestScanLines_StopsOnCallbackError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "in.txt")
	require.NoError(t, os.WriteFile(path, []byte("a\nb\nc\n"), 0644))

	stop := errors.New("stop")
	calls := 0
	err := ScanLines(path, func(int, []byte) error {
		calls++
		return stop
	})
	assert.ErrorIs(t, err, stop)
	assert.Equal(t, 1, calls)
}
