package output

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/pmc-harvester/internal/types"
)

func TestCreateRunLog_WritesInOrderAndTruncates(t *testing.T) {
	dir := t.TempDir()
	stale := filepath.Join(dir, SuccessLogName(types.LangEnglish))
	require.NoError(t, os.WriteFile(stale, []byte("https://stale.example.com\n"), 0644))

	l, err := CreateRunLog(dir, types.LangEnglish)
	require.NoError(t, err)
	require.NoError(t, l.Success("https://a.example.com"))
	require.NoError(t, l.Failure("https://b.example.com"))
	require.NoError(t, l.Success("https://c.example.com"))
	require.NoError(t, l.Close())

	successPath, failurePath := l.Paths()
	assert.Equal(t, filepath.Join(dir, "success_links_en.txt"), successPath)
	assert.Equal(t, filepath.Join(dir, "failed_links_en.txt"), failurePath)

	success, err := os.ReadFile(successPath)
	require.NoError(t, err)
	assert.Equal(t, "https://a.example.com\nhttps://c.example.com\n", string(success))

	failure, err := os.ReadFile(failurePath)
	require.NoError(t, err)
	assert.Equal(t, "https://b.example.com\n", string(failure))
}

func TestLogNames(t *testing.T) {
	assert.Equal(t, "success_links_mr.txt", SuccessLogName(types.LangMarathi))
	assert.Equal(t, "failed_links_mr.txt", FailureLogName(types.LangMarathi))
}
