package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveAndListArtifacts(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	_, err = store.SaveArtifact("run-1", "b.csv", []byte("b"))
	require.NoError(t, err)
	rel, err := store.SaveArtifact("run-1", "a.csv", []byte("a"))
	require.NoError(t, err)

	names, err := store.ListArtifacts("run-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"a.csv", "b.csv"}, names)

	data, err := store.Read(rel)
	require.NoError(t, err)
	assert.Equal(t, []byte("a"), data)
	assert.True(t, store.Exists(rel))
}

func TestPruneRuns(t *testing.T) {
	base := t.TempDir()
	store, err := NewLocalStorage(base)
	require.NoError(t, err)

	_, err = store.SaveInput("old-run", "members.csv", []byte("x"))
	require.NoError(t, err)
	_, err = store.SaveInput("new-run", "members.csv", []byte("y"))
	require.NoError(t, err)

	// Age the first run past the cutoff.
	oldDir := filepath.Join(base, "runs", "old-run")
	past := time.Now().Add(-48 * time.Hour)
	require.NoError(t, os.Chtimes(oldDir, past, past))

	removed, err := store.PruneRuns(24 * time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	assert.False(t, store.Exists(filepath.Join("runs", "old-run", "inputs", "members.csv")))
	assert.True(t, store.Exists(filepath.Join("runs", "new-run", "inputs", "members.csv")))
}

func TestPruneRunsNoRunsDir(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	removed, err := store.PruneRuns(time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 0, removed)
}
