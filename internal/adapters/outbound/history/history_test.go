package history_test

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/abdidvp/gltf-validator/internal/adapters/outbound/history"
	"github.com/abdidvp/gltf-validator/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistory_SaveAndLoad(t *testing.T) {
	dir := t.TempDir()
	h := history.New()

	entry := domain.HistoryEntry{
		ID:               "0d7e8a58-3c1f-4c55-9b43-3f6c7f1d9a10",
		Timestamp:        time.Date(2026, 2, 25, 10, 0, 0, 0, time.UTC),
		AssetPath:        "cube.glb",
		ValidatorVersion: "2.0.0-dev.3.8",
		CommitHash:       "abc1234",
		Status:           domain.StatusWarn,
		NumWarnings:      1,
	}

	require.NoError(t, h.Save(dir, entry))

	entries, err := h.Load(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, uint32(1), entries[0].NumWarnings)
	assert.Equal(t, "abc1234", entries[0].CommitHash)
	assert.Equal(t, domain.StatusWarn, entries[0].Status)
}

func TestHistory_AppendMultiple(t *testing.T) {
	dir := t.TempDir()
	h := history.New()

	require.NoError(t, h.Save(dir, domain.HistoryEntry{ID: "1", NumErrors: 3, Status: domain.StatusFail}))
	require.NoError(t, h.Save(dir, domain.HistoryEntry{ID: "2", NumErrors: 1, Status: domain.StatusFail}))
	require.NoError(t, h.Save(dir, domain.HistoryEntry{ID: "3", Status: domain.StatusPass}))

	entries, err := h.Load(dir)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, uint32(3), entries[0].NumErrors)
	assert.Equal(t, domain.StatusPass, entries[2].Status)
}

func TestHistory_LoadEmpty(t *testing.T) {
	dir := t.TempDir()
	h := history.New()

	entries, err := h.Load(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestHistory_LoadCorrupt(t *testing.T) {
	dir := t.TempDir()
	fp := filepath.Join(dir, ".gltf-validator", "history", "runs.json")
	require.NoError(t, os.MkdirAll(filepath.Dir(fp), 0755))
	require.NoError(t, os.WriteFile(fp, []byte("not json"), 0644))

	_, err := history.New().Load(dir)
	assert.Error(t, err)
}

func TestHistory_CreatesDirectory(t *testing.T) {
	dir := t.TempDir()
	nestedDir := filepath.Join(dir, "deep", "nested")
	h := history.New()

	err := h.Save(nestedDir, domain.HistoryEntry{ID: "1", Status: domain.StatusPass})
	require.NoError(t, err)

	entries, err := h.Load(nestedDir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestHistory_ConcurrentSavesAndReads(t *testing.T) {
	dir := t.TempDir()
	h := history.New()
	const writers = 30

	var wg sync.WaitGroup
	errs := make(chan error, writers*2)
	for i := range writers {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			errs <- h.Save(dir, domain.HistoryEntry{ID: fmt.Sprint(i), Status: domain.StatusPass})
		}(i)
		go func() {
			defer wg.Done()
			_, err := history.New().Load(dir)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	entries, err := h.Load(dir)
	require.NoError(t, err)
	assert.Len(t, entries, writers)

	files, err := os.ReadDir(filepath.Join(dir, ".gltf-validator", "history"))
	require.NoError(t, err)
	assert.Len(t, files, 1, "no temp files left behind")
}
