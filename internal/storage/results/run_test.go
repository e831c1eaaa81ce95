package results

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/quantarena/arena/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunPrefix(t *testing.T) {
	id := uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")
	at := time.Date(2019, 4, 1, 9, 30, 0, 0, time.UTC)

	got := RunPrefix(at, id, core.ArchetypeMixed)
	assert.Equal(t, "runs/20190401-093000-6ba7b810-mixed", got)
}

func TestSaveRun(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalFS(dir)
	require.NoError(t, err)

	ctx := context.Background()
	artifacts := map[string][]byte{
		"summary.txt":  []byte("trials=10"),
		"summary.json": []byte("{}"),
	}

	paths, err := SaveRun(ctx, store, "runs/test", artifacts)
	require.NoError(t, err)
	assert.Len(t, paths, 2)

	for _, p := range paths {
		assert.True(t, strings.HasPrefix(p, "runs/test/"), "path %s outside run prefix", p)
		data, err := store.Read(ctx, p)
		require.NoError(t, err)
		assert.NotEmpty(t, data)
	}
}

type failingStore struct{}

func (failingStore) Write(context.Context, string, []byte) error { return assert.AnError }
func (failingStore) Read(context.Context, string) ([]byte, error) {
	return nil, assert.AnError
}
func (failingStore) List(context.Context, string) ([]string, error) { return nil, assert.AnError }
func (failingStore) Exists(context.Context, string) (bool, error)   { return false, assert.AnError }

func TestSaveRun_WrapsStoreFailures(t *testing.T) {
	_, err := SaveRun(context.Background(), failingStore{}, "runs/test",
		map[string][]byte{"summary.txt": []byte("x")})
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrStoreFailed)
}
