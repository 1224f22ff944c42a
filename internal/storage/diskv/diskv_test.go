package diskv_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slok/tdo/internal/log"
	"github.com/slok/tdo/internal/model"
	"github.com/slok/tdo/internal/storage/diskv"
)

func TestNewKV(t *testing.T) {
	_, err := diskv.NewKV(diskv.KVConfig{})
	assert.Error(t, err)
}

func TestKV(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	kv, err := diskv.NewKV(diskv.KVConfig{BasePath: dir, Logger: log.Noop})
	require.NoError(t, err)

	_, err = kv.Get(ctx, "tasks")
	assert.ErrorIs(t, err, model.ErrNotFound)

	require.NoError(t, kv.Set(ctx, "tasks", []byte(`[]`)))
	require.NoError(t, kv.Set(ctx, "tasks", []byte(`[{"id":"1"}]`)))

	got, err := kv.Get(ctx, "tasks")
	require.NoError(t, err)
	assert.Equal(t, []byte(`[{"id":"1"}]`), got)

	// A new instance on the same path should see the stored data.
	kv2, err := diskv.NewKV(diskv.KVConfig{BasePath: dir})
	require.NoError(t, err)
	got, err = kv2.Get(ctx, "tasks")
	require.NoError(t, err)
	assert.Equal(t, []byte(`[{"id":"1"}]`), got)

	assert.ErrorIs(t, kv.Set(ctx, "../escape", nil), model.ErrNotValid)
}
