package database_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/rtdb/core"
	"github.com/hupe1980/rtdb/database"
)

func TestTask_Completed(t *testing.T) {
	db := newTestDB(t)
	task := db.MustRef("a").Set(1)

	select {
	case <-task.Done():
	default:
		t.Fatal("task should be complete on return")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	snap, err := task.Wait(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, snap.Value())

	var got *database.Snapshot
	task.OnComplete(func(s *database.Snapshot, err error) {
		assert.NoError(t, err)
		got = s
	})
	require.NotNil(t, got)
	assert.Equal(t, "a", got.Key())
}

func TestTask_Failure(t *testing.T) {
	db := newTestDB(t)

	var cbErr error
	db.MustRef("missing").Get().OnComplete(func(_ *database.Snapshot, err error) { cbErr = err })
	assert.ErrorIs(t, cbErr, core.ErrNotFound)
}
