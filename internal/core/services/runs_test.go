package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/cytoset/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/cytoset/internal/core/domain"
)

func TestRunHistoryService(t *testing.T) {
	ctx := context.Background()
	store := memory.NewRunStore()
	service := NewRunHistoryService(store)

	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	for i, id := range []string{"a", "b", "c"} {
		require.NoError(t, store.Save(ctx, &domain.AnalysisRun{
			ID:        id,
			Filename:  id + ".json",
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}))
	}

	runs, err := service.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, runs, 3)
	assert.Equal(t, "c", runs[0].ID)

	runs, err = service.List(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, runs, 2)

	run, err := service.Get(ctx, "b")
	require.NoError(t, err)
	assert.Equal(t, "b.json", run.Filename)

	require.NoError(t, service.Delete(ctx, "b"))
	_, err = service.Get(ctx, "b")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, service.Delete(ctx, "b"), domain.ErrNotFound)
}

func TestRunHistoryService_InvalidInput(t *testing.T) {
	ctx := context.Background()
	service := NewRunHistoryService(memory.NewRunStore())

	_, err := service.List(ctx, -1)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = service.Get(ctx, "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	assert.ErrorIs(t, service.Delete(ctx, ""), domain.ErrInvalidInput)
}
