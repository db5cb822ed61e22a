package services

import (
	"context"

	"github.com/custodia-labs/cytoset/internal/core/domain"
	"github.com/custodia-labs/cytoset/internal/core/ports/driven"
	"github.com/custodia-labs/cytoset/internal/core/ports/driving"
)

// Ensure RunHistoryService implements the interface.
var _ driving.RunHistory = (*RunHistoryService)(nil)

// RunHistoryService exposes persisted analysis runs.
type RunHistoryService struct {
	store driven.RunStore
}

// NewRunHistoryService creates a run history service.
func NewRunHistoryService(store driven.RunStore) *RunHistoryService {
	return &RunHistoryService{store: store}
}

// List returns runs, most recent first.
func (s *RunHistoryService) List(ctx context.Context, limit int) ([]domain.AnalysisRun, error) {
	if limit < 0 {
		return nil, domain.ErrInvalidInput
	}
	return s.store.List(ctx, limit)
}

// Get retrieves a run by ID.
func (s *RunHistoryService) Get(ctx context.Context, id string) (*domain.AnalysisRun, error) {
	if id == "" {
		return nil, domain.ErrInvalidInput
	}
	return s.store.Get(ctx, id)
}

// Delete removes a run.
func (s *RunHistoryService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return domain.ErrInvalidInput
	}
	return s.store.Delete(ctx, id)
}
