package driving

import (
	"context"

	"github.com/custodia-labs/cytoset/internal/core/domain"
)

// AnalysisService runs the complete set analysis for data files.
type AnalysisService interface {
	// Analyze loads, classifies and summarises one data file.
	Analyze(ctx context.Context, req domain.AnalysisRequest) (*domain.AnalysisResult, error)

	// AnalyzeAll analyses independent files concurrently, returning results
	// in request order. The first failure cancels the remaining files.
	AnalyzeAll(ctx context.Context, reqs []domain.AnalysisRequest, jobs int) ([]*domain.AnalysisResult, error)

	// Memberships returns per-particle set names for a data file. When the
	// file has no usable set information every record carries no membership.
	Memberships(ctx context.Context, req domain.AnalysisRequest) ([]domain.ParticleMembership, error)
}
