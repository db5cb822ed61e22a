package driven

import (
	"io"

	"github.com/custodia-labs/cytoset/internal/core/domain"
)

// ResultExporter writes analysis results in one output format.
type ResultExporter interface {
	// Export writes the results. Results keep their input order.
	Export(w io.Writer, results []*domain.AnalysisResult) error
}

// MembershipExporter writes per-particle membership records.
type MembershipExporter interface {
	ExportMemberships(w io.Writer, filename string, records []domain.ParticleMembership) error
}
