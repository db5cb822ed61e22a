package export

import (
	"fmt"

	"github.com/custodia-labs/cytoset/internal/core/domain"
	"github.com/custodia-labs/cytoset/internal/core/ports/driven"
)

// Exporters is a matched result and membership exporter pair.
type Exporters struct {
	Results     driven.ResultExporter
	Memberships driven.MembershipExporter
}

// NewExporters returns the exporters for a file format. The table format
// is rendered by the CLI and is not handled here.
func NewExporters(format domain.ExportFormat) (Exporters, error) {
	switch format {
	case domain.ExportFormatJSON:
		e := NewJSONExporter()
		return Exporters{Results: e, Memberships: e}, nil
	case domain.ExportFormatCSV:
		e := NewCSVExporter()
		return Exporters{Results: e, Memberships: e}, nil
	default:
		return Exporters{}, fmt.Errorf("%w: no file exporter for format %q", domain.ErrInvalidInput, format)
	}
}
