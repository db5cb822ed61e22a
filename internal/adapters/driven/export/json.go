package export

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/custodia-labs/cytoset/internal/core/domain"
	"github.com/custodia-labs/cytoset/internal/core/ports/driven"
)

var (
	_ driven.ResultExporter     = (*JSONExporter)(nil)
	_ driven.MembershipExporter = (*JSONExporter)(nil)
)

// JSONExporter writes indented JSON.
type JSONExporter struct{}

// NewJSONExporter creates a JSON exporter.
func NewJSONExporter() *JSONExporter {
	return &JSONExporter{}
}

// Export writes a single result as an object and several as an array.
func (e *JSONExporter) Export(w io.Writer, results []*domain.AnalysisResult) error {
	var v any = results
	if len(results) == 1 {
		v = results[0]
	}
	return writeJSON(w, v)
}

type membershipDocument struct {
	Filename  string                      `json:"filename"`
	Particles []domain.ParticleMembership `json:"particles"`
}

// ExportMemberships writes the records of one file.
func (e *JSONExporter) ExportMemberships(w io.Writer, filename string, records []domain.ParticleMembership) error {
	if records == nil {
		records = []domain.ParticleMembership{}
	}
	return writeJSON(w, membershipDocument{Filename: filename, Particles: records})
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
}
