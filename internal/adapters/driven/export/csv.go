package export

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/gocarina/gocsv"

	"github.com/custodia-labs/cytoset/internal/core/domain"
	"github.com/custodia-labs/cytoset/internal/core/ports/driven"
)

var (
	_ driven.ResultExporter     = (*CSVExporter)(nil)
	_ driven.MembershipExporter = (*CSVExporter)(nil)
)

// SetNameSeparator joins set names in the particle table.
const SetNameSeparator = ";"

// StatisticsRecord is one row of the statistics table.
type StatisticsRecord struct {
	File         string `csv:"file"`
	ListID       int    `csv:"list_id"`
	Name         string `csv:"name"`
	Count        int    `csv:"count"`
	Images       int    `csv:"images"`
	ImagedVolume string `csv:"imaged_volume"`
}

// MembershipRecord is one row of the particle table. Known is false when
// the file carried no set information.
type MembershipRecord struct {
	File       string `csv:"file"`
	ParticleID int    `csv:"particle_id"`
	Index      int    `csv:"index"`
	Known      bool   `csv:"known"`
	Sets       string `csv:"sets"`
}

// CSVExporter writes comma-separated tables with a header row.
type CSVExporter struct{}

// NewCSVExporter creates a CSV exporter.
func NewCSVExporter() *CSVExporter {
	return &CSVExporter{}
}

// Export writes the statistics of every result to one table.
func (e *CSVExporter) Export(w io.Writer, results []*domain.AnalysisResult) error {
	records := StatisticsRecords(results)
	if err := gocsv.Marshal(records, w); err != nil {
		return fmt.Errorf("write statistics csv: %w", err)
	}
	return nil
}

// ExportMemberships writes the particle table of one file.
func (e *CSVExporter) ExportMemberships(w io.Writer, filename string, records []domain.ParticleMembership) error {
	rows := make([]*MembershipRecord, 0, len(records))
	for _, r := range records {
		names, known := r.Sets.Names()
		rows = append(rows, &MembershipRecord{
			File:       filename,
			ParticleID: r.ParticleID,
			Index:      r.Index,
			Known:      known,
			Sets:       strings.Join(names, SetNameSeparator),
		})
	}
	if err := gocsv.Marshal(rows, w); err != nil {
		return fmt.Errorf("write membership csv: %w", err)
	}
	return nil
}

// StatisticsRecords flattens results into table rows in input order.
func StatisticsRecords(results []*domain.AnalysisResult) []*StatisticsRecord {
	var records []*StatisticsRecord
	for _, res := range results {
		for _, st := range res.Info.Statistics {
			records = append(records, &StatisticsRecord{
				File:         res.Filename,
				ListID:       st.ListID,
				Name:         st.Name,
				Count:        st.Count,
				Images:       st.Images,
				ImagedVolume: FormatVolume(st.ImagedVolume),
			})
		}
	}
	return records
}

// ReadStatistics parses a statistics table written by Export.
func ReadStatistics(r io.Reader) ([]*StatisticsRecord, error) {
	var records []*StatisticsRecord
	if err := gocsv.Unmarshal(r, &records); err != nil {
		return nil, fmt.Errorf("read statistics csv: %w", err)
	}
	return records, nil
}

// FormatVolume renders a volume in µL, or NaN when undefined.
func FormatVolume(v float64) string {
	if math.IsNaN(v) {
		return "NaN"
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}
