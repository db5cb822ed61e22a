package export

import (
	"bytes"
	"encoding/json"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/cytoset/internal/core/domain"
)

func sampleResult(name string) *domain.AnalysisResult {
	return &domain.AnalysisResult{
		Filename:    name,
		ImagingMode: domain.ImagingModeTargetRange,
		Info: domain.SetInformation{
			Definition: "<SetList/>",
			Statistics: []domain.SetStatistics{
				{ListID: 0, Name: "Default", Count: 6, Images: 1, ImagedVolume: math.NaN()},
				{ListID: 1, Name: "Pico", Count: 4, Images: 2, ImagedVolume: 0.75},
			},
		},
	}
}

func TestJSONExporter_Single(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, NewJSONExporter().Export(&buf, []*domain.AnalysisResult{sampleResult("a.json")}))

	var got map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "a.json", got["filename"])
	sets := got["sets"].(map[string]any)
	stats := sets["statistics"].([]any)
	require.Len(t, stats, 2)
	assert.Nil(t, stats[0].(map[string]any)["imagedVolume"])
	assert.InDelta(t, 0.75, stats[1].(map[string]any)["imagedVolume"], 1e-12)
	assert.NotContains(t, got, "particles")
}

func TestJSONExporter_Multiple(t *testing.T) {
	var buf bytes.Buffer

	results := []*domain.AnalysisResult{sampleResult("a.json"), sampleResult("b.json")}
	require.NoError(t, NewJSONExporter().Export(&buf, results))

	var got []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got, 2)
	assert.Equal(t, "b.json", got[1]["filename"])
}

func TestJSONExporter_Memberships(t *testing.T) {
	var buf bytes.Buffer
	records := []domain.ParticleMembership{
		{ParticleID: 1, Index: 0, Sets: domain.MembershipOf([]string{"Pico"})},
		{ParticleID: 2, Index: 1, Sets: domain.MembershipOf(nil)},
		{ParticleID: 3, Index: 2, Sets: domain.NoMembership()},
	}

	require.NoError(t, NewJSONExporter().ExportMemberships(&buf, "a.json", records))

	out := buf.String()
	assert.Contains(t, out, `"sets": [`)
	assert.Contains(t, out, `"sets": []`)
	assert.Contains(t, out, `"sets": null`)
}

func TestJSONExporter_Memberships_Empty(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, NewJSONExporter().ExportMemberships(&buf, "a.json", nil))

	assert.Contains(t, buf.String(), `"particles": []`)
}

func TestCSVExporter_Export(t *testing.T) {
	var buf bytes.Buffer

	results := []*domain.AnalysisResult{sampleResult("a.json"), sampleResult("b.json")}
	require.NoError(t, NewCSVExporter().Export(&buf, results))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, "file,list_id,name,count,images,imaged_volume", lines[0])
	assert.Equal(t, "a.json,0,Default,6,1,NaN", lines[1])
	assert.Equal(t, "a.json,1,Pico,4,2,0.75", lines[2])
	assert.True(t, strings.HasPrefix(lines[3], "b.json,"))
}

func TestCSVExporter_RoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewCSVExporter().Export(&buf, []*domain.AnalysisResult{sampleResult("a.json")}))

	records, err := ReadStatistics(&buf)
	require.NoError(t, err)

	assert.Equal(t, StatisticsRecords([]*domain.AnalysisResult{sampleResult("a.json")}), records)
}

func TestCSVExporter_Memberships(t *testing.T) {
	var buf bytes.Buffer
	records := []domain.ParticleMembership{
		{ParticleID: 1, Index: 0, Sets: domain.MembershipOf([]string{"Pico", "Both"})},
		{ParticleID: 2, Index: 1, Sets: domain.NoMembership()},
	}

	require.NoError(t, NewCSVExporter().ExportMemberships(&buf, "a.json", records))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "file,particle_id,index,known,sets", lines[0])
	assert.Equal(t, "a.json,1,0,true,Pico;Both", lines[1])
	assert.Equal(t, "a.json,2,1,false,", lines[2])
}

func TestFormatVolume(t *testing.T) {
	assert.Equal(t, "NaN", FormatVolume(math.NaN()))
	assert.Equal(t, "0", FormatVolume(0))
	assert.Equal(t, "1.5", FormatVolume(1.5))
}

func TestNewExporters(t *testing.T) {
	e, err := NewExporters(domain.ExportFormatJSON)
	require.NoError(t, err)
	assert.IsType(t, &JSONExporter{}, e.Results)

	e, err = NewExporters(domain.ExportFormatCSV)
	require.NoError(t, err)
	assert.IsType(t, &CSVExporter{}, e.Memberships)

	_, err = NewExporters(domain.ExportFormatTable)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
