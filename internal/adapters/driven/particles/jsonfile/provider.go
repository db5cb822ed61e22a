package jsonfile

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/custodia-labs/cytoset/internal/core/domain"
	"github.com/custodia-labs/cytoset/internal/core/ports/driven"
)

// Ensure Provider implements the interface.
var _ driven.ParticleSource = (*Provider)(nil)

type document struct {
	Filename   string         `json:"filename"`
	Instrument instrument     `json:"instrument"`
	Particles  []particleJSON `json:"particles"`
}

type instrument struct {
	Name                string              `json:"name"`
	SerialNumber        string              `json:"serialNumber"`
	ConfigurationDate   string              `json:"configurationDate"`
	MeasurementSettings measurementSettings `json:"measurementSettings"`
	MeasurementResults  measurementResults  `json:"measurementResults"`
}

type measurementSettings struct {
	Name       string      `json:"name"`
	TakeImages bool        `json:"takeImages"`
	Imaging    imagingJSON `json:"imaging"`
}

type imagingJSON struct {
	Mode              string       `json:"mode"`
	TargetRange       string       `json:"targetRange"`
	LegacyTargetRange string       `json:"legacyTargetRange"`
	SetDefinition     string       `json:"setDefinition"`
	WantsImages       map[int]bool `json:"wantsImages"`
}

type measurementResults struct {
	AnalysedVolume float64 `json:"analysedVolume"`
}

type particleJSON struct {
	ParticleID int              `json:"particleId"`
	HasImage   bool             `json:"hasImage"`
	Parameters []map[string]any `json:"parameters"`
}

// Provider reads particle data files from disk.
type Provider struct{}

// NewProvider creates a JSON particle provider.
func NewProvider() *Provider {
	return &Provider{}
}

// Load reads and converts one data file. Particle indices follow the
// order of the particles array.
func (p *Provider) Load(ctx context.Context, path string) (*domain.DataFile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open data file: %w", err)
	}
	defer f.Close()

	var doc document
	if err := json.NewDecoder(f).Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %v", domain.ErrInvalidInput, path, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return convert(path, &doc)
}

func convert(path string, doc *document) (*domain.DataFile, error) {
	inst := doc.Instrument
	settings := inst.MeasurementSettings

	volume := inst.MeasurementResults.AnalysedVolume
	if volume < 0 {
		return nil, fmt.Errorf("%w: negative analysed volume %g", domain.ErrInvalidInput, volume)
	}

	var configured time.Time
	if inst.ConfigurationDate != "" {
		t, err := time.Parse(time.RFC3339, inst.ConfigurationDate)
		if err != nil {
			return nil, fmt.Errorf("%w: configuration date: %v", domain.ErrInvalidInput, err)
		}
		configured = t
	}

	file := &domain.DataFile{
		Path: path,
		Context: domain.MeasurementContext{
			AnalyzedVolume:    volume,
			ImagingEnabled:    settings.TakeImages,
			ImagingMode:       domain.ImagingTargetMode(settings.Imaging.Mode),
			WantsImages:       settings.Imaging.WantsImages,
			SerialNumber:      inst.SerialNumber,
			ConfigurationDate: configured,
		},
		Embedded: domain.EmbeddedDefinition{
			TargetRange:       settings.Imaging.TargetRange,
			LegacyTargetRange: settings.Imaging.LegacyTargetRange,
			SetDefinitionXML:  settings.Imaging.SetDefinition,
		},
		Particles: make([]domain.Particle, len(doc.Particles)),
	}

	for i, pj := range doc.Particles {
		file.Particles[i] = domain.Particle{
			Index:    i,
			ID:       pj.ParticleID,
			HasImage: pj.HasImage,
			Features: features(pj.Parameters),
		}
	}
	return file, nil
}

// features flattens per-channel parameters into "<channel>.<parameter>" keys.
func features(params []map[string]any) map[string]float64 {
	out := make(map[string]float64, len(params)*4)
	for _, channel := range params {
		name, _ := channel["description"].(string)
		if name == "" {
			continue
		}
		for key, v := range channel {
			if f, ok := v.(float64); ok {
				out[name+"."+key] = f
			}
		}
	}
	return out
}
