// Package definition loads the set definition used to classify a data file,
// either from an override file or from the data file itself.
package definition

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/custodia-labs/cytoset/internal/adapters/driven/definition/iif"
	"github.com/custodia-labs/cytoset/internal/adapters/driven/definition/xmlset"
	"github.com/custodia-labs/cytoset/internal/core/domain"
	"github.com/custodia-labs/cytoset/internal/core/ports/driven"
	"github.com/custodia-labs/cytoset/internal/logger"
)

// Ensure Source implements the interface.
var _ driven.DefinitionSource = (*Source)(nil)

// Supported override file extensions.
const (
	ExtXML = ".xml"
	ExtIIF = ".iif"
)

// Source loads set definitions from override files and embedded markup.
type Source struct{}

// NewSource creates a definition source.
func NewSource() *Source {
	return &Source{}
}

// LoadOverride reads a user-supplied .xml or .iif definition.
func (s *Source) LoadOverride(ctx context.Context, path string, file *domain.DataFile) (*domain.SetsList, error) {
	if file.Context.ImagingMode == domain.ImagingModeSmartGrid {
		return nil, fmt.Errorf("override with smart grid imaging: %w", domain.ErrUnsupportedImagingMode)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ext := strings.ToLower(filepath.Ext(path))
	if ext != ExtXML && ext != ExtIIF {
		return nil, fmt.Errorf("extension %q, valid extensions are %q and %q: %w",
			filepath.Ext(path), ExtXML, ExtIIF, domain.ErrUnsupportedFormat)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open definition: %w", err)
	}
	defer f.Close()

	serial := file.Context.SerialNumber
	switch ext {
	case ExtIIF:
		params, err := iif.Decode(f)
		if err != nil {
			return nil, err
		}
		logger.Debug("Decoded iif payload %s (version %d)", params.Kind, params.Version)
		return params.SetsList(serial)
	default:
		return xmlset.Decode(f, serial)
	}
}

// LoadEmbedded decodes the definition selected by the file's imaging mode.
func (s *Source) LoadEmbedded(ctx context.Context, file *domain.DataFile) (*domain.SetsList, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	mc := file.Context
	embedded := file.Embedded
	switch mc.ImagingMode {
	case domain.ImagingModeTargetRange:
		if embedded.LegacyTargetRange != "" {
			return nil, fmt.Errorf("cytoclus 3 target range: %w", domain.ErrLegacyFormatUnsupported)
		}
		if embedded.TargetRange == "" {
			return nil, fmt.Errorf("target range: %w", domain.ErrMissingRegionDefinition)
		}
		def, err := xmlset.DecodeSet(embedded.TargetRange)
		if err != nil {
			return nil, fmt.Errorf("target range: %w", err)
		}
		sets := domain.NewSetsList(mc.SerialNumber)
		sets.Add(def)
		return sets, nil

	case domain.ImagingModeSetDefinitionSelector:
		if embedded.SetDefinitionXML == "" {
			return nil, fmt.Errorf("set definition selector: %w", domain.ErrMissingRegionDefinition)
		}
		return xmlset.DecodeString(embedded.SetDefinitionXML, mc.SerialNumber)

	case domain.ImagingModeTargetAll:
		return domain.NewSetsList(mc.SerialNumber), nil

	case domain.ImagingModeSmartGrid:
		return nil, fmt.Errorf("smart grid imaging: %w", domain.ErrUnsupportedImagingMode)

	default:
		return nil, fmt.Errorf("imaging mode %s: %w", mc.ImagingMode, domain.ErrMissingRegionDefinition)
	}
}
