package xmlset

import (
	"encoding/xml"
	"fmt"
	"time"

	"github.com/custodia-labs/cytoset/internal/core/domain"
	"github.com/custodia-labs/cytoset/internal/core/ports/driven"
)

// Ensure Serializer implements the interface.
var _ driven.DefinitionSerializer = (*Serializer)(nil)

// Serializer writes resolved set lists as SetList documents.
type Serializer struct{}

// NewSerializer creates a SetList serializer.
func NewSerializer() *Serializer {
	return &Serializer{}
}

// Serialize renders every set in list order, tagged with the configuration date.
func (s *Serializer) Serialize(sets *domain.SetsList, configurationDate time.Time) (string, error) {
	if sets == nil {
		return "", fmt.Errorf("%w: nil set list", domain.ErrInvalidInput)
	}
	doc := setListXML{
		ConfigurationDate: configurationDate.Format(time.RFC3339Nano),
		Version:           CurrentVersion,
		SerialNumber:      sets.OriginSerialNumber,
		Exclusive:         sets.ExclusiveSets,
		Sets:              make([]setXML, 0, len(sets.Sets)),
	}
	for i := range sets.Sets {
		doc.Sets = append(doc.Sets, fromDomain(&sets.Sets[i]))
	}
	out, err := xml.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("serialize set list: %w", err)
	}
	return string(out), nil
}
