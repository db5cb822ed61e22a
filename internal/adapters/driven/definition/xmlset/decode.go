package xmlset

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/custodia-labs/cytoset/internal/core/domain"
)

// Decode reads a SetList document. The serial number is used when the
// document does not carry its own. A default set is inserted at the front
// when the document omits it.
func Decode(r io.Reader, serialNumber string) (*domain.SetsList, error) {
	var doc setListXML
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: decode set list: %v", domain.ErrInvalidInput, err)
	}
	if doc.Version != 0 && doc.Version < CurrentVersion {
		return nil, fmt.Errorf("set list version %d: %w", doc.Version, domain.ErrLegacyFormatUnsupported)
	}

	serial := doc.SerialNumber
	if serial == "" {
		serial = serialNumber
	}
	list := &domain.SetsList{
		ExclusiveSets:      doc.Exclusive,
		OriginSerialNumber: serial,
	}
	hasDefault := false
	for _, s := range doc.Sets {
		def, err := s.toDomain()
		if err != nil {
			return nil, err
		}
		if def.IsDefault() {
			hasDefault = true
		}
		list.Add(def)
	}
	if !hasDefault {
		withDefault := domain.NewSetsList(serial)
		withDefault.ExclusiveSets = list.ExclusiveSets
		withDefault.Sets = append(withDefault.Sets, list.Sets...)
		list = withDefault
	}
	return list, nil
}

// DecodeString reads a SetList document held in memory.
func DecodeString(markup, serialNumber string) (*domain.SetsList, error) {
	return Decode(strings.NewReader(markup), serialNumber)
}

// DecodeSet reads a single gate-based <Set> element, as stored for a
// target range.
func DecodeSet(markup string) (domain.SetDefinition, error) {
	var s setXML
	if err := xml.Unmarshal([]byte(markup), &s); err != nil {
		return domain.SetDefinition{}, fmt.Errorf("%w: decode set: %v", domain.ErrInvalidInput, err)
	}
	def, err := s.toDomain()
	if err != nil {
		return def, err
	}
	if def.Kind != domain.SetKindGateBased {
		return def, &domain.SetError{ListID: def.ListID, Name: def.Name, Reason: "target set must be gate based"}
	}
	if def.IsDefault() {
		return def, &domain.SetError{ListID: def.ListID, Name: def.Name, Reason: "target set uses the default list id"}
	}
	return def, nil
}

// EncodeSet renders a single set element.
func EncodeSet(def domain.SetDefinition) (string, error) {
	out, err := xml.Marshal(fromDomain(&domain.Set{SetDefinition: def}))
	if err != nil {
		return "", fmt.Errorf("encode set: %w", err)
	}
	return string(out), nil
}
