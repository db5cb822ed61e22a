// Package iif reads and writes instrument-native imaging target files.
//
// An .iif file is a small binary container: a 4-byte magic, a
// little-endian header and a payload. Current files carry a single
// gate-based <Set> element; CytoClus 3 files carry an obsolete target
// range that is recognised but not supported.
package iif

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/custodia-labs/cytoset/internal/adapters/driven/definition/xmlset"
	"github.com/custodia-labs/cytoset/internal/core/domain"
)

// Magic identifies an imaging target file.
const Magic = "IIF1"

// MaxPayloadSize bounds the payload length accepted by Decode.
const MaxPayloadSize = 4 << 20

// PayloadKind identifies the content of the payload.
type PayloadKind uint8

// Known payload kinds.
const (
	PayloadLegacyCC3 PayloadKind = 1
	PayloadSet       PayloadKind = 2
)

// String returns a readable payload kind.
func (k PayloadKind) String() string {
	switch k {
	case PayloadLegacyCC3:
		return "legacy cc3"
	case PayloadSet:
		return "set"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(k))
	}
}

type header struct {
	Magic   [4]byte
	Version uint16
	Kind    PayloadKind
	Length  uint32
}

// Parameters is a decoded imaging target file.
type Parameters struct {
	Version uint16
	Kind    PayloadKind
	Payload []byte
}

// Decode reads an imaging target file.
func Decode(r io.Reader) (*Parameters, error) {
	var h header
	if err := binary.Read(r, binary.LittleEndian, &h); err != nil {
		return nil, fmt.Errorf("%w: read iif header: %v", domain.ErrInvalidInput, err)
	}
	if string(h.Magic[:]) != Magic {
		return nil, fmt.Errorf("%w: bad iif magic %q", domain.ErrInvalidInput, h.Magic[:])
	}
	if h.Length > MaxPayloadSize {
		return nil, fmt.Errorf("%w: iif payload of %d bytes exceeds limit", domain.ErrInvalidInput, h.Length)
	}

	payload := make([]byte, h.Length)
	if _, err := io.ReadFull(r, payload); err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: truncated iif payload", domain.ErrInvalidInput)
		}
		return nil, fmt.Errorf("read iif payload: %w", err)
	}

	switch h.Kind {
	case PayloadLegacyCC3, PayloadSet:
	default:
		return nil, fmt.Errorf("iif payload kind %s: %w", h.Kind, domain.ErrUnsupportedFormat)
	}

	return &Parameters{Version: h.Version, Kind: h.Kind, Payload: payload}, nil
}

// Encode writes an imaging target file.
func Encode(w io.Writer, p *Parameters) error {
	if len(p.Payload) > MaxPayloadSize {
		return fmt.Errorf("%w: iif payload too large", domain.ErrInvalidInput)
	}
	h := header{Version: p.Version, Kind: p.Kind, Length: uint32(len(p.Payload))}
	copy(h.Magic[:], Magic)

	var buf bytes.Buffer
	if err := binary.Write(&buf, binary.LittleEndian, h); err != nil {
		return fmt.Errorf("write iif header: %w", err)
	}
	buf.Write(p.Payload)
	if _, err := w.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("write iif: %w", err)
	}
	return nil
}

// ForSet builds the parameters of a current-format target file.
func ForSet(def domain.SetDefinition) (*Parameters, error) {
	markup, err := xmlset.EncodeSet(def)
	if err != nil {
		return nil, err
	}
	return &Parameters{Version: 1, Kind: PayloadSet, Payload: []byte(markup)}, nil
}

// SetsList converts the parameters into a list holding the default set
// followed by the target set.
func (p *Parameters) SetsList(serialNumber string) (*domain.SetsList, error) {
	if p.Kind == PayloadLegacyCC3 {
		return nil, fmt.Errorf("cytoclus 3 target range: %w", domain.ErrLegacyFormatUnsupported)
	}
	def, err := xmlset.DecodeSet(string(p.Payload))
	if err != nil {
		return nil, fmt.Errorf("iif target set: %w", err)
	}
	sets := domain.NewSetsList(serialNumber)
	sets.Add(def)
	return sets, nil
}
