package xmlset

import (
	"encoding/xml"
	"errors"
	"fmt"

	"github.com/custodia-labs/cytoset/internal/core/domain"
)

// CurrentVersion is the schema version written by Serialize.
const CurrentVersion = 4

type setListXML struct {
	XMLName           xml.Name `xml:"SetList"`
	ConfigurationDate string   `xml:"configuration_date,attr,omitempty"`
	Version           int      `xml:"version,attr,omitempty"`
	SerialNumber      string   `xml:"serial_number,attr,omitempty"`
	Exclusive         bool     `xml:"exclusive,attr,omitempty"`
	Sets              []setXML `xml:"Set"`
}

type setXML struct {
	XMLName xml.Name    `xml:"Set"`
	ID      int         `xml:"id,attr"`
	Name    string      `xml:"name,attr"`
	Kind    string      `xml:"kind,attr"`
	Colour  string      `xml:"colour,attr,omitempty"`
	Gate    *gateXML    `xml:"Gate,omitempty"`
	Members []memberXML `xml:"Member"`
}

type gateXML struct {
	Shape  string     `xml:"shape,attr"`
	XAxis  string     `xml:"x_axis,attr"`
	YAxis  string     `xml:"y_axis,attr"`
	Log    bool       `xml:"log,attr,omitempty"`
	MinX   float64    `xml:"min_x,attr,omitempty"`
	MaxX   float64    `xml:"max_x,attr,omitempty"`
	MinY   float64    `xml:"min_y,attr,omitempty"`
	MaxY   float64    `xml:"max_y,attr,omitempty"`
	Points []pointXML `xml:"Point"`
}

type pointXML struct {
	X float64 `xml:"x,attr"`
	Y float64 `xml:"y,attr"`
}

type memberXML struct {
	ID int `xml:"id,attr"`
}

func (s setXML) toDomain() (domain.SetDefinition, error) {
	def := domain.SetDefinition{
		ListID: s.ID,
		Name:   s.Name,
		Kind:   domain.SetKind(s.Kind),
		Colour: s.Colour,
	}
	if def.ListID == domain.DefaultListID && def.Name == "" {
		def.Name = domain.DefaultSetName
	}
	if !def.Kind.IsValid() {
		return def, &domain.SetError{ListID: def.ListID, Name: def.Name, Reason: fmt.Sprintf("unknown kind %q", s.Kind)}
	}
	for _, m := range s.Members {
		def.Members = append(def.Members, m.ID)
	}
	if def.Kind != domain.SetKindGateBased {
		return def, nil
	}
	if s.Gate == nil {
		return def, &domain.SetError{ListID: def.ListID, Name: def.Name, Reason: "missing gate"}
	}
	gate, err := s.Gate.toDomain()
	if err != nil {
		return def, &domain.SetError{ListID: def.ListID, Name: def.Name, Reason: err.Error()}
	}
	def.Gate = gate
	return def, nil
}

func (g gateXML) toDomain() (*domain.Gate, error) {
	if g.XAxis == "" || g.YAxis == "" {
		return nil, errors.New("gate axes not set")
	}
	gate := &domain.Gate{
		Shape:       domain.GateShape(g.Shape),
		XAxis:       g.XAxis,
		YAxis:       g.YAxis,
		Logarithmic: g.Log,
	}
	switch gate.Shape {
	case domain.GateShapeRectangle:
		if g.MinX > g.MaxX || g.MinY > g.MaxY {
			return nil, errors.New("inverted rectangle bounds")
		}
		gate.MinX, gate.MaxX = g.MinX, g.MaxX
		gate.MinY, gate.MaxY = g.MinY, g.MaxY
	case domain.GateShapePolygon:
		if len(g.Points) < 3 {
			return nil, fmt.Errorf("polygon needs at least 3 points, got %d", len(g.Points))
		}
		for _, p := range g.Points {
			gate.Vertices = append(gate.Vertices, domain.Point{X: p.X, Y: p.Y})
		}
	default:
		return nil, fmt.Errorf("unknown gate shape %q", g.Shape)
	}
	return gate, nil
}

func fromDomain(s *domain.Set) setXML {
	out := setXML{
		ID:     s.ListID,
		Name:   s.Name,
		Kind:   string(s.Kind),
		Colour: s.Colour,
	}
	for _, m := range s.Members {
		out.Members = append(out.Members, memberXML{ID: m})
	}
	if g := s.Gate; g != nil {
		gx := &gateXML{
			Shape: string(g.Shape),
			XAxis: g.XAxis,
			YAxis: g.YAxis,
			Log:   g.Logarithmic,
		}
		if g.Shape == domain.GateShapeRectangle {
			gx.MinX, gx.MaxX = g.MinX, g.MaxX
			gx.MinY, gx.MaxY = g.MinY, g.MaxY
		}
		for _, v := range g.Vertices {
			gx.Points = append(gx.Points, pointXML{X: v.X, Y: v.Y})
		}
		out.Gate = gx
	}
	return out
}
