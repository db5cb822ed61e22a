package domain

import "fmt"

// DefaultListID is the list id reserved for the implicit default set.
const DefaultListID = 0

// DefaultSetName is the name given to the default set when a definition
// does not name it.
const DefaultSetName = "Default"

// SetKind identifies how a set's membership is computed.
type SetKind string

// Available set kinds.
const (
	// SetKindGateBased sets are defined by a geometric rule over features.
	SetKindGateBased SetKind = "gateBased"

	// SetKindCombined sets contain particles present in all member sets.
	SetKindCombined SetKind = "combined"

	// SetKindOr sets contain particles present in any member set.
	SetKindOr SetKind = "orSet"

	// SetKindUnassigned sets contain particles not claimed by any gate-based set.
	SetKindUnassigned SetKind = "unassignedParticles"
)

// IsValid returns true if the set kind is recognised.
func (k SetKind) IsValid() bool {
	switch k {
	case SetKindGateBased, SetKindCombined, SetKindOr, SetKindUnassigned:
		return true
	default:
		return false
	}
}

// IsDerived returns true for kinds computed from other sets' final memberships.
func (k SetKind) IsDerived() bool {
	return k == SetKindCombined || k == SetKindOr || k == SetKindUnassigned
}

// String returns the string representation.
func (k SetKind) String() string {
	return string(k)
}

// Description returns a human-readable description of the kind.
func (k SetKind) Description() string {
	switch k {
	case SetKindGateBased:
		return "Gate based"
	case SetKindCombined:
		return "Combined (all members)"
	case SetKindOr:
		return "Or (any member)"
	case SetKindUnassigned:
		return "Unassigned particles"
	default:
		return "Unknown"
	}
}

// GateShape identifies the geometry of a gate.
type GateShape string

// Available gate shapes.
const (
	GateShapeRectangle GateShape = "rectangle"
	GateShapePolygon   GateShape = "polygon"
)

// Point is a vertex of a polygon gate in feature space.
type Point struct {
	X float64
	Y float64
}

// Gate is the geometric rule of a gate-based set over two features.
type Gate struct {
	// Shape selects between the rectangle bounds and the polygon vertices.
	Shape GateShape

	// XAxis and YAxis are the feature keys plotted on each axis.
	XAxis string
	YAxis string

	// Logarithmic evaluates the gate on log10 feature values.
	Logarithmic bool

	// Rectangle bounds, inclusive.
	MinX, MaxX float64
	MinY, MaxY float64

	// Vertices of a polygon gate, in drawing order.
	Vertices []Point
}

// Clone returns a deep copy of the gate.
func (g *Gate) Clone() *Gate {
	if g == nil {
		return nil
	}
	c := *g
	c.Vertices = append([]Point(nil), g.Vertices...)
	return &c
}

// SetDefinition is the identity and rule of one set.
type SetDefinition struct {
	// ListID is unique within a SetsList. Zero is the default set.
	ListID int

	// Name is the human-readable set name.
	Name string

	// Kind selects how membership is computed.
	Kind SetKind

	// Colour is carried for provenance and serialization only.
	Colour string

	// Gate is the rule of a gate-based set.
	Gate *Gate

	// Members lists the referenced list ids of a combined or OR set.
	Members []int
}

// IsDefault reports whether the definition is the implicit default set.
func (d SetDefinition) IsDefault() bool {
	return d.ListID == DefaultListID
}

// Set is a set definition bound to its resolved member indices.
type Set struct {
	SetDefinition

	// ParticleIndices holds member particle indices, ascending and unique.
	ParticleIndices []int
}

// Count returns the number of member particles.
func (s *Set) Count() int {
	return len(s.ParticleIndices)
}

// Contains reports whether the particle index is a member.
func (s *Set) Contains(index int) bool {
	return Contains(s.ParticleIndices, index)
}

// SetsList is an ordered collection of sets. Order is precedence in
// exclusive mode and is preserved through Clone.
type SetsList struct {
	Sets []Set

	// ExclusiveSets forces each particle into at most one gate-based set.
	ExclusiveSets bool

	// OriginSerialNumber is the instrument serial the list was authored for.
	OriginSerialNumber string
}

// NewSetsList creates a list holding only the default set.
func NewSetsList(serialNumber string) *SetsList {
	return &SetsList{
		Sets: []Set{{
			SetDefinition: SetDefinition{
				ListID: DefaultListID,
				Name:   DefaultSetName,
				Kind:   SetKindUnassigned,
			},
		}},
		OriginSerialNumber: serialNumber,
	}
}

// Len returns the number of sets.
func (l *SetsList) Len() int {
	if l == nil {
		return 0
	}
	return len(l.Sets)
}

// Add appends a set definition with no members.
func (l *SetsList) Add(def SetDefinition) {
	l.Sets = append(l.Sets, Set{SetDefinition: def})
}

// Find returns the set with the given list id.
func (l *SetsList) Find(listID int) (*Set, bool) {
	for i := range l.Sets {
		if l.Sets[i].ListID == listID {
			return &l.Sets[i], true
		}
	}
	return nil, false
}

// Default returns the default set, if present.
func (l *SetsList) Default() (*Set, bool) {
	return l.Find(DefaultListID)
}

// Clone returns a deep copy preserving order, flags and memberships.
func (l *SetsList) Clone() *SetsList {
	if l == nil {
		return nil
	}
	c := &SetsList{
		Sets:               make([]Set, len(l.Sets)),
		ExclusiveSets:      l.ExclusiveSets,
		OriginSerialNumber: l.OriginSerialNumber,
	}
	for i := range l.Sets {
		s := l.Sets[i]
		s.Gate = s.Gate.Clone()
		s.Members = append([]int(nil), s.Members...)
		s.ParticleIndices = append([]int(nil), s.ParticleIndices...)
		c.Sets[i] = s
	}
	return c
}

// Validate checks list-level invariants: known kinds, unique ids, a rule
// for every gate-based set and resolvable member references.
func (l *SetsList) Validate() error {
	seen := make(map[int]bool, len(l.Sets))
	for i := range l.Sets {
		s := &l.Sets[i]
		if !s.Kind.IsValid() {
			return &SetError{ListID: s.ListID, Name: s.Name, Reason: "unknown set kind " + string(s.Kind)}
		}
		if seen[s.ListID] {
			return &SetError{ListID: s.ListID, Name: s.Name, Reason: "duplicate list id"}
		}
		seen[s.ListID] = true
		if s.Kind == SetKindGateBased && s.Gate == nil {
			return &SetError{ListID: s.ListID, Name: s.Name, Reason: "gate-based set without gate"}
		}
	}
	for i := range l.Sets {
		for _, m := range l.Sets[i].Members {
			if !seen[m] {
				return &SetError{ListID: l.Sets[i].ListID, Name: l.Sets[i].Name, Reason: "unknown member set"}
			}
		}
	}
	return nil
}

// SetError describes an invalid set within a definition.
type SetError struct {
	ListID int
	Name   string
	Reason string
}

func (e *SetError) Error() string {
	return fmt.Sprintf("set %q (id %d): %s", e.Name, e.ListID, e.Reason)
}

// Unwrap lets callers match SetError against ErrInvalidInput.
func (e *SetError) Unwrap() error {
	return ErrInvalidInput
}
