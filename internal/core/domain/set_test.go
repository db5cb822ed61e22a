package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gateDef(id int, name string) SetDefinition {
	return SetDefinition{
		ListID: id,
		Name:   name,
		Kind:   SetKindGateBased,
		Gate:   &Gate{Shape: GateShapeRectangle, XAxis: "FWS.total", YAxis: "SWS.total", MaxX: 1, MaxY: 1},
	}
}

func TestSetKind(t *testing.T) {
	tests := []struct {
		kind    SetKind
		valid   bool
		derived bool
	}{
		{SetKindGateBased, true, false},
		{SetKindCombined, true, true},
		{SetKindOr, true, true},
		{SetKindUnassigned, true, true},
		{SetKind("polygonGate"), false, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			assert.Equal(t, tt.valid, tt.kind.IsValid())
			assert.Equal(t, tt.derived, tt.kind.IsDerived())
			assert.NotEmpty(t, tt.kind.Description())
		})
	}
	assert.Equal(t, "Unknown", SetKind("x").Description())
}

func TestNewSetsList(t *testing.T) {
	l := NewSetsList("OC-1234")

	require.Equal(t, 1, l.Len())
	def, ok := l.Default()
	require.True(t, ok)
	assert.Equal(t, DefaultSetName, def.Name)
	assert.Equal(t, SetKindUnassigned, def.Kind)
	assert.True(t, def.IsDefault())
	assert.Equal(t, "OC-1234", l.OriginSerialNumber)
	assert.False(t, l.ExclusiveSets)
}

func TestSetsList_NilLen(t *testing.T) {
	var l *SetsList
	assert.Zero(t, l.Len())
	assert.Nil(t, l.Clone())
}

func TestSetsList_AddFind(t *testing.T) {
	l := NewSetsList("")
	l.Add(gateDef(2, "Algae"))

	s, ok := l.Find(2)
	require.True(t, ok)
	assert.Equal(t, "Algae", s.Name)
	assert.Zero(t, s.Count())

	_, ok = l.Find(9)
	assert.False(t, ok)
}

func TestSetsList_CloneIsDeep(t *testing.T) {
	l := NewSetsList("")
	l.ExclusiveSets = true
	l.Add(gateDef(1, "A"))
	l.Add(SetDefinition{ListID: 2, Name: "Or", Kind: SetKindOr, Members: []int{1}})
	l.Sets[1].ParticleIndices = []int{1, 2}
	l.Sets[1].Gate.Vertices = []Point{{X: 1, Y: 1}}

	c := l.Clone()
	c.Sets[1].ParticleIndices[0] = 99
	c.Sets[1].Gate.MaxX = 42
	c.Sets[1].Gate.Vertices[0].X = 7
	c.Sets[2].Members[0] = 5

	assert.True(t, c.ExclusiveSets)
	assert.Equal(t, []int{1, 2}, l.Sets[1].ParticleIndices)
	assert.Equal(t, 1.0, l.Sets[1].Gate.MaxX)
	assert.Equal(t, 1.0, l.Sets[1].Gate.Vertices[0].X)
	assert.Equal(t, []int{1}, l.Sets[2].Members)
}

func TestSet_Contains(t *testing.T) {
	s := Set{ParticleIndices: []int{0, 3, 8}}
	assert.True(t, s.Contains(3))
	assert.False(t, s.Contains(4))
	assert.Equal(t, 3, s.Count())
}

func TestSetsList_Validate(t *testing.T) {
	tests := []struct {
		name   string
		build  func(*SetsList)
		reason string
	}{
		{"valid", func(l *SetsList) {
			l.Add(gateDef(1, "A"))
			l.Add(SetDefinition{ListID: 2, Name: "C", Kind: SetKindCombined, Members: []int{1, 0}})
		}, ""},
		{"unknown kind", func(l *SetsList) {
			l.Add(SetDefinition{ListID: 1, Name: "X", Kind: "smartGrid"})
		}, "unknown set kind"},
		{"duplicate id", func(l *SetsList) {
			l.Add(gateDef(1, "A"))
			l.Add(gateDef(1, "B"))
		}, "duplicate list id"},
		{"gate missing", func(l *SetsList) {
			l.Add(SetDefinition{ListID: 1, Name: "A", Kind: SetKindGateBased})
		}, "without gate"},
		{"unknown member", func(l *SetsList) {
			l.Add(SetDefinition{ListID: 2, Name: "Or", Kind: SetKindOr, Members: []int{7}})
		}, "unknown member set"},
		{"forward reference allowed", func(l *SetsList) {
			l.Add(SetDefinition{ListID: 2, Name: "Or", Kind: SetKindOr, Members: []int{3}})
			l.Add(gateDef(3, "A"))
		}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := NewSetsList("")
			tt.build(l)
			err := l.Validate()
			if tt.reason == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidInput))
			assert.Contains(t, err.Error(), tt.reason)
		})
	}
}
