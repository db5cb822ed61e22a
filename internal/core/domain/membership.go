package domain

import "encoding/json"

// Membership is the optional list of set names a particle belongs to.
// The zero value is None: no set information exists at all, which is
// different from a particle that is in no named set.
type Membership struct {
	names []string
	known bool
}

// NoMembership returns the "no set information" value.
func NoMembership() Membership {
	return Membership{}
}

// MembershipOf returns a known membership. A nil slice is stored as empty.
func MembershipOf(names []string) Membership {
	if names == nil {
		names = []string{}
	}
	return Membership{names: names, known: true}
}

// Names returns the set names and whether set information exists.
func (m Membership) Names() ([]string, bool) {
	return m.names, m.known
}

// Known reports whether set information exists.
func (m Membership) Known() bool {
	return m.known
}

// MarshalJSON encodes None as null and a known membership as an array.
func (m Membership) MarshalJSON() ([]byte, error) {
	if !m.known {
		return []byte("null"), nil
	}
	return json.Marshal(m.names)
}

// UnmarshalJSON is the inverse of MarshalJSON.
func (m *Membership) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*m = NoMembership()
		return nil
	}
	var names []string
	if err := json.Unmarshal(data, &names); err != nil {
		return err
	}
	*m = MembershipOf(names)
	return nil
}

// ParticleMembership is the per-particle export record.
type ParticleMembership struct {
	ParticleID int        `json:"particleId"`
	Index      int        `json:"index"`
	Sets       Membership `json:"sets"`
}
