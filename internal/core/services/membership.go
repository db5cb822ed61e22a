package services

import "github.com/custodia-labs/cytoset/internal/core/domain"

// MemberSetNames returns the names of every non-default set containing the
// particle, in list order. A nil list means there is no set information.
func MemberSetNames(p domain.Particle, sets *domain.SetsList) domain.Membership {
	if sets == nil {
		return domain.NoMembership()
	}

	names := []string{}
	for i := range sets.Sets {
		s := &sets.Sets[i]
		if s.IsDefault() {
			continue // every particle is in the default set
		}
		if s.Contains(p.Index) {
			names = append(names, s.Name)
		}
	}
	return domain.MembershipOf(names)
}

// Memberships computes the membership record of every particle.
func Memberships(particles []domain.Particle, sets *domain.SetsList) []domain.ParticleMembership {
	out := make([]domain.ParticleMembership, 0, len(particles))
	for i := range particles {
		out = append(out, domain.ParticleMembership{
			ParticleID: particles[i].ID,
			Index:      particles[i].Index,
			Sets:       MemberSetNames(particles[i], sets),
		})
	}
	return out
}
