package driven

import "github.com/custodia-labs/cytoset/internal/core/domain"

// GateEvaluator computes the members of one set.
//
// The same contract serves every set kind. Gate-based sets are evaluated
// against particle features; combined, OR and unassigned sets are derived
// from the memberships already present in resolved. Results are sorted and
// de-duplicated. Malformed references yield an empty result, not an error.
type GateEvaluator interface {
	Evaluate(def domain.SetDefinition, particles []domain.Particle, resolved *domain.SetsList) []int
}
