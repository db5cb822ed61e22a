package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/cytoset/internal/core/domain"
	"github.com/custodia-labs/cytoset/internal/core/ports/driven"
	"github.com/custodia-labs/cytoset/internal/core/ports/driving"
	"github.com/custodia-labs/cytoset/internal/logger"
)

// Ensure Classifier implements the interface.
var _ driving.Classifier = (*Classifier)(nil)

// Classifier resolves set membership, honouring exclusive-set precedence.
type Classifier struct {
	evaluator driven.GateEvaluator
}

// NewClassifier creates a classifier backed by the given gate evaluator.
func NewClassifier(evaluator driven.GateEvaluator) *Classifier {
	return &Classifier{evaluator: evaluator}
}

// Resolve returns a resolved copy of sets.
//
// Gate-based sets are evaluated first against the full population. In
// exclusive mode they are then walked in list order and each loses the
// particles already claimed by an earlier gate-based set. Only after that
// are combined, OR and unassigned sets recomputed, in list order, from the
// final memberships.
func (c *Classifier) Resolve(
	ctx context.Context, sets *domain.SetsList, particles []domain.Particle,
) (*domain.SetsList, error) {
	if sets == nil {
		return nil, fmt.Errorf("resolve: %w: nil sets list", domain.ErrInvalidInput)
	}

	resolved := sets.Clone()
	for i := range resolved.Sets {
		resolved.Sets[i].ParticleIndices = nil
	}

	logger.Debug("Resolving %d sets over %d particles (exclusive=%t)",
		len(resolved.Sets), len(particles), resolved.ExclusiveSets)

	// Raw gate-based membership, ignoring exclusivity.
	for i := range resolved.Sets {
		s := &resolved.Sets[i]
		if s.Kind != domain.SetKindGateBased {
			continue
		}
		s.ParticleIndices = domain.Normalize(c.evaluator.Evaluate(s.SetDefinition, particles, resolved))
		logger.Debug("  %s: %d raw members", s.Name, len(s.ParticleIndices))
	}

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("resolve: %w", err)
	}

	if resolved.ExclusiveSets {
		applyExclusivity(resolved)
	}

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("resolve: %w", err)
	}

	for i := range resolved.Sets {
		s := &resolved.Sets[i]
		if !s.Kind.IsDerived() {
			continue
		}
		s.ParticleIndices = domain.Normalize(c.evaluator.Evaluate(s.SetDefinition, particles, resolved))
		logger.Debug("  %s (%s): %d members", s.Name, s.Kind, len(s.ParticleIndices))
	}

	return resolved, nil
}

// applyExclusivity removes from each gate-based set the particles already
// assigned to an earlier gate-based set. Earlier sets always win.
func applyExclusivity(sets *domain.SetsList) {
	var claimed []int
	for i := range sets.Sets {
		s := &sets.Sets[i]
		if s.Kind != domain.SetKindGateBased {
			continue
		}
		raw := len(s.ParticleIndices)
		s.ParticleIndices = domain.Difference(s.ParticleIndices, claimed)
		claimed = domain.Union(claimed, s.ParticleIndices)
		if removed := raw - len(s.ParticleIndices); removed > 0 {
			logger.Debug("  %s: %d particles claimed by earlier sets", s.Name, removed)
		}
	}
}
