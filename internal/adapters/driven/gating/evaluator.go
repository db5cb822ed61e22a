package gating

import (
	"math"

	"github.com/custodia-labs/cytoset/internal/core/domain"
	"github.com/custodia-labs/cytoset/internal/core/ports/driven"
)

// Ensure Evaluator implements the interface.
var _ driven.GateEvaluator = (*Evaluator)(nil)

// Evaluator is the geometric gate evaluator.
type Evaluator struct{}

// New creates a gate evaluator.
func New() *Evaluator {
	return &Evaluator{}
}

// Evaluate returns the sorted member indices of one set.
func (e *Evaluator) Evaluate(
	def domain.SetDefinition, particles []domain.Particle, resolved *domain.SetsList,
) []int {
	switch def.Kind {
	case domain.SetKindGateBased:
		return gateMembers(def.Gate, particles)
	case domain.SetKindCombined:
		return combinedMembers(def.Members, resolved)
	case domain.SetKindOr:
		return orMembers(def.Members, resolved)
	case domain.SetKindUnassigned:
		return unassignedMembers(particles, resolved)
	default:
		return []int{}
	}
}

func gateMembers(g *domain.Gate, particles []domain.Particle) []int {
	out := []int{}
	if g == nil {
		return out
	}
	for i := range particles {
		x, y, ok := coordinates(g, &particles[i])
		if ok && inside(g, x, y) {
			out = append(out, particles[i].Index)
		}
	}
	return domain.Normalize(out)
}

// coordinates projects a particle onto the gate's plane. Particles missing
// a feature, or with non-positive values on a log axis, fall outside.
func coordinates(g *domain.Gate, p *domain.Particle) (float64, float64, bool) {
	x, ok := p.Feature(g.XAxis)
	if !ok {
		return 0, 0, false
	}
	y, ok := p.Feature(g.YAxis)
	if !ok {
		return 0, 0, false
	}
	if g.Logarithmic {
		if x <= 0 || y <= 0 {
			return 0, 0, false
		}
		x, y = math.Log10(x), math.Log10(y)
	}
	if math.IsNaN(x) || math.IsNaN(y) {
		return 0, 0, false
	}
	return x, y, true
}

func inside(g *domain.Gate, x, y float64) bool {
	switch g.Shape {
	case domain.GateShapeRectangle:
		return x >= g.MinX && x <= g.MaxX && y >= g.MinY && y <= g.MaxY
	case domain.GateShapePolygon:
		return insidePolygon(g.Vertices, x, y)
	default:
		return false
	}
}

// insidePolygon is the even-odd ray casting test.
func insidePolygon(vertices []domain.Point, x, y float64) bool {
	if len(vertices) < 3 {
		return false
	}
	in := false
	j := len(vertices) - 1
	for i := range vertices {
		vi, vj := vertices[i], vertices[j]
		if (vi.Y > y) != (vj.Y > y) &&
			x < (vj.X-vi.X)*(y-vi.Y)/(vj.Y-vi.Y)+vi.X {
			in = !in
		}
		j = i
	}
	return in
}

func combinedMembers(members []int, resolved *domain.SetsList) []int {
	if len(members) == 0 || resolved == nil {
		return []int{}
	}
	var out []int
	for n, id := range members {
		s, ok := resolved.Find(id)
		if !ok {
			return []int{}
		}
		if n == 0 {
			out = append([]int{}, s.ParticleIndices...)
			continue
		}
		out = domain.Intersect(out, s.ParticleIndices)
	}
	return out
}

func orMembers(members []int, resolved *domain.SetsList) []int {
	out := []int{}
	if resolved == nil {
		return out
	}
	for _, id := range members {
		if s, ok := resolved.Find(id); ok {
			out = domain.Union(out, s.ParticleIndices)
		}
	}
	return out
}

func unassignedMembers(particles []domain.Particle, resolved *domain.SetsList) []int {
	population := domain.PopulationIndices(particles)
	if resolved == nil {
		return population
	}
	var assigned []int
	for i := range resolved.Sets {
		if resolved.Sets[i].Kind == domain.SetKindGateBased {
			assigned = domain.Union(assigned, resolved.Sets[i].ParticleIndices)
		}
	}
	return domain.Difference(population, assigned)
}
