package domain

// Particle is one particle recorded by the instrument.
// Particles are immutable for the lifetime of one file analysis.
type Particle struct {
	// Index is the stable, population-wide position of the particle.
	// Set membership is expressed in terms of this index.
	Index int

	// ID is the instrument-assigned particle identifier.
	ID int

	// HasImage reports whether the instrument captured an image.
	HasImage bool

	// Features holds scalar pulse parameters keyed "<channel>.<parameter>",
	// for example "FWS.total". Only gate evaluation reads them.
	Features map[string]float64
}

// Feature returns the named feature value and whether it is present.
func (p Particle) Feature(key string) (float64, bool) {
	v, ok := p.Features[key]
	return v, ok
}

// PopulationIndices returns the sorted indices of all particles.
func PopulationIndices(particles []Particle) []int {
	out := make([]int, 0, len(particles))
	for i := range particles {
		out = append(out, particles[i].Index)
	}
	return Normalize(out)
}
