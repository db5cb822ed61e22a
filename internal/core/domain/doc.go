// Package domain defines the core entities for cytoset.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Particle: One recorded particle with its population-wide index
//   - SetDefinition / Set: A named gate or derived set and its members
//   - SetsList: The ordered, precedence-bearing collection of sets
//   - MeasurementContext: Per-file imaging configuration and volume
//   - SetStatistics: One row of the per-set statistics table
//   - Membership: Optional list of set names for one particle
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
