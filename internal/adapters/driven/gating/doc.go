// Package gating evaluates set membership for the classifier.
//
// Gate-based sets are rectangles or polygons in a two-feature plane,
// optionally on log10 axes. Derived sets are computed from the memberships
// already present in the resolved list:
//
//   - combined: particles in every member set
//   - orSet: particles in any member set
//   - unassignedParticles: particles in no gate-based set
package gating
