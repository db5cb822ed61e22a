package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/cytoset/internal/adapters/driven/gating"
)

func TestMemberSetNames_NoSetInformation(t *testing.T) {
	m := MemberSetNames(particleAt(0, 0, 0, false), nil)

	names, known := m.Names()
	assert.False(t, known)
	assert.Nil(t, names)
}

func TestMemberSetNames_ExcludesDefault(t *testing.T) {
	sets, particles := overlappingGates(false)
	resolved, err := NewClassifier(gating.New()).Resolve(context.Background(), sets, particles)
	require.NoError(t, err)
	resolved.Sets[0].ParticleIndices = []int{1, 2, 3}

	names, known := MemberSetNames(particles[1], resolved).Names()
	assert.True(t, known)
	assert.Equal(t, []string{"G1", "G2"}, names, "list order, default excluded")

	names, known = MemberSetNames(particleAt(9, 50, 0, false), resolved).Names()
	assert.True(t, known)
	assert.Empty(t, names, "known but in no named set")
}

func TestMemberships_Records(t *testing.T) {
	sets, particles := overlappingGates(true)
	resolved, err := NewClassifier(gating.New()).Resolve(context.Background(), sets, particles)
	require.NoError(t, err)

	records := Memberships(particles, resolved)
	require.Len(t, records, 3)
	assert.Equal(t, 101, records[0].ParticleID)
	assert.Equal(t, 1, records[0].Index)

	names, _ := records[1].Sets.Names()
	assert.Equal(t, []string{"G1"}, names, "exclusive mode keeps particle 2 in G1 only")

	for _, rec := range Memberships(particles, nil) {
		assert.False(t, rec.Sets.Known())
	}
}

func TestMemberSetNames_MatchesLinearScan(t *testing.T) {
	classifier := NewClassifier(gating.New())

	for seed := int64(1); seed <= 15; seed++ {
		sets, particles := randomGates(seed, seed%3 == 0)
		resolved, err := classifier.Resolve(context.Background(), sets, particles)
		require.NoError(t, err)

		for _, p := range particles {
			want := []string{}
			for _, s := range resolved.Sets {
				if s.IsDefault() {
					continue
				}
				for _, idx := range s.ParticleIndices {
					if idx == p.Index {
						want = append(want, s.Name)
						break
					}
				}
			}

			got, known := MemberSetNames(p, resolved).Names()
			require.True(t, known)
			assert.Equal(t, want, got, "particle %d seed %d", p.Index, seed)
		}
	}
}
