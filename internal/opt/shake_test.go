package opt

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShakeKeepsStructureValid(t *testing.T) {
	p := twoClusterProblem(0.1)
	rng := rand.New(rand.NewSource(11))

	for trial := 0; trial < 25; trial++ {
		s := twoClusterSolution(p)
		out := Shake(p, s, 0.8, rng)
		assertWellFormed(t, p, out)
	}
}

func TestShakeDoesNotMutateInput(t *testing.T) {
	p := twoClusterProblem(0.1)
	s := twoClusterSolution(p)
	before := s.Clone()

	Shake(p, s, 0.8, rand.New(rand.NewSource(3)))
	assert.Equal(t, before.AssetBase, s.AssetBase)
	assert.Equal(t, before.AssetTeam, s.AssetTeam)
}

func TestShakePreservesTeamPlacements(t *testing.T) {
	p := twoClusterProblem(0.1)
	s := twoClusterSolution(p)

	out := Shake(p, s, 0.8, rand.New(rand.NewSource(17)))
	assert.Equal(t, s.TeamBase, out.TeamBase)
}

func TestShakeMovesSomething(t *testing.T) {
	// With two hosting bases every sampled asset has somewhere to go, so a
	// shake at any intensity changes at least one assignment.
	p := twoClusterProblem(0.1)
	s := twoClusterSolution(p)

	out := Shake(p, s, 0.2, rand.New(rand.NewSource(23)))
	assert.NotEqual(t, s.AssetBase, out.AssetBase)
}

func TestShakeTinyInstanceIsNoOp(t *testing.T) {
	// With fewer than three assets the n/3 cap drives the perturbation
	// count to zero, so shaking changes nothing at any intensity.
	p := &Problem{
		NumAssets: 2,
		NumBases:  2,
		MaxTeams:  2,
		Eta:       0.1,
		Dist:      [][]float64{{1, 10}, {10, 1}},
	}
	s := NewSolution(p)
	s.AssetBase[0][0] = 1
	s.AssetBase[1][1] = 1
	s.TeamBase[0][0] = 1
	s.TeamBase[1][1] = 1
	s.AssetTeam[0][0] = 1
	s.AssetTeam[1][1] = 1

	for trial := 0; trial < 10; trial++ {
		out := Shake(p, s, 1.0, rand.New(rand.NewSource(int64(trial))))
		assert.Equal(t, s.AssetBase, out.AssetBase)
		assert.Equal(t, s.AssetTeam, out.AssetTeam)
	}
}

func TestShakeSingleHostingBaseIsNoOp(t *testing.T) {
	p := twoClusterProblem(0.1)
	s := InitialSolutionWithTeams(p, 1, false)
	require.Len(t, s.basesWithTeams(), 1)

	out := Shake(p, s, 0.8, rand.New(rand.NewSource(5)))
	assert.Equal(t, s.AssetBase, out.AssetBase)
	assert.Equal(t, s.AssetTeam, out.AssetTeam)
}
