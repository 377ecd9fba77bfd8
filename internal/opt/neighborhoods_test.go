package opt

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// crossedSolution is the two-cluster fixture with assets 2 and 3 swapped
// onto the wrong clusters, leaving room for distance moves to improve.
func crossedSolution(p *Problem) *Solution {
	s := twoClusterSolution(p)
	s.AssetBase[2][0] = 0
	s.AssetBase[2][1] = 1
	s.AssetTeam[2][0] = 0
	s.AssetTeam[2][1] = 1
	s.AssetBase[3][1] = 0
	s.AssetBase[3][0] = 1
	s.AssetTeam[3][1] = 0
	s.AssetTeam[3][0] = 1
	return s
}

func TestSwapAssetsRepairsCrossedPair(t *testing.T) {
	p := twoClusterProblem(0.1)
	s := crossedSolution(p)
	require.True(t, Feasible(p, s))
	require.InDelta(t, 24.0, TotalDistance(p, s), 1e-9)

	rng := rand.New(rand.NewSource(3))
	improvedOnce := false
	for trial := 0; trial < 20 && !improvedOnce; trial++ {
		cand, val, improved := swapAssets(p, s, MinDistance, rng)
		if improved {
			improvedOnce = true
			assert.InDelta(t, 6.0, val, 1e-9)
			assert.True(t, Feasible(p, cand))
		}
	}
	assert.True(t, improvedOnce, "swap never found the crossed pair")
}

func TestTaskMoveRepairsMisplacedAsset(t *testing.T) {
	p := twoClusterProblem(0.1)
	s := twoClusterSolution(p)
	// Asset 2 sits on the far cluster.
	s.AssetBase[2][0] = 0
	s.AssetBase[2][1] = 1
	s.AssetTeam[2][0] = 0
	s.AssetTeam[2][1] = 1
	require.True(t, Feasible(p, s))

	cand, val, improved := taskMove(p, s, MinDistance, rand.New(rand.NewSource(1)))
	require.True(t, improved)
	assert.InDelta(t, 6.0, val, 1e-9)
	assert.True(t, Feasible(p, cand))
	assert.Equal(t, 0, cand.assetBase(2))
}

func TestShiftMovePreservesTeamCount(t *testing.T) {
	p := &Problem{
		NumAssets: 4, NumBases: 1, MaxTeams: 2, Eta: 0.1,
		Dist: [][]float64{{1}, {1}, {1}, {1}},
	}
	s := NewSolution(p)
	s.TeamBase[0][0] = 1
	s.TeamBase[0][1] = 1
	for i := 0; i < 4; i++ {
		s.AssetBase[i][0] = 1
	}
	s.AssetTeam[0][0] = 1
	s.AssetTeam[1][0] = 1
	s.AssetTeam[2][0] = 1
	s.AssetTeam[3][1] = 1
	require.True(t, Feasible(p, s))

	// Distance is flat on one base, so no shift improves; the input must
	// come back untouched.
	cand, val, improved := shiftMove(p, s, MinDistance, rand.New(rand.NewSource(1)))
	assert.False(t, improved)
	assert.InDelta(t, TotalDistance(p, s), val, 1e-9)
	assert.Equal(t, TeamCount(s), TeamCount(cand))
}

func TestTwoOptRelocatesTeamToEmptyBase(t *testing.T) {
	p := twoClusterProblem(0.1)
	s := NewSolution(p)
	// Both teams crammed onto base 1; the far cluster pays 10 per asset.
	s.TeamBase[1][0] = 1
	s.TeamBase[1][1] = 1
	for i := 0; i < 3; i++ {
		s.AssetBase[i][1] = 1
		s.AssetTeam[i][0] = 1
	}
	for i := 3; i < 6; i++ {
		s.AssetBase[i][1] = 1
		s.AssetTeam[i][1] = 1
	}
	require.True(t, Feasible(p, s))

	cand, val, improved := twoOptTeams(p, s, MinDistance, rand.New(rand.NewSource(1)))
	require.True(t, improved)
	assert.Less(t, val, TotalDistance(p, s))
	assert.True(t, Feasible(p, cand))
	assert.Len(t, cand.basesWithTeams(), 2)
}

// unevenSolution loads team 0 with two assets and team 1 with four, so the
// consolidate operator has a clear smallest and largest team.
func unevenSolution(p *Problem) *Solution {
	s := NewSolution(p)
	s.TeamBase[0][0] = 1
	s.TeamBase[1][1] = 1
	for i := 0; i < 2; i++ {
		s.AssetBase[i][0] = 1
		s.AssetTeam[i][0] = 1
	}
	for i := 2; i < 6; i++ {
		s.AssetBase[i][1] = 1
		s.AssetTeam[i][1] = 1
	}
	return s
}

func TestConsolidateTeamsDropsExactlyOne(t *testing.T) {
	p := twoClusterProblem(0.1)
	s := unevenSolution(p)
	require.Equal(t, 2.0, TeamCount(s))

	cand, val, improved := consolidateTeams(p, s, MinTeams, rand.New(rand.NewSource(1)))
	require.True(t, improved)
	assert.Equal(t, 1.0, val)
	assert.Equal(t, 1.0, TeamCount(cand))
	assert.True(t, Feasible(p, cand))
	// The merged assets follow the surviving team's base.
	for i := 0; i < 2; i++ {
		assert.Equal(t, 1, cand.assetBase(i))
	}
}

func TestConsolidateTeamsIgnoredForDistance(t *testing.T) {
	p := twoClusterProblem(0.1)
	s := unevenSolution(p)

	_, _, improved := consolidateTeams(p, s, MinDistance, rand.New(rand.NewSource(1)))
	assert.False(t, improved)
}

func TestConsolidateTeamsSkipsEqualLoads(t *testing.T) {
	// With a 3/3 split the smallest and largest team resolve to the same
	// index, so no cross-base merge happens.
	p := twoClusterProblem(0.1)
	s := twoClusterSolution(p)

	_, _, improved := consolidateTeams(p, s, MinTeams, rand.New(rand.NewSource(1)))
	assert.False(t, improved)
}

func TestConsolidateTeamsRepairsUnderloadedTeam(t *testing.T) {
	// eta=1 demands three assets per active team, so the 2/4 split is
	// infeasible; merging everything onto one team restores feasibility.
	p := twoClusterProblem(1.0)
	s := unevenSolution(p)
	require.False(t, Feasible(p, s))

	cand, _, improved := consolidateTeams(p, s, MinTeams, rand.New(rand.NewSource(1)))
	require.True(t, improved)
	assert.True(t, Feasible(p, cand))
	assert.Equal(t, 1.0, TeamCount(cand))
}
