package opt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// twoClusterProblem is six assets split into two tight clusters of three,
// one around each of two bases. Within-cluster distance is 1, across is 10,
// so the optimal total distance with a team at each base is 6.
func twoClusterProblem(eta float64) *Problem {
	dist := [][]float64{
		{1, 10}, {1, 10}, {1, 10},
		{10, 1}, {10, 1}, {10, 1},
	}
	return &Problem{NumAssets: 6, NumBases: 2, MaxTeams: 2, Eta: eta, Dist: dist}
}

// twoClusterSolution places team 0 at base 0 with assets 0..2 and team 1 at
// base 1 with assets 3..5. Fully feasible for eta <= 1.
func twoClusterSolution(p *Problem) *Solution {
	s := NewSolution(p)
	s.TeamBase[0][0] = 1
	s.TeamBase[1][1] = 1
	for i := 0; i < 3; i++ {
		s.AssetBase[i][0] = 1
		s.AssetTeam[i][0] = 1
	}
	for i := 3; i < 6; i++ {
		s.AssetBase[i][1] = 1
		s.AssetTeam[i][1] = 1
	}
	return s
}

func TestObjectiveParsing(t *testing.T) {
	obj, ok := ParseObjective("f1")
	require.True(t, ok)
	assert.Equal(t, MinDistance, obj)
	assert.Equal(t, "f1", obj.String())

	obj, ok = ParseObjective("f2")
	require.True(t, ok)
	assert.Equal(t, MinTeams, obj)
	assert.Equal(t, "f2", obj.String())

	_, ok = ParseObjective("f3")
	assert.False(t, ok)
}

func TestTotalDistanceAndTeamCount(t *testing.T) {
	p := twoClusterProblem(0.1)
	s := twoClusterSolution(p)

	assert.InDelta(t, 6.0, TotalDistance(p, s), 1e-9)
	assert.Equal(t, 2.0, TeamCount(s))
	require.True(t, Feasible(p, s))
	assert.Zero(t, Violation(p, s))
}

func TestViolationTeamPlacedTwice(t *testing.T) {
	p := twoClusterProblem(0.1)
	s := twoClusterSolution(p)
	s.TeamBase[1][0] = 1 // team 0 now at both bases

	// (placements-1)^2 for the double placement plus |placements-1|^2 for
	// a loaded team without exactly one base.
	assert.InDelta(t, 2.0, Violation(p, s), 1e-9)
	assert.False(t, Feasible(p, s))
}

func TestViolationPlacedTeamWithoutAssets(t *testing.T) {
	p := &Problem{
		NumAssets: 1, NumBases: 2, MaxTeams: 2, Eta: 0.1,
		Dist: [][]float64{{1, 10}},
	}
	s := NewSolution(p)
	s.TeamBase[0][0] = 1
	s.TeamBase[1][1] = 1 // placed, serves nobody
	s.AssetBase[0][0] = 1
	s.AssetTeam[0][0] = 1

	assert.InDelta(t, 1.0, Violation(p, s), 1e-9)
}

func TestViolationAssetAtTwoBases(t *testing.T) {
	p := twoClusterProblem(0.1)
	s := twoClusterSolution(p)
	s.AssetBase[0][1] = 1

	assert.InDelta(t, 1.0, Violation(p, s), 1e-9)
}

func TestViolationAssetAtBaseWithoutTeam(t *testing.T) {
	p := &Problem{
		NumAssets: 1, NumBases: 2, MaxTeams: 1, Eta: 0.1,
		Dist: [][]float64{{1, 10}},
	}
	s := NewSolution(p)
	s.TeamBase[0][0] = 1
	s.AssetBase[0][1] = 1 // base 1 hosts no team
	s.AssetTeam[0][0] = 1

	// One unit for the teamless base plus one for the team sitting away
	// from the asset's base.
	assert.InDelta(t, 2.0, Violation(p, s), 1e-9)
}

func TestViolationAssetInTwoTeams(t *testing.T) {
	p := twoClusterProblem(0.1)
	s := twoClusterSolution(p)
	s.AssetTeam[0][1] = 1

	// Row sum 2 costs one, and team 1 does not sit at asset 0's base.
	assert.InDelta(t, 2.0, Violation(p, s), 1e-9)
}

func TestViolationTeamAwayFromAssetBase(t *testing.T) {
	p := twoClusterProblem(0.1)
	s := twoClusterSolution(p)
	s.AssetTeam[3][1] = 0
	s.AssetTeam[3][0] = 1 // served by team 0, which sits at base 0

	assert.InDelta(t, 1.0, Violation(p, s), 1e-9)
}

func TestViolationMinimumLoad(t *testing.T) {
	p := twoClusterProblem(1.0) // min load = 1*6/2 = 3
	s := twoClusterSolution(p)
	require.True(t, Feasible(p, s))

	// Move asset 2 over: loads become 2 and 4.
	s.AssetBase[2][0] = 0
	s.AssetBase[2][1] = 1
	s.AssetTeam[2][0] = 0
	s.AssetTeam[2][1] = 1

	assert.InDelta(t, 1.0, Violation(p, s), 1e-9)
}

func TestWeightedSum(t *testing.T) {
	p := twoClusterProblem(0.1)
	s := twoClusterSolution(p)
	wp := WeightedParams{W1: 1, W2: 0, F1Min: 6, F1Max: 60, F2Min: 1, F2Max: 2}

	fw, f1, f2, feasible, violation := WeightedSum(p, s, wp)
	require.True(t, feasible)
	assert.Zero(t, violation)
	assert.InDelta(t, 6.0, f1, 1e-9)
	assert.InDelta(t, 2.0, f2, 1e-9)
	assert.InDelta(t, 0.0, fw, 1e-9) // f1 at its lower bound, w2 zero

	// Push assets 0..2 to the far base: f1 = 33, normalized (33-6)/54.
	far := twoClusterSolution(p)
	for i := 0; i < 3; i++ {
		far.AssetBase[i][0] = 0
		far.AssetBase[i][1] = 1
		far.AssetTeam[i][0] = 0
		far.AssetTeam[i][1] = 1
	}
	far.TeamBase[0][0] = 0
	fwFar, _, _, _, _ := WeightedSum(p, far, wp)
	assert.Greater(t, fwFar, fw)
}

func TestWeightedSumDegenerateRange(t *testing.T) {
	p := twoClusterProblem(0.1)
	s := twoClusterSolution(p)
	wp := WeightedParams{W1: 0.5, W2: 0.5, F1Min: 6, F1Max: 6, F2Min: 2, F2Max: 2}

	fw, _, _, _, _ := WeightedSum(p, s, wp)
	assert.Zero(t, fw)
}

func TestEpsilonConstraint(t *testing.T) {
	p := twoClusterProblem(0.1)
	s := twoClusterSolution(p)

	f1, f2, feasible, violation := EpsilonConstraint(p, s, 2)
	require.True(t, feasible)
	assert.Zero(t, violation)
	assert.InDelta(t, 6.0, f1, 1e-9)
	assert.InDelta(t, 2.0, f2, 1e-9)

	// Budget of one team: exceeding it by one adds a unit squared penalty.
	_, _, feasible, violation = EpsilonConstraint(p, s, 1)
	assert.False(t, feasible)
	assert.InDelta(t, 1.0, violation, 1e-9)
}
