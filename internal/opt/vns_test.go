package opt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// bruteForceMinDistance enumerates every assignment of assets to the two
// bases, with one team fixed per base, and returns the best feasible total
// distance. Only usable on tiny instances.
func bruteForceMinDistance(t *testing.T, p *Problem) float64 {
	t.Helper()
	require.Equal(t, 2, p.NumBases)
	require.Equal(t, 2, p.MaxTeams)

	best := -1.0
	for mask := 0; mask < 1<<p.NumAssets; mask++ {
		s := NewSolution(p)
		s.TeamBase[0][0] = 1
		s.TeamBase[1][1] = 1
		for i := 0; i < p.NumAssets; i++ {
			j := (mask >> i) & 1
			s.AssetBase[i][j] = 1
			s.AssetTeam[i][j] = 1
		}
		if !Feasible(p, s) {
			continue
		}
		if v := TotalDistance(p, s); best < 0 || v < best {
			best = v
		}
	}
	require.GreaterOrEqual(t, best, 0.0, "no feasible assignment found")
	return best
}

func TestSolveFindsDistanceOptimum(t *testing.T) {
	p := twoClusterProblem(0.1)
	optimum := bruteForceMinDistance(t, p)
	require.InDelta(t, 6.0, optimum, 1e-9)

	res := Solve(p, Params{Objective: MinDistance, MaxIter: 50, MaxNoImprove: 10, Seed: 42})
	require.True(t, res.Feasible)
	assert.Zero(t, res.Violation)
	assert.InDelta(t, optimum, res.Value, 1e-9)
	assert.InDelta(t, optimum, TotalDistance(p, res.Solution), 1e-9)
}

func TestSolveMinimizesTeams(t *testing.T) {
	p := twoClusterProblem(0.1)

	res := Solve(p, Params{Objective: MinTeams, MaxIter: 50, MaxNoImprove: 10, Seed: 7})
	require.True(t, res.Feasible)
	assert.InDelta(t, res.Value, TeamCount(res.Solution), 1e-9)
	assert.LessOrEqual(t, res.Value, 2.0)
}

func TestSolveHistoryTracksIterations(t *testing.T) {
	p := twoClusterProblem(0.1)

	res := Solve(p, Params{Objective: MinDistance, MaxIter: 20, MaxNoImprove: 5, Seed: 1})
	assert.Len(t, res.History, res.Iterations+1)
	// The incumbent only ever improves.
	for i := 1; i < len(res.History); i++ {
		assert.LessOrEqual(t, res.History[i], res.History[i-1])
	}
}

func TestSolveStopsOnStall(t *testing.T) {
	p := twoClusterProblem(0.1)

	res := Solve(p, Params{Objective: MinDistance, MaxIter: 500, MaxNoImprove: 3, Seed: 9})
	assert.Less(t, res.Iterations, 500)
}

func TestSolveDefaultSeedDiversifies(t *testing.T) {
	p := twoClusterProblem(0.1)

	// Seed zero must not panic and must still produce a feasible result.
	res := Solve(p, Params{Objective: MinDistance, MaxIter: 5, MaxNoImprove: 2})
	assert.True(t, res.Feasible)
}
