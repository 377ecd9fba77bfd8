package opt

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMode(t *testing.T) {
	m, ok := ParseMode("pw")
	require.True(t, ok)
	assert.Equal(t, ModeWeightedSum, m)
	assert.Equal(t, "pw", m.String())

	m, ok = ParseMode("pe")
	require.True(t, ok)
	assert.Equal(t, ModeEpsilon, m)
	assert.Equal(t, "pe", m.String())

	_, ok = ParseMode("lex")
	assert.False(t, ok)
}

func TestInitialTeamTarget(t *testing.T) {
	p := &Problem{NumAssets: 30, NumBases: 5, MaxTeams: 9, Eta: 0.1}
	rng := rand.New(rand.NewSource(1))

	// Heavy team-count weight pulls the target toward very few teams.
	for trial := 0; trial < 50; trial++ {
		target, favorDistance := initialTeamTarget(p, MultiParams{
			Mode: ModeWeightedSum, Weighted: WeightedParams{W1: 0.2, W2: 0.8},
		}, rng)
		assert.GreaterOrEqual(t, target, 1)
		assert.Less(t, target, 3) // max(2, 9/3) exclusive
		assert.False(t, favorDistance)
	}

	// Heavy distance weight allows up to every team.
	for trial := 0; trial < 50; trial++ {
		target, favorDistance := initialTeamTarget(p, MultiParams{
			Mode: ModeWeightedSum, Weighted: WeightedParams{W1: 0.8, W2: 0.2},
		}, rng)
		assert.GreaterOrEqual(t, target, 4)
		assert.LessOrEqual(t, target, 9)
		assert.True(t, favorDistance)
	}

	// Balanced weights stay strictly inside the range.
	for trial := 0; trial < 50; trial++ {
		target, favorDistance := initialTeamTarget(p, MultiParams{
			Mode: ModeWeightedSum, Weighted: WeightedParams{W1: 0.6, W2: 0.4},
		}, rng)
		assert.GreaterOrEqual(t, target, 2)
		assert.Less(t, target, 9)
		assert.True(t, favorDistance)
	}

	// Epsilon mode clamps the budget into [1, MaxTeams].
	target, favorDistance := initialTeamTarget(p, MultiParams{Mode: ModeEpsilon, Epsilon2: 4}, rng)
	assert.Equal(t, 4, target)
	assert.True(t, favorDistance)

	target, _ = initialTeamTarget(p, MultiParams{Mode: ModeEpsilon, Epsilon2: 0}, rng)
	assert.Equal(t, 1, target)

	target, _ = initialTeamTarget(p, MultiParams{Mode: ModeEpsilon, Epsilon2: 99}, rng)
	assert.Equal(t, 9, target)
}

func TestSolveMultiWeightedSum(t *testing.T) {
	p := twoClusterProblem(0.1)
	res := SolveMulti(p, MultiParams{
		Mode: ModeWeightedSum,
		Weighted: WeightedParams{
			W1: 0.5, W2: 0.5,
			F1Min: 6, F1Max: 60, F2Min: 1, F2Max: 2,
		},
		MaxIter:      30,
		MaxNoImprove: 5,
		Seed:         13,
	})

	require.True(t, res.Feasible)
	assert.Zero(t, res.Violation)
	assert.GreaterOrEqual(t, res.F1, 6.0)
	assert.GreaterOrEqual(t, res.F2, 1.0)
	assert.LessOrEqual(t, res.F2, 2.0)
	assert.Len(t, res.HistoryScalar, res.Iterations+1)
	assert.Len(t, res.HistoryF1, res.Iterations+1)
	assert.Len(t, res.HistoryF2, res.Iterations+1)
}

func TestSolveMultiEpsilonRespectsBudget(t *testing.T) {
	p := twoClusterProblem(0.1)
	res := SolveMulti(p, MultiParams{
		Mode:         ModeEpsilon,
		Epsilon2:     1,
		MaxIter:      30,
		MaxNoImprove: 5,
		Seed:         21,
	})

	require.True(t, res.Feasible)
	assert.LessOrEqual(t, res.F2, 1.0)
	// With a single team everything sits at one base: f1 = 3*1 + 3*10.
	assert.InDelta(t, 33.0, res.F1, 1e-9)
	assert.InDelta(t, res.Scalar, res.F1, 1e-9)
}

func TestSolveMultiWarmStart(t *testing.T) {
	p := twoClusterProblem(0.1)
	warm := twoClusterSolution(p)
	res := SolveMulti(p, MultiParams{
		Mode:         ModeEpsilon,
		Epsilon2:     2,
		MaxIter:      10,
		MaxNoImprove: 3,
		Seed:         3,
		Initial:      warm,
	})

	require.True(t, res.Feasible)
	// The warm start is already optimal for f1 under a two-team budget.
	assert.InDelta(t, 6.0, res.F1, 1e-9)
	// The caller's solution is not mutated.
	assert.Equal(t, twoClusterSolution(p).AssetBase, warm.AssetBase)
}
