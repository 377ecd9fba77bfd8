package opt

import (
	"math/rand"
	"time"
)

const kMaxShake = 3

// Params configures a single-objective VNS run. Zero values fall back to
// the defaults; Seed 0 seeds from the clock so repeated runs diversify.
type Params struct {
	Objective    Objective
	MaxIter      int
	MaxNoImprove int
	Seed         int64
}

func (pr *Params) applyDefaults() {
	if pr.MaxIter <= 0 {
		pr.MaxIter = 500
	}
	if pr.MaxNoImprove <= 0 {
		pr.MaxNoImprove = 50
	}
	if pr.Seed == 0 {
		pr.Seed = time.Now().UnixNano()
	}
}

// Result is the outcome of a single-objective run. History holds the
// incumbent value after the initial descent and after each outer
// iteration, so its length is Iterations+1.
type Result struct {
	Solution   *Solution
	Value      float64
	History    []float64
	Feasible   bool
	Violation  float64
	Iterations int
}

// Solve runs the general VNS: an initial constructive solution refined by
// VND, then outer iterations of shake and descend. Shake intensity climbs
// with k in 1..3, acceptance goes through the feasibility-first tournament,
// and any acceptance resets k so the inner loop only ends after three
// consecutive rejections. The run stops at MaxIter outer iterations or
// after MaxNoImprove outer iterations without an acceptance.
func Solve(p *Problem, params Params) *Result {
	params.applyDefaults()
	rng := rand.New(rand.NewSource(params.Seed))

	cur := InitialSolution(p, rng)
	cur, curVal := VND(p, cur, params.Objective, rng)

	history := []float64{curVal}
	noImprove := 0
	iterations := 0

	for iter := 0; iter < params.MaxIter; iter++ {
		iterations++

		for k := 1; k <= kMaxShake; {
			intensity := 0.2 + (float64(k)/float64(kMaxShake))*0.6
			shaken := Shake(p, cur, intensity, rng)
			refined, refinedVal := VND(p, shaken, params.Objective, rng)

			if winner, ok := Tournament(p, cur, refined, params.Objective); ok {
				cur = winner
				curVal = refinedVal
				k = 1
				noImprove = 0
			} else {
				k++
			}
		}

		// The inner loop only ends on rejections, so every completed outer
		// iteration counts against the stall budget; an acceptance above
		// already reset the counter.
		noImprove++
		history = append(history, curVal)

		if noImprove >= params.MaxNoImprove {
			break
		}
	}

	violation := Violation(p, cur)
	return &Result{
		Solution:   cur,
		Value:      curVal,
		History:    history,
		Feasible:   violation == 0,
		Violation:  violation,
		Iterations: iterations,
	}
}
