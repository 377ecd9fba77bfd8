package opt

import "math/rand"

// neighborhoodsFor returns the fixed exploration order for the objective.
// Team consolidation only helps the team-count objective, so it is appended
// there and omitted for distance.
func neighborhoodsFor(obj Objective) []neighborhood {
	ns := []neighborhood{shiftMove, taskMove, swapAssets, twoOptTeams}
	if obj == MinTeams {
		ns = append(ns, consolidateTeams)
	}
	return ns
}

// VND runs variable neighborhood descent: neighborhoods are explored in
// order, any acceptance restarts from the first, and the descent ends when
// the last neighborhood fails to improve. The result is a local optimum
// with respect to every neighborhood simultaneously.
func VND(p *Problem, s *Solution, obj Objective, rng *rand.Rand) (*Solution, float64) {
	ns := neighborhoodsFor(obj)
	cur := s.Clone()
	curVal := objectiveValue(p, cur, obj)

	for l := 0; l < len(ns); {
		cand, candVal, improved := ns[l](p, cur, obj, rng)
		if improved && candVal < curVal {
			cur = cand
			curVal = candVal
			l = 0
			continue
		}
		l++
	}
	return cur, curVal
}

// Tournament decides whether challenger y replaces incumbent x. Feasibility
// dominates: a feasible solution always beats an infeasible one, two
// feasible solutions compare on the objective, and two infeasible ones
// compare on total violation. Returns the winner and whether y won.
func Tournament(p *Problem, x, y *Solution, obj Objective) (*Solution, bool) {
	vx := Violation(p, x)
	vy := Violation(p, y)

	switch {
	case vx == 0 && vy == 0:
		if objectiveValue(p, y, obj) < objectiveValue(p, x, obj) {
			return y, true
		}
	case vy == 0:
		return y, true
	case vx == 0:
		// incumbent stays
	default:
		if vy < vx {
			return y, true
		}
	}
	return x, false
}
