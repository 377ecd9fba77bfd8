package opt

import (
	"math/rand"
	"time"
)

// Mode selects the scalarization used by the multi-objective driver.
type Mode int

const (
	// ModeWeightedSum minimizes w1*f1_norm + w2*f2_norm.
	ModeWeightedSum Mode = iota
	// ModeEpsilon minimizes f1 subject to f2 <= epsilon2.
	ModeEpsilon
)

func (m Mode) String() string {
	if m == ModeEpsilon {
		return "pe"
	}
	return "pw"
}

// ParseMode maps the wire names "pw"/"pe" onto the enum.
func ParseMode(name string) (Mode, bool) {
	switch name {
	case "pw":
		return ModeWeightedSum, true
	case "pe":
		return ModeEpsilon, true
	}
	return ModeWeightedSum, false
}

// MultiParams configures one scalarized run. Initial, when non-nil, skips
// the adaptive constructive start and is used for warm-starting sweeps.
type MultiParams struct {
	Mode         Mode
	Weighted     WeightedParams
	Epsilon2     float64
	MaxIter      int
	MaxNoImprove int
	Seed         int64
	Initial      *Solution
}

func (mp *MultiParams) applyDefaults() {
	if mp.MaxIter <= 0 {
		mp.MaxIter = 500
	}
	if mp.MaxNoImprove <= 0 {
		mp.MaxNoImprove = 30
	}
	if mp.Seed == 0 {
		mp.Seed = time.Now().UnixNano()
	}
}

// MultiResult is the outcome of a scalarized run. The three histories are
// sampled once per outer iteration after the initial evaluation.
type MultiResult struct {
	Solution      *Solution
	F1, F2        float64
	Scalar        float64
	Feasible      bool
	Violation     float64
	HistoryScalar []float64
	HistoryF1     []float64
	HistoryF2     []float64
	Iterations    int
}

// scalarEval evaluates a solution under the active scalarization. For the
// epsilon mode the scalar is f1 itself.
type scalarEval func(s *Solution) (scalar, f1, f2 float64, feasible bool, violation float64)

func evalFor(p *Problem, mp MultiParams) scalarEval {
	if mp.Mode == ModeEpsilon {
		return func(s *Solution) (float64, float64, float64, bool, float64) {
			f1, f2, feasible, violation := EpsilonConstraint(p, s, mp.Epsilon2)
			return f1, f1, f2, feasible, violation
		}
	}
	return func(s *Solution) (float64, float64, float64, bool, float64) {
		fw, f1, f2, feasible, violation := WeightedSum(p, s, mp.Weighted)
		return fw, f1, f2, feasible, violation
	}
}

// initialTeamTarget picks how many teams the constructive start should use,
// biased by the scalarization: a heavy team-count weight or a tight epsilon
// budget pushes toward few teams, a heavy distance weight toward many.
func initialTeamTarget(p *Problem, mp MultiParams, rng *rand.Rand) (target int, favorDistance bool) {
	s := p.MaxTeams
	if mp.Mode == ModeEpsilon {
		target = int(mp.Epsilon2)
		if target < 1 {
			target = 1
		}
		if target > s {
			target = s
		}
		return target, true
	}

	w1, w2 := mp.Weighted.W1, mp.Weighted.W2
	switch {
	case w2 > 0.7:
		hi := max(2, s/3)
		return 1 + rng.Intn(hi-1), false
	case w1 > 0.7:
		lo := s / 2
		return lo + rng.Intn(s+1-lo), true
	default:
		if s <= 2 {
			return s, w1 > w2
		}
		return 2 + rng.Intn(s-2), w1 > w2
	}
}

// SolveMulti runs the scalarized VNS: an adaptive constructive start, then
// shake plus a light local search under the scalar value, with the same
// feasibility-first tournament and stall criterion as the single-objective
// driver.
func SolveMulti(p *Problem, mp MultiParams) *MultiResult {
	mp.applyDefaults()
	rng := rand.New(rand.NewSource(mp.Seed))
	eval := evalFor(p, mp)

	var cur *Solution
	if mp.Initial != nil {
		cur = mp.Initial.Clone()
	} else {
		target, favorDistance := initialTeamTarget(p, mp, rng)
		cur = InitialSolutionWithTeams(p, target, favorDistance)
	}

	scalar, f1, f2, _, _ := eval(cur)
	historyScalar := []float64{scalar}
	historyF1 := []float64{f1}
	historyF2 := []float64{f2}
	noImprove := 0
	iterations := 0

	for iter := 0; iter < mp.MaxIter; iter++ {
		iterations++

		for k := 1; k <= kMaxShake; {
			intensity := 0.2 + (float64(k)/float64(kMaxShake))*0.6
			shaken := Shake(p, cur, intensity, rng)
			refined, refinedVal := multiLocalSearch(p, shaken, eval, rng)

			if winner, ok := tournamentScalar(cur, refined, eval); ok {
				cur = winner
				scalar = refinedVal
				_, f1, f2, _, _ = eval(cur)
				k = 1
				noImprove = 0
			} else {
				k++
			}
		}

		noImprove++
		historyScalar = append(historyScalar, scalar)
		historyF1 = append(historyF1, f1)
		historyF2 = append(historyF2, f2)

		if noImprove >= mp.MaxNoImprove {
			break
		}
	}

	finalScalar, f1, f2, feasible, violation := eval(cur)
	return &MultiResult{
		Solution:      cur,
		F1:            f1,
		F2:            f2,
		Scalar:        finalScalar,
		Feasible:      feasible,
		Violation:     violation,
		HistoryScalar: historyScalar,
		HistoryF1:     historyF1,
		HistoryF2:     historyF2,
		Iterations:    iterations,
	}
}

// multiLocalSearch is a light descent used instead of the full VND: a few
// rounds of first-improvement asset shifts between same-base teams, with a
// same-base team consolidation attempted every other round. Candidates that
// are nearly feasible (violation below 0.1) are admitted so the search can
// cross thin infeasible gaps.
func multiLocalSearch(p *Problem, s *Solution, eval scalarEval, rng *rand.Rand) (*Solution, float64) {
	best := s.Clone()
	bestVal, _, _, _, _ := eval(best)

	for iter := 0; iter < 5; iter++ {
		improved := false

		tries := min(p.NumAssets, 40)
	shiftPhase:
		for t := 0; t < tries; t++ {
			i := rng.Intn(p.NumAssets)
			curTeam := best.assetTeam(i)
			base := best.assetBase(i)
			if curTeam < 0 || base < 0 {
				continue
			}
			for _, k := range best.baseTeams(base) {
				if k == curTeam {
					continue
				}
				cand := best.Clone()
				cand.AssetTeam[i][curTeam] = 0
				cand.AssetTeam[i][k] = 1
				val, _, _, feasible, violation := eval(cand)
				if (feasible || violation < 0.1) && val < bestVal {
					best = cand
					bestVal = val
					improved = true
					break shiftPhase
				}
			}
		}

		if iter%2 == 0 {
			loads := best.teamLoads()
			active := best.activeTeams()
			if len(active) > 1 {
				smallest := leastLoadedTeam(active, loads)
				smallBase := best.teamBase(smallest)
				if smallBase >= 0 {
					assets := best.teamAssets(smallest)
					for _, dest := range best.baseTeams(smallBase) {
						if dest == smallest {
							continue
						}
						cand := best.Clone()
						for _, a := range assets {
							cand.AssetTeam[a][smallest] = 0
							cand.AssetTeam[a][dest] = 1
						}
						cand.TeamBase[smallBase][smallest] = 0
						val, _, _, feasible, violation := eval(cand)
						if (feasible || violation < 0.1) && val < bestVal {
							best = cand
							bestVal = val
							improved = true
							break
						}
					}
				}
			}
		}

		if !improved {
			break
		}
	}
	return best, bestVal
}

// tournamentScalar is the feasibility-first comparator under the scalar
// value: feasible beats infeasible, ties of feasibility compare on the
// scalar or on violation.
func tournamentScalar(x, y *Solution, eval scalarEval) (*Solution, bool) {
	fx, _, _, _, vx := eval(x)
	fy, _, _, _, vy := eval(y)

	switch {
	case vx == 0 && vy == 0:
		if fy < fx {
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
