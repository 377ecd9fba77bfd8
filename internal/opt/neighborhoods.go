package opt

import (
	"math/rand"
	"sort"
)

// A neighborhood explores a move family with best-improvement semantics: it
// returns the best fully feasible candidate that strictly improves the
// active objective, or the input solution unchanged with improved=false.
// Infeasible intermediates are never returned, even when they would lower
// the raw objective.
type neighborhood func(p *Problem, s *Solution, obj Objective, rng *rand.Rand) (*Solution, float64, bool)

// shiftMove tries moving each asset to another team at its current base.
func shiftMove(p *Problem, s *Solution, obj Objective, _ *rand.Rand) (*Solution, float64, bool) {
	best := s.Clone()
	bestVal := objectiveValue(p, s, obj)
	improved := false

	for i := 0; i < p.NumAssets; i++ {
		cur := s.assetTeam(i)
		base := s.assetBase(i)
		if cur < 0 || base < 0 {
			continue
		}
		for _, k := range s.baseTeams(base) {
			if k == cur {
				continue
			}
			cand := s.Clone()
			cand.AssetTeam[i][cur] = 0
			cand.AssetTeam[i][k] = 1
			if !Feasible(p, cand) {
				continue
			}
			if v := objectiveValue(p, cand, obj); v < bestVal {
				best = cand
				bestVal = v
				improved = true
			}
		}
	}
	return best, bestVal, improved
}

// taskMove tries relocating each asset to one of its three nearest bases
// hosting a team, attached to that base's least-loaded team.
func taskMove(p *Problem, s *Solution, obj Objective, _ *rand.Rand) (*Solution, float64, bool) {
	best := s.Clone()
	bestVal := objectiveValue(p, s, obj)
	improved := false
	loads := s.teamLoads()

	for i := 0; i < p.NumAssets; i++ {
		curBase := s.assetBase(i)
		if curBase < 0 {
			continue
		}
		hosting := s.basesWithTeams()
		if len(hosting) <= 1 {
			continue
		}
		for _, j := range nearestBases(p, i, hosting, 3) {
			if j == curBase {
				continue
			}
			oldTeam := s.assetTeam(i)
			if oldTeam < 0 {
				continue
			}
			teams := s.baseTeams(j)
			if len(teams) == 0 {
				continue
			}
			cand := s.Clone()
			cand.AssetBase[i][curBase] = 0
			cand.AssetBase[i][j] = 1
			cand.AssetTeam[i][oldTeam] = 0
			// Least-loaded by the pre-move membership counts: the moving
			// asset still counts against its old team here.
			cand.AssetTeam[i][leastLoadedTeam(teams, loads)] = 1
			if !Feasible(p, cand) {
				continue
			}
			if v := objectiveValue(p, cand, obj); v < bestVal {
				best = cand
				bestVal = v
				improved = true
			}
		}
	}
	return best, bestVal, improved
}

// swapAssets samples up to 20 assets and tries exchanging base assignments
// with every later asset sitting at a different base; both assets join the
// first team placed at their new base.
func swapAssets(p *Problem, s *Solution, obj Objective, rng *rand.Rand) (*Solution, float64, bool) {
	best := s.Clone()
	bestVal := objectiveValue(p, s, obj)
	improved := false

	sample := rng.Perm(p.NumAssets)[:min(20, p.NumAssets)]
	for _, i := range sample {
		baseI := s.assetBase(i)
		teamI := s.assetTeam(i)
		if baseI < 0 || teamI < 0 {
			continue
		}
		for j := i + 1; j < p.NumAssets; j++ {
			baseJ := s.assetBase(j)
			teamJ := s.assetTeam(j)
			if baseJ < 0 || teamJ < 0 || baseI == baseJ {
				continue
			}
			teamsAtJ := s.baseTeams(baseJ)
			teamsAtI := s.baseTeams(baseI)
			if len(teamsAtJ) == 0 || len(teamsAtI) == 0 {
				continue
			}
			cand := s.Clone()
			cand.AssetBase[i][baseI] = 0
			cand.AssetBase[i][baseJ] = 1
			cand.AssetBase[j][baseJ] = 0
			cand.AssetBase[j][baseI] = 1
			cand.AssetTeam[i][teamI] = 0
			cand.AssetTeam[j][teamJ] = 0
			cand.AssetTeam[i][teamsAtJ[0]] = 1
			cand.AssetTeam[j][teamsAtI[0]] = 1
			if !Feasible(p, cand) {
				continue
			}
			if v := objectiveValue(p, cand, obj); v < bestVal {
				best = cand
				bestVal = v
				improved = true
			}
		}
	}
	return best, bestVal, improved
}

// twoOptTeams tries relocating each active team, with all its assets, to an
// empty base.
func twoOptTeams(p *Problem, s *Solution, obj Objective, _ *rand.Rand) (*Solution, float64, bool) {
	best := s.Clone()
	bestVal := objectiveValue(p, s, obj)
	improved := false

	for k := 0; k < p.MaxTeams; k++ {
		curBase := s.teamBase(k)
		if curBase < 0 {
			continue
		}
		assets := s.teamAssets(k)
		if len(assets) == 0 {
			continue
		}
		for _, j := range s.emptyBases() {
			cand := s.Clone()
			cand.TeamBase[curBase][k] = 0
			cand.TeamBase[j][k] = 1
			for _, a := range assets {
				cand.AssetBase[a][curBase] = 0
				cand.AssetBase[a][j] = 1
			}
			if !Feasible(p, cand) {
				continue
			}
			if v := objectiveValue(p, cand, obj); v < bestVal {
				best = cand
				bestVal = v
				improved = true
			}
		}
	}
	return best, bestVal, improved
}

// consolidateTeams merges the least-loaded active team away: first into
// another team at the same base (cheaper for distance), else into the
// most-loaded team system-wide. Only meaningful when minimizing the team
// count; on success the active-team count drops by exactly one.
func consolidateTeams(p *Problem, s *Solution, obj Objective, _ *rand.Rand) (*Solution, float64, bool) {
	best := s.Clone()
	bestVal := objectiveValue(p, s, obj)
	improved := false

	if obj != MinTeams {
		return best, bestVal, improved
	}
	loads := s.teamLoads()
	active := s.activeTeams()
	if len(active) <= 1 {
		return best, bestVal, improved
	}

	smallest := leastLoadedTeam(active, loads)
	smallBase := s.teamBase(smallest)
	if smallBase < 0 {
		return best, bestVal, improved
	}
	smallAssets := s.teamAssets(smallest)

	// Same-base merge first.
	for _, dest := range s.baseTeams(smallBase) {
		if dest == smallest {
			continue
		}
		cand := s.Clone()
		for _, a := range smallAssets {
			cand.AssetTeam[a][smallest] = 0
			cand.AssetTeam[a][dest] = 1
		}
		cand.TeamBase[smallBase][smallest] = 0
		if !Feasible(p, cand) {
			continue
		}
		if v := TeamCount(cand); v < bestVal {
			best = cand
			bestVal = v
			improved = true
			break
		}
	}

	// Else fold into the most-loaded team anywhere.
	if !improved {
		largest := active[0]
		for _, k := range active[1:] {
			if loads[k] > loads[largest] {
				largest = k
			}
		}
		largeBase := s.teamBase(largest)
		if largest != smallest && largeBase >= 0 {
			cand := s.Clone()
			for _, a := range smallAssets {
				cand.AssetBase[a][smallBase] = 0
				cand.AssetBase[a][largeBase] = 1
				cand.AssetTeam[a][smallest] = 0
				cand.AssetTeam[a][largest] = 1
			}
			cand.TeamBase[smallBase][smallest] = 0
			if Feasible(p, cand) {
				if v := TeamCount(cand); v < bestVal {
					best = cand
					bestVal = v
					improved = true
				}
			}
		}
	}
	return best, bestVal, improved
}

// nearestBases returns up to limit bases from candidates ordered by
// distance to asset i, ascending.
func nearestBases(p *Problem, i int, candidates []int, limit int) []int {
	ordered := make([]int, len(candidates))
	copy(ordered, candidates)
	sort.SliceStable(ordered, func(a, b int) bool {
		return p.Dist[i][ordered[a]] < p.Dist[i][ordered[b]]
	})
	return ordered[:min(limit, len(ordered))]
}
