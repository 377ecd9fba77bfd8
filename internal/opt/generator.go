package opt

import (
	"math/rand"
	"sort"
)

// InitialSolution builds a constructive starting point using all MaxTeams
// teams: placement is split between the most central bases and a
// round-robin over all bases, every asset goes to its nearest hosting base,
// and membership is balanced onto the least-loaded team per base.
func InitialSolution(p *Problem, rng *rand.Rand) *Solution {
	s := NewSolution(p)
	ordered := basesByCentrality(p)

	for k := 0; k < p.MaxTeams; k++ {
		var base int
		if rng.Float64() < 0.5 {
			base = ordered[k%min(4, len(ordered))]
		} else {
			base = ordered[k%len(ordered)]
		}
		s.TeamBase[base][k] = 1
	}

	assignNearestHostingBases(p, s)
	balanceTeamMembership(p, s)
	return s
}

// InitialSolutionWithTeams builds a starting point using exactly teams
// active teams. With favorDistance the teams spread over the four most
// central bases; otherwise they all concentrate at the single most central
// base, which biases the start toward a low team count.
func InitialSolutionWithTeams(p *Problem, teams int, favorDistance bool) *Solution {
	if teams < 1 {
		teams = 1
	}
	if teams > p.MaxTeams {
		teams = p.MaxTeams
	}

	s := NewSolution(p)
	ordered := basesByCentrality(p)

	if favorDistance {
		for k := 0; k < teams; k++ {
			s.TeamBase[ordered[k%min(len(ordered), 4)]][k] = 1
		}
	} else {
		central := ordered[0]
		for k := 0; k < teams; k++ {
			s.TeamBase[central][k] = 1
		}
	}

	assignNearestHostingBases(p, s)
	balanceTeamMembership(p, s)
	return s
}

// basesByCentrality orders bases by mean distance to all assets, ascending.
func basesByCentrality(p *Problem) []int {
	means := make([]float64, p.NumBases)
	for j := 0; j < p.NumBases; j++ {
		sum := 0.0
		for i := 0; i < p.NumAssets; i++ {
			sum += p.Dist[i][j]
		}
		means[j] = sum / float64(p.NumAssets)
	}
	order := make([]int, p.NumBases)
	for j := range order {
		order[j] = j
	}
	sort.SliceStable(order, func(a, b int) bool { return means[order[a]] < means[order[b]] })
	return order
}

// assignNearestHostingBases assigns every asset to its nearest base that
// currently hosts a team.
func assignNearestHostingBases(p *Problem, s *Solution) {
	for i := 0; i < p.NumAssets; i++ {
		hosting := s.basesWithTeams()
		if len(hosting) == 0 {
			continue
		}
		best := hosting[0]
		for _, j := range hosting[1:] {
			if p.Dist[i][j] < p.Dist[i][best] {
				best = j
			}
		}
		s.AssetBase[i][best] = 1
	}
}

// balanceTeamMembership attaches every asset to the currently least-loaded
// team at its assigned base, accumulating loads as it goes.
func balanceTeamMembership(p *Problem, s *Solution) {
	for i := range s.AssetTeam {
		for k := range s.AssetTeam[i] {
			s.AssetTeam[i][k] = 0
		}
	}
	loads := make([]int, p.MaxTeams)
	for i := 0; i < p.NumAssets; i++ {
		base := s.assetBase(i)
		if base < 0 {
			continue
		}
		teams := s.baseTeams(base)
		if len(teams) == 0 {
			continue
		}
		k := leastLoadedTeam(teams, loads)
		s.AssetTeam[i][k] = 1
		loads[k]++
	}
}
