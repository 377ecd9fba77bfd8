package opt

import "math/rand"

// Shake perturbs the solution by reassigning a random subset of assets to
// other hosting bases. The subset size grows with intensity but is capped
// at a third of the assets, so even the strongest shake leaves most of the
// structure intact. Each moved asset lands on the destination's least
// loaded team, with loads updated as moves apply.
func Shake(p *Problem, s *Solution, intensity float64, rng *rand.Rand) *Solution {
	out := s.Clone()

	count := int(float64(p.NumAssets) * intensity * 0.15)
	if count < 5 {
		count = 5
	}
	// The cap wins over the minimum: instances with fewer than three
	// assets get no perturbation at all.
	if limit := p.NumAssets / 3; count > limit {
		count = limit
	}

	loads := out.teamLoads()
	for _, i := range rng.Perm(p.NumAssets)[:count] {
		curBase := out.assetBase(i)
		curTeam := out.assetTeam(i)
		if curBase < 0 || curTeam < 0 {
			continue
		}
		var others []int
		for _, j := range out.basesWithTeams() {
			if j != curBase {
				others = append(others, j)
			}
		}
		if len(others) == 0 {
			continue
		}

		// Bias toward nearby bases so the shake stays geographically
		// plausible; the 30% tail keeps long jumps possible.
		var dest int
		if rng.Float64() < 0.7 {
			near := nearestBases(p, i, others, 3)
			dest = near[rng.Intn(len(near))]
		} else {
			dest = others[rng.Intn(len(others))]
		}
		teams := out.baseTeams(dest)
		if len(teams) == 0 {
			continue
		}
		k := leastLoadedTeam(teams, loads)

		out.AssetBase[i][curBase] = 0
		out.AssetBase[i][dest] = 1
		out.AssetTeam[i][curTeam] = 0
		out.AssetTeam[i][k] = 1
		loads[curTeam]--
		loads[k]++
	}
	return out
}
