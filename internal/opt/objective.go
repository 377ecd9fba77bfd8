package opt

// Objective selects which raw objective the search minimizes.
type Objective int

const (
	// MinDistance minimizes f1, the total asset-to-team travel distance.
	MinDistance Objective = iota
	// MinTeams minimizes f2, the number of active teams.
	MinTeams
)

func (o Objective) String() string {
	if o == MinTeams {
		return "f2"
	}
	return "f1"
}

// ParseObjective maps the wire names "f1"/"f2" onto the enum.
func ParseObjective(name string) (Objective, bool) {
	switch name {
	case "f1":
		return MinDistance, true
	case "f2":
		return MinTeams, true
	}
	return MinDistance, false
}

// TotalDistance computes f1: for each asset, the distance to the base where
// its team sits. When an intermediate solution places the asset's team at a
// base other than the asset's own, the team's base still wins; constraint
// family 5 forces the two to coincide at feasibility.
func TotalDistance(p *Problem, s *Solution) float64 {
	total := 0.0
	for i := 0; i < p.NumAssets; i++ {
		for k := 0; k < p.MaxTeams; k++ {
			if s.AssetTeam[i][k] != 1 {
				continue
			}
			for j := 0; j < p.NumBases; j++ {
				if s.TeamBase[j][k] == 1 {
					total += p.Dist[i][j]
					break
				}
			}
		}
	}
	return total
}

// TeamCount computes f2: the number of teams serving at least one asset.
func TeamCount(s *Solution) float64 {
	count := 0
	for _, l := range s.teamLoads() {
		if l > 0 {
			count++
		}
	}
	return float64(count)
}

// Violation measures constraint violations as a sum of squared deviations
// over six constraint families. Zero means fully feasible. The squared shape
// gives tournament selection a smooth proxy for "how infeasible", so
// near-feasible candidates outrank grossly infeasible ones.
func Violation(p *Problem, s *Solution) float64 {
	total := 0.0

	// Family 1: a used team sits at exactly one base, and a placed team
	// serves at least one asset.
	loads := s.teamLoads()
	for k := 0; k < p.MaxTeams; k++ {
		placements := 0
		for j := 0; j < p.NumBases; j++ {
			placements += s.TeamBase[j][k]
		}
		if placements > 1 {
			d := float64(placements - 1)
			total += d * d
		}
		if loads[k] > 0 && placements != 1 {
			d := float64(placements - 1)
			if d < 0 {
				d = -d
			}
			total += d * d
		}
		if placements == 1 && loads[k] == 0 {
			total += 1.0
		}
	}

	// Family 2: each asset is assigned to exactly one base.
	for i := 0; i < p.NumAssets; i++ {
		row := 0
		for j := 0; j < p.NumBases; j++ {
			row += s.AssetBase[i][j]
		}
		if row != 1 {
			d := float64(row - 1)
			total += d * d
		}
	}

	// Family 3: an asset's base must host at least one team.
	for i := 0; i < p.NumAssets; i++ {
		for j := 0; j < p.NumBases; j++ {
			if s.AssetBase[i][j] == 1 && !s.baseHasTeam(j) {
				total += 1.0
			}
		}
	}

	// Family 4: each asset belongs to exactly one team.
	for i := 0; i < p.NumAssets; i++ {
		row := 0
		for k := 0; k < p.MaxTeams; k++ {
			row += s.AssetTeam[i][k]
		}
		if row != 1 {
			d := float64(row - 1)
			total += d * d
		}
	}

	// Family 5: an asset's team must sit at the asset's own base.
	for i := 0; i < p.NumAssets; i++ {
		for k := 0; k < p.MaxTeams; k++ {
			if s.AssetTeam[i][k] != 1 {
				continue
			}
			base := s.assetBase(i)
			if base >= 0 && s.TeamBase[base][k] != 1 {
				total += 1.0
			}
		}
	}

	// Family 6: every active team serves at least eta*n/s assets.
	minLoad := p.MinTeamLoad()
	for k := 0; k < p.MaxTeams; k++ {
		if loads[k] > 0 && float64(loads[k]) < minLoad {
			d := minLoad - float64(loads[k])
			total += d * d
		}
	}

	return total
}

// Feasible reports whether the solution satisfies all six constraint
// families simultaneously.
func Feasible(p *Problem, s *Solution) bool {
	return Violation(p, s) == 0.0
}

// objectiveValue evaluates the selected raw objective.
func objectiveValue(p *Problem, s *Solution, obj Objective) float64 {
	if obj == MinTeams {
		return TeamCount(s)
	}
	return TotalDistance(p, s)
}

// WeightedParams carries the weighted-sum scalarization parameters. W1+W2
// is expected to be 1; the min/max bounds normalize the raw objectives.
type WeightedParams struct {
	W1, W2       float64
	F1Min, F1Max float64
	F2Min, F2Max float64
}

// normalizeObjective min-max normalizes v into [0,1]; a degenerate range
// (max-min below 1e-10) normalizes to 0.
func normalizeObjective(v, lo, hi float64) float64 {
	if hi-lo > 1e-10 {
		return (v - lo) / (hi - lo)
	}
	return 0.0
}

// WeightedSum evaluates the Pw scalarization: both raw objectives are
// min-max normalized and combined as w1*f1_norm + w2*f2_norm.
func WeightedSum(p *Problem, s *Solution, wp WeightedParams) (fw, f1, f2 float64, feasible bool, violation float64) {
	f1 = TotalDistance(p, s)
	f2 = TeamCount(s)
	fw = wp.W1*normalizeObjective(f1, wp.F1Min, wp.F1Max) + wp.W2*normalizeObjective(f2, wp.F2Min, wp.F2Max)
	violation = Violation(p, s)
	return fw, f1, f2, violation == 0.0, violation
}

// EpsilonConstraint evaluates the Pe scalarization: f1 is minimized
// directly, and exceeding the f2 budget adds (f2-epsilon2)^2 to the
// violation.
func EpsilonConstraint(p *Problem, s *Solution, epsilon2 float64) (f1, f2 float64, feasible bool, violation float64) {
	f1 = TotalDistance(p, s)
	f2 = TeamCount(s)
	violation = Violation(p, s)
	if f2 > epsilon2 {
		d := f2 - epsilon2
		violation += d * d
	}
	return f1, f2, violation == 0.0, violation
}
