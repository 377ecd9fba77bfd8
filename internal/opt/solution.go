// Package opt implements the assignment optimizer: a variable neighborhood
// search (VNS) over asset-to-base and asset-to-team assignments, with
// single-objective and scalarized multi-objective drivers.
package opt

// Problem is the immutable instance shared by every search component:
// sizing, the minimum-load fraction, and the asset-to-base distance matrix.
type Problem struct {
	NumAssets int
	NumBases  int
	MaxTeams  int
	Eta       float64     // minimum fraction of n/s assets per active team
	Dist      [][]float64 // Dist[i][j] = travel distance from asset i to base j
}

// MinTeamLoad returns the minimum asset count an active team must serve.
func (p *Problem) MinTeamLoad() float64 {
	return p.Eta * float64(p.NumAssets) / float64(p.MaxTeams)
}

// Solution holds the three 0/1 decision matrices. Operators treat solutions
// as values: they clone before mutating and never alias the input.
type Solution struct {
	AssetBase [][]int // n x m: asset i assigned to base j
	TeamBase  [][]int // m x s: team k placed at base j
	AssetTeam [][]int // n x s: asset i served by team k
}

// NewSolution returns an all-zero solution sized for p.
func NewSolution(p *Problem) *Solution {
	return &Solution{
		AssetBase: zeroMatrix(p.NumAssets, p.NumBases),
		TeamBase:  zeroMatrix(p.NumBases, p.MaxTeams),
		AssetTeam: zeroMatrix(p.NumAssets, p.MaxTeams),
	}
}

// Clone deep-copies the solution.
func (s *Solution) Clone() *Solution {
	return &Solution{
		AssetBase: cloneMatrix(s.AssetBase),
		TeamBase:  cloneMatrix(s.TeamBase),
		AssetTeam: cloneMatrix(s.AssetTeam),
	}
}

func zeroMatrix(rows, cols int) [][]int {
	m := make([][]int, rows)
	for i := range m {
		m[i] = make([]int, cols)
	}
	return m
}

func cloneMatrix(src [][]int) [][]int {
	dst := make([][]int, len(src))
	for i := range src {
		dst[i] = make([]int, len(src[i]))
		copy(dst[i], src[i])
	}
	return dst
}

// assetBase returns the first base asset i is assigned to, or -1.
func (s *Solution) assetBase(i int) int {
	for j, v := range s.AssetBase[i] {
		if v == 1 {
			return j
		}
	}
	return -1
}

// assetTeam returns the first team serving asset i, or -1.
func (s *Solution) assetTeam(i int) int {
	for k, v := range s.AssetTeam[i] {
		if v == 1 {
			return k
		}
	}
	return -1
}

// teamBase returns the first base hosting team k, or -1 when unplaced.
func (s *Solution) teamBase(k int) int {
	for j := range s.TeamBase {
		if s.TeamBase[j][k] == 1 {
			return j
		}
	}
	return -1
}

// teamLoads returns the number of assets served by each team.
func (s *Solution) teamLoads() []int {
	loads := make([]int, len(s.TeamBase[0]))
	for i := range s.AssetTeam {
		for k, v := range s.AssetTeam[i] {
			if v == 1 {
				loads[k]++
			}
		}
	}
	return loads
}

// teamAssets returns the indices of assets served by team k.
func (s *Solution) teamAssets(k int) []int {
	var assets []int
	for i := range s.AssetTeam {
		if s.AssetTeam[i][k] == 1 {
			assets = append(assets, i)
		}
	}
	return assets
}

// baseTeams returns the teams placed at base j, in team-index order.
func (s *Solution) baseTeams(j int) []int {
	var teams []int
	for k, v := range s.TeamBase[j] {
		if v == 1 {
			teams = append(teams, k)
		}
	}
	return teams
}

// baseHasTeam reports whether base j hosts at least one team.
func (s *Solution) baseHasTeam(j int) bool {
	for _, v := range s.TeamBase[j] {
		if v == 1 {
			return true
		}
	}
	return false
}

// basesWithTeams returns every base hosting at least one team, ascending.
func (s *Solution) basesWithTeams() []int {
	var bases []int
	for j := range s.TeamBase {
		if s.baseHasTeam(j) {
			bases = append(bases, j)
		}
	}
	return bases
}

// emptyBases returns every base hosting no team, ascending.
func (s *Solution) emptyBases() []int {
	var bases []int
	for j := range s.TeamBase {
		if !s.baseHasTeam(j) {
			bases = append(bases, j)
		}
	}
	return bases
}

// activeTeams returns the teams serving at least one asset, ascending.
func (s *Solution) activeTeams() []int {
	loads := s.teamLoads()
	var teams []int
	for k, l := range loads {
		if l > 0 {
			teams = append(teams, k)
		}
	}
	return teams
}

// leastLoadedTeam picks the team with the fewest assets among candidates,
// using loads as the membership counts. First minimum wins on ties.
func leastLoadedTeam(candidates []int, loads []int) int {
	best := -1
	for _, k := range candidates {
		if best == -1 || loads[k] < loads[best] {
			best = k
		}
	}
	return best
}
