package opt

import (
	"math"
	"sort"
)

// Point is one candidate outcome in (f1, f2) objective space. Meta carries
// an opaque payload (run id, parameters) through the front utilities.
type Point struct {
	F1   float64
	F2   float64
	Meta any
}

// dominates reports whether a weakly dominates b: no worse on both
// objectives and strictly better on at least one.
func dominates(a, b Point) bool {
	if a.F1 > b.F1 || a.F2 > b.F2 {
		return false
	}
	return a.F1 < b.F1 || a.F2 < b.F2
}

// NonDominated filters points down to the non-dominated set, preserving
// input order.
func NonDominated(points []Point) []Point {
	var front []Point
	for i, p := range points {
		dominated := false
		for j, q := range points {
			if i != j && dominates(q, p) {
				dominated = true
				break
			}
		}
		if !dominated {
			front = append(front, p)
		}
	}
	return front
}

// SelectDiverse trims a front to at most maxCount points by crowding
// distance: boundary points get infinite distance and interior points the
// normalized gap between their neighbors along each objective, so the kept
// subset spreads across the front instead of clustering.
func SelectDiverse(points []Point, maxCount int) []Point {
	if len(points) <= maxCount {
		return points
	}

	type ranked struct {
		p Point
		d float64
	}
	rank := make([]ranked, len(points))
	for i, p := range points {
		rank[i] = ranked{p: p}
	}

	for _, key := range []func(Point) float64{
		func(p Point) float64 { return p.F1 },
		func(p Point) float64 { return p.F2 },
	} {
		order := make([]int, len(rank))
		for i := range order {
			order[i] = i
		}
		sort.SliceStable(order, func(a, b int) bool {
			return key(rank[order[a]].p) < key(rank[order[b]].p)
		})

		lo := key(rank[order[0]].p)
		hi := key(rank[order[len(order)-1]].p)
		rank[order[0]].d = math.Inf(1)
		rank[order[len(order)-1]].d = math.Inf(1)
		if hi-lo <= 1e-10 {
			continue
		}
		for i := 1; i < len(order)-1; i++ {
			gap := key(rank[order[i+1]].p) - key(rank[order[i-1]].p)
			rank[order[i]].d += gap / (hi - lo)
		}
	}

	sort.SliceStable(rank, func(a, b int) bool { return rank[a].d > rank[b].d })
	out := make([]Point, maxCount)
	for i := range out {
		out[i] = rank[i].p
	}
	return out
}
