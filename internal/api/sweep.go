package api

import (
	"context"
	"fmt"
	"log"
	"time"

	"maintopt/internal/metrics"
	"maintopt/internal/model"
	"maintopt/internal/opt"
)

// runSweep executes a scalarization sweep in the background, updating the
// stored front after every point and publishing progress events. Weighted
// sweeps spread w1 evenly over [0,1]; epsilon sweeps spread the team
// budget over [f2min,f2max] and warm-start each point from the previous
// solution.
func (s *Server) runSweep(tenant string, stored model.Problem, front model.Front, req model.FrontRequest) {
	ctx := context.Background()
	defer func() {
		if rec := recover(); rec != nil {
			front.Status = model.FrontFailed
			front.Error = fmt.Sprint(rec)
			if err := s.Store.UpdateFront(ctx, tenant, front); err != nil {
				log.Printf("front %s: save failed state: %v", front.ID, err)
			}
			s.publishFront(front, model.FrontEvent{Type: "front.failed", Error: front.Error})
		}
	}()

	p := optProblem(stored)
	mode, _ := opt.ParseMode(req.Mode)
	points := front.Total
	maxIter := orDefault(req.MaxIter, s.Tuning.MaxIter)
	maxNoImprove := orDefault(req.MaxNoImprove, s.Tuning.MaxNoImprove)
	maxFront := orDefault(req.MaxFrontSize, s.Tuning.MaxFrontSize)

	wp := s.normalizeBounds(stored)

	front.Status = model.FrontRunning
	if err := s.Store.UpdateFront(ctx, tenant, front); err != nil {
		log.Printf("front %s: mark running: %v", front.ID, err)
		return
	}
	s.publishFront(front, model.FrontEvent{Type: "front.started"})

	var prev *opt.Solution
	for i := 0; i < points; i++ {
		mp := opt.MultiParams{
			Mode:         mode,
			MaxIter:      maxIter,
			MaxNoImprove: maxNoImprove,
			Seed:         seedFor(req.Seed, i),
		}
		point := model.FrontPoint{Index: i}
		if mode == opt.ModeEpsilon {
			eps := wp.F2Min
			if points > 1 {
				eps = wp.F2Min + float64(i)*(wp.F2Max-wp.F2Min)/float64(points-1)
			}
			mp.Epsilon2 = eps
			mp.Initial = prev
			point.Epsilon2 = eps
		} else {
			w1 := 1.0
			if points > 1 {
				w1 = float64(i) / float64(points-1)
			}
			mp.Weighted = wp
			mp.Weighted.W1 = w1
			mp.Weighted.W2 = 1 - w1
			point.W1 = w1
			point.W2 = 1 - w1
		}

		res := opt.SolveMulti(p, mp)
		point.F1 = res.F1
		point.F2 = res.F2
		point.Feasible = res.Feasible

		status := "infeasible"
		if res.Feasible {
			status = "feasible"
		}
		metrics.FrontPoints.WithLabelValues(req.Mode, status).Inc()

		// Epsilon sweeps keep near-feasible points too; they often
		// anchor the tight end of the budget range.
		if res.Feasible || (mode == opt.ModeEpsilon && res.Violation < 1.0) {
			front.Points = append(front.Points, point)
		}
		if mode == opt.ModeEpsilon {
			prev = res.Solution
		}
		front.Completed = i + 1
		if err := s.Store.UpdateFront(ctx, tenant, front); err != nil {
			log.Printf("front %s: save progress: %v", front.ID, err)
		}
		s.publishFront(front, model.FrontEvent{Type: "front.point", Point: &point})
	}

	front.Selected = curateFront(front.Points, maxFront)
	front.Status = model.FrontDone
	if err := s.Store.UpdateFront(ctx, tenant, front); err != nil {
		log.Printf("front %s: save done state: %v", front.ID, err)
	}
	metrics.FrontSize.WithLabelValues(req.Mode).Observe(float64(len(front.Selected)))
	s.publishFront(front, model.FrontEvent{Type: "front.completed"})
}

// normalizeBounds fills the weighted-sum normalization range. Zero tuning
// values derive the f1 range from the distance matrix row extremes and
// default the f2 range to one team up to the fleet cap.
func (s *Server) normalizeBounds(stored model.Problem) opt.WeightedParams {
	wp := opt.WeightedParams{
		F1Min: s.Tuning.Normalize.F1Min,
		F1Max: s.Tuning.Normalize.F1Max,
		F2Min: s.Tuning.Normalize.F2Min,
		F2Max: s.Tuning.Normalize.F2Max,
	}
	if wp.F1Min == 0 && wp.F1Max == 0 {
		for _, row := range stored.Dist {
			if len(row) == 0 {
				continue
			}
			lo, hi := row[0], row[0]
			for _, d := range row[1:] {
				lo = min(lo, d)
				hi = max(hi, d)
			}
			wp.F1Min += lo
			wp.F1Max += hi
		}
	}
	if wp.F2Min == 0 && wp.F2Max == 0 {
		wp.F2Min = 1
		wp.F2Max = float64(stored.MaxTeams)
	}
	return wp
}

// curateFront reduces the accumulated points to the non-dominated set,
// thinned by crowding distance when it exceeds the cap.
func curateFront(points []model.FrontPoint, maxFront int) []model.FrontPoint {
	if len(points) == 0 {
		return nil
	}
	cands := make([]opt.Point, len(points))
	for i, fp := range points {
		cands[i] = opt.Point{F1: fp.F1, F2: fp.F2, Meta: fp}
	}
	nd := opt.NonDominated(cands)
	nd = opt.SelectDiverse(nd, maxFront)
	out := make([]model.FrontPoint, len(nd))
	for i, c := range nd {
		out[i] = c.Meta.(model.FrontPoint)
	}
	return out
}

func (s *Server) publishFront(front model.Front, evt model.FrontEvent) {
	evt.FrontID = front.ID
	evt.Status = front.Status
	evt.Completed = front.Completed
	evt.Total = front.Total
	evt.TS = time.Now().UTC().Format(time.RFC3339)
	s.Broker.Publish(front.ID, evt)
}

// seedFor derives a per-point seed from the request seed. Zero stays zero
// so each point seeds from the clock.
func seedFor(seed int64, i int) int64 {
	if seed == 0 {
		return 0
	}
	return seed + int64(i)*7919
}
