package api

import "golang.org/x/time/rate"

// limiter returns the per-tenant token bucket guarding the solver
// endpoints, creating it on first use.
func (s *Server) limiter(tenant string) *rate.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.limiters == nil {
		s.limiters = map[string]*rate.Limiter{}
	}
	l, ok := s.limiters[tenant]
	if !ok {
		rps := s.RateRPS
		if rps <= 0 {
			rps = 1
		}
		burst := s.RateBurst
		if burst <= 0 {
			burst = 1
		}
		l = rate.NewLimiter(rate.Limit(rps), burst)
		s.limiters[tenant] = l
	}
	return l
}
