package store

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"maintopt/internal/model"
)

// Memory is the in-memory Store used in tests and single-node dev runs.
type Memory struct {
	mu          sync.Mutex
	problems    map[string]model.Problem
	problemsTen map[string][]string // tenant -> problem ids, insertion order
	runs        map[string]model.Run
	runsTen     map[string][]string
	fronts      map[string]model.Front
	frontsTen   map[string][]string
}

func NewMemory() *Memory {
	return &Memory{
		problems:    map[string]model.Problem{},
		problemsTen: map[string][]string{},
		runs:        map[string]model.Run{},
		runsTen:     map[string][]string{},
		fronts:      map[string]model.Front{},
		frontsTen:   map[string][]string{},
	}
}

func now() string { return time.Now().UTC().Format(time.RFC3339) }

func (m *Memory) CreateProblem(ctx context.Context, tenantID string, in model.Problem) (model.Problem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if in.ID == "" {
		in.ID = uuid.NewString()
	}
	in.Tenant = tenantID
	if in.CreatedAt == "" {
		in.CreatedAt = now()
	}
	m.problems[in.ID] = in
	m.problemsTen[tenantID] = append(m.problemsTen[tenantID], in.ID)
	return in, nil
}

func (m *Memory) GetProblem(ctx context.Context, tenantID, id string) (model.Problem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.problems[id]
	if !ok || p.Tenant != tenantID {
		return model.Problem{}, ErrNotFound
	}
	return p, nil
}

func (m *Memory) ListProblems(ctx context.Context, tenantID, cursor string, limit int) ([]model.Problem, string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := m.problemsTen[tenantID]
	out := []model.Problem{}
	var next string
	for i := cursorStart(ids, cursor); i < len(ids) && len(out) < pageLimit(limit); i++ {
		p := m.problems[ids[i]]
		p.Dist = nil // listings stay light
		out = append(out, p)
		next = ids[i]
	}
	if len(out) < pageLimit(limit) {
		next = ""
	}
	return out, next, nil
}

func (m *Memory) CreateRun(ctx context.Context, tenantID string, in model.Run) (model.Run, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if in.ID == "" {
		in.ID = uuid.NewString()
	}
	in.Tenant = tenantID
	if in.CreatedAt == "" {
		in.CreatedAt = now()
	}
	m.runs[in.ID] = in
	m.runsTen[tenantID] = append(m.runsTen[tenantID], in.ID)
	return in, nil
}

func (m *Memory) GetRun(ctx context.Context, tenantID, id string) (model.Run, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.runs[id]
	if !ok || r.Tenant != tenantID {
		return model.Run{}, ErrNotFound
	}
	return r, nil
}

func (m *Memory) ListRuns(ctx context.Context, tenantID, problemID, cursor string, limit int) ([]model.Run, string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := m.runsTen[tenantID]
	out := []model.Run{}
	var next string
	for i := cursorStart(ids, cursor); i < len(ids) && len(out) < pageLimit(limit); i++ {
		r := m.runs[ids[i]]
		if problemID == "" || r.ProblemID == problemID {
			r.History = nil
			r.Assignment = nil
			out = append(out, r)
		}
		next = ids[i]
	}
	if len(out) < pageLimit(limit) {
		next = ""
	}
	return out, next, nil
}

func (m *Memory) CreateFront(ctx context.Context, tenantID string, in model.Front) (model.Front, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if in.ID == "" {
		in.ID = uuid.NewString()
	}
	in.Tenant = tenantID
	if in.CreatedAt == "" {
		in.CreatedAt = now()
	}
	in.UpdatedAt = in.CreatedAt
	m.fronts[in.ID] = in
	m.frontsTen[tenantID] = append(m.frontsTen[tenantID], in.ID)
	return in, nil
}

func (m *Memory) UpdateFront(ctx context.Context, tenantID string, f model.Front) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.fronts[f.ID]
	if !ok || cur.Tenant != tenantID {
		return ErrNotFound
	}
	f.Tenant = tenantID
	f.CreatedAt = cur.CreatedAt
	f.UpdatedAt = now()
	m.fronts[f.ID] = f
	return nil
}

func (m *Memory) GetFront(ctx context.Context, tenantID, id string) (model.Front, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	f, ok := m.fronts[id]
	if !ok || f.Tenant != tenantID {
		return model.Front{}, ErrNotFound
	}
	return f, nil
}

func (m *Memory) ListFronts(ctx context.Context, tenantID, cursor string, limit int) ([]model.Front, string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := m.frontsTen[tenantID]
	out := []model.Front{}
	var next string
	for i := cursorStart(ids, cursor); i < len(ids) && len(out) < pageLimit(limit); i++ {
		f := m.fronts[ids[i]]
		f.Points = nil
		f.Selected = nil
		out = append(out, f)
		next = ids[i]
	}
	if len(out) < pageLimit(limit) {
		next = ""
	}
	return out, next, nil
}

func (m *Memory) Ping(ctx context.Context) error { return nil }
func (m *Memory) Close() error                   { return nil }

func cursorStart(ids []string, cursor string) int {
	if cursor == "" {
		return 0
	}
	for i, id := range ids {
		if id == cursor {
			return i + 1
		}
	}
	return 0
}

func pageLimit(limit int) int {
	if limit <= 0 {
		return 100
	}
	return limit
}
