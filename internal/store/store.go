package store

import (
	"context"
	"errors"

	"maintopt/internal/model"
)

// Store is the persistence interface used by the API server. All lookups
// are tenant-scoped; cursors are the last returned id.
type Store interface {
	// Problems
	CreateProblem(ctx context.Context, tenantID string, in model.Problem) (model.Problem, error)
	GetProblem(ctx context.Context, tenantID, id string) (model.Problem, error)
	ListProblems(ctx context.Context, tenantID, cursor string, limit int) ([]model.Problem, string, error)

	// Runs
	CreateRun(ctx context.Context, tenantID string, in model.Run) (model.Run, error)
	GetRun(ctx context.Context, tenantID, id string) (model.Run, error)
	ListRuns(ctx context.Context, tenantID, problemID, cursor string, limit int) ([]model.Run, string, error)

	// Fronts
	CreateFront(ctx context.Context, tenantID string, in model.Front) (model.Front, error)
	UpdateFront(ctx context.Context, tenantID string, f model.Front) error
	GetFront(ctx context.Context, tenantID, id string) (model.Front, error)
	ListFronts(ctx context.Context, tenantID, cursor string, limit int) ([]model.Front, string, error)

	// Health
	Ping(ctx context.Context) error
	Close() error
}

var ErrNotFound = errors.New("not found")
