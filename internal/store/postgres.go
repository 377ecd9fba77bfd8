package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"

	"maintopt/internal/model"
)

// Postgres is the durable Store. Matrices, histories and front points live
// in JSONB columns; everything queryable sits in plain columns.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(dsn string) (*Postgres, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		return nil, err
	}
	return &Postgres{db: db}, nil
}

const schema = `
CREATE TABLE IF NOT EXISTS problems (
    id          UUID PRIMARY KEY,
    tenant_id   TEXT NOT NULL,
    name        TEXT,
    num_assets  INT NOT NULL,
    num_bases   INT NOT NULL,
    max_teams   INT NOT NULL,
    eta         DOUBLE PRECISION NOT NULL,
    dist        JSONB NOT NULL,
    created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS problems_tenant_idx ON problems (tenant_id, id);

CREATE TABLE IF NOT EXISTS runs (
    id          UUID PRIMARY KEY,
    tenant_id   TEXT NOT NULL,
    problem_id  UUID NOT NULL REFERENCES problems(id),
    objective   TEXT NOT NULL,
    value       DOUBLE PRECISION NOT NULL,
    feasible    BOOLEAN NOT NULL,
    violation   DOUBLE PRECISION NOT NULL,
    iterations  INT NOT NULL,
    history     JSONB,
    assignment  JSONB,
    duration_ms BIGINT NOT NULL,
    seed        BIGINT NOT NULL,
    created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS runs_tenant_idx ON runs (tenant_id, id);
CREATE INDEX IF NOT EXISTS runs_problem_idx ON runs (tenant_id, problem_id);

CREATE TABLE IF NOT EXISTS fronts (
    id          UUID PRIMARY KEY,
    tenant_id   TEXT NOT NULL,
    problem_id  UUID NOT NULL REFERENCES problems(id),
    mode        TEXT NOT NULL,
    status      TEXT NOT NULL,
    total       INT NOT NULL,
    completed   INT NOT NULL,
    points      JSONB,
    selected    JSONB,
    error       TEXT,
    created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS fronts_tenant_idx ON fronts (tenant_id, id);
`

// Migrate applies the inline schema. Idempotent.
func (p *Postgres) Migrate(ctx context.Context) error {
	_, err := p.db.ExecContext(ctx, schema)
	return err
}

func (p *Postgres) CreateProblem(ctx context.Context, tenantID string, in model.Problem) (model.Problem, error) {
	if in.ID == "" {
		in.ID = uuid.NewString()
	}
	in.Tenant = tenantID
	var created time.Time
	err := p.db.QueryRowContext(ctx, `
        INSERT INTO problems (id, tenant_id, name, num_assets, num_bases, max_teams, eta, dist)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
        RETURNING created_at`,
		in.ID, tenantID, nullIfEmpty(in.Name), in.NumAssets, in.NumBases, in.MaxTeams, in.Eta, toJSON(in.Dist),
	).Scan(&created)
	if err != nil {
		return model.Problem{}, err
	}
	in.CreatedAt = created.UTC().Format(time.RFC3339)
	return in, nil
}

func (p *Postgres) GetProblem(ctx context.Context, tenantID, id string) (model.Problem, error) {
	var (
		out     model.Problem
		name    sql.NullString
		dist    []byte
		created time.Time
	)
	err := p.db.QueryRowContext(ctx, `
        SELECT id::text, name, num_assets, num_bases, max_teams, eta, dist, created_at
        FROM problems WHERE tenant_id=$1 AND id=$2`, tenantID, id,
	).Scan(&out.ID, &name, &out.NumAssets, &out.NumBases, &out.MaxTeams, &out.Eta, &dist, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Problem{}, ErrNotFound
	}
	if err != nil {
		return model.Problem{}, err
	}
	out.Tenant = tenantID
	out.Name = name.String
	out.CreatedAt = created.UTC().Format(time.RFC3339)
	if err := json.Unmarshal(dist, &out.Dist); err != nil {
		return model.Problem{}, err
	}
	return out, nil
}

func (p *Postgres) ListProblems(ctx context.Context, tenantID, cursor string, limit int) ([]model.Problem, string, error) {
	limit = clampLimit(limit)
	rows, err := p.db.QueryContext(ctx, `
        SELECT id::text, name, num_assets, num_bases, max_teams, eta, created_at
        FROM problems WHERE tenant_id=$1 AND id::text > $2 ORDER BY id LIMIT $3`,
		tenantID, cursor, limit)
	if err != nil {
		return nil, "", err
	}
	defer rows.Close()

	out := []model.Problem{}
	var last string
	for rows.Next() {
		var (
			pr      model.Problem
			name    sql.NullString
			created time.Time
		)
		if err := rows.Scan(&pr.ID, &name, &pr.NumAssets, &pr.NumBases, &pr.MaxTeams, &pr.Eta, &created); err != nil {
			return nil, "", err
		}
		pr.Tenant = tenantID
		pr.Name = name.String
		pr.CreatedAt = created.UTC().Format(time.RFC3339)
		out = append(out, pr)
		last = pr.ID
	}
	next := ""
	if len(out) == limit {
		next = last
	}
	return out, next, rows.Err()
}

func (p *Postgres) CreateRun(ctx context.Context, tenantID string, in model.Run) (model.Run, error) {
	if in.ID == "" {
		in.ID = uuid.NewString()
	}
	in.Tenant = tenantID
	var created time.Time
	err := p.db.QueryRowContext(ctx, `
        INSERT INTO runs (id, tenant_id, problem_id, objective, value, feasible, violation, iterations, history, assignment, duration_ms, seed)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
        RETURNING created_at`,
		in.ID, tenantID, in.ProblemID, in.Objective, in.Value, in.Feasible, in.Violation,
		in.Iterations, toJSON(in.History), toJSON(in.Assignment), in.DurationMs, in.Seed,
	).Scan(&created)
	if err != nil {
		return model.Run{}, err
	}
	in.CreatedAt = created.UTC().Format(time.RFC3339)
	return in, nil
}

func (p *Postgres) GetRun(ctx context.Context, tenantID, id string) (model.Run, error) {
	var (
		out        model.Run
		history    []byte
		assignment []byte
		created    time.Time
	)
	err := p.db.QueryRowContext(ctx, `
        SELECT id::text, problem_id::text, objective, value, feasible, violation, iterations, history, assignment, duration_ms, seed, created_at
        FROM runs WHERE tenant_id=$1 AND id=$2`, tenantID, id,
	).Scan(&out.ID, &out.ProblemID, &out.Objective, &out.Value, &out.Feasible, &out.Violation,
		&out.Iterations, &history, &assignment, &out.DurationMs, &out.Seed, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Run{}, ErrNotFound
	}
	if err != nil {
		return model.Run{}, err
	}
	out.Tenant = tenantID
	out.CreatedAt = created.UTC().Format(time.RFC3339)
	if len(history) > 0 {
		if err := json.Unmarshal(history, &out.History); err != nil {
			return model.Run{}, err
		}
	}
	if len(assignment) > 0 && string(assignment) != "null" {
		out.Assignment = &model.Assignment{}
		if err := json.Unmarshal(assignment, out.Assignment); err != nil {
			return model.Run{}, err
		}
	}
	return out, nil
}

func (p *Postgres) ListRuns(ctx context.Context, tenantID, problemID, cursor string, limit int) ([]model.Run, string, error) {
	limit = clampLimit(limit)
	var (
		rows *sql.Rows
		err  error
	)
	if problemID != "" {
		rows, err = p.db.QueryContext(ctx, `
            SELECT id::text, problem_id::text, objective, value, feasible, violation, iterations, duration_ms, seed, created_at
            FROM runs WHERE tenant_id=$1 AND problem_id=$2 AND id::text > $3 ORDER BY id LIMIT $4`,
			tenantID, problemID, cursor, limit)
	} else {
		rows, err = p.db.QueryContext(ctx, `
            SELECT id::text, problem_id::text, objective, value, feasible, violation, iterations, duration_ms, seed, created_at
            FROM runs WHERE tenant_id=$1 AND id::text > $2 ORDER BY id LIMIT $3`,
			tenantID, cursor, limit)
	}
	if err != nil {
		return nil, "", err
	}
	defer rows.Close()

	out := []model.Run{}
	var last string
	for rows.Next() {
		var (
			r       model.Run
			created time.Time
		)
		if err := rows.Scan(&r.ID, &r.ProblemID, &r.Objective, &r.Value, &r.Feasible, &r.Violation,
			&r.Iterations, &r.DurationMs, &r.Seed, &created); err != nil {
			return nil, "", err
		}
		r.Tenant = tenantID
		r.CreatedAt = created.UTC().Format(time.RFC3339)
		out = append(out, r)
		last = r.ID
	}
	next := ""
	if len(out) == limit {
		next = last
	}
	return out, next, rows.Err()
}

func (p *Postgres) CreateFront(ctx context.Context, tenantID string, in model.Front) (model.Front, error) {
	if in.ID == "" {
		in.ID = uuid.NewString()
	}
	in.Tenant = tenantID
	var created time.Time
	err := p.db.QueryRowContext(ctx, `
        INSERT INTO fronts (id, tenant_id, problem_id, mode, status, total, completed, points, selected, error)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
        RETURNING created_at`,
		in.ID, tenantID, in.ProblemID, in.Mode, in.Status, in.Total, in.Completed,
		toJSON(in.Points), toJSON(in.Selected), nullIfEmpty(in.Error),
	).Scan(&created)
	if err != nil {
		return model.Front{}, err
	}
	in.CreatedAt = created.UTC().Format(time.RFC3339)
	in.UpdatedAt = in.CreatedAt
	return in, nil
}

func (p *Postgres) UpdateFront(ctx context.Context, tenantID string, f model.Front) error {
	res, err := p.db.ExecContext(ctx, `
        UPDATE fronts SET status=$3, total=$4, completed=$5, points=$6, selected=$7, error=$8, updated_at=now()
        WHERE tenant_id=$1 AND id=$2`,
		tenantID, f.ID, f.Status, f.Total, f.Completed, toJSON(f.Points), toJSON(f.Selected), nullIfEmpty(f.Error))
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (p *Postgres) GetFront(ctx context.Context, tenantID, id string) (model.Front, error) {
	var (
		out      model.Front
		points   []byte
		selected []byte
		errMsg   sql.NullString
		created  time.Time
		updated  time.Time
	)
	err := p.db.QueryRowContext(ctx, `
        SELECT id::text, problem_id::text, mode, status, total, completed, points, selected, error, created_at, updated_at
        FROM fronts WHERE tenant_id=$1 AND id=$2`, tenantID, id,
	).Scan(&out.ID, &out.ProblemID, &out.Mode, &out.Status, &out.Total, &out.Completed,
		&points, &selected, &errMsg, &created, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Front{}, ErrNotFound
	}
	if err != nil {
		return model.Front{}, err
	}
	out.Tenant = tenantID
	out.Error = errMsg.String
	out.CreatedAt = created.UTC().Format(time.RFC3339)
	out.UpdatedAt = updated.UTC().Format(time.RFC3339)
	if len(points) > 0 {
		if err := json.Unmarshal(points, &out.Points); err != nil {
			return model.Front{}, err
		}
	}
	if len(selected) > 0 {
		if err := json.Unmarshal(selected, &out.Selected); err != nil {
			return model.Front{}, err
		}
	}
	return out, nil
}

func (p *Postgres) ListFronts(ctx context.Context, tenantID, cursor string, limit int) ([]model.Front, string, error) {
	limit = clampLimit(limit)
	rows, err := p.db.QueryContext(ctx, `
        SELECT id::text, problem_id::text, mode, status, total, completed, created_at, updated_at
        FROM fronts WHERE tenant_id=$1 AND id::text > $2 ORDER BY id LIMIT $3`,
		tenantID, cursor, limit)
	if err != nil {
		return nil, "", err
	}
	defer rows.Close()

	out := []model.Front{}
	var last string
	for rows.Next() {
		var (
			f       model.Front
			created time.Time
			updated time.Time
		)
		if err := rows.Scan(&f.ID, &f.ProblemID, &f.Mode, &f.Status, &f.Total, &f.Completed, &created, &updated); err != nil {
			return nil, "", err
		}
		f.Tenant = tenantID
		f.CreatedAt = created.UTC().Format(time.RFC3339)
		f.UpdatedAt = updated.UTC().Format(time.RFC3339)
		out = append(out, f)
		last = f.ID
	}
	next := ""
	if len(out) == limit {
		next = last
	}
	return out, next, rows.Err()
}

func (p *Postgres) Ping(ctx context.Context) error { return p.db.PingContext(ctx) }
func (p *Postgres) Close() error                   { return p.db.Close() }

func clampLimit(limit int) int {
	if limit <= 0 || limit > 500 {
		return 100
	}
	return limit
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func toJSON(v any) []byte {
	b, err := json.Marshal(v)
	if err != nil {
		return []byte("null")
	}
	return b
}
