// Package model holds the wire and storage types shared by the API and the
// stores. The optimizer core keeps its own matrix types; handlers convert
// at the boundary.
package model

// Coord is a latitude/longitude pair in decimal degrees.
type Coord struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// ProblemIn is the JSON form of a problem import. CSV imports build the
// same structure from the parsed file.
type ProblemIn struct {
	Name     string  `json:"name,omitempty"`
	Assets   []Coord `json:"assets" validate:"required,min=1,dive"`
	Bases    []Coord `json:"bases" validate:"required,min=1,dive"`
	MaxTeams int     `json:"maxTeams" validate:"required,gte=1,lte=200"`
	Eta      float64 `json:"eta" validate:"gte=0,lte=1"`
}

// Problem is a stored instance: sizing plus the distance matrix.
type Problem struct {
	ID        string      `json:"id"`
	Tenant    string      `json:"tenantId"`
	Name      string      `json:"name,omitempty"`
	NumAssets int         `json:"numAssets"`
	NumBases  int         `json:"numBases"`
	MaxTeams  int         `json:"maxTeams"`
	Eta       float64     `json:"eta"`
	Dist      [][]float64 `json:"dist,omitempty"`
	CreatedAt string      `json:"createdAt"`
}

// OptimizeRequest starts a synchronous single-objective run.
type OptimizeRequest struct {
	ProblemID    string `json:"problemId" validate:"required,uuid4"`
	Objective    string `json:"objective" validate:"required,oneof=f1 f2"`
	MaxIter      int    `json:"maxIter,omitempty" validate:"gte=0,lte=100000"`
	MaxNoImprove int    `json:"maxNoImprove,omitempty" validate:"gte=0,lte=100000"`
	Seed         int64  `json:"seed,omitempty"`
}

// Assignment is the flattened solution: one base per asset, one team per
// asset, and one base per team (-1 when the team is unused).
type Assignment struct {
	AssetBase []int `json:"assetBase"`
	AssetTeam []int `json:"assetTeam"`
	TeamBase  []int `json:"teamBase"`
}

// Run is a persisted single-objective optimization outcome.
type Run struct {
	ID         string      `json:"id"`
	Tenant     string      `json:"tenantId"`
	ProblemID  string      `json:"problemId"`
	Objective  string      `json:"objective"`
	Value      float64     `json:"value"`
	Feasible   bool        `json:"feasible"`
	Violation  float64     `json:"violation"`
	Iterations int         `json:"iterations"`
	History    []float64   `json:"history,omitempty"`
	Assignment *Assignment `json:"assignment,omitempty"`
	DurationMs int64       `json:"durationMs"`
	Seed       int64       `json:"seed"`
	CreatedAt  string      `json:"createdAt"`
}

// FrontRequest starts an asynchronous scalarization sweep.
type FrontRequest struct {
	ProblemID    string `json:"problemId" validate:"required,uuid4"`
	Mode         string `json:"mode" validate:"required,oneof=pw pe"`
	Points       int    `json:"points,omitempty" validate:"gte=0,lte=101"`
	MaxIter      int    `json:"maxIter,omitempty" validate:"gte=0,lte=100000"`
	MaxNoImprove int    `json:"maxNoImprove,omitempty" validate:"gte=0,lte=100000"`
	MaxFrontSize int    `json:"maxFrontSize,omitempty" validate:"gte=0,lte=101"`
	Seed         int64  `json:"seed,omitempty"`
}

// Front job lifecycle states.
const (
	FrontPending = "pending"
	FrontRunning = "running"
	FrontDone    = "done"
	FrontFailed  = "failed"
)

// FrontPoint is one sweep outcome in objective space with the
// scalarization parameter that produced it.
type FrontPoint struct {
	Index    int     `json:"index"`
	W1       float64 `json:"w1,omitempty"`
	W2       float64 `json:"w2,omitempty"`
	Epsilon2 float64 `json:"epsilon2,omitempty"`
	F1       float64 `json:"f1"`
	F2       float64 `json:"f2"`
	Feasible bool    `json:"feasible"`
}

// Front is a persisted sweep job: every feasible point found plus the
// curated non-dominated subset.
type Front struct {
	ID        string       `json:"id"`
	Tenant    string       `json:"tenantId"`
	ProblemID string       `json:"problemId"`
	Mode      string       `json:"mode"`
	Status    string       `json:"status"`
	Total     int          `json:"total"`
	Completed int          `json:"completed"`
	Points    []FrontPoint `json:"points,omitempty"`
	Selected  []FrontPoint `json:"selected,omitempty"`
	Error     string       `json:"error,omitempty"`
	CreatedAt string       `json:"createdAt"`
	UpdatedAt string       `json:"updatedAt"`
}

// FrontEvent is published on the event broker as a sweep progresses.
type FrontEvent struct {
	Type      string      `json:"type"` // front.started, front.point, front.completed, front.failed
	FrontID   string      `json:"frontId"`
	Status    string      `json:"status,omitempty"`
	Completed int         `json:"completed"`
	Total     int         `json:"total"`
	Point     *FrontPoint `json:"point,omitempty"`
	Error     string      `json:"error,omitempty"`
	TS        string      `json:"ts"`
}
