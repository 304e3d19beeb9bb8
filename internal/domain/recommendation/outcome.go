package recommendation

import (
	"context"
	"time"
)

// Outcome summarizes one boundary request for the request log. It never
// carries the recommendation text itself.
type Outcome struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId,omitempty"`
	Status    int       `json:"status"`
	Kind      ErrorKind `json:"kind,omitempty"`
	Model     string    `json:"model,omitempty"`
	Cached    bool      `json:"cached"`
	LatencyMs int64     `json:"latencyMs"`
	CreatedAt time.Time `json:"createdAt"`
}

// OutcomeLog persists request outcomes.
type OutcomeLog interface {
	Record(ctx context.Context, outcome Outcome) error
	Recent(ctx context.Context, limit int) ([]Outcome, error)
}
