// Package feedback models per-run ratings left by thread owners.
package feedback

import "time"

// Rating is the caller's verdict on a run.
type Rating string

const (
	RatingUp   Rating = "up"
	RatingDown Rating = "down"
)

// Valid reports whether the rating is one of the known values.
func (r Rating) Valid() bool {
	return r == RatingUp || r == RatingDown
}

// Feedback is one user's rating of one agent run. A user holds at most one
// rating per run; resubmitting replaces the previous value.
type Feedback struct {
	ID        string    `json:"id"`
	ThreadID  string    `json:"thread_id"`
	RunID     string    `json:"run_id"`
	UserID    string    `json:"user_id"`
	Rating    Rating    `json:"rating"`
	CreatedAt time.Time `json:"created_at"`
}
