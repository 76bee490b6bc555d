package db

import (
	"encoding/json"
	"time"
)

// Evaluation statuses
const (
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// Evaluation is a stored evaluation run. Result is empty for failed runs.
type Evaluation struct {
	ID           string          `json:"id"`
	BusinessName string          `json:"businessName"`
	ClubName     string          `json:"clubName"`
	Status       string          `json:"status"`
	Score        *int            `json:"score,omitempty"`
	Result       json.RawMessage `json:"result,omitempty"`
	Logs         json.RawMessage `json:"logs"`
	Error        string          `json:"error,omitempty"`
	CreatedAt    time.Time       `json:"createdAt"`
}

// EvaluationSummary is the listing form of an Evaluation.
type EvaluationSummary struct {
	ID           string    `json:"id"`
	BusinessName string    `json:"businessName"`
	ClubName     string    `json:"clubName"`
	Status       string    `json:"status"`
	Score        *int      `json:"score,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}
