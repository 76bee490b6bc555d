package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jonathan/sponsor-finder/internal/types"
)

// List limits
const (
	DefaultListLimit = 20
	MaxListLimit     = 100
)

// NewCompletedEvaluation builds the record of a successful run.
func NewCompletedEvaluation(businessName, clubName string, result *types.EvaluationResult) (*Evaluation, error) {
	resultJSON, err := json.Marshal(result)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}
	logsJSON, err := json.Marshal(result.Logs)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal logs: %w", err)
	}
	score := result.Fit.Score
	return &Evaluation{
		ID:           result.RunID,
		BusinessName: businessName,
		ClubName:     clubName,
		Status:       StatusCompleted,
		Score:        &score,
		Result:       resultJSON,
		Logs:         logsJSON,
	}, nil
}

// NewFailedEvaluation builds the record of a failed run; only the logs are kept.
func NewFailedEvaluation(id, businessName, clubName string, logs []types.WorkflowLog, runErr error) (*Evaluation, error) {
	if logs == nil {
		logs = []types.WorkflowLog{}
	}
	logsJSON, err := json.Marshal(logs)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal logs: %w", err)
	}
	evaluation := &Evaluation{
		ID:           id,
		BusinessName: businessName,
		ClubName:     clubName,
		Status:       StatusFailed,
		Logs:         logsJSON,
	}
	if runErr != nil {
		evaluation.Error = runErr.Error()
	}
	return evaluation, nil
}

// SaveEvaluation stores an evaluation run
func (db *DB) SaveEvaluation(ctx context.Context, e *Evaluation) error {
	var result []byte
	if len(e.Result) > 0 {
		result = e.Result
	}
	var errMsg *string
	if e.Error != "" {
		errMsg = &e.Error
	}

	_, err := db.pool.Exec(ctx,
		`INSERT INTO sponsor_evaluations (id, business_name, club_name, status, score, result, logs, error)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		e.ID, e.BusinessName, e.ClubName, e.Status, e.Score, result, []byte(e.Logs), errMsg,
	)
	if err != nil {
		return fmt.Errorf("failed to save evaluation %s: %w", e.ID, err)
	}
	return nil
}

// GetEvaluation retrieves an evaluation by ID. It returns nil, nil when
// no evaluation has that ID.
func (db *DB) GetEvaluation(ctx context.Context, id string) (*Evaluation, error) {
	var e Evaluation
	var result, logs []byte
	var errMsg *string
	err := db.pool.QueryRow(ctx,
		`SELECT id, business_name, club_name, status, score, result, logs, error, created_at
		 FROM sponsor_evaluations WHERE id = $1`,
		id,
	).Scan(&e.ID, &e.BusinessName, &e.ClubName, &e.Status, &e.Score, &result, &logs, &errMsg, &e.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get evaluation: %w", err)
	}
	e.Result = result
	e.Logs = logs
	if errMsg != nil {
		e.Error = *errMsg
	}
	return &e, nil
}

// ListEvaluations retrieves the most recent evaluations, newest first.
func (db *DB) ListEvaluations(ctx context.Context, limit int) ([]EvaluationSummary, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	limit = min(limit, MaxListLimit)

	rows, err := db.pool.Query(ctx,
		`SELECT id, business_name, club_name, status, score, created_at
		 FROM sponsor_evaluations ORDER BY created_at DESC LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list evaluations: %w", err)
	}
	defer rows.Close()

	evaluations := []EvaluationSummary{}
	for rows.Next() {
		var s EvaluationSummary
		if err := rows.Scan(&s.ID, &s.BusinessName, &s.ClubName, &s.Status, &s.Score, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan evaluation: %w", err)
		}
		evaluations = append(evaluations, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list evaluations: %w", err)
	}
	return evaluations, nil
}
