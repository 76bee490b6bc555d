package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/sponsor-finder/internal/agent"
	"github.com/jonathan/sponsor-finder/internal/db"
	"github.com/jonathan/sponsor-finder/internal/prompts"
	"github.com/jonathan/sponsor-finder/internal/types"
)

// ErrorBody is the response of a failed evaluation. Logs holds every step
// recorded before the failure.
type ErrorBody struct {
	Error  string              `json:"error"`
	Detail string              `json:"detail,omitempty"`
	Logs   []types.WorkflowLog `json:"logs"`
}

// decodeEvaluateRequest reads and validates an evaluation request body.
func decodeEvaluateRequest(r *http.Request) (*types.EvaluateRequest, error) {
	var req types.EvaluateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return nil, &ErrValidation{Field: "body", Message: err.Error()}
	}
	if err := req.Validate(); err != nil {
		return nil, &ErrValidation{Field: "body", Message: err.Error()}
	}
	return &req, nil
}

func toAgentRequest(req *types.EvaluateRequest) agent.Request {
	return agent.Request{
		BusinessName: req.BusinessName,
		ClubProfile:  *req.ClubProfile,
		Language:     types.ParseLanguage(req.Language),
	}
}

// failureBody builds the localized error body of a failed run.
func failureBody(lang types.Language, err error) ErrorBody {
	body := ErrorBody{
		Error:  prompts.Message(string(lang), "error.generic", nil),
		Detail: err.Error(),
		Logs:   []types.WorkflowLog{},
	}
	var runErr *agent.RunError
	if errors.As(err, &runErr) && runErr.Logs != nil {
		body.Logs = runErr.Logs
		body.Detail = runErr.Err.Error()
	}
	return body
}

// handleEvaluate runs one evaluation and returns the result or the failure logs
func (s *Server) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	req, err := decodeEvaluateRequest(r)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}
	areq := toAgentRequest(req)

	result, err := s.controller.Evaluate(r.Context(), areq)
	s.persist(r.Context(), req, result, err)
	if err != nil {
		s.jsonResponse(w, HTTPStatus(err), failureBody(areq.Language, err))
		return
	}

	s.jsonResponse(w, http.StatusOK, result)
}

// handleEvaluateStream runs one evaluation and streams every log change via
// SSE, followed by a result or error event.
func (s *Server) handleEvaluateStream(w http.ResponseWriter, r *http.Request) {
	req, err := decodeEvaluateRequest(r)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}
	areq := toAgentRequest(req)

	sse, err := NewSSEWriter(w)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	controller := s.controller.With(agent.WithObserver(func(entry types.WorkflowLog) {
		if err := sse.WriteEvent(EventLog, entry); err != nil {
			s.logger.Debug("failed to write log event", zap.Error(err))
		}
	}))

	result, err := controller.Evaluate(r.Context(), areq)
	s.persist(r.Context(), req, result, err)
	if err != nil {
		sse.WriteError(failureBody(areq.Language, err))
		return
	}
	sse.WriteResult(result)
}

// persist stores the run when a store is configured. Storage failures are
// logged and never change the response.
func (s *Server) persist(ctx context.Context, req *types.EvaluateRequest, result *types.EvaluationResult, runErr error) {
	if s.store == nil {
		return
	}

	var (
		record *db.Evaluation
		err    error
	)
	if runErr == nil {
		record, err = db.NewCompletedEvaluation(req.BusinessName, req.ClubProfile.ClubName, result)
	} else {
		var logs []types.WorkflowLog
		var failure *agent.RunError
		if errors.As(runErr, &failure) {
			logs = failure.Logs
			runErr = failure.Err
		}
		record, err = db.NewFailedEvaluation(uuid.NewString(), req.BusinessName, req.ClubProfile.ClubName, logs, runErr)
	}
	if err == nil {
		err = s.store.SaveEvaluation(context.WithoutCancel(ctx), record)
	}
	if err != nil {
		s.logger.Error("failed to persist evaluation", zap.String("business", req.BusinessName), zap.Error(err))
	}
}
