package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/example/recruitd/internal/application"
	"github.com/example/recruitd/internal/persistence"
)

type evaluationService interface {
	CreateEvaluation(ctx context.Context, input application.EvaluationInput) (persistence.Evaluation, error)
	ListEvaluations(ctx context.Context, interviewID string) ([]persistence.Evaluation, error)
}

type EvaluationHandler struct {
	service   evaluationService
	responder responder
}

func NewEvaluationHandler(service evaluationService, logger *slog.Logger) *EvaluationHandler {
	return &EvaluationHandler{service: service, responder: newResponder(logger)}
}

func (h *EvaluationHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req evaluationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	evaluation, err := h.service.CreateEvaluation(r.Context(), application.EvaluationInput{
		InterviewID:        strings.TrimSpace(req.InterviewID),
		Evaluator:          strings.TrimSpace(req.Evaluator),
		TechnicalScore:     req.TechnicalScore,
		CommunicationScore: req.CommunicationScore,
		CultureScore:       req.CultureScore,
		OverallScore:       req.OverallScore,
		Recommendation:     strings.TrimSpace(req.Recommendation),
		Notes:              req.Notes,
	})
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusCreated, toEvaluationDTO(evaluation))
}

func (h *EvaluationHandler) List(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	interviewID := strings.TrimSpace(r.URL.Query().Get("interview_id"))

	evaluations, err := h.service.ListEvaluations(r.Context(), interviewID)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, listEvaluationsResponse{Evaluations: toEvaluationDTOs(evaluations)})
}

type evaluationRequest struct {
	InterviewID        string `json:"interview_id"`
	Evaluator          string `json:"evaluator"`
	TechnicalScore     int    `json:"technical_score"`
	CommunicationScore int    `json:"communication_score"`
	CultureScore       int    `json:"culture_score"`
	OverallScore       int    `json:"overall_score"`
	Recommendation     string `json:"recommendation"`
	Notes              string `json:"notes"`
}

type listEvaluationsResponse struct {
	Evaluations []evaluationDTO `json:"evaluations"`
}

type evaluationDTO struct {
	ID                 string `json:"id"`
	Number             string `json:"number"`
	InterviewID        string `json:"interview_id"`
	CandidateID        string `json:"candidate_id"`
	Evaluator          string `json:"evaluator"`
	TechnicalScore     int    `json:"technical_score"`
	CommunicationScore int    `json:"communication_score"`
	CultureScore       int    `json:"culture_score"`
	OverallScore       int    `json:"overall_score"`
	Recommendation     string `json:"recommendation"`
	Notes              string `json:"notes,omitempty"`
	CreatedAt          string `json:"created_at"`
}

func toEvaluationDTO(evaluation persistence.Evaluation) evaluationDTO {
	return evaluationDTO{
		ID:                 evaluation.ID,
		Number:             evaluation.Number,
		InterviewID:        evaluation.InterviewID,
		CandidateID:        evaluation.CandidateID,
		Evaluator:          evaluation.Evaluator,
		TechnicalScore:     evaluation.TechnicalScore,
		CommunicationScore: evaluation.CommunicationScore,
		CultureScore:       evaluation.CultureScore,
		OverallScore:       evaluation.OverallScore,
		Recommendation:     evaluation.Recommendation,
		Notes:              evaluation.Notes,
		CreatedAt:          evaluation.CreatedAt.UTC().Format(time.RFC3339Nano),
	}
}

func toEvaluationDTOs(evaluations []persistence.Evaluation) []evaluationDTO {
	if len(evaluations) == 0 {
		return nil
	}
	out := make([]evaluationDTO, 0, len(evaluations))
	for _, evaluation := range evaluations {
		out = append(out, toEvaluationDTO(evaluation))
	}
	return out
}
