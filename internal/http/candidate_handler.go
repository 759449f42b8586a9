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

type pipelineService interface {
	AddCandidate(ctx context.Context, input application.CandidateInput) (persistence.Candidate, error)
	GetCandidate(ctx context.Context, id string) (persistence.Candidate, error)
	ListCandidates(ctx context.Context, requestID, stage string) ([]persistence.Candidate, error)
	UpdateCandidate(ctx context.Context, candidateID string, input application.CandidateUpdateInput) (persistence.Candidate, error)
	MoveStage(ctx context.Context, candidateID, stage string) (persistence.Candidate, error)
	RejectCandidate(ctx context.Context, candidateID, reason string) (persistence.Candidate, error)
	PipelineCounts(ctx context.Context, requestID string) (map[string]int, error)
}

type CandidateHandler struct {
	service   pipelineService
	responder responder
}

func NewCandidateHandler(service pipelineService, logger *slog.Logger) *CandidateHandler {
	return &CandidateHandler{service: service, responder: newResponder(logger)}
}

func (h *CandidateHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req candidateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	candidate, err := h.service.AddCandidate(r.Context(), application.CandidateInput{
		RequestID: strings.TrimSpace(req.RequestID),
		FullName:  strings.TrimSpace(req.FullName),
		Email:     strings.TrimSpace(req.Email),
		Phone:     strings.TrimSpace(req.Phone),
	})
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusCreated, toCandidateDTO(candidate))
}

func (h *CandidateHandler) List(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	requestID := strings.TrimSpace(r.URL.Query().Get("request_id"))
	stage := strings.TrimSpace(r.URL.Query().Get("stage"))

	candidates, err := h.service.ListCandidates(r.Context(), requestID, stage)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, listCandidatesResponse{Candidates: toCandidateDTOs(candidates)})
}

func (h *CandidateHandler) Get(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	candidateID, ok := CandidateIDFromContext(r.Context())
	if !ok || strings.TrimSpace(candidateID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidCandidateID)
		return
	}

	candidate, err := h.service.GetCandidate(r.Context(), candidateID)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, toCandidateDTO(candidate))
}

func (h *CandidateHandler) Update(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	candidateID, ok := CandidateIDFromContext(r.Context())
	if !ok || strings.TrimSpace(candidateID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidCandidateID)
		return
	}

	var req candidateUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	candidate, err := h.service.UpdateCandidate(r.Context(), candidateID, application.CandidateUpdateInput{
		FullName:      strings.TrimSpace(req.FullName),
		Email:         strings.TrimSpace(req.Email),
		Phone:         strings.TrimSpace(req.Phone),
		CVMatch:       req.CVMatch,
		SkillsMatch:   req.SkillsMatch,
		HRRating:      req.HRRating,
		ManagerRating: req.ManagerRating,
	})
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, toCandidateDTO(candidate))
}

func (h *CandidateHandler) MoveStage(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	candidateID, ok := CandidateIDFromContext(r.Context())
	if !ok || strings.TrimSpace(candidateID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidCandidateID)
		return
	}

	var req stageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	candidate, err := h.service.MoveStage(r.Context(), candidateID, req.Stage)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	handlerLogger(r.Context(), h.responder.logger, "candidate", "move_stage", "candidate_id", candidateID).
		InfoContext(r.Context(), "stage changed", "stage", candidate.Stage)

	h.responder.writeJSON(r.Context(), w, http.StatusOK, toCandidateDTO(candidate))
}

func (h *CandidateHandler) Reject(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	candidateID, ok := CandidateIDFromContext(r.Context())
	if !ok || strings.TrimSpace(candidateID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidCandidateID)
		return
	}

	var req rejectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	candidate, err := h.service.RejectCandidate(r.Context(), candidateID, strings.TrimSpace(req.Reason))
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, toCandidateDTO(candidate))
}

func (h *CandidateHandler) PipelineCounts(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	requestID := strings.TrimSpace(r.URL.Query().Get("request_id"))

	counts, err := h.service.PipelineCounts(r.Context(), requestID)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, pipelineCountsResponse{Counts: counts})
}

type candidateRequest struct {
	RequestID string `json:"request_id"`
	FullName  string `json:"full_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
}

type candidateUpdateRequest struct {
	FullName      string `json:"full_name"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
	CVMatch       *int   `json:"cv_match"`
	SkillsMatch   *int   `json:"skills_match"`
	HRRating      *int   `json:"hr_rating"`
	ManagerRating *int   `json:"manager_rating"`
}

type stageRequest struct {
	Stage string `json:"stage"`
}

type rejectionRequest struct {
	Reason string `json:"reason"`
}

type listCandidatesResponse struct {
	Candidates []candidateDTO `json:"candidates"`
}

type pipelineCountsResponse struct {
	Counts map[string]int `json:"counts"`
}

type candidateDTO struct {
	ID              string  `json:"id"`
	Number          string  `json:"number"`
	RequestID       string  `json:"request_id"`
	FullName        string  `json:"full_name"`
	Email           string  `json:"email,omitempty"`
	Phone           string  `json:"phone,omitempty"`
	Stage           string  `json:"stage"`
	Status          string  `json:"status"`
	StageChangedAt  string  `json:"stage_changed_at"`
	RejectionReason *string `json:"rejection_reason,omitempty"`
	CVMatch         *int    `json:"cv_match,omitempty"`
	SkillsMatch     *int    `json:"skills_match,omitempty"`
	HRRating        *int    `json:"hr_rating,omitempty"`
	ManagerRating   *int    `json:"manager_rating,omitempty"`
	PassNumber      *string `json:"pass_number,omitempty"`
	CreatedAt       string  `json:"created_at"`
	UpdatedAt       string  `json:"updated_at"`
}

func toCandidateDTO(candidate persistence.Candidate) candidateDTO {
	return candidateDTO{
		ID:              candidate.ID,
		Number:          candidate.Number,
		RequestID:       candidate.RequestID,
		FullName:        candidate.FullName,
		Email:           candidate.Email,
		Phone:           candidate.Phone,
		Stage:           candidate.Stage,
		Status:          candidate.Status,
		StageChangedAt:  candidate.StageChangedAt.UTC().Format(time.RFC3339Nano),
		RejectionReason: candidate.RejectionReason,
		CVMatch:         candidate.CVMatch,
		SkillsMatch:     candidate.SkillsMatch,
		HRRating:        candidate.HRRating,
		ManagerRating:   candidate.ManagerRating,
		PassNumber:      candidate.PassNumber,
		CreatedAt:       candidate.CreatedAt.UTC().Format(time.RFC3339Nano),
		UpdatedAt:       candidate.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}
}

func toCandidateDTOs(candidates []persistence.Candidate) []candidateDTO {
	if len(candidates) == 0 {
		return nil
	}
	out := make([]candidateDTO, 0, len(candidates))
	for _, candidate := range candidates {
		out = append(out, toCandidateDTO(candidate))
	}
	return out
}
