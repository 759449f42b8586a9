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

type requestService interface {
	CreateRequest(ctx context.Context, input application.RequestInput) (persistence.RecruitmentRequest, error)
	GetRequest(ctx context.Context, id string) (persistence.RecruitmentRequest, error)
	ListRequests(ctx context.Context, status, department string) ([]persistence.RecruitmentRequest, error)
	UpdateRequest(ctx context.Context, requestID string, input application.RequestInput) (persistence.RecruitmentRequest, error)
	ApproveRequest(ctx context.Context, params application.ApproveRequestParams) (persistence.RecruitmentRequest, error)
}

type RequestHandler struct {
	service   requestService
	responder responder
}

func NewRequestHandler(service requestService, logger *slog.Logger) *RequestHandler {
	return &RequestHandler{service: service, responder: newResponder(logger)}
}

func (h *RequestHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req requestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	request, err := h.service.CreateRequest(r.Context(), req.toInput())
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusCreated, toRequestDTO(request))
}

func (h *RequestHandler) List(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	status := strings.TrimSpace(r.URL.Query().Get("status"))
	department := strings.TrimSpace(r.URL.Query().Get("department"))

	requests, err := h.service.ListRequests(r.Context(), status, department)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, listRequestsResponse{Requests: toRequestDTOs(requests)})
}

func (h *RequestHandler) Get(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	requestID, ok := RequestIDFromContext(r.Context())
	if !ok || strings.TrimSpace(requestID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidRequestID)
		return
	}

	request, err := h.service.GetRequest(r.Context(), requestID)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, toRequestDTO(request))
}

func (h *RequestHandler) Update(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	requestID, ok := RequestIDFromContext(r.Context())
	if !ok || strings.TrimSpace(requestID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidRequestID)
		return
	}

	var req requestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	request, err := h.service.UpdateRequest(r.Context(), requestID, req.toInput())
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, toRequestDTO(request))
}

func (h *RequestHandler) Approve(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	requestID, ok := RequestIDFromContext(r.Context())
	if !ok || strings.TrimSpace(requestID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidRequestID)
		return
	}

	var req approvalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	request, err := h.service.ApproveRequest(r.Context(), application.ApproveRequestParams{
		RequestID:    requestID,
		ApprovalType: strings.TrimSpace(req.ApprovalType),
		Approver:     strings.TrimSpace(req.Approver),
	})
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	handlerLogger(r.Context(), h.responder.logger, "request", "approve", "request_id", requestID).
		InfoContext(r.Context(), "approval recorded", "approval_type", req.ApprovalType)

	h.responder.writeJSON(r.Context(), w, http.StatusOK, toRequestDTO(request))
}

type requestRequest struct {
	PositionTitle  string `json:"position_title"`
	Department     string `json:"department"`
	EmploymentType string `json:"employment_type"`
	Headcount      int    `json:"headcount"`
	SalaryBand     string `json:"salary_band"`
}

func (r requestRequest) toInput() application.RequestInput {
	return application.RequestInput{
		PositionTitle:  strings.TrimSpace(r.PositionTitle),
		Department:     strings.TrimSpace(r.Department),
		EmploymentType: strings.TrimSpace(r.EmploymentType),
		Headcount:      r.Headcount,
		SalaryBand:     strings.TrimSpace(r.SalaryBand),
	}
}

type approvalRequest struct {
	ApprovalType string `json:"approval_type"`
	Approver     string `json:"approver"`
}

type listRequestsResponse struct {
	Requests []requestDTO `json:"requests"`
}

type requestDTO struct {
	ID             string        `json:"id"`
	Number         string        `json:"number"`
	PositionTitle  string        `json:"position_title"`
	Department     string        `json:"department"`
	EmploymentType string        `json:"employment_type,omitempty"`
	Headcount      int           `json:"headcount"`
	SalaryBand     string        `json:"salary_band,omitempty"`
	Status         string        `json:"status"`
	Approvals      []approvalDTO `json:"approvals"`
	CreatedAt      string        `json:"created_at"`
	UpdatedAt      string        `json:"updated_at"`
}

type approvalDTO struct {
	Type      string `json:"type"`
	Status    string `json:"status"`
	Approver  string `json:"approver,omitempty"`
	DecidedAt string `json:"decided_at,omitempty"`
}

func toRequestDTO(request persistence.RecruitmentRequest) requestDTO {
	approvals := make([]approvalDTO, 0, len(request.Approvals))
	for _, approval := range request.Approvals {
		dto := approvalDTO{
			Type:     approval.Type,
			Status:   approval.Status,
			Approver: approval.Approver,
		}
		if approval.DecidedAt != nil {
			dto.DecidedAt = approval.DecidedAt.UTC().Format(time.RFC3339Nano)
		}
		approvals = append(approvals, dto)
	}

	return requestDTO{
		ID:             request.ID,
		Number:         request.Number,
		PositionTitle:  request.PositionTitle,
		Department:     request.Department,
		EmploymentType: request.EmploymentType,
		Headcount:      request.Headcount,
		SalaryBand:     request.SalaryBand,
		Status:         request.Status,
		Approvals:      approvals,
		CreatedAt:      request.CreatedAt.UTC().Format(time.RFC3339Nano),
		UpdatedAt:      request.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}
}

func toRequestDTOs(requests []persistence.RecruitmentRequest) []requestDTO {
	if len(requests) == 0 {
		return nil
	}
	out := make([]requestDTO, 0, len(requests))
	for _, request := range requests {
		out = append(out, toRequestDTO(request))
	}
	return out
}
