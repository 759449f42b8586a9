package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/example/recruitd/internal/application"
	"github.com/example/recruitd/internal/persistence"
)

type interviewService interface {
	CreateSetup(ctx context.Context, requestID string, input application.SetupInput) (persistence.InterviewSetup, error)
	UpdateSetup(ctx context.Context, requestID string, input application.SetupInput) (persistence.InterviewSetup, error)
	GetSetupByRequest(ctx context.Context, requestID string) (persistence.InterviewSetup, error)
	CreateSlotsBulk(ctx context.Context, setupID string, input application.SlotBatchInput) ([]persistence.InterviewSlot, error)
	AvailableSlots(ctx context.Context, requestID string, round int) ([]persistence.InterviewSlot, error)
	BookSlot(ctx context.Context, slotID, candidateID string) (persistence.InterviewSlot, error)
	ConfirmSlot(ctx context.Context, slotID, candidateID string) (persistence.InterviewSlot, error)
	ConfirmedInterviews(ctx context.Context, requestID string) ([]application.ConfirmedInterview, error)
}

type InterviewHandler struct {
	service   interviewService
	responder responder
}

func NewInterviewHandler(service interviewService, logger *slog.Logger) *InterviewHandler {
	return &InterviewHandler{service: service, responder: newResponder(logger)}
}

func (h *InterviewHandler) CreateSetup(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	requestID, ok := RequestIDFromContext(r.Context())
	if !ok || strings.TrimSpace(requestID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidRequestID)
		return
	}

	var req setupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	setup, err := h.service.CreateSetup(r.Context(), requestID, req.toInput())
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusCreated, toSetupDTO(setup))
}

func (h *InterviewHandler) UpdateSetup(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	requestID, ok := RequestIDFromContext(r.Context())
	if !ok || strings.TrimSpace(requestID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidRequestID)
		return
	}

	var req setupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	setup, err := h.service.UpdateSetup(r.Context(), requestID, req.toInput())
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, toSetupDTO(setup))
}

func (h *InterviewHandler) GetSetup(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	requestID, ok := RequestIDFromContext(r.Context())
	if !ok || strings.TrimSpace(requestID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidRequestID)
		return
	}

	setup, err := h.service.GetSetupByRequest(r.Context(), requestID)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, toSetupDTO(setup))
}

func (h *InterviewHandler) CreateSlots(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	setupID, ok := SetupIDFromContext(r.Context())
	if !ok || strings.TrimSpace(setupID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidSetupID)
		return
	}

	var req slotBatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	slots, err := h.service.CreateSlotsBulk(r.Context(), setupID, req.toInput())
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	handlerLogger(r.Context(), h.responder.logger, "interview", "create_slots", "setup_id", setupID).
		InfoContext(r.Context(), "slots generated", "count", len(slots))

	h.responder.writeJSON(r.Context(), w, http.StatusCreated, listSlotsResponse{Slots: toSlotDTOs(slots)})
}

func (h *InterviewHandler) AvailableSlots(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	requestID, ok := RequestIDFromContext(r.Context())
	if !ok || strings.TrimSpace(requestID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidRequestID)
		return
	}

	round := 0
	if raw := strings.TrimSpace(r.URL.Query().Get("round")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
			return
		}
		round = parsed
	}

	slots, err := h.service.AvailableSlots(r.Context(), requestID, round)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, listSlotsResponse{Slots: toSlotDTOs(slots)})
}

func (h *InterviewHandler) Book(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	slotID, ok := SlotIDFromContext(r.Context())
	if !ok || strings.TrimSpace(slotID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidSlotID)
		return
	}

	var req slotActionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	slot, err := h.service.BookSlot(r.Context(), slotID, strings.TrimSpace(req.CandidateID))
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, toSlotDTO(slot))
}

func (h *InterviewHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	slotID, ok := SlotIDFromContext(r.Context())
	if !ok || strings.TrimSpace(slotID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidSlotID)
		return
	}

	var req slotActionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	slot, err := h.service.ConfirmSlot(r.Context(), slotID, strings.TrimSpace(req.CandidateID))
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, toSlotDTO(slot))
}

func (h *InterviewHandler) ConfirmedInterviews(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	requestID, ok := RequestIDFromContext(r.Context())
	if !ok || strings.TrimSpace(requestID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidRequestID)
		return
	}

	confirmed, err := h.service.ConfirmedInterviews(r.Context(), requestID)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, confirmedInterviewsResponse{
		Interviews: toConfirmedInterviewDTOs(confirmed),
	})
}

type setupRequest struct {
	Rounds             int      `json:"rounds"`
	Format             string   `json:"format"`
	AssessmentRequired bool     `json:"assessment_required"`
	ExtraInterviewers  []string `json:"extra_interviewers"`
}

func (r setupRequest) toInput() application.SetupInput {
	return application.SetupInput{
		Rounds:             r.Rounds,
		Format:             strings.TrimSpace(r.Format),
		AssessmentRequired: r.AssessmentRequired,
		ExtraInterviewers:  append([]string(nil), r.ExtraInterviewers...),
	}
}

type slotBatchRequest struct {
	Dates       []string            `json:"dates"`
	Windows     []timeWindowRequest `json:"windows"`
	RoundNumber int                 `json:"round_number"`
	Repeat      *repeatRequest      `json:"repeat,omitempty"`
}

type timeWindowRequest struct {
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

type repeatRequest struct {
	Weekdays  []string `json:"weekdays"`
	DateFrom  string   `json:"date_from"`
	DateUntil string   `json:"date_until"`
}

func (r slotBatchRequest) toInput() application.SlotBatchInput {
	windows := make([]application.TimeWindow, 0, len(r.Windows))
	for _, window := range r.Windows {
		windows = append(windows, application.TimeWindow{
			StartTime: strings.TrimSpace(window.StartTime),
			EndTime:   strings.TrimSpace(window.EndTime),
		})
	}
	input := application.SlotBatchInput{
		Dates:       append([]string(nil), r.Dates...),
		Windows:     windows,
		RoundNumber: r.RoundNumber,
	}
	if r.Repeat != nil {
		input.Repeat = &application.RepeatInput{
			Weekdays:  append([]string(nil), r.Repeat.Weekdays...),
			DateFrom:  strings.TrimSpace(r.Repeat.DateFrom),
			DateUntil: strings.TrimSpace(r.Repeat.DateUntil),
		}
	}
	return input
}

type slotActionRequest struct {
	CandidateID string `json:"candidate_id"`
}

type listSlotsResponse struct {
	Slots []slotDTO `json:"slots"`
}

type confirmedInterviewsResponse struct {
	Interviews []confirmedInterviewDTO `json:"interviews"`
}

type setupDTO struct {
	ID                 string   `json:"id"`
	RequestID          string   `json:"request_id"`
	Rounds             int      `json:"rounds"`
	Format             string   `json:"format"`
	AssessmentRequired bool     `json:"assessment_required"`
	ExtraInterviewers  []string `json:"extra_interviewers,omitempty"`
	CreatedAt          string   `json:"created_at"`
	UpdatedAt          string   `json:"updated_at"`
}

func toSetupDTO(setup persistence.InterviewSetup) setupDTO {
	return setupDTO{
		ID:                 setup.ID,
		RequestID:          setup.RequestID,
		Rounds:             setup.Rounds,
		Format:             setup.Format,
		AssessmentRequired: setup.AssessmentRequired,
		ExtraInterviewers:  append([]string(nil), setup.ExtraInterviewers...),
		CreatedAt:          setup.CreatedAt.UTC().Format(time.RFC3339Nano),
		UpdatedAt:          setup.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}
}

type slotDTO struct {
	ID                  string  `json:"id"`
	SetupID             string  `json:"setup_id"`
	Date                string  `json:"date"`
	StartTime           string  `json:"start_time"`
	EndTime             string  `json:"end_time"`
	RoundNumber         int     `json:"round_number"`
	Status              string  `json:"status"`
	BookedByCandidateID *string `json:"booked_by_candidate_id,omitempty"`
	Confirmed           bool    `json:"confirmed"`
	ConfirmedAt         string  `json:"confirmed_at,omitempty"`
}

func toSlotDTO(slot persistence.InterviewSlot) slotDTO {
	dto := slotDTO{
		ID:                  slot.ID,
		SetupID:             slot.SetupID,
		Date:                slot.SlotDate,
		StartTime:           slot.StartTime,
		EndTime:             slot.EndTime,
		RoundNumber:         slot.RoundNumber,
		Status:              slot.Status,
		BookedByCandidateID: slot.BookedByCandidateID,
		Confirmed:           slot.CandidateConfirmed,
	}
	if slot.CandidateConfirmedAt != nil {
		dto.ConfirmedAt = slot.CandidateConfirmedAt.UTC().Format(time.RFC3339Nano)
	}
	return dto
}

func toSlotDTOs(slots []persistence.InterviewSlot) []slotDTO {
	if len(slots) == 0 {
		return nil
	}
	out := make([]slotDTO, 0, len(slots))
	for _, slot := range slots {
		out = append(out, toSlotDTO(slot))
	}
	return out
}

type confirmedInterviewDTO struct {
	Slot            slotViewDTO `json:"slot"`
	CandidateID     string      `json:"candidate_id"`
	CandidateNumber string      `json:"candidate_number,omitempty"`
	CandidateName   string      `json:"candidate_name,omitempty"`
}

type slotViewDTO struct {
	ID          string `json:"id"`
	Date        string `json:"date"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
	RoundNumber int    `json:"round_number"`
	Status      string `json:"status"`
	Confirmed   bool   `json:"confirmed"`
}

func toSlotViewDTO(view application.SlotView) slotViewDTO {
	return slotViewDTO{
		ID:          view.ID,
		Date:        view.Date,
		StartTime:   view.StartTime,
		EndTime:     view.EndTime,
		RoundNumber: view.RoundNumber,
		Status:      view.Status,
		Confirmed:   view.Confirmed,
	}
}

func toConfirmedInterviewDTOs(confirmed []application.ConfirmedInterview) []confirmedInterviewDTO {
	if len(confirmed) == 0 {
		return nil
	}
	out := make([]confirmedInterviewDTO, 0, len(confirmed))
	for _, entry := range confirmed {
		out = append(out, confirmedInterviewDTO{
			Slot:            toSlotViewDTO(entry.Slot),
			CandidateID:     entry.CandidateID,
			CandidateNumber: entry.CandidateNumber,
			CandidateName:   entry.CandidateName,
		})
	}
	return out
}
