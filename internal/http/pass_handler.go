package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/example/recruitd/internal/application"
)

type passViewService interface {
	CandidatePassView(ctx context.Context, candidateID string) (application.CandidatePassView, error)
	ManagerPassView(ctx context.Context, requestID string) (application.ManagerPassView, error)
}

type passAccessService interface {
	IssuePass(ctx context.Context, params application.IssuePassParams) (application.IssuedPass, error)
	RevokePass(ctx context.Context, credentialID string) error
}

// PassHandler serves the token-scoped self-service views and the internal
// credential issuing endpoint. View handlers trust the identity injected by
// RequirePass and never accept a subject from the client.
type PassHandler struct {
	views     passViewService
	access    passAccessService
	responder responder
}

func NewPassHandler(views passViewService, access passAccessService, logger *slog.Logger) *PassHandler {
	return &PassHandler{views: views, access: access, responder: newResponder(logger)}
}

func (h *PassHandler) CandidateView(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.views == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	identity, ok := PassIdentityFromContext(r.Context())
	if !ok || identity.Kind != application.PassKindCandidate {
		h.responder.handleServiceError(r.Context(), w, application.ErrUnauthorized)
		return
	}

	view, err := h.views.CandidatePassView(r.Context(), identity.SubjectID)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, toCandidatePassViewDTO(view))
}

func (h *PassHandler) ManagerView(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.views == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	identity, ok := PassIdentityFromContext(r.Context())
	if !ok || identity.Kind != application.PassKindManager {
		h.responder.handleServiceError(r.Context(), w, application.ErrUnauthorized)
		return
	}

	view, err := h.views.ManagerPassView(r.Context(), identity.SubjectID)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, toManagerPassViewDTO(view))
}

func (h *PassHandler) Issue(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.access == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req issuePassRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	issued, err := h.access.IssuePass(r.Context(), application.IssuePassParams{
		Kind:      strings.TrimSpace(req.Kind),
		SubjectID: strings.TrimSpace(req.SubjectID),
	})
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	handlerLogger(r.Context(), h.responder.logger, "pass", "issue", "kind", req.Kind).
		InfoContext(r.Context(), "pass credential issued", "credential_id", issued.CredentialID)

	h.responder.writeJSON(r.Context(), w, http.StatusCreated, issuedPassDTO{
		CredentialID: issued.CredentialID,
		Token:        issued.Token,
		ExpiresAt:    issued.ExpiresAt.UTC().Format(time.RFC3339Nano),
	})
}

type issuePassRequest struct {
	Kind      string `json:"kind"`
	SubjectID string `json:"subject_id"`
}

type issuedPassDTO struct {
	CredentialID string `json:"credential_id"`
	Token        string `json:"token"`
	ExpiresAt    string `json:"expires_at"`
}

type stepViewDTO struct {
	Name   string `json:"name"`
	Status string `json:"status"`
}

type activityViewDTO struct {
	Stage       string `json:"stage,omitempty"`
	ActionType  string `json:"action_type"`
	Description string `json:"description"`
	CreatedAt   string `json:"created_at"`
}

type candidatePassViewDTO struct {
	CandidateNumber string            `json:"candidate_number"`
	FullName        string            `json:"full_name"`
	PositionTitle   string            `json:"position_title"`
	Department      string            `json:"department"`
	Steps           []stepViewDTO     `json:"steps"`
	DisplayStatus   string            `json:"display_status"`
	AvailableSlots  []slotViewDTO     `json:"available_slots,omitempty"`
	BookedSlot      *slotViewDTO      `json:"booked_slot,omitempty"`
	NextActions     []string          `json:"next_actions"`
	UnreadMessages  int               `json:"unread_messages"`
	Activity        []activityViewDTO `json:"activity,omitempty"`
}

func toCandidatePassViewDTO(view application.CandidatePassView) candidatePassViewDTO {
	dto := candidatePassViewDTO{
		CandidateNumber: view.CandidateNumber,
		FullName:        view.FullName,
		PositionTitle:   view.PositionTitle,
		Department:      view.Department,
		DisplayStatus:   view.DisplayStatus,
		NextActions:     append([]string(nil), view.NextActions...),
		UnreadMessages:  view.UnreadMessages,
	}
	for _, step := range view.Steps {
		dto.Steps = append(dto.Steps, stepViewDTO{Name: step.Name, Status: step.Status})
	}
	for _, slot := range view.AvailableSlots {
		dto.AvailableSlots = append(dto.AvailableSlots, toSlotViewDTO(slot))
	}
	if view.BookedSlot != nil {
		booked := toSlotViewDTO(*view.BookedSlot)
		dto.BookedSlot = &booked
	}
	for _, entry := range view.Activity {
		dto.Activity = append(dto.Activity, activityViewDTO{
			Stage:       entry.Stage,
			ActionType:  entry.ActionType,
			Description: entry.Description,
			CreatedAt:   entry.CreatedAt.UTC().Format(time.RFC3339Nano),
		})
	}
	return dto
}

type documentStatusesDTO struct {
	JobDescription  string `json:"job_description"`
	RecruitmentForm string `json:"recruitment_form"`
}

type setupViewDTO struct {
	Rounds             int      `json:"rounds"`
	Format             string   `json:"format"`
	AssessmentRequired bool     `json:"assessment_required"`
	ExtraInterviewers  []string `json:"extra_interviewers,omitempty"`
}

type managerPassViewDTO struct {
	RequestNumber       string                  `json:"request_number"`
	PositionTitle       string                  `json:"position_title"`
	Department          string                  `json:"department"`
	Status              string                  `json:"status"`
	SLADays             int                     `json:"sla_days"`
	Documents           documentStatusesDTO     `json:"documents"`
	PipelineCounts      map[string]int          `json:"pipeline_counts"`
	Setup               *setupViewDTO           `json:"setup,omitempty"`
	ConfirmedInterviews []confirmedInterviewDTO `json:"confirmed_interviews,omitempty"`
	UnreadMessages      int                     `json:"unread_messages"`
}

func toManagerPassViewDTO(view application.ManagerPassView) managerPassViewDTO {
	dto := managerPassViewDTO{
		RequestNumber: view.RequestNumber,
		PositionTitle: view.PositionTitle,
		Department:    view.Department,
		Status:        view.Status,
		SLADays:       view.SLADays,
		Documents: documentStatusesDTO{
			JobDescription:  view.Documents.JobDescription,
			RecruitmentForm: view.Documents.RecruitmentForm,
		},
		PipelineCounts:      view.PipelineCounts,
		ConfirmedInterviews: toConfirmedInterviewDTOs(view.ConfirmedInterviews),
		UnreadMessages:      view.UnreadMessages,
	}
	if view.Setup != nil {
		dto.Setup = &setupViewDTO{
			Rounds:             view.Setup.Rounds,
			Format:             view.Setup.Format,
			AssessmentRequired: view.Setup.AssessmentRequired,
			ExtraInterviewers:  append([]string(nil), view.Setup.ExtraInterviewers...),
		}
	}
	return dto
}
