package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/example/recruitd/internal/persistence"
	"github.com/example/recruitd/internal/pipeline"
)

// Inbox holder types used by the messaging collaborator.
const (
	HolderCandidate = "candidate"
	HolderRequest   = "request"
)

// SlotBoard exposes the scheduler reads the pass views fan out to.
type SlotBoard interface {
	AvailableSlots(ctx context.Context, requestID string, round int) ([]persistence.InterviewSlot, error)
	SlotsBookedBy(ctx context.Context, candidateID string) ([]persistence.InterviewSlot, error)
	ConfirmedInterviews(ctx context.Context, requestID string) ([]ConfirmedInterview, error)
	GetSetupByRequest(ctx context.Context, requestID string) (persistence.InterviewSetup, error)
}

// PipelineCounter exposes the stage histogram for the manager view.
type PipelineCounter interface {
	PipelineCounts(ctx context.Context, requestID string) (map[string]int, error)
}

// Mailbox is the messaging collaborator contract consumed by the views.
type Mailbox interface {
	UnreadCount(ctx context.Context, holderType, holderID string) (int, error)
}

// DocumentCatalog is the documents collaborator contract consumed by the
// manager view.
type DocumentCatalog interface {
	ListDocumentsForRequest(ctx context.Context, requestID string) ([]persistence.Document, error)
}

// PassViewService assembles the external-facing read projections. It is a
// pure read path: nothing here writes entity state.
type PassViewService struct {
	candidates CandidateDirectory
	requests   RequestDirectory
	board      SlotBoard
	counter    PipelineCounter
	mailbox    Mailbox
	documents  DocumentCatalog
	activity   *ActivityLog
	now        func() time.Time
	logger     *slog.Logger
}

// NewPassViewService wires dependencies for pass view assembly.
func NewPassViewService(candidates CandidateDirectory, requests RequestDirectory, board SlotBoard, counter PipelineCounter, mailbox Mailbox, documents DocumentCatalog, activity *ActivityLog, now func() time.Time, logger *slog.Logger) *PassViewService {
	if now == nil {
		now = time.Now
	}
	return &PassViewService{
		candidates: candidates,
		requests:   requests,
		board:      board,
		counter:    counter,
		mailbox:    mailbox,
		documents:  documents,
		activity:   activity,
		now:        now,
		logger:     defaultLogger(logger),
	}
}

// CandidatePassView assembles the self-service snapshot for one candidate:
// canonical step progress, display status, slot state, next actions, unread
// count, and the candidate-visible slice of the audit trail.
func (s *PassViewService) CandidatePassView(ctx context.Context, candidateID string) (CandidatePassView, error) {
	if s == nil || s.candidates == nil || s.requests == nil {
		return CandidatePassView{}, fmt.Errorf("pass view dependencies not configured")
	}

	candidate, err := s.candidates.GetCandidate(ctx, candidateID)
	if err != nil {
		return CandidatePassView{}, mapCandidateRepoError(err)
	}
	request, err := s.requests.GetRequest(ctx, candidate.RequestID)
	if err != nil {
		return CandidatePassView{}, mapCandidateRepoError(err)
	}

	stage, _ := pipeline.Normalize(candidate.Stage)
	view := CandidatePassView{
		CandidateNumber: candidate.Number,
		FullName:        candidate.FullName,
		PositionTitle:   request.PositionTitle,
		Department:      request.Department,
		DisplayStatus:   pipeline.DisplayStatus(candidate.Status),
	}
	for _, step := range pipeline.StepStates(stage) {
		view.Steps = append(view.Steps, StepView{Name: step.Name, Status: step.Status})
	}

	var booked []persistence.InterviewSlot
	if s.board != nil {
		booked, err = s.board.SlotsBookedBy(ctx, candidateID)
		if err != nil {
			return CandidatePassView{}, err
		}
		if len(booked) > 0 {
			slot := slotView(booked[0])
			view.BookedSlot = &slot
		}

		if stage == pipeline.StageInterview && len(booked) == 0 {
			available, err := s.board.AvailableSlots(ctx, candidate.RequestID, 0)
			if err != nil && !errors.Is(err, ErrNotFound) {
				return CandidatePassView{}, err
			}
			for _, slot := range available {
				view.AvailableSlots = append(view.AvailableSlots, slotView(slot))
			}
		}
	}

	view.NextActions = nextActions(stage, booked)

	if s.mailbox != nil {
		unread, err := s.mailbox.UnreadCount(ctx, HolderCandidate, candidateID)
		if err != nil {
			return CandidatePassView{}, err
		}
		view.UnreadMessages = unread
	}

	if s.activity != nil {
		entries, err := s.activity.ForEntity(ctx, EntityCandidate, candidateID, VisibilityCandidate, candidateActivityLimit)
		if err != nil {
			return CandidatePassView{}, err
		}
		for _, entry := range entries {
			view.Activity = append(view.Activity, ActivityView{
				Stage:       entry.Stage,
				ActionType:  entry.ActionType,
				Description: entry.Description,
				CreatedAt:   entry.CreatedAt,
			})
		}
	}

	return view, nil
}

// ManagerPassView assembles the hiring-manager snapshot for one requisition:
// SLA staleness, document statuses, the stage histogram, setup configuration,
// and confirmed interviews.
func (s *PassViewService) ManagerPassView(ctx context.Context, requestID string) (ManagerPassView, error) {
	if s == nil || s.requests == nil {
		return ManagerPassView{}, fmt.Errorf("pass view dependencies not configured")
	}

	request, err := s.requests.GetRequest(ctx, requestID)
	if err != nil {
		return ManagerPassView{}, mapRequestRepoError(err)
	}

	view := ManagerPassView{
		RequestNumber: request.Number,
		PositionTitle: request.PositionTitle,
		Department:    request.Department,
		Status:        request.Status,
		SLADays:       slaDays(request.CreatedAt, s.now()),
	}

	if s.documents != nil {
		documents, err := s.documents.ListDocumentsForRequest(ctx, requestID)
		if err != nil {
			return ManagerPassView{}, err
		}
		view.Documents = reduceDocuments(documents)
	}

	if s.counter != nil {
		counts, err := s.counter.PipelineCounts(ctx, requestID)
		if err != nil {
			return ManagerPassView{}, err
		}
		view.PipelineCounts = counts
	}

	if s.board != nil {
		setup, err := s.board.GetSetupByRequest(ctx, requestID)
		switch {
		case err == nil:
			view.Setup = &SetupView{
				Rounds:             setup.Rounds,
				Format:             setup.Format,
				AssessmentRequired: setup.AssessmentRequired,
				ExtraInterviewers:  setup.ExtraInterviewers,
			}
		case errors.Is(err, ErrNotFound):
			// No setup yet; the view simply omits it.
		default:
			return ManagerPassView{}, err
		}

		confirmed, err := s.board.ConfirmedInterviews(ctx, requestID)
		if err != nil {
			return ManagerPassView{}, err
		}
		view.ConfirmedInterviews = confirmed
	}

	if s.mailbox != nil {
		unread, err := s.mailbox.UnreadCount(ctx, HolderRequest, requestID)
		if err != nil {
			return ManagerPassView{}, err
		}
		view.UnreadMessages = unread
	}

	return view, nil
}

// nextActions derives the candidate's to-do list from the current canonical
// stage and slot state.
func nextActions(stage pipeline.Stage, booked []persistence.InterviewSlot) []string {
	switch stage {
	case pipeline.StageApplied:
		return []string{"Complete Application Documents"}
	case pipeline.StageScreening:
		return []string{"Await Screening Result"}
	case pipeline.StageInterview:
		if len(booked) == 0 {
			return []string{"Choose Interview Slot"}
		}
		for _, slot := range booked {
			if !slot.CandidateConfirmed {
				return []string{"Confirm Interview"}
			}
		}
		return nil
	case pipeline.StageOffer:
		return []string{"Review Offer"}
	case pipeline.StageHired:
		return []string{"Complete Onboarding Checklist"}
	default:
		return nil
	}
}

// reduceDocuments folds a requisition's documents into the two named
// statuses the manager view exposes. Absent documents read as missing.
func reduceDocuments(documents []persistence.Document) DocumentStatuses {
	statuses := DocumentStatuses{JobDescription: "missing", RecruitmentForm: "missing"}
	for _, document := range documents {
		switch document.DocType {
		case "job_description":
			statuses.JobDescription = document.Status
		case "recruitment_form":
			statuses.RecruitmentForm = document.Status
		}
	}
	return statuses
}

func slaDays(createdAt, now time.Time) int {
	days := int(now.Sub(createdAt).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}
