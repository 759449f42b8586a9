package persistence

import (
	"context"
	"time"
)

// RequestFilter narrows requisition list queries.
type RequestFilter struct {
	Status     string
	Department string
}

// RequestRepository stores requisitions and their approval records.
type RequestRepository interface {
	CreateRequest(ctx context.Context, request RecruitmentRequest) error
	GetRequest(ctx context.Context, id string) (RecruitmentRequest, error)
	UpdateRequest(ctx context.Context, request RecruitmentRequest) error
	ListRequests(ctx context.Context, filter RequestFilter) ([]RecruitmentRequest, error)
	UpsertApproval(ctx context.Context, requestID string, approval Approval) error
	CountRequestNumbers(ctx context.Context, prefix string) (int, error)
}

// CandidateFilter narrows candidate list queries.
type CandidateFilter struct {
	RequestID string
	Stage     string
}

// CandidateRepository stores candidate records.
type CandidateRepository interface {
	CreateCandidate(ctx context.Context, candidate Candidate) error
	GetCandidate(ctx context.Context, id string) (Candidate, error)
	UpdateCandidate(ctx context.Context, candidate Candidate) error
	ListCandidates(ctx context.Context, filter CandidateFilter) ([]Candidate, error)
	CountCandidatesByStage(ctx context.Context, requestID string) (map[string]int, error)
	CountCandidateNumbers(ctx context.Context, prefix string) (int, error)
}

// SetupRepository stores interview setups, one per requisition.
type SetupRepository interface {
	CreateSetup(ctx context.Context, setup InterviewSetup) error
	GetSetup(ctx context.Context, id string) (InterviewSetup, error)
	GetSetupByRequest(ctx context.Context, requestID string) (InterviewSetup, error)
	UpdateSetup(ctx context.Context, setup InterviewSetup) error
}

// SlotFilter narrows slot list queries.
type SlotFilter struct {
	SetupID             string
	Status              string
	RoundNumber         int
	DateFrom            string
	BookedByCandidateID string
	ConfirmedOnly       bool
}

// SlotRepository stores interview slots. BookSlot is the one conditional
// write in the system: the transition available -> booked must be atomic
// relative to concurrent booking attempts on the same slot.
type SlotRepository interface {
	CreateSlots(ctx context.Context, slots []InterviewSlot) error
	GetSlot(ctx context.Context, id string) (InterviewSlot, error)
	ListSlots(ctx context.Context, filter SlotFilter) ([]InterviewSlot, error)
	// BookSlot performs the conditional update guarded on status=available.
	// Returns ErrNotFound when the slot does not exist and ErrConflict when
	// it exists but is no longer available.
	BookSlot(ctx context.Context, slotID, candidateID string, bookedAt time.Time) error
	// ConfirmSlot marks a booked slot as confirmed by its candidate. The
	// write is idempotent; confirming an already confirmed slot is a no-op.
	ConfirmSlot(ctx context.Context, slotID string, confirmedAt time.Time) error
}

// InterviewFilter narrows interview list queries.
type InterviewFilter struct {
	RequestID   string
	CandidateID string
}

// InterviewRepository stores confirmed interview appointments.
type InterviewRepository interface {
	CreateInterview(ctx context.Context, interview Interview) error
	GetInterview(ctx context.Context, id string) (Interview, error)
	GetInterviewBySlot(ctx context.Context, slotID string) (Interview, error)
	ListInterviews(ctx context.Context, filter InterviewFilter) ([]Interview, error)
	CountInterviewNumbers(ctx context.Context, prefix string) (int, error)
}

// EvaluationRepository stores interviewer feedback records.
type EvaluationRepository interface {
	CreateEvaluation(ctx context.Context, evaluation Evaluation) error
	ListEvaluations(ctx context.Context, interviewID string) ([]Evaluation, error)
	CountEvaluationNumbers(ctx context.Context, prefix string) (int, error)
}

// ActivityFilter narrows activity log queries.
type ActivityFilter struct {
	EntityType string
	EntityID   string
	Visibility string
	Limit      int
}

// ActivityLogRepository stores audit trail entries. The log is strictly
// append-only; no update or delete operation exists.
type ActivityLogRepository interface {
	AppendEntry(ctx context.Context, entry ActivityEntry) error
	ListEntries(ctx context.Context, filter ActivityFilter) ([]ActivityEntry, error)
}

// DocumentRepository exposes the documents collaborator contract consumed by
// the manager pass view.
type DocumentRepository interface {
	ListDocumentsForRequest(ctx context.Context, requestID string) ([]Document, error)
}

// MessageRepository exposes the messaging collaborator contract consumed by
// the pass views.
type MessageRepository interface {
	UnreadCount(ctx context.Context, holderType, holderID string) (int, error)
	ListInbox(ctx context.Context, holderType, holderID string) ([]Message, error)
	MarkRead(ctx context.Context, messageID string, readAt time.Time) error
}

// PassRepository stores pass access credentials.
type PassRepository interface {
	CreateCredential(ctx context.Context, credential PassCredential) error
	GetCredential(ctx context.Context, id string) (PassCredential, error)
	RevokeCredential(ctx context.Context, id string, revokedAt time.Time) error
	DeleteExpiredCredentials(ctx context.Context, reference time.Time) error
}
