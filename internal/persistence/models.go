package persistence

import "time"

// RecruitmentRequest represents a requisition to fill one or more positions.
type RecruitmentRequest struct {
	ID             string
	Number         string
	PositionTitle  string
	Department     string
	EmploymentType string
	Headcount      int
	SalaryBand     string
	Status         string
	Approvals      []Approval
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Approval records one approval decision attached to a requisition, keyed by
// approval type (requisition, budget, offer).
type Approval struct {
	Type      string
	Status    string
	Approver  string
	DecidedAt *time.Time
}

// Candidate represents one application against a requisition. Candidates are
// never hard-deleted; rejection is a terminal stage, not removal.
type Candidate struct {
	ID              string
	Number          string
	RequestID       string
	FullName        string
	Email           string
	Phone           string
	Stage           string
	Status          string
	StageChangedAt  time.Time
	RejectionReason *string
	CVMatch         *int
	SkillsMatch     *int
	HRRating        *int
	ManagerRating   *int
	PassNumber      *string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// InterviewSetup holds the interview format configuration for one requisition.
type InterviewSetup struct {
	ID                 string
	RequestID          string
	Rounds             int
	Format             string
	AssessmentRequired bool
	ExtraInterviewers  []string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// Slot statuses.
const (
	SlotAvailable = "available"
	SlotBooked    = "booked"
	SlotCancelled = "cancelled"
)

// InterviewSlot is a bookable interview time window belonging to one setup.
// Dates are stored as "2006-01-02" and times as "15:04" wall-clock strings.
type InterviewSlot struct {
	ID                   string
	SetupID              string
	SlotDate             string
	StartTime            string
	EndTime              string
	RoundNumber          int
	Status               string
	BookedByCandidateID  *string
	BookedAt             *time.Time
	CandidateConfirmed   bool
	CandidateConfirmedAt *time.Time
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// Interview records a confirmed interview appointment for a candidate.
type Interview struct {
	ID          string
	Number      string
	CandidateID string
	RequestID   string
	SlotID      string
	RoundType   string
	ScheduledAt time.Time
	CreatedAt   time.Time
}

// Evaluation captures scored interviewer feedback for one interview.
type Evaluation struct {
	ID                 string
	Number             string
	InterviewID        string
	CandidateID        string
	Evaluator          string
	TechnicalScore     int
	CommunicationScore int
	CultureScore       int
	OverallScore       int
	Recommendation     string
	Notes              string
	CreatedAt          time.Time
}

// Document is a typed, statused document attached to a requisition.
type Document struct {
	ID        string
	RequestID string
	DocType   string
	Title     string
	Status    string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Message is an inbox entry addressed to a holder (candidate or request).
type Message struct {
	ID         string
	HolderType string
	HolderID   string
	Subject    string
	Body       string
	ReadAt     *time.Time
	CreatedAt  time.Time
}

// ActivityEntry is one immutable audit trail record.
type ActivityEntry struct {
	ID          string
	EntityType  string
	EntityID    string
	Stage       string
	ActionType  string
	Description string
	PerformedBy string
	Visibility  string
	CreatedAt   time.Time
}

// PassCredential is a persisted, expiring pass access credential. Only the
// argon2id digest of the token secret is stored.
type PassCredential struct {
	ID           string
	Kind         string
	SubjectID    string
	SecretDigest string
	ExpiresAt    time.Time
	RevokedAt    *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
