package application

import "time"

// RequestInput captures caller provided requisition fields.
type RequestInput struct {
	PositionTitle  string
	Department     string
	EmploymentType string
	Headcount      int
	SalaryBand     string
}

// ApproveRequestParams wraps the data required to record an approval decision.
type ApproveRequestParams struct {
	RequestID    string
	ApprovalType string
	Approver     string
}

// CandidateInput captures caller provided application fields.
type CandidateInput struct {
	RequestID string
	FullName  string
	Email     string
	Phone     string
}

// CandidateUpdateInput captures updatable candidate fields. Scoring fields
// are populated by external scoring collaborators, never derived here.
type CandidateUpdateInput struct {
	FullName      string
	Email         string
	Phone         string
	CVMatch       *int
	SkillsMatch   *int
	HRRating      *int
	ManagerRating *int
}

// SetupInput captures interview-format configuration for one requisition.
type SetupInput struct {
	Rounds             int
	Format             string
	AssessmentRequired bool
	ExtraInterviewers  []string
}

// TimeWindow is one start/end wall-clock pair used in bulk slot generation.
type TimeWindow struct {
	StartTime string
	EndTime   string
}

// RepeatInput describes an optional weekly repeat rule used to derive slot
// dates. Weekdays use lowercase English names; dates use "2006-01-02".
type RepeatInput struct {
	Weekdays  []string
	DateFrom  string
	DateUntil string
}

// SlotBatchInput describes a bulk slot generation request: the cross-product
// of dates and windows, all for one round. Dates can be listed explicitly,
// derived from a repeat rule, or both.
type SlotBatchInput struct {
	Dates       []string
	Windows     []TimeWindow
	RoundNumber int
	Repeat      *RepeatInput
}

// EvaluationInput captures scored interviewer feedback.
type EvaluationInput struct {
	InterviewID        string
	Evaluator          string
	TechnicalScore     int
	CommunicationScore int
	CultureScore       int
	OverallScore       int
	Recommendation     string
	Notes              string
}

// SlotView is the externally consumable shape of an interview slot.
type SlotView struct {
	ID          string
	Date        string
	StartTime   string
	EndTime     string
	RoundNumber int
	Status      string
	Confirmed   bool
}

// StepView is one canonical pipeline step with its derived completion state.
type StepView struct {
	Name   string
	Status string
}

// ActivityView is the externally visible shape of one audit trail entry.
type ActivityView struct {
	Stage       string
	ActionType  string
	Description string
	CreatedAt   time.Time
}

// ConfirmedInterview pairs a confirmed slot with its booking candidate for
// manager-facing display.
type ConfirmedInterview struct {
	Slot            SlotView
	CandidateID     string
	CandidateNumber string
	CandidateName   string
}

// CandidatePassView is the self-service snapshot shown to one candidate.
type CandidatePassView struct {
	CandidateNumber string
	FullName        string
	PositionTitle   string
	Department      string
	Steps           []StepView
	DisplayStatus   string
	AvailableSlots  []SlotView
	BookedSlot      *SlotView
	NextActions     []string
	UnreadMessages  int
	Activity        []ActivityView
}

// DocumentStatuses reduces a requisition's documents to the two named
// statuses the manager view surfaces.
type DocumentStatuses struct {
	JobDescription  string
	RecruitmentForm string
}

// SetupView is the externally consumable shape of an interview setup.
type SetupView struct {
	Rounds             int
	Format             string
	AssessmentRequired bool
	ExtraInterviewers  []string
}

// ManagerPassView is the self-service snapshot shown to a hiring manager.
type ManagerPassView struct {
	RequestNumber       string
	PositionTitle       string
	Department          string
	Status              string
	SLADays             int
	Documents           DocumentStatuses
	PipelineCounts      map[string]int
	Setup               *SetupView
	ConfirmedInterviews []ConfirmedInterview
	UnreadMessages      int
}

// PassIdentity names the subject a verified pass credential grants access to.
type PassIdentity struct {
	CredentialID string
	Kind         string
	SubjectID    string
}

// IssuePassParams wraps the data required to issue a pass credential.
type IssuePassParams struct {
	Kind      string
	SubjectID string
}

// IssuedPass carries a freshly issued credential and its one-time token.
type IssuedPass struct {
	CredentialID string
	Token        string
	ExpiresAt    time.Time
}
