package testfixtures

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/example/recruitd/internal/application"
	"github.com/example/recruitd/internal/persistence"
	"github.com/example/recruitd/internal/pipeline"
)

var (
	requestCounter    uint64
	candidateCounter  uint64
	setupCounter      uint64
	slotCounter       uint64
	credentialCounter uint64
)

var referenceTime = time.Date(2026, time.September, 1, 9, 0, 0, 0, time.UTC)

// ReferenceTime returns the canonical baseline timestamp used by fixtures.
func ReferenceTime() time.Time {
	return referenceTime
}

// --------------------------- Request fixtures ----------------------------

// RequestFixture represents a deterministic requisition record that can be
// materialised for application or persistence tests.
type RequestFixture struct {
	ID             string
	Number         string
	PositionTitle  string
	Department     string
	EmploymentType string
	Headcount      int
	SalaryBand     string
	Status         string
	Approvals      []persistence.Approval
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// RequestOption configures the generated requisition fixture.
type RequestOption func(*RequestFixture)

// NewRequestFixture returns a deterministic requisition fixture with optional
// overrides. Approvals default to the full pending set.
func NewRequestFixture(opts ...RequestOption) RequestFixture {
	idx := atomic.AddUint64(&requestCounter, 1)
	created := referenceTime.Add(time.Duration(idx) * time.Minute)
	fixture := RequestFixture{
		ID:             fmt.Sprintf("req-%03d", idx),
		Number:         fmt.Sprintf("RRF-20260901-%04d", idx),
		PositionTitle:  fmt.Sprintf("Position %03d", idx),
		Department:     "Engineering",
		EmploymentType: "full_time",
		Headcount:      1,
		SalaryBand:     "B3",
		Status:         "pending",
		Approvals: []persistence.Approval{
			{Type: "requisition", Status: "pending"},
			{Type: "budget", Status: "pending"},
			{Type: "offer", Status: "pending"},
		},
		CreatedAt: created,
		UpdatedAt: created,
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// WithRequestID overrides the generated requisition ID.
func WithRequestID(id string) RequestOption {
	return func(f *RequestFixture) {
		f.ID = id
	}
}

// WithRequestStatus overrides the requisition status.
func WithRequestStatus(status string) RequestOption {
	return func(f *RequestFixture) {
		f.Status = status
	}
}

// WithRequestApprovals replaces the approval set on the fixture.
func WithRequestApprovals(approvals []persistence.Approval) RequestOption {
	return func(f *RequestFixture) {
		f.Approvals = approvals
	}
}

// WithRequestTimestamps sets both created and updated timestamps on the fixture.
func WithRequestTimestamps(created, updated time.Time) RequestOption {
	return func(f *RequestFixture) {
		f.CreatedAt = created
		f.UpdatedAt = updated
	}
}

// Persistence returns the fixture as a persistence.RecruitmentRequest value.
func (f RequestFixture) Persistence() persistence.RecruitmentRequest {
	return persistence.RecruitmentRequest{
		ID:             f.ID,
		Number:         f.Number,
		PositionTitle:  f.PositionTitle,
		Department:     f.Department,
		EmploymentType: f.EmploymentType,
		Headcount:      f.Headcount,
		SalaryBand:     f.SalaryBand,
		Status:         f.Status,
		Approvals:      append([]persistence.Approval(nil), f.Approvals...),
		CreatedAt:      f.CreatedAt,
		UpdatedAt:      f.UpdatedAt,
	}
}

// Input returns the fixture as an application.RequestInput.
func (f RequestFixture) Input() application.RequestInput {
	return application.RequestInput{
		PositionTitle:  f.PositionTitle,
		Department:     f.Department,
		EmploymentType: f.EmploymentType,
		Headcount:      f.Headcount,
		SalaryBand:     f.SalaryBand,
	}
}

// -------------------------- Candidate fixtures ---------------------------

// CandidateFixture represents a deterministic candidate record.
type CandidateFixture struct {
	ID             string
	Number         string
	RequestID      string
	FullName       string
	Email          string
	Phone          string
	Stage          string
	Status         string
	StageChangedAt time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// CandidateOption configures the generated candidate fixture.
type CandidateOption func(*CandidateFixture)

// NewCandidateFixture returns a deterministic candidate fixture with optional
// overrides. The default stage is the pipeline entry stage.
func NewCandidateFixture(opts ...CandidateOption) CandidateFixture {
	idx := atomic.AddUint64(&candidateCounter, 1)
	created := referenceTime.Add(time.Duration(idx) * time.Minute)
	fixture := CandidateFixture{
		ID:             fmt.Sprintf("cand-%03d", idx),
		Number:         fmt.Sprintf("CAN-20260901-%04d", idx),
		RequestID:      "req-001",
		FullName:       fmt.Sprintf("Candidate %03d", idx),
		Email:          fmt.Sprintf("cand-%03d@example.com", idx),
		Stage:          string(pipeline.StageApplied),
		Status:         string(pipeline.StageApplied),
		StageChangedAt: created,
		CreatedAt:      created,
		UpdatedAt:      created,
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// WithCandidateID overrides the generated candidate ID.
func WithCandidateID(id string) CandidateOption {
	return func(f *CandidateFixture) {
		f.ID = id
	}
}

// WithCandidateRequest attaches the candidate to the given requisition.
func WithCandidateRequest(requestID string) CandidateOption {
	return func(f *CandidateFixture) {
		f.RequestID = requestID
	}
}

// WithCandidateStage sets both stage and status on the fixture.
func WithCandidateStage(stage string) CandidateOption {
	return func(f *CandidateFixture) {
		f.Stage = stage
		f.Status = stage
	}
}

// Persistence returns the fixture as a persistence.Candidate value.
func (f CandidateFixture) Persistence() persistence.Candidate {
	return persistence.Candidate{
		ID:             f.ID,
		Number:         f.Number,
		RequestID:      f.RequestID,
		FullName:       f.FullName,
		Email:          f.Email,
		Phone:          f.Phone,
		Stage:          f.Stage,
		Status:         f.Status,
		StageChangedAt: f.StageChangedAt,
		CreatedAt:      f.CreatedAt,
		UpdatedAt:      f.UpdatedAt,
	}
}

// Input returns the fixture as an application.CandidateInput.
func (f CandidateFixture) Input() application.CandidateInput {
	return application.CandidateInput{
		RequestID: f.RequestID,
		FullName:  f.FullName,
		Email:     f.Email,
		Phone:     f.Phone,
	}
}

// ---------------------------- Setup fixtures -----------------------------

// SetupFixture represents a deterministic interview setup record.
type SetupFixture struct {
	ID                 string
	RequestID          string
	Rounds             int
	Format             string
	AssessmentRequired bool
	ExtraInterviewers  []string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// SetupOption configures the generated setup fixture.
type SetupOption func(*SetupFixture)

// NewSetupFixture returns a deterministic interview setup fixture.
func NewSetupFixture(opts ...SetupOption) SetupFixture {
	idx := atomic.AddUint64(&setupCounter, 1)
	created := referenceTime.Add(time.Duration(idx) * time.Minute)
	fixture := SetupFixture{
		ID:        fmt.Sprintf("setup-%03d", idx),
		RequestID: "req-001",
		Rounds:    2,
		Format:    "online",
		CreatedAt: created,
		UpdatedAt: created,
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// WithSetupRequest attaches the setup to the given requisition.
func WithSetupRequest(requestID string) SetupOption {
	return func(f *SetupFixture) {
		f.RequestID = requestID
	}
}

// WithSetupRounds overrides the round count.
func WithSetupRounds(rounds int) SetupOption {
	return func(f *SetupFixture) {
		f.Rounds = rounds
	}
}

// Persistence returns the fixture as a persistence.InterviewSetup value.
func (f SetupFixture) Persistence() persistence.InterviewSetup {
	return persistence.InterviewSetup{
		ID:                 f.ID,
		RequestID:          f.RequestID,
		Rounds:             f.Rounds,
		Format:             f.Format,
		AssessmentRequired: f.AssessmentRequired,
		ExtraInterviewers:  append([]string(nil), f.ExtraInterviewers...),
		CreatedAt:          f.CreatedAt,
		UpdatedAt:          f.UpdatedAt,
	}
}

// Input returns the fixture as an application.SetupInput.
func (f SetupFixture) Input() application.SetupInput {
	return application.SetupInput{
		Rounds:             f.Rounds,
		Format:             f.Format,
		AssessmentRequired: f.AssessmentRequired,
		ExtraInterviewers:  append([]string(nil), f.ExtraInterviewers...),
	}
}

// ----------------------------- Slot fixtures -----------------------------

// SlotFixture represents a deterministic interview slot record.
type SlotFixture struct {
	ID          string
	SetupID     string
	SlotDate    string
	StartTime   string
	EndTime     string
	RoundNumber int
	Status      string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// SlotOption configures the generated slot fixture.
type SlotOption func(*SlotFixture)

// NewSlotFixture returns a deterministic, available interview slot fixture.
// Slot dates step forward one day per fixture to keep bookings unambiguous.
func NewSlotFixture(opts ...SlotOption) SlotFixture {
	idx := atomic.AddUint64(&slotCounter, 1)
	created := referenceTime.Add(time.Duration(idx) * time.Minute)
	fixture := SlotFixture{
		ID:          fmt.Sprintf("slot-%03d", idx),
		SetupID:     "setup-001",
		SlotDate:    referenceTime.AddDate(0, 0, int(idx)).Format("2006-01-02"),
		StartTime:   "09:00",
		EndTime:     "09:45",
		RoundNumber: 1,
		Status:      persistence.SlotAvailable,
		CreatedAt:   created,
		UpdatedAt:   created,
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// WithSlotSetup attaches the slot to the given setup.
func WithSlotSetup(setupID string) SlotOption {
	return func(f *SlotFixture) {
		f.SetupID = setupID
	}
}

// WithSlotDate overrides the slot date ("2006-01-02").
func WithSlotDate(date string) SlotOption {
	return func(f *SlotFixture) {
		f.SlotDate = date
	}
}

// WithSlotRound overrides the round number.
func WithSlotRound(round int) SlotOption {
	return func(f *SlotFixture) {
		f.RoundNumber = round
	}
}

// Persistence returns the fixture as a persistence.InterviewSlot value.
func (f SlotFixture) Persistence() persistence.InterviewSlot {
	return persistence.InterviewSlot{
		ID:          f.ID,
		SetupID:     f.SetupID,
		SlotDate:    f.SlotDate,
		StartTime:   f.StartTime,
		EndTime:     f.EndTime,
		RoundNumber: f.RoundNumber,
		Status:      f.Status,
		CreatedAt:   f.CreatedAt,
		UpdatedAt:   f.UpdatedAt,
	}
}

// -------------------------- Credential fixtures --------------------------

// CredentialFixture represents a deterministic pass credential record. The
// digest is an opaque placeholder; tests needing a verifiable secret should
// derive the digest through the application token helpers instead.
type CredentialFixture struct {
	ID           string
	Kind         string
	SubjectID    string
	SecretDigest string
	ExpiresAt    time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// CredentialOption configures the generated credential fixture.
type CredentialOption func(*CredentialFixture)

// NewCredentialFixture returns a deterministic candidate pass credential.
func NewCredentialFixture(opts ...CredentialOption) CredentialFixture {
	idx := atomic.AddUint64(&credentialCounter, 1)
	created := referenceTime.Add(time.Duration(idx) * time.Minute)
	fixture := CredentialFixture{
		ID:           fmt.Sprintf("cred-%03d", idx),
		Kind:         application.PassKindCandidate,
		SubjectID:    fmt.Sprintf("cand-%03d", idx),
		SecretDigest: fmt.Sprintf("digest-%03d", idx),
		ExpiresAt:    created.Add(14 * 24 * time.Hour),
		CreatedAt:    created,
		UpdatedAt:    created,
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// WithCredentialKind overrides the credential kind.
func WithCredentialKind(kind string) CredentialOption {
	return func(f *CredentialFixture) {
		f.Kind = kind
	}
}

// WithCredentialSubject overrides the subject the credential grants access to.
func WithCredentialSubject(subjectID string) CredentialOption {
	return func(f *CredentialFixture) {
		f.SubjectID = subjectID
	}
}

// WithCredentialExpiry overrides the expiry instant.
func WithCredentialExpiry(expires time.Time) CredentialOption {
	return func(f *CredentialFixture) {
		f.ExpiresAt = expires
	}
}

// Persistence returns the fixture as a persistence.PassCredential value.
func (f CredentialFixture) Persistence() persistence.PassCredential {
	return persistence.PassCredential{
		ID:           f.ID,
		Kind:         f.Kind,
		SubjectID:    f.SubjectID,
		SecretDigest: f.SecretDigest,
		ExpiresAt:    f.ExpiresAt,
		CreatedAt:    f.CreatedAt,
		UpdatedAt:    f.UpdatedAt,
	}
}
