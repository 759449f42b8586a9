package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/example/recruitd/internal/persistence"
	"github.com/example/recruitd/internal/timetable"
)

// SetupRepository captures the persistence interactions needed for setups.
type SetupRepository interface {
	CreateSetup(ctx context.Context, setup persistence.InterviewSetup) error
	GetSetup(ctx context.Context, id string) (persistence.InterviewSetup, error)
	GetSetupByRequest(ctx context.Context, requestID string) (persistence.InterviewSetup, error)
	UpdateSetup(ctx context.Context, setup persistence.InterviewSetup) error
}

// SlotRepository captures the persistence interactions needed for slots. The
// BookSlot write must be conditional on the slot still being available.
type SlotRepository interface {
	CreateSlots(ctx context.Context, slots []persistence.InterviewSlot) error
	GetSlot(ctx context.Context, id string) (persistence.InterviewSlot, error)
	ListSlots(ctx context.Context, filter persistence.SlotFilter) ([]persistence.InterviewSlot, error)
	BookSlot(ctx context.Context, slotID, candidateID string, bookedAt time.Time) error
	ConfirmSlot(ctx context.Context, slotID string, confirmedAt time.Time) error
}

// InterviewRepository captures the persistence interactions needed for
// confirmed interview appointments.
type InterviewRepository interface {
	CreateInterview(ctx context.Context, interview persistence.Interview) error
	GetInterview(ctx context.Context, id string) (persistence.Interview, error)
	ListInterviews(ctx context.Context, filter persistence.InterviewFilter) ([]persistence.Interview, error)
	CountInterviewNumbers(ctx context.Context, prefix string) (int, error)
}

// CandidateDirectory exposes candidate lookups to collaborating services.
type CandidateDirectory interface {
	GetCandidate(ctx context.Context, id string) (persistence.Candidate, error)
}

// InterviewService owns interview setups, slot generation, booking, and
// confirmation.
type InterviewService struct {
	setups      SetupRepository
	slots       SlotRepository
	interviews  InterviewRepository
	candidates  CandidateDirectory
	requests    RequestDirectory
	activity    *ActivityLog
	idGenerator func() string
	now         func() time.Time
	logger      *slog.Logger
}

// NewInterviewService wires dependencies for interview scheduling operations.
func NewInterviewService(setups SetupRepository, slots SlotRepository, interviews InterviewRepository, candidates CandidateDirectory, requests RequestDirectory, activity *ActivityLog, idGenerator func() string, now func() time.Time, logger *slog.Logger) *InterviewService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &InterviewService{
		setups:      setups,
		slots:       slots,
		interviews:  interviews,
		candidates:  candidates,
		requests:    requests,
		activity:    activity,
		idGenerator: idGenerator,
		now:         now,
		logger:      defaultLogger(logger),
	}
}

// CreateSetup creates the single interview setup for a requisition.
func (s *InterviewService) CreateSetup(ctx context.Context, requestID string, input SetupInput) (persistence.InterviewSetup, error) {
	if s == nil || s.setups == nil {
		return persistence.InterviewSetup{}, fmt.Errorf("setup repository not configured")
	}

	vErr := &ValidationError{}
	validateSetupCore(input, vErr)
	if vErr.HasErrors() {
		return persistence.InterviewSetup{}, vErr
	}

	if s.requests != nil {
		if _, err := s.requests.GetRequest(ctx, requestID); err != nil {
			return persistence.InterviewSetup{}, mapSlotRepoError(err)
		}
	}

	now := s.now()
	setup := persistence.InterviewSetup{
		ID:                 s.idGenerator(),
		RequestID:          requestID,
		Rounds:             input.Rounds,
		Format:             input.Format,
		AssessmentRequired: input.AssessmentRequired,
		ExtraInterviewers:  input.ExtraInterviewers,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	if err := s.setups.CreateSetup(ctx, setup); err != nil {
		return persistence.InterviewSetup{}, mapSlotRepoError(err)
	}

	serviceLogger(ctx, s.logger, "interview", "create_setup", "request_id", requestID).
		InfoContext(ctx, "interview setup created", "setup_id", setup.ID)

	return setup, nil
}

// UpdateSetup replaces a requisition's interview-format configuration.
func (s *InterviewService) UpdateSetup(ctx context.Context, requestID string, input SetupInput) (persistence.InterviewSetup, error) {
	if s == nil || s.setups == nil {
		return persistence.InterviewSetup{}, fmt.Errorf("setup repository not configured")
	}

	existing, err := s.setups.GetSetupByRequest(ctx, requestID)
	if err != nil {
		return persistence.InterviewSetup{}, mapSlotRepoError(err)
	}

	vErr := &ValidationError{}
	validateSetupCore(input, vErr)
	if vErr.HasErrors() {
		return persistence.InterviewSetup{}, vErr
	}

	updated := existing
	updated.Rounds = input.Rounds
	updated.Format = input.Format
	updated.AssessmentRequired = input.AssessmentRequired
	updated.ExtraInterviewers = input.ExtraInterviewers
	updated.UpdatedAt = s.now()

	if err := s.setups.UpdateSetup(ctx, updated); err != nil {
		return persistence.InterviewSetup{}, mapSlotRepoError(err)
	}
	return updated, nil
}

// GetSetupByRequest retrieves the interview setup for a requisition.
func (s *InterviewService) GetSetupByRequest(ctx context.Context, requestID string) (persistence.InterviewSetup, error) {
	if s == nil || s.setups == nil {
		return persistence.InterviewSetup{}, fmt.Errorf("setup repository not configured")
	}

	setup, err := s.setups.GetSetupByRequest(ctx, requestID)
	if err != nil {
		return persistence.InterviewSetup{}, mapSlotRepoError(err)
	}
	return setup, nil
}

// CreateSlotsBulk generates the cross-product of dates and time windows as
// available slots for one round. Overlapping windows are the caller's
// responsibility.
func (s *InterviewService) CreateSlotsBulk(ctx context.Context, setupID string, input SlotBatchInput) ([]persistence.InterviewSlot, error) {
	if s == nil || s.slots == nil {
		return nil, fmt.Errorf("slot repository not configured")
	}

	vErr := &ValidationError{}
	if len(input.Dates) == 0 && input.Repeat == nil {
		vErr.add("dates", "at least one date or a repeat rule is required")
	}
	if len(input.Windows) == 0 {
		vErr.add("windows", "at least one time window is required")
	}
	if input.RoundNumber < 1 {
		vErr.add("round_number", "round number must be at least 1")
	}
	dates := append([]string(nil), input.Dates...)
	for _, date := range dates {
		if _, err := time.Parse("2006-01-02", date); err != nil {
			vErr.add("dates", fmt.Sprintf("invalid date %q, expected YYYY-MM-DD", date))
			break
		}
	}
	windows := make([]timetable.Window, 0, len(input.Windows))
	for _, window := range input.Windows {
		parsed, err := timetable.ParseWindow(window.StartTime, window.EndTime)
		if err != nil {
			vErr.add("windows", err.Error())
			break
		}
		windows = append(windows, parsed)
	}
	if len(windows) == len(input.Windows) && len(timetable.FindConflicts(windows)) > 0 {
		vErr.add("windows", "time windows must not overlap")
	}
	if input.Repeat != nil {
		expanded, err := expandRepeatDates(*input.Repeat)
		if err != nil {
			vErr.add("repeat", err.Error())
		} else {
			dates = mergeDates(dates, expanded)
		}
	}
	if vErr.HasErrors() {
		return nil, vErr
	}

	setup, err := s.setups.GetSetup(ctx, setupID)
	if err != nil {
		return nil, mapSlotRepoError(err)
	}
	if input.RoundNumber > setup.Rounds {
		vErr.add("round_number", fmt.Sprintf("setup has %d rounds", setup.Rounds))
		return nil, vErr
	}

	now := s.now()
	slots := make([]persistence.InterviewSlot, 0, len(dates)*len(input.Windows))
	for _, date := range dates {
		for _, window := range input.Windows {
			slots = append(slots, persistence.InterviewSlot{
				ID:          s.idGenerator(),
				SetupID:     setup.ID,
				SlotDate:    date,
				StartTime:   window.StartTime,
				EndTime:     window.EndTime,
				RoundNumber: input.RoundNumber,
				Status:      persistence.SlotAvailable,
				CreatedAt:   now,
				UpdatedAt:   now,
			})
		}
	}

	if err := s.slots.CreateSlots(ctx, slots); err != nil {
		return nil, mapSlotRepoError(err)
	}

	serviceLogger(ctx, s.logger, "interview", "create_slots_bulk", "setup_id", setup.ID).
		InfoContext(ctx, "slots created", "count", len(slots), "round", input.RoundNumber)

	return slots, nil
}

// expandRepeatDates turns a weekly repeat rule into concrete dates.
func expandRepeatDates(repeat RepeatInput) ([]string, error) {
	if len(repeat.Weekdays) == 0 {
		return nil, fmt.Errorf("at least one weekday is required")
	}

	weekdays := make([]time.Weekday, 0, len(repeat.Weekdays))
	for _, name := range repeat.Weekdays {
		day, err := timetable.ParseWeekday(name)
		if err != nil {
			return nil, fmt.Errorf("unknown weekday %q", name)
		}
		weekdays = append(weekdays, day)
	}

	from, err := time.Parse("2006-01-02", repeat.DateFrom)
	if err != nil {
		return nil, fmt.Errorf("invalid date_from %q, expected YYYY-MM-DD", repeat.DateFrom)
	}
	until, err := time.Parse("2006-01-02", repeat.DateUntil)
	if err != nil {
		return nil, fmt.Errorf("invalid date_until %q, expected YYYY-MM-DD", repeat.DateUntil)
	}

	dates, err := timetable.ExpandDates(timetable.Pattern{
		Frequency: timetable.FrequencyWeekly,
		Weekdays:  weekdays,
		From:      from,
		Until:     until,
	})
	if err != nil {
		switch {
		case errors.Is(err, timetable.ErrInvalidRange):
			return nil, fmt.Errorf("date_from must not be after date_until")
		case errors.Is(err, timetable.ErrRangeTooWide):
			return nil, fmt.Errorf("repeat range is too wide")
		}
		return nil, err
	}
	return dates, nil
}

// mergeDates combines explicit and expanded dates, deduplicated and sorted.
func mergeDates(explicit, expanded []string) []string {
	seen := make(map[string]struct{}, len(explicit)+len(expanded))
	merged := make([]string, 0, len(explicit)+len(expanded))
	for _, date := range append(explicit, expanded...) {
		if _, ok := seen[date]; ok {
			continue
		}
		seen[date] = struct{}{}
		merged = append(merged, date)
	}
	sort.Strings(merged)
	return merged
}

// AvailableSlots returns a round's open, never-past slots, soonest first.
func (s *InterviewService) AvailableSlots(ctx context.Context, requestID string, round int) ([]persistence.InterviewSlot, error) {
	if s == nil || s.slots == nil {
		return nil, fmt.Errorf("slot repository not configured")
	}

	setup, err := s.setups.GetSetupByRequest(ctx, requestID)
	if err != nil {
		return nil, mapSlotRepoError(err)
	}

	return s.slots.ListSlots(ctx, persistence.SlotFilter{
		SetupID:     setup.ID,
		Status:      persistence.SlotAvailable,
		RoundNumber: round,
		DateFrom:    s.now().UTC().Format("2006-01-02"),
	})
}

// BookSlot claims an available slot for a candidate. The store-level
// conditional write guarantees exactly one of two concurrent attempts wins;
// the loser sees ErrSlotUnavailable and must refetch the slot list.
func (s *InterviewService) BookSlot(ctx context.Context, slotID, candidateID string) (persistence.InterviewSlot, error) {
	if s == nil || s.slots == nil {
		return persistence.InterviewSlot{}, fmt.Errorf("slot repository not configured")
	}

	logger := serviceLogger(ctx, s.logger, "interview", "book_slot", "slot_id", slotID)

	if s.candidates != nil {
		if _, err := s.candidates.GetCandidate(ctx, candidateID); err != nil {
			return persistence.InterviewSlot{}, mapSlotRepoError(err)
		}
	}

	if err := s.slots.BookSlot(ctx, slotID, candidateID, s.now()); err != nil {
		return persistence.InterviewSlot{}, mapSlotRepoError(err)
	}

	slot, err := s.slots.GetSlot(ctx, slotID)
	if err != nil {
		return persistence.InterviewSlot{}, mapSlotRepoError(err)
	}

	logger.InfoContext(ctx, "slot booked", "candidate_id", candidateID, "date", slot.SlotDate)

	recordActivity(ctx, s.activity, logger, RecordActivityParams{
		EntityType:  EntityCandidate,
		EntityID:    candidateID,
		ActionType:  "slot_booked",
		Description: fmt.Sprintf("Interview slot booked for %s at %s", slot.SlotDate, slot.StartTime),
		Visibility:  VisibilityCandidate,
	})

	return slot, nil
}

// ConfirmSlot marks a booked slot confirmed by its own booking candidate.
// A wrong-owner call fails with ErrNotFound so callers cannot probe who holds
// a booking. The first confirmation creates the interview appointment record;
// repeats are no-ops.
func (s *InterviewService) ConfirmSlot(ctx context.Context, slotID, candidateID string) (persistence.InterviewSlot, error) {
	if s == nil || s.slots == nil {
		return persistence.InterviewSlot{}, fmt.Errorf("slot repository not configured")
	}

	logger := serviceLogger(ctx, s.logger, "interview", "confirm_slot", "slot_id", slotID)

	slot, err := s.slots.GetSlot(ctx, slotID)
	if err != nil {
		return persistence.InterviewSlot{}, mapSlotRepoError(err)
	}
	if slot.BookedByCandidateID == nil || *slot.BookedByCandidateID != candidateID {
		return persistence.InterviewSlot{}, ErrNotFound
	}
	if slot.CandidateConfirmed {
		return slot, nil
	}

	confirmedAt := s.now()
	if err := s.slots.ConfirmSlot(ctx, slotID, confirmedAt); err != nil {
		return persistence.InterviewSlot{}, mapSlotRepoError(err)
	}
	slot.CandidateConfirmed = true
	slot.CandidateConfirmedAt = &confirmedAt
	slot.UpdatedAt = confirmedAt

	if err := s.createInterviewRecord(ctx, slot, candidateID, confirmedAt); err != nil {
		return persistence.InterviewSlot{}, err
	}

	logger.InfoContext(ctx, "slot confirmed", "candidate_id", candidateID)

	recordActivity(ctx, s.activity, logger, RecordActivityParams{
		EntityType:  EntityCandidate,
		EntityID:    candidateID,
		ActionType:  "slot_confirmed",
		Description: fmt.Sprintf("Interview on %s at %s confirmed", slot.SlotDate, slot.StartTime),
		Visibility:  VisibilityCandidate,
	})

	return slot, nil
}

func (s *InterviewService) createInterviewRecord(ctx context.Context, slot persistence.InterviewSlot, candidateID string, confirmedAt time.Time) error {
	if s.interviews == nil {
		return nil
	}

	setup, err := s.setups.GetSetup(ctx, slot.SetupID)
	if err != nil {
		return mapSlotRepoError(err)
	}

	number, err := nextNumber(ctx, s.interviews.CountInterviewNumbers, NumberPrefixInterview, confirmedAt)
	if err != nil {
		return err
	}

	scheduledAt, err := time.Parse("2006-01-02 15:04", slot.SlotDate+" "+slot.StartTime)
	if err != nil {
		return fmt.Errorf("parse slot schedule: %w", err)
	}

	interview := persistence.Interview{
		ID:          s.idGenerator(),
		Number:      number,
		CandidateID: candidateID,
		RequestID:   setup.RequestID,
		SlotID:      slot.ID,
		RoundType:   fmt.Sprintf("round_%d", slot.RoundNumber),
		ScheduledAt: scheduledAt,
		CreatedAt:   confirmedAt,
	}
	err = s.interviews.CreateInterview(ctx, interview)
	// A concurrent repeat confirmation may have created the record already;
	// the UNIQUE slot constraint makes the second insert a harmless loser.
	if errors.Is(err, persistence.ErrDuplicate) {
		return nil
	}
	return mapSlotRepoError(err)
}

// ConfirmedInterviews joins a requisition's confirmed slots with their
// booking candidates for manager-facing display.
func (s *InterviewService) ConfirmedInterviews(ctx context.Context, requestID string) ([]ConfirmedInterview, error) {
	if s == nil || s.slots == nil {
		return nil, fmt.Errorf("slot repository not configured")
	}

	setup, err := s.setups.GetSetupByRequest(ctx, requestID)
	if errors.Is(err, persistence.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, mapSlotRepoError(err)
	}

	slots, err := s.slots.ListSlots(ctx, persistence.SlotFilter{
		SetupID:       setup.ID,
		Status:        persistence.SlotBooked,
		ConfirmedOnly: true,
	})
	if err != nil {
		return nil, mapSlotRepoError(err)
	}

	confirmed := make([]ConfirmedInterview, 0, len(slots))
	for _, slot := range slots {
		if slot.BookedByCandidateID == nil {
			continue
		}
		entry := ConfirmedInterview{Slot: slotView(slot), CandidateID: *slot.BookedByCandidateID}
		if s.candidates != nil {
			candidate, err := s.candidates.GetCandidate(ctx, *slot.BookedByCandidateID)
			if err != nil {
				return nil, mapSlotRepoError(err)
			}
			entry.CandidateNumber = candidate.Number
			entry.CandidateName = candidate.FullName
		}
		confirmed = append(confirmed, entry)
	}
	return confirmed, nil
}

// SlotsBookedBy returns the slots currently held by one candidate.
func (s *InterviewService) SlotsBookedBy(ctx context.Context, candidateID string) ([]persistence.InterviewSlot, error) {
	if s == nil || s.slots == nil {
		return nil, fmt.Errorf("slot repository not configured")
	}

	return s.slots.ListSlots(ctx, persistence.SlotFilter{
		BookedByCandidateID: candidateID,
	})
}

func slotView(slot persistence.InterviewSlot) SlotView {
	return SlotView{
		ID:          slot.ID,
		Date:        slot.SlotDate,
		StartTime:   slot.StartTime,
		EndTime:     slot.EndTime,
		RoundNumber: slot.RoundNumber,
		Status:      slot.Status,
		Confirmed:   slot.CandidateConfirmed,
	}
}

func validateSetupCore(input SetupInput, vErr *ValidationError) {
	if input.Rounds < 1 {
		vErr.add("rounds", "rounds must be at least 1")
	}
}

func mapSlotRepoError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, persistence.ErrNotFound) {
		return ErrNotFound
	}
	if errors.Is(err, persistence.ErrConflict) {
		return ErrSlotUnavailable
	}
	if errors.Is(err, persistence.ErrDuplicate) {
		return ErrAlreadyExists
	}
	if errors.Is(err, persistence.ErrForeignKeyViolation) {
		return ErrNotFound
	}
	if errors.Is(err, persistence.ErrConstraintViolation) {
		vErr := &ValidationError{}
		vErr.add("slot", "related records are missing or invalid")
		return vErr
	}
	return err
}
