package sqlite

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/example/recruitd/internal/persistence"
)

// SlotRepository implements persistence.SlotRepository using SQLite.
type SlotRepository struct {
	pool *ConnectionPool
}

// NewSlotRepository creates a new SQLite slot repository.
func NewSlotRepository(pool *ConnectionPool) *SlotRepository {
	return &SlotRepository{pool: pool}
}

const slotColumns = `id, setup_id, slot_date, start_time, end_time, round_number, status,
	booked_by_candidate_id, booked_at, candidate_confirmed, candidate_confirmed_at, created_at, updated_at`

// CreateSlots inserts a batch of slots within one transaction.
func (r *SlotRepository) CreateSlots(ctx context.Context, slots []persistence.InterviewSlot) error {
	if len(slots) == 0 {
		return nil
	}

	return r.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		for _, slot := range slots {
			if slot.ID == "" {
				return persistence.ErrConstraintViolation
			}
			_, err := tx.ExecContext(ctx, `
				INSERT INTO interview_slots (`+slotColumns+`)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
				slot.ID,
				slot.SetupID,
				slot.SlotDate,
				slot.StartTime,
				slot.EndTime,
				slot.RoundNumber,
				slot.Status,
				nullString(slot.BookedByCandidateID),
				nullTime(slot.BookedAt),
				boolToInt(slot.CandidateConfirmed),
				nullTime(slot.CandidateConfirmedAt),
				formatTimestamp(slot.CreatedAt),
				formatTimestamp(slot.UpdatedAt),
			)
			if err != nil {
				return mapError(err)
			}
		}
		return nil
	})
}

// GetSlot retrieves a slot by ID.
func (r *SlotRepository) GetSlot(ctx context.Context, id string) (persistence.InterviewSlot, error) {
	if id == "" {
		return persistence.InterviewSlot{}, persistence.ErrNotFound
	}

	row := r.pool.db.QueryRowContext(ctx,
		"SELECT "+slotColumns+" FROM interview_slots WHERE id = ?", id)
	slot, err := scanSlot(row.Scan)
	if err != nil {
		return persistence.InterviewSlot{}, mapError(err)
	}
	return slot, nil
}

// ListSlots returns slots matching the filter ordered by date then start time.
func (r *SlotRepository) ListSlots(ctx context.Context, filter persistence.SlotFilter) ([]persistence.InterviewSlot, error) {
	query := "SELECT " + slotColumns + " FROM interview_slots"

	var conditions []string
	var args []any
	if filter.SetupID != "" {
		conditions = append(conditions, "setup_id = ?")
		args = append(args, filter.SetupID)
	}
	if filter.Status != "" {
		conditions = append(conditions, "status = ?")
		args = append(args, filter.Status)
	}
	if filter.RoundNumber > 0 {
		conditions = append(conditions, "round_number = ?")
		args = append(args, filter.RoundNumber)
	}
	if filter.DateFrom != "" {
		conditions = append(conditions, "slot_date >= ?")
		args = append(args, filter.DateFrom)
	}
	if filter.BookedByCandidateID != "" {
		conditions = append(conditions, "booked_by_candidate_id = ?")
		args = append(args, filter.BookedByCandidateID)
	}
	if filter.ConfirmedOnly {
		conditions = append(conditions, "candidate_confirmed = 1")
	}
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY slot_date ASC, start_time ASC, id ASC"

	rows, err := r.pool.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var slots []persistence.InterviewSlot
	for rows.Next() {
		slot, err := scanSlot(rows.Scan)
		if err != nil {
			return nil, mapError(err)
		}
		slots = append(slots, slot)
	}
	return slots, rows.Err()
}

// BookSlot transitions a slot from available to booked. The write is
// conditioned on the current status so that exactly one of two concurrent
// booking attempts succeeds; the loser observes ErrConflict.
func (r *SlotRepository) BookSlot(ctx context.Context, slotID, candidateID string, bookedAt time.Time) error {
	if slotID == "" || candidateID == "" {
		return persistence.ErrNotFound
	}

	return r.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx, `
			UPDATE interview_slots
			SET status = ?, booked_by_candidate_id = ?, booked_at = ?, updated_at = ?
			WHERE id = ? AND status = ?`,
			persistence.SlotBooked,
			candidateID,
			formatTimestamp(bookedAt),
			formatTimestamp(bookedAt),
			slotID,
			persistence.SlotAvailable,
		)
		if err != nil {
			return mapError(err)
		}

		affected, err := result.RowsAffected()
		if err != nil {
			return err
		}
		if affected == 1 {
			return nil
		}

		// Distinguish a missing slot from one that lost the race.
		var status string
		err = tx.QueryRowContext(ctx, "SELECT status FROM interview_slots WHERE id = ?", slotID).Scan(&status)
		if err == sql.ErrNoRows {
			return persistence.ErrNotFound
		}
		if err != nil {
			return mapError(err)
		}
		return persistence.ErrConflict
	})
}

// ConfirmSlot sets the candidate confirmation flag. Confirming an already
// confirmed slot leaves the original confirmation timestamp in place.
func (r *SlotRepository) ConfirmSlot(ctx context.Context, slotID string, confirmedAt time.Time) error {
	result, err := r.pool.db.ExecContext(ctx, `
		UPDATE interview_slots
		SET candidate_confirmed = 1, candidate_confirmed_at = ?, updated_at = ?
		WHERE id = ? AND candidate_confirmed = 0`,
		formatTimestamp(confirmedAt),
		formatTimestamp(confirmedAt),
		slotID,
	)
	if err != nil {
		return mapError(err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 1 {
		return nil
	}

	var confirmed int
	err = r.pool.db.QueryRowContext(ctx,
		"SELECT candidate_confirmed FROM interview_slots WHERE id = ?", slotID).Scan(&confirmed)
	if err == sql.ErrNoRows {
		return persistence.ErrNotFound
	}
	if err != nil {
		return mapError(err)
	}
	// Already confirmed: idempotent no-op.
	return nil
}

func scanSlot(scan func(dest ...any) error) (persistence.InterviewSlot, error) {
	var slot persistence.InterviewSlot
	var bookedBy, bookedAt, confirmedAt sql.NullString
	var confirmed int
	var createdAt, updatedAt string

	err := scan(
		&slot.ID,
		&slot.SetupID,
		&slot.SlotDate,
		&slot.StartTime,
		&slot.EndTime,
		&slot.RoundNumber,
		&slot.Status,
		&bookedBy,
		&bookedAt,
		&confirmed,
		&confirmedAt,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return persistence.InterviewSlot{}, err
	}

	slot.BookedByCandidateID = stringPtr(bookedBy)
	slot.CandidateConfirmed = confirmed != 0
	if slot.BookedAt, err = timePtr(bookedAt); err != nil {
		return persistence.InterviewSlot{}, err
	}
	if slot.CandidateConfirmedAt, err = timePtr(confirmedAt); err != nil {
		return persistence.InterviewSlot{}, err
	}
	if slot.CreatedAt, err = parseTimestamp(createdAt); err != nil {
		return persistence.InterviewSlot{}, err
	}
	if slot.UpdatedAt, err = parseTimestamp(updatedAt); err != nil {
		return persistence.InterviewSlot{}, err
	}
	return slot, nil
}
