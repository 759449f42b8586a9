package testfixtures

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/example/recruitd/internal/persistence"
	"github.com/example/recruitd/internal/persistence/sqlite"
)

// SQLiteHarness provides repository access backed by a temporary SQLite
// database for integration-style persistence tests.
type SQLiteHarness struct {
	Pool        *sqlite.ConnectionPool
	Requests    persistence.RequestRepository
	Candidates  persistence.CandidateRepository
	Setups      persistence.SetupRepository
	Slots       persistence.SlotRepository
	Interviews  persistence.InterviewRepository
	Evaluations persistence.EvaluationRepository
	Activity    persistence.ActivityLogRepository
	Documents   persistence.DocumentRepository
	Messages    persistence.MessageRepository
	Passes      persistence.PassRepository

	cleanup func()
}

// Close releases resources associated with the harness.
func (h *SQLiteHarness) Close() {
	if h != nil && h.cleanup != nil {
		h.cleanup()
		h.cleanup = nil
	}
}

// NewSQLiteHarness constructs a SQLiteHarness on a temporary database file
// that is migrated automatically. Callers may optionally invoke Close, but
// the helper also registers a cleanup callback with the provided testing.TB.
func NewSQLiteHarness(tb testing.TB) *SQLiteHarness {
	tb.Helper()

	dir := tb.TempDir()
	config := sqlite.DefaultConfig(filepath.Join(dir, "recruitd.db"))
	config.MaxOpenConns = 1

	pool, err := sqlite.NewConnectionPool(config)
	if err != nil {
		tb.Fatalf("failed to open pool: %v", err)
	}

	if err := pool.Migrate(context.Background()); err != nil {
		_ = pool.Close()
		tb.Fatalf("failed to migrate: %v", err)
	}

	harness := &SQLiteHarness{
		Pool:        pool,
		Requests:    sqlite.NewRequestRepository(pool),
		Candidates:  sqlite.NewCandidateRepository(pool),
		Setups:      sqlite.NewSetupRepository(pool),
		Slots:       sqlite.NewSlotRepository(pool),
		Interviews:  sqlite.NewInterviewRepository(pool),
		Evaluations: sqlite.NewEvaluationRepository(pool),
		Activity:    sqlite.NewActivityLogRepository(pool),
		Documents:   sqlite.NewDocumentRepository(pool),
		Messages:    sqlite.NewMailboxRepository(pool),
		Passes:      sqlite.NewPassRepository(pool),
		cleanup: func() {
			_ = pool.Close()
		},
	}

	tb.Cleanup(harness.Close)
	return harness
}
