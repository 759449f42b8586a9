package sqlite

import (
	"context"
	"fmt"
)

// schemaStatements holds the DDL applied by Migrate, in dependency order.
// Human-readable numbers carry UNIQUE constraints as the store-level backstop
// for the count-then-insert numbering contract.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS recruitment_requests (
		id TEXT PRIMARY KEY,
		number TEXT NOT NULL UNIQUE,
		position_title TEXT NOT NULL,
		department TEXT NOT NULL,
		employment_type TEXT NOT NULL DEFAULT '',
		headcount INTEGER NOT NULL CHECK (headcount > 0),
		salary_band TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL CHECK (status IN ('pending','approved','rejected','filled','cancelled')),
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS request_approvals (
		request_id TEXT NOT NULL REFERENCES recruitment_requests(id),
		approval_type TEXT NOT NULL CHECK (approval_type IN ('requisition','budget','offer')),
		status TEXT NOT NULL,
		approver TEXT NOT NULL DEFAULT '',
		decided_at TEXT,
		PRIMARY KEY (request_id, approval_type)
	)`,
	`CREATE TABLE IF NOT EXISTS candidates (
		id TEXT PRIMARY KEY,
		number TEXT NOT NULL UNIQUE,
		request_id TEXT NOT NULL REFERENCES recruitment_requests(id),
		full_name TEXT NOT NULL,
		email TEXT NOT NULL DEFAULT '',
		phone TEXT NOT NULL DEFAULT '',
		stage TEXT NOT NULL,
		status TEXT NOT NULL,
		stage_changed_at TEXT NOT NULL,
		rejection_reason TEXT,
		cv_match INTEGER,
		skills_match INTEGER,
		hr_rating INTEGER,
		manager_rating INTEGER,
		pass_number TEXT,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS interview_setups (
		id TEXT PRIMARY KEY,
		request_id TEXT NOT NULL UNIQUE REFERENCES recruitment_requests(id),
		rounds INTEGER NOT NULL CHECK (rounds > 0),
		format TEXT NOT NULL DEFAULT '',
		assessment_required INTEGER NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS setup_interviewers (
		setup_id TEXT NOT NULL REFERENCES interview_setups(id),
		interviewer TEXT NOT NULL,
		PRIMARY KEY (setup_id, interviewer)
	)`,
	`CREATE TABLE IF NOT EXISTS interview_slots (
		id TEXT PRIMARY KEY,
		setup_id TEXT NOT NULL REFERENCES interview_setups(id),
		slot_date TEXT NOT NULL,
		start_time TEXT NOT NULL,
		end_time TEXT NOT NULL,
		round_number INTEGER NOT NULL CHECK (round_number > 0),
		status TEXT NOT NULL CHECK (status IN ('available','booked','cancelled')),
		booked_by_candidate_id TEXT REFERENCES candidates(id),
		booked_at TEXT,
		candidate_confirmed INTEGER NOT NULL DEFAULT 0,
		candidate_confirmed_at TEXT,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_interview_slots_setup
		ON interview_slots (setup_id, status, slot_date, start_time)`,
	`CREATE TABLE IF NOT EXISTS interviews (
		id TEXT PRIMARY KEY,
		number TEXT NOT NULL UNIQUE,
		candidate_id TEXT NOT NULL REFERENCES candidates(id),
		request_id TEXT NOT NULL REFERENCES recruitment_requests(id),
		slot_id TEXT NOT NULL UNIQUE REFERENCES interview_slots(id),
		round_type TEXT NOT NULL DEFAULT '',
		scheduled_at TEXT NOT NULL,
		created_at TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS evaluations (
		id TEXT PRIMARY KEY,
		number TEXT NOT NULL UNIQUE,
		interview_id TEXT NOT NULL REFERENCES interviews(id),
		candidate_id TEXT NOT NULL REFERENCES candidates(id),
		evaluator TEXT NOT NULL DEFAULT '',
		technical_score INTEGER NOT NULL CHECK (technical_score BETWEEN 1 AND 5),
		communication_score INTEGER NOT NULL CHECK (communication_score BETWEEN 1 AND 5),
		culture_score INTEGER NOT NULL CHECK (culture_score BETWEEN 1 AND 5),
		overall_score INTEGER NOT NULL CHECK (overall_score BETWEEN 1 AND 5),
		recommendation TEXT NOT NULL CHECK (recommendation IN ('strong_hire','hire','maybe','no_hire')),
		notes TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS documents (
		id TEXT PRIMARY KEY,
		request_id TEXT NOT NULL REFERENCES recruitment_requests(id),
		doc_type TEXT NOT NULL,
		title TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS messages (
		id TEXT PRIMARY KEY,
		holder_type TEXT NOT NULL,
		holder_id TEXT NOT NULL,
		subject TEXT NOT NULL DEFAULT '',
		body TEXT NOT NULL DEFAULT '',
		read_at TEXT,
		created_at TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_messages_holder
		ON messages (holder_type, holder_id, read_at)`,
	`CREATE TABLE IF NOT EXISTS activity_log (
		id TEXT PRIMARY KEY,
		entity_type TEXT NOT NULL,
		entity_id TEXT NOT NULL,
		stage TEXT NOT NULL DEFAULT '',
		action_type TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		performed_by TEXT NOT NULL DEFAULT '',
		visibility TEXT NOT NULL CHECK (visibility IN ('internal','candidate','manager')),
		created_at TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_activity_entity
		ON activity_log (entity_type, entity_id, created_at)`,
	`CREATE TABLE IF NOT EXISTS pass_credentials (
		id TEXT PRIMARY KEY,
		kind TEXT NOT NULL CHECK (kind IN ('candidate','manager')),
		subject_id TEXT NOT NULL,
		secret_digest TEXT NOT NULL,
		expires_at TEXT NOT NULL,
		revoked_at TEXT,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,
}

// Migrate applies the schema. Every statement is idempotent, so running
// Migrate on an existing database is safe.
func (cp *ConnectionPool) Migrate(ctx context.Context) error {
	for _, statement := range schemaStatements {
		if _, err := cp.db.ExecContext(ctx, statement); err != nil {
			return fmt.Errorf("sqlite: apply schema: %w", err)
		}
	}
	return nil
}
