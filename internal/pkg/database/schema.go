package database

import (
	"context"
	"fmt"
	"log/slog"
)

// schemaStatements are applied in order at process start. Every statement
// must be idempotent.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS employees (
		id            UUID PRIMARY KEY,
		name          VARCHAR(200) NOT NULL,
		handle        VARCHAR(60) NULL UNIQUE,
		email         VARCHAR(200) NULL UNIQUE,
		password_hash VARCHAR(255) NULL,
		role          VARCHAR(10) NOT NULL DEFAULT 'user' CHECK (role IN ('user', 'admin')),
		created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS schedules (
		employee_id       UUID PRIMARY KEY REFERENCES employees(id) ON DELETE CASCADE ON UPDATE CASCADE,
		entry_time        TIME NOT NULL,
		exit_time         TIME NOT NULL,
		lunch_start       TIME NULL,
		lunch_end         TIME NULL,
		tolerance_minutes INT NOT NULL DEFAULT 5 CHECK (tolerance_minutes >= 0),
		overtime_start    TIME NULL,
		created_at        TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at        TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS attendance_events (
		id          UUID PRIMARY KEY,
		employee_id UUID NOT NULL REFERENCES employees(id) ON DELETE CASCADE ON UPDATE CASCADE,
		date        DATE NOT NULL,
		action      VARCHAR(20) NOT NULL CHECK (action IN ('entry', 'exit', 'lunch_start', 'lunch_end')),
		time        TIME(0) NOT NULL,
		note        VARCHAR(500) NULL,
		created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		CONSTRAINT uk_attendance_event UNIQUE (employee_id, date, action, time)
	)`,
	`CREATE INDEX IF NOT EXISTS ix_attendance_events_employee_date ON attendance_events (employee_id, date)`,
	`CREATE TABLE IF NOT EXISTS justifications (
		id          UUID PRIMARY KEY,
		employee_id UUID NOT NULL REFERENCES employees(id) ON DELETE CASCADE ON UPDATE CASCADE,
		date        DATE NOT NULL,
		type        VARCHAR(20) NOT NULL CHECK (type IN ('late_arrival', 'early_departure', 'late_departure', 'early_lunch', 'late_lunch', 'other')),
		description VARCHAR(500) NOT NULL CHECK (length(trim(description)) > 0),
		created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS ix_justifications_employee_date ON justifications (employee_id, date)`,
	`CREATE TABLE IF NOT EXISTS refresh_tokens (
		id          BIGSERIAL PRIMARY KEY,
		employee_id UUID NOT NULL REFERENCES employees(id) ON DELETE CASCADE,
		token_hash  VARCHAR(64) NOT NULL,
		expires_at  TIMESTAMPTZ NOT NULL,
		revoked_at  TIMESTAMPTZ NULL,
		user_agent  TEXT NULL,
		ip_address  VARCHAR(64) NULL,
		created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS ix_refresh_tokens_hash ON refresh_tokens (token_hash)`,
}

// EnsureSchema creates the tables the service needs. It runs once at start
// up, never per request.
func (db *DB) EnsureSchema(ctx context.Context) error {
	tx, err := db.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("begin schema transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	for i, stmt := range schemaStatements {
		if _, err := tx.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("schema statement %d: %w", i, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit schema: %w", err)
	}

	slog.Info("Database schema ensured", "statements", len(schemaStatements))
	return nil
}
