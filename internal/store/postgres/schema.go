package postgres

import (
	"context"

	"github.com/uptrace/bun"
)

// The bookings unique constraint is the authority for the one-booking-per-
// slot invariant; repository code translates violations of it, so its name
// is part of the storage contract.
const BookingSlotConstraint = "bookings_provider_slot_key"

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS schedule_configs (
		provider_id      text PRIMARY KEY,
		start_time       time NOT NULL,
		end_time         time NOT NULL,
		interval_minutes integer NOT NULL CHECK (interval_minutes > 0),
		created_at       timestamptz NOT NULL,
		updated_at       timestamptz NOT NULL,
		CHECK (start_time < end_time)
	)`,
	`CREATE TABLE IF NOT EXISTS closed_slots (
		provider_id text NOT NULL,
		slot_date   date NOT NULL,
		slot_time   time NOT NULL,
		created_at  timestamptz NOT NULL,
		CONSTRAINT closed_slots_provider_slot_key UNIQUE (provider_id, slot_date, slot_time)
	)`,
	`CREATE TABLE IF NOT EXISTS bookings (
		id           uuid PRIMARY KEY,
		provider_id  text NOT NULL,
		requester_id text NOT NULL,
		slot_date    date NOT NULL,
		slot_time    time NOT NULL,
		created_at   timestamptz NOT NULL,
		CONSTRAINT bookings_provider_slot_key UNIQUE (provider_id, slot_date, slot_time)
	)`,
	`CREATE INDEX IF NOT EXISTS bookings_requester_slot_idx
		ON bookings (requester_id, slot_date, slot_time)`,
}

// Migrate applies the schema. Statements are idempotent, so running against
// an up-to-date database is harmless.
func Migrate(ctx context.Context, db bun.IDB) error {
	for _, stmt := range schemaStatements {
		if _, err := db.NewRaw(stmt).Exec(ctx); err != nil {
			return err
		}
	}
	return nil
}
