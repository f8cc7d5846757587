package domain

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// ScheduleConfig is a provider's working-hours window and slot interval.
// There is at most one per provider; no config means no bookable slots.
type ScheduleConfig struct {
	bun.BaseModel `bun:"table:schedule_configs"`

	ProviderID      string    `bun:"provider_id,pk"`
	Start           TimeOfDay `bun:"start_time,notnull"`
	End             TimeOfDay `bun:"end_time,notnull"`
	IntervalMinutes int       `bun:"interval_minutes,notnull"`
	CreatedAt       time.Time `bun:"created_at,notnull"`
	UpdatedAt       time.Time `bun:"updated_at,notnull"`
}

func (c *ScheduleConfig) BeforeAppendModel(ctx context.Context, query bun.Query) error {
	now := time.Now().UTC()
	switch query.(type) {
	case *bun.InsertQuery:
		if c.CreatedAt.IsZero() {
			c.CreatedAt = now
		}
		if c.UpdatedAt.IsZero() {
			c.UpdatedAt = now
		}
	case *bun.UpdateQuery:
		c.UpdatedAt = now
	}
	return nil
}

func (c ScheduleConfig) Validate() error {
	if !c.Start.Before(c.End) {
		return errors.New("start_time must be before end_time")
	}
	if c.IntervalMinutes <= 0 {
		return errors.New("interval_minutes must be positive")
	}
	return nil
}

// ClosedSlot marks one (provider, date, time) as administratively withdrawn
// from offer. It is independent of any booking on the same slot.
type ClosedSlot struct {
	bun.BaseModel `bun:"table:closed_slots"`

	ProviderID string    `bun:"provider_id,notnull"`
	Date       Date      `bun:"slot_date,notnull"`
	Time       TimeOfDay `bun:"slot_time,notnull"`
	CreatedAt  time.Time `bun:"created_at,notnull"`
}

func (c *ClosedSlot) BeforeAppendModel(ctx context.Context, query bun.Query) error {
	if _, ok := query.(*bun.InsertQuery); ok && c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}
	return nil
}

// Booking is a confirmed reservation of one slot by one requester. Bookings
// are never mutated; a reschedule is a cancel plus a new create.
type Booking struct {
	bun.BaseModel `bun:"table:bookings"`

	ID          uuid.UUID `bun:"id,pk,type:uuid"`
	ProviderID  string    `bun:"provider_id,notnull"`
	RequesterID string    `bun:"requester_id,notnull"`
	Date        Date      `bun:"slot_date,notnull"`
	Time        TimeOfDay `bun:"slot_time,notnull"`
	CreatedAt   time.Time `bun:"created_at,notnull"`
}

func (b *Booking) BeforeAppendModel(ctx context.Context, query bun.Query) error {
	if _, ok := query.(*bun.InsertQuery); ok {
		if b.ID == uuid.Nil {
			id, err := uuid.NewV7()
			if err != nil {
				return err
			}
			b.ID = id
		}
		if b.CreatedAt.IsZero() {
			b.CreatedAt = time.Now().UTC()
		}
	}
	return nil
}
