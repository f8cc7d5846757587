package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/uptrace/bun"

	"github.com/esmabetulkocaahmet/dis-hekimi-randevu-sistemi/internal/domain"
	"github.com/esmabetulkocaahmet/dis-hekimi-randevu-sistemi/internal/store"
)

type ScheduleRepo struct {
	db *bun.DB
}

func NewScheduleRepo(db *bun.DB) *ScheduleRepo {
	return &ScheduleRepo{db: db}
}

func (r *ScheduleRepo) GetConfig(ctx context.Context, providerID string) (domain.ScheduleConfig, error) {
	var row domain.ScheduleConfig
	err := r.db.NewSelect().
		Model(&row).
		Where("provider_id = ?", providerID).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ScheduleConfig{}, store.ErrNotFound
		}
		return domain.ScheduleConfig{}, err
	}
	return row, nil
}

// UpsertConfig replaces the provider's working-hours window. The new config
// takes effect immediately for any subsequent slot computation.
func (r *ScheduleRepo) UpsertConfig(ctx context.Context, cfg domain.ScheduleConfig) (domain.ScheduleConfig, error) {
	m := cfg
	_, err := r.db.NewInsert().
		Model(&m).
		On("CONFLICT (provider_id) DO UPDATE").
		Set("start_time = EXCLUDED.start_time").
		Set("end_time = EXCLUDED.end_time").
		Set("interval_minutes = EXCLUDED.interval_minutes").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	if err != nil {
		return domain.ScheduleConfig{}, err
	}
	return m, nil
}

func (r *ScheduleRepo) SetClosed(ctx context.Context, providerID string, date domain.Date, t domain.TimeOfDay, closed bool) error {
	if closed {
		m := domain.ClosedSlot{
			ProviderID: providerID,
			Date:       date,
			Time:       t,
		}
		_, err := r.db.NewInsert().
			Model(&m).
			On("CONFLICT (provider_id, slot_date, slot_time) DO NOTHING").
			Exec(ctx)
		return err
	}

	_, err := r.db.NewDelete().
		Model((*domain.ClosedSlot)(nil)).
		Where("provider_id = ?", providerID).
		Where("slot_date = ?", date).
		Where("slot_time = ?", t).
		Exec(ctx)
	return err
}

func (r *ScheduleRepo) ListClosedTimes(ctx context.Context, providerID string, date domain.Date) ([]domain.TimeOfDay, error) {
	var rows []domain.ClosedSlot
	err := r.db.NewSelect().
		Model(&rows).
		Column("slot_time").
		Where("provider_id = ?", providerID).
		Where("slot_date = ?", date).
		OrderExpr("slot_time ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	times := make([]domain.TimeOfDay, 0, len(rows))
	for _, c := range rows {
		times = append(times, c.Time)
	}
	return times, nil
}
