package postgres

import (
	"context"
	"database/sql"
	"time"

	"pet-care-ops/internal/domain/billing"
	"pet-care-ops/internal/domain/boarding"
)

type StaysRepo struct {
	db *sql.DB
}

func NewStaysRepo(db *sql.DB) *StaysRepo {
	return &StaysRepo{db: db}
}

const stayColumns = `
	id, client_id, pet_id, check_in, check_out,
	daily_rate, total_price, is_daycare,
	status, payment, payment_method, paid_at,
	is_plan_usage, client_plan_id, plan_units,
	charge_date, calendar_event_id, notes,
	created_at, updated_at`

func (r *StaysRepo) Create(ctx context.Context, st boarding.Stay) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO stays (`+stayColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20)
	`,
		st.ID,
		st.ClientID,
		st.PetID,
		st.CheckIn,
		st.CheckOut,
		st.DailyRate,
		st.TotalPrice,
		st.IsDaycare,
		string(st.Status),
		string(st.Payment),
		string(st.PaymentMethod),
		toNullTime(st.PaidAt),
		st.IsPlanUsage,
		nullString(st.ClientPlanID),
		st.PlanUnits,
		st.ChargeDate,
		st.CalendarEventID,
		st.Notes,
		st.CreatedAt,
		st.UpdatedAt,
	)
	return err
}

func (r *StaysRepo) GetByID(ctx context.Context, id string) (boarding.Stay, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+stayColumns+` FROM stays WHERE id = $1`, id)

	st, err := scanStay(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return boarding.Stay{}, boarding.ErrNotFound
		}
		return boarding.Stay{}, err
	}
	return st, nil
}

func (r *StaysRepo) Update(ctx context.Context, st boarding.Stay) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE stays
		SET check_in = $2, check_out = $3,
		    daily_rate = $4, total_price = $5, is_daycare = $6,
		    status = $7, payment = $8, payment_method = $9, paid_at = $10,
		    is_plan_usage = $11, client_plan_id = $12, plan_units = $13,
		    charge_date = $14, calendar_event_id = $15, notes = $16,
		    updated_at = $17
		WHERE id = $1
	`,
		st.ID,
		st.CheckIn,
		st.CheckOut,
		st.DailyRate,
		st.TotalPrice,
		st.IsDaycare,
		string(st.Status),
		string(st.Payment),
		string(st.PaymentMethod),
		toNullTime(st.PaidAt),
		st.IsPlanUsage,
		nullString(st.ClientPlanID),
		st.PlanUnits,
		st.ChargeDate,
		st.CalendarEventID,
		st.Notes,
		st.UpdatedAt,
	)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return boarding.ErrNotFound
	}
	return nil
}

func (r *StaysRepo) ListByChargeDate(ctx context.Context, date time.Time) ([]boarding.Stay, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+stayColumns+`
		 FROM stays
		 WHERE charge_date = $1
		 ORDER BY check_out ASC`,
		date.Format(time.DateOnly))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]boarding.Stay, 0)
	for rows.Next() {
		st, err := scanStay(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, st)
	}
	return out, rows.Err()
}

func (r *StaysRepo) SetCalendarEventID(ctx context.Context, id, externalID string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE stays SET calendar_event_id = $2 WHERE id = $1
	`, id, externalID)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return boarding.ErrNotFound
	}
	return nil
}

func scanStay(row rowScanner) (boarding.Stay, error) {
	var st boarding.Stay
	var (
		status, payment, method string
		paidAt                  sql.NullTime
		planID                  sql.NullString
	)
	if err := row.Scan(
		&st.ID,
		&st.ClientID,
		&st.PetID,
		&st.CheckIn,
		&st.CheckOut,
		&st.DailyRate,
		&st.TotalPrice,
		&st.IsDaycare,
		&status,
		&payment,
		&method,
		&paidAt,
		&st.IsPlanUsage,
		&planID,
		&st.PlanUnits,
		&st.ChargeDate,
		&st.CalendarEventID,
		&st.Notes,
		&st.CreatedAt,
		&st.UpdatedAt,
	); err != nil {
		return boarding.Stay{}, err
	}

	st.Status = boarding.StayStatus(status)
	st.Payment = billing.PaymentStatus(payment)
	st.PaymentMethod = billing.PaymentMethod(method)
	if paidAt.Valid {
		t := paidAt.Time
		st.PaidAt = &t
	}
	if planID.Valid {
		st.ClientPlanID = planID.String
	}
	return st, nil
}
