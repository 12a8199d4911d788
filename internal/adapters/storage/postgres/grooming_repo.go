package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"pet-care-ops/internal/domain/billing"
	"pet-care-ops/internal/domain/catalog"
	"pet-care-ops/internal/domain/grooming"
)

type GroomingRepo struct {
	db *sql.DB
}

func NewGroomingRepo(db *sql.DB) *GroomingRepo {
	return &GroomingRepo{db: db}
}

const groomingColumns = `
	id, client_id, pet_id, service, style,
	start_time, end_time, price, addon_ids, logistics,
	status, stage, payment, payment_method, paid_at,
	is_plan_usage, client_plan_id, plan_units,
	charge_date, calendar_event_id, notes,
	created_at, updated_at`

func (r *GroomingRepo) Create(ctx context.Context, a grooming.Appointment) error {
	addonIDs, err := json.Marshal(a.AddonIDs)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO grooming_appointments (`+groomingColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22,$23)
	`,
		a.ID,
		a.ClientID,
		a.PetID,
		string(a.Service),
		a.Style,
		a.StartTime,
		a.EndTime,
		a.Price,
		addonIDs,
		string(a.Logistics),
		string(a.Status),
		string(a.Stage),
		string(a.Payment),
		string(a.PaymentMethod),
		toNullTime(a.PaidAt),
		a.IsPlanUsage,
		nullString(a.ClientPlanID),
		a.PlanUnits,
		a.ChargeDate,
		a.CalendarEventID,
		a.Notes,
		a.CreatedAt,
		a.UpdatedAt,
	)
	return err
}

func (r *GroomingRepo) GetByID(ctx context.Context, id string) (grooming.Appointment, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+groomingColumns+` FROM grooming_appointments WHERE id = $1`, id)

	a, err := scanAppointment(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return grooming.Appointment{}, grooming.ErrNotFound
		}
		return grooming.Appointment{}, err
	}
	return a, nil
}

func (r *GroomingRepo) Update(ctx context.Context, a grooming.Appointment) error {
	addonIDs, err := json.Marshal(a.AddonIDs)
	if err != nil {
		return err
	}

	res, err := r.db.ExecContext(ctx, `
		UPDATE grooming_appointments
		SET service = $2, style = $3,
		    start_time = $4, end_time = $5,
		    price = $6, addon_ids = $7, logistics = $8,
		    status = $9, stage = $10,
		    payment = $11, payment_method = $12, paid_at = $13,
		    is_plan_usage = $14, client_plan_id = $15, plan_units = $16,
		    charge_date = $17, calendar_event_id = $18, notes = $19,
		    updated_at = $20
		WHERE id = $1
	`,
		a.ID,
		string(a.Service),
		a.Style,
		a.StartTime,
		a.EndTime,
		a.Price,
		addonIDs,
		string(a.Logistics),
		string(a.Status),
		string(a.Stage),
		string(a.Payment),
		string(a.PaymentMethod),
		toNullTime(a.PaidAt),
		a.IsPlanUsage,
		nullString(a.ClientPlanID),
		a.PlanUnits,
		a.ChargeDate,
		a.CalendarEventID,
		a.Notes,
		a.UpdatedAt,
	)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return grooming.ErrNotFound
	}
	return nil
}

func (r *GroomingRepo) ListByChargeDate(ctx context.Context, date time.Time) ([]grooming.Appointment, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+groomingColumns+`
		 FROM grooming_appointments
		 WHERE charge_date = $1
		 ORDER BY start_time ASC`,
		date.Format(time.DateOnly))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]grooming.Appointment, 0)
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *GroomingRepo) SetCalendarEventID(ctx context.Context, id, externalID string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE grooming_appointments SET calendar_event_id = $2 WHERE id = $1
	`, id, externalID)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return grooming.ErrNotFound
	}
	return nil
}

func scanAppointment(row rowScanner) (grooming.Appointment, error) {
	var a grooming.Appointment
	var (
		service, logistics, status, stage, payment, method string
		addonIDs                                           []byte
		paidAt                                             sql.NullTime
		planID                                             sql.NullString
	)
	if err := row.Scan(
		&a.ID,
		&a.ClientID,
		&a.PetID,
		&service,
		&a.Style,
		&a.StartTime,
		&a.EndTime,
		&a.Price,
		&addonIDs,
		&logistics,
		&status,
		&stage,
		&payment,
		&method,
		&paidAt,
		&a.IsPlanUsage,
		&planID,
		&a.PlanUnits,
		&a.ChargeDate,
		&a.CalendarEventID,
		&a.Notes,
		&a.CreatedAt,
		&a.UpdatedAt,
	); err != nil {
		return grooming.Appointment{}, err
	}

	a.Service = catalog.ServiceType(service)
	a.Logistics = catalog.LogisticsChoice(logistics)
	a.Status = grooming.BookingStatus(status)
	a.Stage = grooming.WorkflowStage(stage)
	a.Payment = billing.PaymentStatus(payment)
	a.PaymentMethod = billing.PaymentMethod(method)
	if paidAt.Valid {
		t := paidAt.Time
		a.PaidAt = &t
	}
	if planID.Valid {
		a.ClientPlanID = planID.String
	}
	if len(addonIDs) > 0 {
		if err := json.Unmarshal(addonIDs, &a.AddonIDs); err != nil {
			return grooming.Appointment{}, err
		}
	}
	return a, nil
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
