package grooming

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, a Appointment) error
	GetByID(ctx context.Context, id string) (Appointment, error)
	Update(ctx context.Context, a Appointment) error
	// ListByChargeDate devuelve los turnos cuyo charge_date cae en el
	// día calendario de date (la hora se ignora).
	ListByChargeDate(ctx context.Context, date time.Time) ([]Appointment, error)
	// SetCalendarEventID es el write best-effort posterior al notifier.
	SetCalendarEventID(ctx context.Context, id, externalID string) error
}
