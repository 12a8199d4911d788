package boarding

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, st Stay) error
	GetByID(ctx context.Context, id string) (Stay, error)
	Update(ctx context.Context, st Stay) error
	// ListByChargeDate devuelve las estadías cuyo charge_date cae en el
	// día calendario de date.
	ListByChargeDate(ctx context.Context, date time.Time) ([]Stay, error)
	SetCalendarEventID(ctx context.Context, id, externalID string) error
}
