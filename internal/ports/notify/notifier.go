package notify

import (
	"context"
	"time"
)

// Event es el payload legible que se manda al calendario externo.
type Event struct {
	Title      string
	ClientName string
	PetName    string
	StartsAt   time.Time
	EndsAt     time.Time
	Price      float64
	Addons     []string
	Notes      string
}

// CalendarNotifier avisa altas y bajas de reservas a un calendario
// externo. Es best-effort: un error acá nunca voltea la reserva ya
// confirmada; el id externo devuelto se persiste para poder cancelar.
type CalendarNotifier interface {
	BookingCreated(ctx context.Context, ev Event) (externalID string, err error)
	BookingCancelled(ctx context.Context, externalID string) error
}
