package cashier

import (
	"time"

	"pet-care-ops/internal/domain/billing"
)

// Kind distingue de qué tabla salió el ítem de caja.
type Kind string

const (
	KindGrooming Kind = "grooming"
	KindStay     Kind = "stay"
)

func ValidKind(k Kind) bool {
	return k == KindGrooming || k == KindStay
}

// PendingChargeItem es una proyección de lectura: lo que la caja del día
// muestra por cada reserva con charge_date en la fecha pedida. No se
// persiste; se recalcula en cada consulta.
type PendingChargeItem struct {
	Kind Kind
	ID   string

	ClientID   string
	ClientName string
	PetName    string

	Description string
	Price       float64

	ServiceStatus string
	Payment       billing.PaymentStatus
	IsPaid        bool

	ScheduledAt time.Time

	// true cuando el servicio ya terminó (completed / checked_out):
	// esos cobran primero en la caja.
	serviceDone bool
}
