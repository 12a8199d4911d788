package grooming

import (
	"time"

	"pet-care-ops/internal/domain/billing"
	"pet-care-ops/internal/domain/catalog"
)

// Appointment es un turno de grooming. Nunca se borra: se cancela.
type Appointment struct {
	ID string

	ClientID string
	PetID    string

	Service catalog.ServiceType
	// Style es obligatorio cuando Service incluye corte.
	Style string

	StartTime time.Time
	EndTime   time.Time

	Price     float64
	AddonIDs  []string
	Logistics catalog.LogisticsChoice

	Status BookingStatus
	Stage  WorkflowStage

	Payment       billing.PaymentStatus
	PaymentMethod billing.PaymentMethod
	PaidAt        *time.Time

	// Si el turno se fondeó con plan prepago.
	IsPlanUsage  bool
	ClientPlanID string
	PlanUnits    int

	// ChargeDate agrupa el turno en la caja de un día; por defecto la
	// fecha de StartTime pero puede pisarse.
	ChargeDate time.Time

	// Referencia del evento en el calendario externo (best-effort).
	CalendarEventID string

	Notes string

	CreatedAt time.Time
	UpdatedAt time.Time
}
