package boarding

import (
	"time"

	"pet-care-ops/internal/domain/billing"
)

// StayStatus es el ciclo de vida de una estadía de hospedaje/guardería.
// Lineal: reserved → checked_in → staying → checked_out. cancelled se
// alcanza desde cualquier estado no terminal.
type StayStatus string

const (
	StatusReserved   StayStatus = "reserved"
	StatusCheckedIn  StayStatus = "checked_in"
	StatusStaying    StayStatus = "staying"
	StatusCheckedOut StayStatus = "checked_out"
	StatusCancelled  StayStatus = "cancelled"
)

func (s StayStatus) Terminal() bool {
	return s == StatusCheckedOut || s == StatusCancelled
}

func (s StayStatus) next() StayStatus {
	switch s {
	case StatusReserved:
		return StatusCheckedIn
	case StatusCheckedIn:
		return StatusStaying
	case StatusStaying:
		return StatusCheckedOut
	default:
		return ""
	}
}

func (s StayStatus) CanAdvanceTo(next StayStatus) bool {
	return next != "" && s.next() == next
}

// Stay es una estadía de hospedaje o una visita de guardería (creche).
type Stay struct {
	ID string

	ClientID string
	PetID    string

	CheckIn  time.Time
	CheckOut time.Time

	DailyRate  float64
	TotalPrice float64
	IsDaycare  bool

	Status StayStatus

	Payment       billing.PaymentStatus
	PaymentMethod billing.PaymentMethod
	PaidAt        *time.Time

	IsPlanUsage  bool
	ClientPlanID string
	PlanUnits    int

	// ChargeDate agrupa la estadía en la caja de un día; por defecto la
	// fecha de CheckOut.
	ChargeDate time.Time

	CalendarEventID string

	Notes string

	CreatedAt time.Time
	UpdatedAt time.Time
}
