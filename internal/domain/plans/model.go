package plans

import (
	"time"

	"pet-care-ops/internal/domain/catalog"
)

// ClientPlan es una instancia de plan prepago comprada por un cliente
// para una mascota. Nunca se borra: expira o se agota.
// Invariante: 0 ≤ UsedUnits ≤ TotalUnits, mutado solo por Redeem/Revert.
type ClientPlan struct {
	ID string

	ClientID         string
	PetID            string
	PlanDefinitionID string

	Service    catalog.PlanService
	TotalUnits int
	UsedUnits  int

	PurchasedAt time.Time
	ExpiresAt   time.Time
	Active      bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Remaining son las unidades disponibles.
func (p ClientPlan) Remaining() int {
	return p.TotalUnits - p.UsedUnits
}

// Applicable indica si el plan puede fondear un servicio en el instante dado.
func (p ClientPlan) Applicable(service catalog.PlanService, now time.Time) bool {
	return p.Active &&
		p.Service == service &&
		p.ExpiresAt.After(now) &&
		p.Remaining() > 0
}
