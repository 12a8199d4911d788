package catalog

import "pet-care-ops/internal/domain/pets"

// ServiceType es el servicio de grooming solicitado.
type ServiceType string

const (
	ServiceBath         ServiceType = "bath"
	ServiceBathGrooming ServiceType = "bath_grooming"
)

func ValidService(s ServiceType) bool {
	switch s {
	case ServiceBath, ServiceBathGrooming:
		return true
	default:
		return false
	}
}

// PlanService es el tipo de servicio que cubre un plan prepago.
type PlanService string

const (
	PlanGrooming PlanService = "grooming"
	PlanDaycare  PlanService = "daycare"
)

// PriceRule es una regla de precio de grooming. Los campos opcionales
// vacíos significan "no restringe": una regla con Breed seteado es más
// específica que una que solo fija Size.
type PriceRule struct {
	ID string

	Breed   string            // opcional, match exacto case-insensitive
	Size    pets.SizeCategory // opcional
	Coat    pets.CoatType     // opcional
	Service ServiceType

	Price  float64
	Active bool
}

// Addon es un servicio adicional del catálogo (corte de uñas, perfume, etc).
type Addon struct {
	ID     string
	Name   string
	Price  float64
	Active bool
}

// LogisticsChoice son las cuatro combinaciones de quién lleva y quién
// trae a la mascota. Cada una puede mapear a lo sumo a un addon de recargo.
type LogisticsChoice string

const (
	LogisticsOwnerBoth    LogisticsChoice = "owner_owner"
	LogisticsOwnerToShop  LogisticsChoice = "owner_company"
	LogisticsShopToOwner  LogisticsChoice = "company_owner"
	LogisticsShopBoth     LogisticsChoice = "company_company"
)

func ValidLogistics(c LogisticsChoice) bool {
	switch c {
	case LogisticsOwnerBoth, LogisticsOwnerToShop, LogisticsShopToOwner, LogisticsShopBoth:
		return true
	default:
		return false
	}
}

// BoardingRate es la tarifa diaria de hospedaje/guardería por porte.
type BoardingRate struct {
	Size      pets.SizeCategory
	DailyRate float64
}

// PlanAddon es un addon incluido en la definición de un plan.
type PlanAddon struct {
	AddonID  string
	Quantity int
}

// PlanDefinition es la definición comercial de un plan prepago.
type PlanDefinition struct {
	ID   string
	Name string

	Service      PlanService
	TotalUnits   int
	Price        float64
	ValidityDays int

	IncludedAddons []PlanAddon
}
