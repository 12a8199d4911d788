package catalog

import (
	"context"
	"errors"

	"pet-care-ops/internal/domain/pets"
)

var ErrNotFound = errors.New("not found")

// Repository es acceso de solo lectura a los catálogos de precios.
// El recargo de logística se resuelve por mapa explícito choice→addon,
// no por substring en el nombre del addon.
type Repository interface {
	ListPriceRules(ctx context.Context, service ServiceType) ([]PriceRule, error)

	GetAddon(ctx context.Context, id string) (Addon, error)
	ListAddons(ctx context.Context) ([]Addon, error)
	// GetLogisticsAddon devuelve el addon de recargo para la combinación,
	// o ok=false si la combinación no tiene recargo configurado.
	GetLogisticsAddon(ctx context.Context, choice LogisticsChoice) (Addon, bool, error)

	// GetBoardingRate devuelve ok=false si no hay tarifa para ese porte.
	GetBoardingRate(ctx context.Context, size pets.SizeCategory) (BoardingRate, bool, error)

	GetPlanDefinition(ctx context.Context, id string) (PlanDefinition, error)
	ListPlanDefinitions(ctx context.Context) ([]PlanDefinition, error)
}
