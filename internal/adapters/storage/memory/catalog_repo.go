package memory

import (
	"context"
	"sync"

	"pet-care-ops/internal/domain/catalog"
	"pet-care-ops/internal/domain/pets"
)

// CatalogData es el contenido con el que se arma el catálogo in-memory
// (en dev se carga DemoCatalog; en tests cada paquete arma el suyo).
type CatalogData struct {
	PriceRules      []catalog.PriceRule
	Addons          []catalog.Addon
	Logistics       map[catalog.LogisticsChoice]string // choice → addon id
	BoardingRates   []catalog.BoardingRate
	PlanDefinitions []catalog.PlanDefinition
}

type catalogRepo struct {
	mu   sync.RWMutex
	data CatalogData
}

func NewCatalogRepo(data CatalogData) catalog.Repository {
	if data.Logistics == nil {
		data.Logistics = map[catalog.LogisticsChoice]string{}
	}
	return &catalogRepo{data: data}
}

func (r *catalogRepo) ListPriceRules(ctx context.Context, service catalog.ServiceType) ([]catalog.PriceRule, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]catalog.PriceRule, 0)
	for _, rule := range r.data.PriceRules {
		if rule.Service == service {
			out = append(out, rule)
		}
	}
	return out, nil
}

func (r *catalogRepo) GetAddon(ctx context.Context, id string) (catalog.Addon, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, a := range r.data.Addons {
		if a.ID == id {
			return a, nil
		}
	}
	return catalog.Addon{}, catalog.ErrNotFound
}

func (r *catalogRepo) ListAddons(ctx context.Context) ([]catalog.Addon, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]catalog.Addon, len(r.data.Addons))
	copy(out, r.data.Addons)
	return out, nil
}

func (r *catalogRepo) GetLogisticsAddon(ctx context.Context, choice catalog.LogisticsChoice) (catalog.Addon, bool, error) {
	r.mu.RLock()
	id, ok := r.data.Logistics[choice]
	r.mu.RUnlock()
	if !ok {
		return catalog.Addon{}, false, nil
	}

	a, err := r.GetAddon(ctx, id)
	if err != nil {
		return catalog.Addon{}, false, nil
	}
	return a, true, nil
}

func (r *catalogRepo) GetBoardingRate(ctx context.Context, size pets.SizeCategory) (catalog.BoardingRate, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, rate := range r.data.BoardingRates {
		if rate.Size == size {
			return rate, true, nil
		}
	}
	return catalog.BoardingRate{}, false, nil
}

func (r *catalogRepo) GetPlanDefinition(ctx context.Context, id string) (catalog.PlanDefinition, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, d := range r.data.PlanDefinitions {
		if d.ID == id {
			return d, nil
		}
	}
	return catalog.PlanDefinition{}, catalog.ErrNotFound
}

func (r *catalogRepo) ListPlanDefinitions(ctx context.Context) ([]catalog.PlanDefinition, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]catalog.PlanDefinition, len(r.data.PlanDefinitions))
	copy(out, r.data.PlanDefinitions)
	return out, nil
}

// DemoCatalog es el catálogo de arranque para el modo dev in-memory.
func DemoCatalog() CatalogData {
	return CatalogData{
		PriceRules: []catalog.PriceRule{
			{ID: "pr-poodle", Breed: "Poodle", Coat: pets.CoatLong, Service: catalog.ServiceBathGrooming, Price: 90, Active: true},
			{ID: "pr-small-bath", Size: pets.SizeSmall, Service: catalog.ServiceBath, Price: 45, Active: true},
			{ID: "pr-medium-bath", Size: pets.SizeMedium, Service: catalog.ServiceBath, Price: 55, Active: true},
			{ID: "pr-large-long", Size: pets.SizeLarge, Coat: pets.CoatLong, Service: catalog.ServiceBathGrooming, Price: 120, Active: true},
		},
		Addons: []catalog.Addon{
			{ID: "ad-nails", Name: "Nail trim", Price: 10, Active: true},
			{ID: "ad-teeth", Name: "Teeth brushing", Price: 8, Active: true},
			{ID: "ad-perfume", Name: "Perfume", Price: 5, Active: true},
			{ID: "ad-pickup", Name: "Pickup", Price: 12, Active: true},
			{ID: "ad-delivery", Name: "Delivery", Price: 12, Active: true},
			{ID: "ad-pickup-delivery", Name: "Pickup + delivery", Price: 20, Active: true},
		},
		Logistics: map[catalog.LogisticsChoice]string{
			catalog.LogisticsOwnerToShop: "ad-delivery",
			catalog.LogisticsShopToOwner: "ad-pickup",
			catalog.LogisticsShopBoth:    "ad-pickup-delivery",
		},
		BoardingRates: []catalog.BoardingRate{
			{Size: pets.SizeSmall, DailyRate: 70},
			{Size: pets.SizeMedium, DailyRate: 85},
			{Size: pets.SizeLarge, DailyRate: 100},
		},
		PlanDefinitions: []catalog.PlanDefinition{
			{
				ID: "pd-bath-4", Name: "4 baths / month", Service: catalog.PlanGrooming,
				TotalUnits: 4, Price: 160, ValidityDays: 30,
				IncludedAddons: []catalog.PlanAddon{{AddonID: "ad-perfume", Quantity: 4}},
			},
			{
				ID: "pd-daycare-10", Name: "10 daycare days", Service: catalog.PlanDaycare,
				TotalUnits: 10, Price: 600, ValidityDays: 60,
			},
		},
	}
}
