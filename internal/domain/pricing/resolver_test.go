package pricing

import (
	"context"
	"testing"
	"time"

	"pet-care-ops/internal/domain/catalog"
	"pet-care-ops/internal/domain/pets"
)

// -------------------------
// Catálogo de prueba
// -------------------------

type testCatalog struct {
	rules     []catalog.PriceRule
	addons    map[string]catalog.Addon
	logistics map[catalog.LogisticsChoice]string
	rates     map[pets.SizeCategory]float64
}

func newTestCatalog() *testCatalog {
	return &testCatalog{
		addons:    map[string]catalog.Addon{},
		logistics: map[catalog.LogisticsChoice]string{},
		rates:     map[pets.SizeCategory]float64{},
	}
}

func (c *testCatalog) ListPriceRules(ctx context.Context, service catalog.ServiceType) ([]catalog.PriceRule, error) {
	out := make([]catalog.PriceRule, 0)
	for _, r := range c.rules {
		if r.Service == service {
			out = append(out, r)
		}
	}
	return out, nil
}

func (c *testCatalog) GetAddon(ctx context.Context, id string) (catalog.Addon, error) {
	a, ok := c.addons[id]
	if !ok {
		return catalog.Addon{}, catalog.ErrNotFound
	}
	return a, nil
}

func (c *testCatalog) ListAddons(ctx context.Context) ([]catalog.Addon, error) {
	out := make([]catalog.Addon, 0, len(c.addons))
	for _, a := range c.addons {
		out = append(out, a)
	}
	return out, nil
}

func (c *testCatalog) GetLogisticsAddon(ctx context.Context, choice catalog.LogisticsChoice) (catalog.Addon, bool, error) {
	id, ok := c.logistics[choice]
	if !ok {
		return catalog.Addon{}, false, nil
	}
	a, ok := c.addons[id]
	return a, ok, nil
}

func (c *testCatalog) GetBoardingRate(ctx context.Context, size pets.SizeCategory) (catalog.BoardingRate, bool, error) {
	rate, ok := c.rates[size]
	if !ok {
		return catalog.BoardingRate{}, false, nil
	}
	return catalog.BoardingRate{Size: size, DailyRate: rate}, true, nil
}

func (c *testCatalog) GetPlanDefinition(ctx context.Context, id string) (catalog.PlanDefinition, error) {
	return catalog.PlanDefinition{}, catalog.ErrNotFound
}

func (c *testCatalog) ListPlanDefinitions(ctx context.Context) ([]catalog.PlanDefinition, error) {
	return nil, nil
}

// -------------------------
// Tests
// -------------------------

func TestResolveGrooming_BreedRuleWinsOverSizeRule(t *testing.T) {
	cat := newTestCatalog()
	cat.rules = []catalog.PriceRule{
		{ID: "r-size", Size: pets.SizeSmall, Service: catalog.ServiceBathGrooming, Price: 60, Active: true},
		{ID: "r-breed", Breed: "Poodle", Coat: pets.CoatLong, Service: catalog.ServiceBathGrooming, Price: 90, Active: true},
	}
	r := NewResolver(cat)

	b, err := r.ResolveGrooming(context.Background(), GroomingInput{
		Service: catalog.ServiceBathGrooming,
		Breed:   "poodle", // case-insensitive
		Size:    pets.SizeSmall,
		Coat:    pets.CoatLong,
	})
	if err != nil {
		t.Fatalf("ResolveGrooming error: %v", err)
	}
	if b.BasePrice != 90 {
		t.Fatalf("expected breed rule price 90, got %v", b.BasePrice)
	}
	if b.Total != 90 {
		t.Fatalf("expected total 90, got %v", b.Total)
	}
}

func TestResolveGrooming_FallbackFormula(t *testing.T) {
	r := NewResolver(newTestCatalog())

	// round(40 × 1.3) = 52
	b, err := r.ResolveGrooming(context.Background(), GroomingInput{
		Service: catalog.ServiceBath,
		Size:    pets.SizeMedium,
		Coat:    pets.CoatShort,
	})
	if err != nil {
		t.Fatalf("ResolveGrooming error: %v", err)
	}
	if b.BasePrice != 52 {
		t.Fatalf("expected fallback 52, got %v", b.BasePrice)
	}
}

func TestResolveGrooming_SizeCoatBeatsSizeOnly(t *testing.T) {
	cat := newTestCatalog()
	cat.rules = []catalog.PriceRule{
		{ID: "r-size", Size: pets.SizeLarge, Service: catalog.ServiceBath, Price: 55, Active: true},
		{ID: "r-size-coat", Size: pets.SizeLarge, Coat: pets.CoatLong, Service: catalog.ServiceBath, Price: 75, Active: true},
	}
	r := NewResolver(cat)

	b, err := r.ResolveGrooming(context.Background(), GroomingInput{
		Service: catalog.ServiceBath,
		Size:    pets.SizeLarge,
		Coat:    pets.CoatLong,
	})
	if err != nil {
		t.Fatalf("ResolveGrooming error: %v", err)
	}
	if b.BasePrice != 75 {
		t.Fatalf("expected size+coat rule 75, got %v", b.BasePrice)
	}

	// Con otro pelaje cae a la regla de solo porte.
	b, err = r.ResolveGrooming(context.Background(), GroomingInput{
		Service: catalog.ServiceBath,
		Size:    pets.SizeLarge,
		Coat:    pets.CoatShort,
	})
	if err != nil {
		t.Fatalf("ResolveGrooming error: %v", err)
	}
	if b.BasePrice != 55 {
		t.Fatalf("expected size rule 55, got %v", b.BasePrice)
	}
}

func TestResolveGrooming_AddonsAndLogistics(t *testing.T) {
	cat := newTestCatalog()
	cat.addons["a-nails"] = catalog.Addon{ID: "a-nails", Name: "Nail trim", Price: 10, Active: true}
	cat.addons["a-perfume"] = catalog.Addon{ID: "a-perfume", Name: "Perfume", Price: 5, Active: false}
	cat.addons["a-pickup"] = catalog.Addon{ID: "a-pickup", Name: "Pickup & delivery", Price: 15, Active: true}
	cat.logistics[catalog.LogisticsShopBoth] = "a-pickup"
	r := NewResolver(cat)

	b, err := r.ResolveGrooming(context.Background(), GroomingInput{
		Service:   catalog.ServiceBath,
		Size:      pets.SizeSmall,
		Coat:      pets.CoatShort,
		AddonIDs:  []string{"a-nails", "a-perfume"}, // inactivo no suma
		Logistics: catalog.LogisticsShopBoth,
	})
	if err != nil {
		t.Fatalf("ResolveGrooming error: %v", err)
	}
	if b.AddonsTotal != 10 {
		t.Fatalf("expected addons total 10, got %v", b.AddonsTotal)
	}
	if b.LogisticsSurcharge != 15 {
		t.Fatalf("expected surcharge 15, got %v", b.LogisticsSurcharge)
	}
	if b.Total != 40+10+15 {
		t.Fatalf("expected total 65, got %v", b.Total)
	}
}

func TestResolveGrooming_LogisticsWithoutMapping(t *testing.T) {
	r := NewResolver(newTestCatalog())

	b, err := r.ResolveGrooming(context.Background(), GroomingInput{
		Service:   catalog.ServiceBath,
		Size:      pets.SizeSmall,
		Coat:      pets.CoatShort,
		Logistics: catalog.LogisticsOwnerBoth,
	})
	if err != nil {
		t.Fatalf("ResolveGrooming error: %v", err)
	}
	if b.LogisticsSurcharge != 0 {
		t.Fatalf("expected surcharge 0, got %v", b.LogisticsSurcharge)
	}
}

func TestResolveBoarding_RateTimesNights(t *testing.T) {
	cat := newTestCatalog()
	cat.rates[pets.SizeSmall] = 70
	r := NewResolver(cat)

	checkIn := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	checkOut := time.Date(2024, 1, 4, 9, 0, 0, 0, time.UTC)

	q, err := r.ResolveBoarding(context.Background(), pets.SizeSmall, checkIn, checkOut)
	if err != nil {
		t.Fatalf("ResolveBoarding error: %v", err)
	}
	if q.Days != 3 {
		t.Fatalf("expected 3 days, got %d", q.Days)
	}
	if q.Total != 210 {
		t.Fatalf("expected total 210, got %v", q.Total)
	}
}

func TestResolveBoarding_RateFallbacks(t *testing.T) {
	cat := newTestCatalog()
	cat.rates[pets.SizeMedium] = 90
	r := NewResolver(cat)

	checkIn := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	checkOut := time.Date(2024, 3, 11, 12, 0, 0, 0, time.UTC)

	// Sin tarifa para large cae a medium.
	q, err := r.ResolveBoarding(context.Background(), pets.SizeLarge, checkIn, checkOut)
	if err != nil {
		t.Fatalf("ResolveBoarding error: %v", err)
	}
	if q.DailyRate != 90 {
		t.Fatalf("expected medium rate 90, got %v", q.DailyRate)
	}

	// Sin ninguna tarifa cae al default fijo.
	empty := NewResolver(newTestCatalog())
	q, err = empty.ResolveBoarding(context.Background(), pets.SizeLarge, checkIn, checkOut)
	if err != nil {
		t.Fatalf("ResolveBoarding error: %v", err)
	}
	if q.DailyRate != 80 {
		t.Fatalf("expected default rate 80, got %v", q.DailyRate)
	}
}

func TestStayDays_SameDayCountsAsOne(t *testing.T) {
	in := time.Date(2024, 5, 2, 8, 0, 0, 0, time.UTC)
	out := time.Date(2024, 5, 2, 18, 0, 0, 0, time.UTC)

	if d := StayDays(in, out); d != 1 {
		t.Fatalf("expected 1 day for same-day stay, got %d", d)
	}
	if d := StayDays(in, in.Add(25*time.Hour)); d != 2 {
		t.Fatalf("expected 2 days for 25h stay, got %d", d)
	}
}
