package pricing

import (
	"context"
	"math"
	"strings"
	"time"

	"pet-care-ops/internal/domain/catalog"
	"pet-care-ops/internal/domain/pets"
)

// Valores base del fallback cuando ningún PriceRule aplica.
const (
	fallbackBath         = 40.0
	fallbackBathGrooming = 70.0
	// Tarifa diaria de hospedaje cuando no hay fila ni para el porte
	// pedido ni para el porte medio.
	fallbackDailyRate = 80.0
)

func sizeMultiplier(size pets.SizeCategory) float64 {
	switch size {
	case pets.SizeMedium:
		return 1.3
	case pets.SizeLarge:
		return 1.6
	default:
		return 1.0
	}
}

// Resolver calcula precios de grooming y hospedaje a partir del catálogo.
// La resolución nunca rechaza un pedido: si nada matchea cae al precio
// por fórmula (política explícita del negocio, no un hueco).
type Resolver struct {
	catalog catalog.Repository
}

func NewResolver(cat catalog.Repository) *Resolver {
	return &Resolver{catalog: cat}
}

type GroomingInput struct {
	Service   catalog.ServiceType
	Breed     string
	Size      pets.SizeCategory
	Coat      pets.CoatType
	AddonIDs  []string
	Logistics catalog.LogisticsChoice
}

type Breakdown struct {
	BasePrice          float64
	AddonsTotal        float64
	LogisticsSurcharge float64
	Total              float64
}

// ResolveGrooming arma el desglose de precio de un servicio de grooming.
// El precio base se resuelve por tiers, del más específico al más general:
//  1. raza (+ pelaje si la regla lo fija)
//  2. porte + pelaje
//  3. porte
//  4. fórmula: base(servicio) × multiplicador(porte), redondeado
func (r *Resolver) ResolveGrooming(ctx context.Context, in GroomingInput) (Breakdown, error) {
	rules, err := r.catalog.ListPriceRules(ctx, in.Service)
	if err != nil {
		return Breakdown{}, err
	}

	base := resolveBasePrice(rules, in)

	var addonsTotal float64
	for _, id := range in.AddonIDs {
		a, err := r.catalog.GetAddon(ctx, id)
		if err != nil {
			return Breakdown{}, err
		}
		if !a.Active {
			continue
		}
		addonsTotal += a.Price
	}

	var surcharge float64
	if catalog.ValidLogistics(in.Logistics) {
		a, ok, err := r.catalog.GetLogisticsAddon(ctx, in.Logistics)
		if err != nil {
			return Breakdown{}, err
		}
		if ok && a.Active {
			surcharge = a.Price
		}
	}

	total := base + addonsTotal + surcharge
	if total < 0 {
		total = 0
	}

	return Breakdown{
		BasePrice:          base,
		AddonsTotal:        addonsTotal,
		LogisticsSurcharge: surcharge,
		Total:              total,
	}, nil
}

func resolveBasePrice(rules []catalog.PriceRule, in GroomingInput) float64 {
	breed := strings.TrimSpace(in.Breed)

	// Tier 1: raza (campos vacíos de la regla no restringen).
	for _, rule := range rules {
		if !rule.Active || rule.Breed == "" {
			continue
		}
		if !strings.EqualFold(rule.Breed, breed) {
			continue
		}
		if rule.Coat != "" && rule.Coat != in.Coat {
			continue
		}
		return rule.Price
	}

	// Tier 2: porte + pelaje.
	for _, rule := range rules {
		if !rule.Active || rule.Breed != "" {
			continue
		}
		if rule.Size == in.Size && rule.Coat != "" && rule.Coat == in.Coat {
			return rule.Price
		}
	}

	// Tier 3: solo porte.
	for _, rule := range rules {
		if !rule.Active || rule.Breed != "" || rule.Coat != "" {
			continue
		}
		if rule.Size == in.Size {
			return rule.Price
		}
	}

	// Tier 4: fórmula.
	base := fallbackBath
	if in.Service == catalog.ServiceBathGrooming {
		base = fallbackBathGrooming
	}
	return math.Round(base * sizeMultiplier(in.Size))
}

type BoardingQuote struct {
	DailyRate float64
	Days      int
	Total     float64
}

// ResolveBoarding cotiza una estadía: tarifa diaria por porte × días,
// mínimo 1 día. Sin tarifa para el porte cae a la tarifa media y luego
// a un valor fijo.
func (r *Resolver) ResolveBoarding(ctx context.Context, size pets.SizeCategory, checkIn, checkOut time.Time) (BoardingQuote, error) {
	days := StayDays(checkIn, checkOut)

	rate, ok, err := r.catalog.GetBoardingRate(ctx, size)
	if err != nil {
		return BoardingQuote{}, err
	}
	if !ok {
		rate, ok, err = r.catalog.GetBoardingRate(ctx, pets.SizeMedium)
		if err != nil {
			return BoardingQuote{}, err
		}
	}

	daily := fallbackDailyRate
	if ok {
		daily = rate.DailyRate
	}

	return BoardingQuote{
		DailyRate: daily,
		Days:      days,
		Total:     daily * float64(days),
	}, nil
}

// StayDays calcula los días facturables de una estadía: ceil de la
// diferencia, nunca menos de 1 (una visita de creche del mismo día
// cuenta como 1 día).
func StayDays(checkIn, checkOut time.Time) int {
	days := int(math.Ceil(checkOut.Sub(checkIn).Hours() / 24))
	if days < 1 {
		days = 1
	}
	return days
}
