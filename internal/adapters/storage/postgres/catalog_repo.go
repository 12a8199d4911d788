package postgres

import (
	"context"
	"database/sql"

	"pet-care-ops/internal/domain/catalog"
	"pet-care-ops/internal/domain/pets"
)

type CatalogRepo struct {
	db *sql.DB
}

func NewCatalogRepo(db *sql.DB) *CatalogRepo {
	return &CatalogRepo{db: db}
}

func (r *CatalogRepo) ListPriceRules(ctx context.Context, service catalog.ServiceType) ([]catalog.PriceRule, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, breed, size, coat, service, price, active
		FROM price_rules
		WHERE service = $1 AND active = TRUE
		ORDER BY breed DESC, size, coat
	`, string(service))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]catalog.PriceRule, 0)
	for rows.Next() {
		var rule catalog.PriceRule
		var size, coat, svc string
		if err := rows.Scan(&rule.ID, &rule.Breed, &size, &coat, &svc, &rule.Price, &rule.Active); err != nil {
			return nil, err
		}
		rule.Size = pets.SizeCategory(size)
		rule.Coat = pets.CoatType(coat)
		rule.Service = catalog.ServiceType(svc)
		out = append(out, rule)
	}
	return out, rows.Err()
}

func (r *CatalogRepo) GetAddon(ctx context.Context, id string) (catalog.Addon, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, name, price, active FROM addons WHERE id = $1
	`, id)

	var a catalog.Addon
	if err := row.Scan(&a.ID, &a.Name, &a.Price, &a.Active); err != nil {
		if err == sql.ErrNoRows {
			return catalog.Addon{}, catalog.ErrNotFound
		}
		return catalog.Addon{}, err
	}
	return a, nil
}

func (r *CatalogRepo) ListAddons(ctx context.Context) ([]catalog.Addon, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, price, active FROM addons ORDER BY name ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]catalog.Addon, 0)
	for rows.Next() {
		var a catalog.Addon
		if err := rows.Scan(&a.ID, &a.Name, &a.Price, &a.Active); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *CatalogRepo) GetLogisticsAddon(ctx context.Context, choice catalog.LogisticsChoice) (catalog.Addon, bool, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT a.id, a.name, a.price, a.active
		FROM logistics_addons la
		JOIN addons a ON a.id = la.addon_id
		WHERE la.choice = $1
	`, string(choice))

	var a catalog.Addon
	if err := row.Scan(&a.ID, &a.Name, &a.Price, &a.Active); err != nil {
		if err == sql.ErrNoRows {
			return catalog.Addon{}, false, nil
		}
		return catalog.Addon{}, false, err
	}
	return a, true, nil
}

func (r *CatalogRepo) GetBoardingRate(ctx context.Context, size pets.SizeCategory) (catalog.BoardingRate, bool, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT size, daily_rate FROM boarding_rates WHERE size = $1
	`, string(size))

	var rate catalog.BoardingRate
	var sz string
	if err := row.Scan(&sz, &rate.DailyRate); err != nil {
		if err == sql.ErrNoRows {
			return catalog.BoardingRate{}, false, nil
		}
		return catalog.BoardingRate{}, false, err
	}
	rate.Size = pets.SizeCategory(sz)
	return rate, true, nil
}

func (r *CatalogRepo) GetPlanDefinition(ctx context.Context, id string) (catalog.PlanDefinition, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, name, service, total_units, price, validity_days
		FROM plan_definitions
		WHERE id = $1
	`, id)

	d, err := scanPlanDefinition(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return catalog.PlanDefinition{}, catalog.ErrNotFound
		}
		return catalog.PlanDefinition{}, err
	}

	d.IncludedAddons, err = r.planAddons(ctx, d.ID)
	if err != nil {
		return catalog.PlanDefinition{}, err
	}
	return d, nil
}

func (r *CatalogRepo) ListPlanDefinitions(ctx context.Context) ([]catalog.PlanDefinition, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, service, total_units, price, validity_days
		FROM plan_definitions
		ORDER BY name ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]catalog.PlanDefinition, 0)
	for rows.Next() {
		d, err := scanPlanDefinition(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range out {
		out[i].IncludedAddons, err = r.planAddons(ctx, out[i].ID)
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (r *CatalogRepo) planAddons(ctx context.Context, defID string) ([]catalog.PlanAddon, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT addon_id, quantity
		FROM plan_definition_addons
		WHERE plan_definition_id = $1
	`, defID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]catalog.PlanAddon, 0)
	for rows.Next() {
		var pa catalog.PlanAddon
		if err := rows.Scan(&pa.AddonID, &pa.Quantity); err != nil {
			return nil, err
		}
		out = append(out, pa)
	}
	return out, rows.Err()
}

func scanPlanDefinition(row rowScanner) (catalog.PlanDefinition, error) {
	var d catalog.PlanDefinition
	var svc string
	if err := row.Scan(&d.ID, &d.Name, &svc, &d.TotalUnits, &d.Price, &d.ValidityDays); err != nil {
		return catalog.PlanDefinition{}, err
	}
	d.Service = catalog.PlanService(svc)
	return d, nil
}
