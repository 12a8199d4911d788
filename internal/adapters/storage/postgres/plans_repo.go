package postgres

import (
	"context"
	"database/sql"

	"pet-care-ops/internal/domain/catalog"
	"pet-care-ops/internal/domain/plans"
)

type PlansRepo struct {
	db *sql.DB
}

func NewPlansRepo(db *sql.DB) *PlansRepo {
	return &PlansRepo{db: db}
}

func (r *PlansRepo) Create(ctx context.Context, p plans.ClientPlan) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO client_plans (
			id, client_id, pet_id, plan_definition_id,
			service, total_units, used_units,
			purchased_at, expires_at, active,
			created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
	`,
		p.ID,
		p.ClientID,
		p.PetID,
		p.PlanDefinitionID,
		string(p.Service),
		p.TotalUnits,
		p.UsedUnits,
		p.PurchasedAt,
		p.ExpiresAt,
		p.Active,
		p.CreatedAt,
		p.UpdatedAt,
	)
	return err
}

func (r *PlansRepo) GetByID(ctx context.Context, id string) (plans.ClientPlan, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, client_id, pet_id, plan_definition_id,
		       service, total_units, used_units,
		       purchased_at, expires_at, active,
		       created_at, updated_at
		FROM client_plans
		WHERE id = $1
	`, id)

	p, err := scanClientPlan(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return plans.ClientPlan{}, plans.ErrNotFound
		}
		return plans.ClientPlan{}, err
	}
	return p, nil
}

func (r *PlansRepo) ListByPet(ctx context.Context, petID string) ([]plans.ClientPlan, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, client_id, pet_id, plan_definition_id,
		       service, total_units, used_units,
		       purchased_at, expires_at, active,
		       created_at, updated_at
		FROM client_plans
		WHERE pet_id = $1
		ORDER BY purchased_at ASC
	`, petID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]plans.ClientPlan, 0)
	for rows.Next() {
		p, err := scanClientPlan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// AddUsage es el redeem condicional: el WHERE garantiza que dos reservas
// concurrentes no sobregiren el plan aunque ambas hayan leído el mismo
// saldo.
func (r *PlansRepo) AddUsage(ctx context.Context, id string, units int) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE client_plans
		SET used_units = used_units + $2,
		    updated_at = NOW()
		WHERE id = $1
		  AND used_units + $2 <= total_units
	`, id, units)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n > 0 {
		return nil
	}

	// 0 filas: o el plan no existe o no alcanza el saldo.
	var exists bool
	if err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM client_plans WHERE id = $1)`, id,
	).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return plans.ErrNotFound
	}
	return plans.ErrInsufficientBalance
}

func (r *PlansRepo) ReduceUsage(ctx context.Context, id string, units int) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE client_plans
		SET used_units = GREATEST(used_units - $2, 0),
		    updated_at = NOW()
		WHERE id = $1
	`, id, units)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return plans.ErrNotFound
	}
	return nil
}

func scanClientPlan(row rowScanner) (plans.ClientPlan, error) {
	var p plans.ClientPlan
	var svc string
	if err := row.Scan(
		&p.ID,
		&p.ClientID,
		&p.PetID,
		&p.PlanDefinitionID,
		&svc,
		&p.TotalUnits,
		&p.UsedUnits,
		&p.PurchasedAt,
		&p.ExpiresAt,
		&p.Active,
		&p.CreatedAt,
		&p.UpdatedAt,
	); err != nil {
		return plans.ClientPlan{}, err
	}
	p.Service = catalog.PlanService(svc)
	return p, nil
}
