package postgres

import (
	"context"
	"database/sql"
	"time"

	"pet-care-ops/internal/domain/clients"
)

type ClientsRepo struct {
	db *sql.DB
}

func NewClientsRepo(db *sql.DB) *ClientsRepo {
	return &ClientsRepo{db: db}
}

func (r *ClientsRepo) Create(ctx context.Context, c clients.Client) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO clients (id, name, phone, email, notes, last_purchase_at, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
	`,
		c.ID,
		c.Name,
		c.Phone,
		c.Email,
		c.Notes,
		toNullTime(c.LastPurchaseAt),
		c.CreatedAt,
		c.UpdatedAt,
	)
	return err
}

func (r *ClientsRepo) GetByID(ctx context.Context, id string) (clients.Client, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, name, phone, email, notes, last_purchase_at, created_at, updated_at
		FROM clients
		WHERE id = $1
	`, id)

	c, err := scanClient(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return clients.Client{}, clients.ErrNotFound
		}
		return clients.Client{}, err
	}
	return c, nil
}

func (r *ClientsRepo) List(ctx context.Context) ([]clients.Client, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, phone, email, notes, last_purchase_at, created_at, updated_at
		FROM clients
		ORDER BY created_at ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]clients.Client, 0)
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *ClientsRepo) TouchLastPurchase(ctx context.Context, id string, at time.Time) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE clients
		SET last_purchase_at = $2, updated_at = $2
		WHERE id = $1
	`, id, at)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return clients.ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanClient(row rowScanner) (clients.Client, error) {
	var c clients.Client
	var lp sql.NullTime
	if err := row.Scan(
		&c.ID,
		&c.Name,
		&c.Phone,
		&c.Email,
		&c.Notes,
		&lp,
		&c.CreatedAt,
		&c.UpdatedAt,
	); err != nil {
		return clients.Client{}, err
	}
	if lp.Valid {
		t := lp.Time
		c.LastPurchaseAt = &t
	}
	return c, nil
}

func toNullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
