package clients

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, c Client) error
	GetByID(ctx context.Context, id string) (Client, error)
	List(ctx context.Context) ([]Client, error)
	// TouchLastPurchase marca el momento de la última compra del cliente.
	TouchLastPurchase(ctx context.Context, id string, at time.Time) error
}
