package clients

import "time"

// Client es el dueño de una o más mascotas.
type Client struct {
	ID string

	Name  string
	Phone string
	Email string

	Notes string

	// LastPurchaseAt se actualiza al confirmar un cobro en caja.
	LastPurchaseAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}
