package plans

import "context"

type Repository interface {
	Create(ctx context.Context, p ClientPlan) error
	GetByID(ctx context.Context, id string) (ClientPlan, error)
	ListByPet(ctx context.Context, petID string) ([]ClientPlan, error)

	// AddUsage incrementa used_units de forma condicional y atómica:
	// si used_units + units superaría total_units no escribe nada y
	// devuelve ErrInsufficientBalance. Dos reservas simultáneas contra
	// el mismo plan no pueden sobregirarlo.
	AddUsage(ctx context.Context, id string, units int) error

	// ReduceUsage decrementa used_units con piso en 0.
	ReduceUsage(ctx context.Context, id string, units int) error
}
