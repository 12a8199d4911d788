package billing

// PaymentStatus es el estado de cobro de una reserva (grooming o estadía).
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentPaid      PaymentStatus = "paid"
	PaymentPaidEarly PaymentStatus = "paid_early"
	// PaymentExempt: reservas cubiertas por plan prepago (precio 0).
	PaymentExempt PaymentStatus = "exempt"
)

// IsPaid indica si el estado cuenta como cobrado para la caja.
func (s PaymentStatus) IsPaid() bool {
	switch s {
	case PaymentPaid, PaymentPaidEarly, PaymentExempt:
		return true
	default:
		return false
	}
}

type PaymentMethod string

const (
	MethodCash     PaymentMethod = "cash"
	MethodCard     PaymentMethod = "card"
	MethodPix      PaymentMethod = "pix"
	MethodTransfer PaymentMethod = "transfer"
)

func ValidMethod(m PaymentMethod) bool {
	switch m {
	case MethodCash, MethodCard, MethodPix, MethodTransfer:
		return true
	default:
		return false
	}
}
