package grooming

// BookingStatus es el ciclo de vida comercial del turno de grooming.
// Lineal: scheduled → in_service → ready → completed. cancelled se
// alcanza desde cualquier estado no terminal.
type BookingStatus string

const (
	StatusScheduled BookingStatus = "scheduled"
	StatusInService BookingStatus = "in_service"
	StatusReady     BookingStatus = "ready"
	StatusCompleted BookingStatus = "completed"
	StatusCancelled BookingStatus = "cancelled"
)

func (s BookingStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// next devuelve el sucesor lineal del estado, o "" si no tiene.
func (s BookingStatus) next() BookingStatus {
	switch s {
	case StatusScheduled:
		return StatusInService
	case StatusInService:
		return StatusReady
	case StatusReady:
		return StatusCompleted
	default:
		return ""
	}
}

// CanAdvanceTo valida una transición hacia adelante (cancelar va por Cancel).
func (s BookingStatus) CanAdvanceTo(next BookingStatus) bool {
	return next != "" && s.next() == next
}

// WorkflowStage es el avance físico del servicio (dimensión independiente
// del BookingStatus: "falta cobrar" no es lo mismo que "falta secar").
// Se puede mover libremente entre etapas salvo que ya esté en done.
type WorkflowStage string

const (
	StageWaiting  WorkflowStage = "waiting"
	StageBathing  WorkflowStage = "bathing"
	StageDrying   WorkflowStage = "drying"
	StageGrooming WorkflowStage = "grooming"
	StageDone     WorkflowStage = "done"
)

func ValidStage(s WorkflowStage) bool {
	switch s {
	case StageWaiting, StageBathing, StageDrying, StageGrooming, StageDone:
		return true
	default:
		return false
	}
}
