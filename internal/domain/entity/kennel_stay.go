package entity

import "time"

// Motivos de una estadía en canil.
const (
	StayReasonIntake     = "intake"     // ingreso al refugio
	StayReasonTransfer   = "transfer"   // traslado entre caniles
	StayReasonMedical    = "medical"    // clínica / tratamiento
	StayReasonQuarantine = "quarantine" // cuarentena
	StayReasonBehavior   = "behavior"   // manejo conductual
	StayReasonOutcome    = "outcome"    // egreso (adopción, devolución, traslado externo)
	StayReasonOther      = "other"
)

// IsValidStayReason valida el código de motivo.
func IsValidStayReason(r string) bool {
	switch r {
	case StayReasonIntake, StayReasonTransfer, StayReasonMedical, StayReasonQuarantine,
		StayReasonBehavior, StayReasonOutcome, StayReasonOther:
		return true
	}
	return false
}

// KennelStay representa una residencia continua de un animal en un canil.
// EndAt nil = estadía activa. Una vez cerrada no se reabre ni se borra (historial).
type KennelStay struct {
	ID             string
	OrganizationID string
	KennelID       string
	AnimalID       string
	StartAt        time.Time
	EndAt          *time.Time
	Reason         string
	Notes          string
	MovedBy        string // user_id que ejecutó el movimiento
}

// Active indica si la estadía sigue abierta.
func (s *KennelStay) Active() bool {
	return s.EndAt == nil
}
