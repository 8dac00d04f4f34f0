package entity

import "time"

// Equipment representa un equipo o instrumento de laboratorio/planta.
type Equipment struct {
	ID      string
	Code    string // único
	Name    string
	TypeID  string
	AreaID  string
	StateID string
	Auditable
}

// Tipos de evento de calibración/calificación.
const (
	CalibrationTypeCalibration   = "CALIBRACION"
	CalibrationTypeQualification = "CALIFICACION"
)

// Calibration evento de calibración o calificación de un equipo.
type Calibration struct {
	ID          string
	EquipmentID string
	Type        string
	Date        time.Time
	Expires     *time.Time
	OperatorID  string
	CreatedAt   time.Time
}
