package entity

import "time"

// Acciones del audit trail.
const (
	AuditCreate     = "CREATE"
	AuditUpdate     = "UPDATE"
	AuditDeactivate = "DEACTIVATE"
)

// AuditEntry una fila del audit trail: un campo cambiado de un registro.
// Column es nil para entradas a nivel de registro (creación).
type AuditEntry struct {
	ID        int64
	Table     string
	RecordID  string
	Column    *string
	OldValue  *string
	NewValue  *string
	Action    string
	ActorID   string
	Timestamp time.Time
}
