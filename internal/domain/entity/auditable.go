package entity

import (
	"time"

	"github.com/jhoicas/lims-api/internal/domain"
)

// Auditable agrupa los metadatos regulatorios (21 CFR Part 11) de una entidad:
// quién y cuándo la creó, la modificó o la desactivó. Se embebe explícitamente.
type Auditable struct {
	Active        bool
	CreatedBy     string
	CreatedAt     time.Time
	ModifiedBy    *string
	ModifiedAt    *time.Time
	DeactivatedBy *string
	DeactivatedAt *time.Time
}

// NewAuditable inicializa los metadatos de un registro activo recién creado.
func NewAuditable(actorID string, now time.Time) Auditable {
	return Auditable{Active: true, CreatedBy: actorID, CreatedAt: now}
}

// Touch registra una modificación.
func (a *Auditable) Touch(actorID string, now time.Time) {
	a.ModifiedBy = &actorID
	a.ModifiedAt = &now
}

// Deactivate aplica la baja lógica. Un registro ya inactivo se rechaza con ErrAlreadyInactive.
// La desactivación también cuenta como modificación.
func (a *Auditable) Deactivate(actorID string, now time.Time) error {
	if !a.Active {
		return domain.ErrAlreadyInactive
	}
	a.Active = false
	a.DeactivatedBy = &actorID
	a.DeactivatedAt = &now
	a.Touch(actorID, now)
	return nil
}
