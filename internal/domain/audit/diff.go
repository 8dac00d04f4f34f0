// Package audit construye las entradas del audit trail regulatorio.
// Cada operación que muta datos llama a Diff (o Created) explícitamente al final
// de su transacción; no hay intercepción implícita de repositorios.
package audit

import (
	"sort"
	"time"

	"github.com/jhoicas/lims-api/internal/domain/entity"
)

// Snapshot valores de los campos auditados de un registro, serializados como texto.
// Un valor nil representa NULL.
type Snapshot map[string]*string

// Value construye un *string para usar dentro de un Snapshot.
func Value(s string) *string { return &s }

// Diff compara before y after y devuelve una entrada por cada campo cambiado,
// ordenadas por nombre de columna para que el resultado sea determinista.
func Diff(table, recordID string, before, after Snapshot, action, actorID string, at time.Time) []*entity.AuditEntry {
	cols := make([]string, 0, len(after))
	seen := make(map[string]bool, len(after)+len(before))
	for c := range after {
		cols = append(cols, c)
		seen[c] = true
	}
	for c := range before {
		if !seen[c] {
			cols = append(cols, c)
		}
	}
	sort.Strings(cols)

	var entries []*entity.AuditEntry
	for _, c := range cols {
		oldV, newV := before[c], after[c]
		if equal(oldV, newV) {
			continue
		}
		col := c
		entries = append(entries, &entity.AuditEntry{
			Table:     table,
			RecordID:  recordID,
			Column:    &col,
			OldValue:  oldV,
			NewValue:  newV,
			Action:    action,
			ActorID:   actorID,
			Timestamp: at,
		})
	}
	return entries
}

// Created entrada a nivel de registro para una creación.
func Created(table, recordID, summary, actorID string, at time.Time) *entity.AuditEntry {
	return &entity.AuditEntry{
		Table:     table,
		RecordID:  recordID,
		NewValue:  &summary,
		Action:    entity.AuditCreate,
		ActorID:   actorID,
		Timestamp: at,
	}
}

// AuditableSnapshot campos regulatorios de una entidad Auditable.
func AuditableSnapshot(a entity.Auditable) Snapshot {
	return Snapshot{
		"activo":              Value(boolText(a.Active)),
		"modificado_por":      a.ModifiedBy,
		"desactivado_por":     a.DeactivatedBy,
		"fecha_modificacion":  timeText(a.ModifiedAt),
		"fecha_desactivacion": timeText(a.DeactivatedAt),
	}
}

func equal(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func boolText(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

func timeText(t *time.Time) *string {
	if t == nil {
		return nil
	}
	return Value(t.UTC().Format(time.RFC3339Nano))
}
