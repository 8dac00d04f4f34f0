package audit_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/lims-api/internal/domain/audit"
	"github.com/jhoicas/lims-api/internal/domain/entity"
)

var at = time.Date(2024, 2, 1, 12, 0, 0, 0, time.UTC)

func TestDiff_SoloCamposCambiados(t *testing.T) {
	before := audit.Snapshot{"nombre": audit.Value("Autoclave"), "codigo": audit.Value("EQ-1"), "area": nil}
	after := audit.Snapshot{"nombre": audit.Value("Autoclave 2"), "codigo": audit.Value("EQ-1"), "area": audit.Value("micro")}

	entries := audit.Diff("equipment", "e-1", before, after, entity.AuditUpdate, "u-1", at)

	require.Len(t, entries, 2)
	assert.Equal(t, "area", *entries[0].Column)
	assert.Nil(t, entries[0].OldValue)
	assert.Equal(t, "micro", *entries[0].NewValue)
	assert.Equal(t, "nombre", *entries[1].Column)
	assert.Equal(t, "Autoclave", *entries[1].OldValue)
	assert.Equal(t, "Autoclave 2", *entries[1].NewValue)
	for _, e := range entries {
		assert.Equal(t, "equipment", e.Table)
		assert.Equal(t, "e-1", e.RecordID)
		assert.Equal(t, entity.AuditUpdate, e.Action)
		assert.Equal(t, "u-1", e.ActorID)
		assert.True(t, at.Equal(e.Timestamp))
	}
}

func TestDiff_SinCambios(t *testing.T) {
	s := audit.Snapshot{"estado_id": audit.Value("a")}
	assert.Empty(t, audit.Diff("t", "r", s, audit.Snapshot{"estado_id": audit.Value("a")}, entity.AuditUpdate, "u", at))
}

func TestDiff_CampoEliminado(t *testing.T) {
	entries := audit.Diff("t", "r", audit.Snapshot{"obs": audit.Value("x")}, audit.Snapshot{}, entity.AuditUpdate, "u", at)
	require.Len(t, entries, 1)
	assert.Equal(t, "x", *entries[0].OldValue)
	assert.Nil(t, entries[0].NewValue)
}

func TestCreated(t *testing.T) {
	e := audit.Created("samples", "s-1", "muestra M-01", "u-1", at)
	assert.Nil(t, e.Column)
	assert.Nil(t, e.OldValue)
	assert.Equal(t, "muestra M-01", *e.NewValue)
	assert.Equal(t, entity.AuditCreate, e.Action)
}

func TestAuditableSnapshot_Desactivacion(t *testing.T) {
	a := entity.NewAuditable("u-1", at)
	before := audit.AuditableSnapshot(a)
	require.NoError(t, a.Deactivate("u-2", at.Add(time.Hour)))

	entries := audit.Diff("equipment", "e-1", before, audit.AuditableSnapshot(a), entity.AuditDeactivate, "u-2", at)

	cols := make([]string, 0, len(entries))
	for _, e := range entries {
		cols = append(cols, *e.Column)
	}
	assert.Equal(t, []string{"activo", "desactivado_por", "fecha_desactivacion", "fecha_modificacion", "modificado_por"}, cols)
	assert.Equal(t, "true", *entries[0].OldValue)
	assert.Equal(t, "false", *entries[0].NewValue)
}
