package entity_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/lims-api/internal/domain"
	"github.com/jhoicas/lims-api/internal/domain/entity"
)

func TestAuditable_Deactivate(t *testing.T) {
	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	a := entity.NewAuditable("u-1", created)
	require.True(t, a.Active)
	assert.Nil(t, a.ModifiedBy)

	later := created.Add(48 * time.Hour)
	require.NoError(t, a.Deactivate("u-2", later))

	assert.False(t, a.Active)
	require.NotNil(t, a.DeactivatedBy)
	assert.Equal(t, "u-2", *a.DeactivatedBy)
	assert.True(t, a.DeactivatedAt.Equal(later))
	assert.Equal(t, "u-2", *a.ModifiedBy)
	assert.Equal(t, "u-1", a.CreatedBy)

	err := a.Deactivate("u-3", later.Add(time.Hour))
	assert.ErrorIs(t, err, domain.ErrAlreadyInactive)
	assert.Equal(t, "u-2", *a.DeactivatedBy)
}

func TestSeedStateID_Determinista(t *testing.T) {
	a := entity.SeedStateID(entity.KindEquipment, "Operativo")
	assert.Equal(t, a, entity.SeedStateID(entity.KindEquipment, "Operativo"))
	assert.NotEqual(t, a, entity.SeedStateID(entity.KindManufacturing, "Operativo"))
}

func TestStateKind(t *testing.T) {
	assert.True(t, entity.KindAnalysis.Stateful())
	assert.False(t, entity.KindQC.Stateful())
	assert.True(t, entity.KindQC.Valid())
	assert.False(t, entity.StateKind("factura").Valid())
	assert.Equal(t, "", entity.KindQC.HistoryTable())
	assert.Equal(t, "equipment_state_history", entity.KindEquipment.HistoryTable())

	for kind, names := range entity.DefaultCatalogs {
		assert.True(t, kind.Valid(), string(kind))
		assert.NotEmpty(t, names)
	}
}
