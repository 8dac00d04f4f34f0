package jwt_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/lims-api/pkg/jwt"
)

func TestGenerateParse_Roundtrip(t *testing.T) {
	token, err := jwt.Generate("secreto", "u-1", []string{"analista", "operario"}, "lims", 5)
	require.NoError(t, err)

	userID, roles, err := jwt.Parse("secreto", token)
	require.NoError(t, err)
	assert.Equal(t, "u-1", userID)
	assert.Equal(t, []string{"analista", "operario"}, roles)
}

func TestParse_FirmaIncorrecta(t *testing.T) {
	token, err := jwt.Generate("secreto", "u-1", []string{"admin"}, "lims", 5)
	require.NoError(t, err)

	_, _, err = jwt.Parse("otro", token)
	assert.Error(t, err)
}

func TestParse_TokenExpirado(t *testing.T) {
	token, err := jwt.Generate("secreto", "u-1", []string{"admin"}, "lims", -1)
	require.NoError(t, err)

	_, _, err = jwt.Parse("secreto", token)
	assert.Error(t, err)
}

func TestGenerate_SecretVacio(t *testing.T) {
	_, err := jwt.Generate("", "u-1", nil, "lims", 5)
	assert.Error(t, err)
}
