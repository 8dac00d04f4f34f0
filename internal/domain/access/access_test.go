package access_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/lims-api/internal/domain"
	"github.com/jhoicas/lims-api/internal/domain/access"
)

func TestAuthorize(t *testing.T) {
	cases := []struct {
		name     string
		roles    []string
		required []string
		want     error
	}{
		{"rol coincide", []string{"analista"}, []string{"admin", "analista"}, nil},
		{"sin distinguir mayúsculas", []string{" Admin "}, []string{"admin"}, nil},
		{"uno de varios roles", []string{"operario", "bodega"}, []string{"bodega"}, nil},
		{"cualquier autenticado", []string{"operario"}, nil, nil},
		{"sin coincidencia", []string{"operario"}, []string{"admin"}, domain.ErrForbidden},
		{"sin roles", nil, []string{"admin"}, domain.ErrUnauthorized},
		{"sin roles ni requeridos", []string{}, nil, domain.ErrUnauthorized},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			err := access.Authorize(c.roles, c.required...)
			if c.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, c.want)
		})
	}
}
