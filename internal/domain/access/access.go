// Package access decide si un actor con ciertos roles puede ejecutar una operación.
// La capa HTTP lo invoca antes de llamar a los casos de uso; el núcleo no verifica roles.
package access

import (
	"strings"

	"github.com/jhoicas/lims-api/internal/domain"
)

// Authorize devuelve nil si algún rol del actor está en required.
// Sin roles → ErrUnauthorized; sin coincidencia → ErrForbidden.
// Un required vacío permite a cualquier actor autenticado.
func Authorize(actorRoles []string, required ...string) error {
	if len(actorRoles) == 0 {
		return domain.ErrUnauthorized
	}
	if len(required) == 0 {
		return nil
	}
	for _, have := range actorRoles {
		for _, want := range required {
			if strings.EqualFold(strings.TrimSpace(have), want) {
				return nil
			}
		}
	}
	return domain.ErrForbidden
}
