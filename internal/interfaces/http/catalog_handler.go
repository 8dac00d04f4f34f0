package http

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/lims-api/internal/application/catalog"
	"github.com/jhoicas/lims-api/internal/application/dto"
	"github.com/jhoicas/lims-api/internal/domain"
	"github.com/jhoicas/lims-api/internal/domain/entity"
)

// CatalogHandler catálogos de estados.
type CatalogHandler struct {
	uc *catalog.UseCase
}

// NewCatalogHandler construye el handler.
func NewCatalogHandler(uc *catalog.UseCase) *CatalogHandler {
	return &CatalogHandler{uc: uc}
}

func kindParam(c *fiber.Ctx) (entity.StateKind, bool) {
	kind := entity.StateKind(c.Params("kind"))
	return kind, kind.Valid()
}

// List estados del catálogo :kind (equipment, manufacturing, sampling_request, analysis, qc).
func (h *CatalogHandler) List(c *fiber.Ctx) error {
	kind, ok := kindParam(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_KIND", Message: "catálogo desconocido"})
	}
	list, err := h.uc.List(c.Context(), kind)
	if err != nil {
		return writeError(c, err)
	}
	out := make([]dto.CatalogStateResponse, 0, len(list))
	for _, st := range list {
		out = append(out, dto.CatalogStateResponse{ID: st.ID, Kind: string(st.Kind), Name: st.Name})
	}
	return c.JSON(out)
}

// Rename cambia el nombre de un estado; el ID no cambia y el histórico lo refleja al leer.
func (h *CatalogHandler) Rename(c *fiber.Ctx) error {
	kind, ok := kindParam(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_KIND", Message: "catálogo desconocido"})
	}
	var in dto.RenameStateRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	st, err := h.uc.Rename(c.Context(), kind, c.Params("id"), in.Name, GetUserID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.CatalogStateResponse{ID: st.ID, Kind: string(st.Kind), Name: st.Name})
}

// targetState estado destino de un cambio de estado: state_id tal cual o, si viene vacío,
// state_name resuelto en el catálogo del tipo.
func targetState(c *fiber.Ctx, cat *catalog.UseCase, kind entity.StateKind, in dto.ChangeStateRequest) (string, error) {
	if in.StateID != "" || in.StateName == "" || cat == nil {
		return in.StateID, nil
	}
	st, err := cat.ResolveName(c.Context(), kind, in.StateName)
	if errors.Is(err, domain.ErrNotFound) {
		return "", fmt.Errorf("%w: estado %q no existe en el catálogo %s", domain.ErrInvalidInput, in.StateName, kind)
	}
	if err != nil {
		return "", err
	}
	return st.ID, nil
}
