// Package catalog catálogos de estados por tipo de entidad. Los nombres se resuelven por ID
// en cada lectura (con caché opcional), así un renombre se refleja en todo el histórico.
package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/jhoicas/lims-api/internal/application/ports"
	"github.com/jhoicas/lims-api/internal/domain"
	"github.com/jhoicas/lims-api/internal/domain/audit"
	"github.com/jhoicas/lims-api/internal/domain/entity"
	"github.com/jhoicas/lims-api/internal/domain/repository"
)

// UseCase lectura y renombre de catálogos de estados.
type UseCase struct {
	txRunner repository.TxRunner
	repo     repository.CatalogRepository
	cache    ports.CatalogCache
	clock    domain.Clock
	log      zerolog.Logger
}

// NewUseCase construye el caso de uso. cache puede ser nil.
func NewUseCase(txRunner repository.TxRunner, repo repository.CatalogRepository, cache ports.CatalogCache, clock domain.Clock, log zerolog.Logger) *UseCase {
	if cache == nil {
		cache = ports.NoCache{}
	}
	if clock == nil {
		clock = domain.SystemClock{}
	}
	return &UseCase{txRunner: txRunner, repo: repo, cache: cache, clock: clock, log: log}
}

// List estados del catálogo del tipo.
func (uc *UseCase) List(ctx context.Context, kind entity.StateKind) ([]*entity.CatalogState, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: catálogo %q", domain.ErrInvalidInput, kind)
	}
	return uc.repo.List(ctx, kind)
}

// ResolveName busca un estado por nombre (sin distinguir mayúsculas); ErrNotFound si no existe.
func (uc *UseCase) ResolveName(ctx context.Context, kind entity.StateKind, name string) (*entity.CatalogState, error) {
	if !kind.Valid() || strings.TrimSpace(name) == "" {
		return nil, domain.ErrInvalidInput
	}
	st, err := uc.repo.GetByName(ctx, kind, strings.TrimSpace(name))
	if err != nil {
		return nil, err
	}
	if st == nil {
		return nil, domain.ErrNotFound
	}
	return st, nil
}

// Name nombre vigente del estado id. La caché es best-effort: un error de caché cae al catálogo.
func (uc *UseCase) Name(ctx context.Context, kind entity.StateKind, id string) (string, error) {
	if name, ok, err := uc.cache.GetName(ctx, string(kind), id); err == nil && ok {
		return name, nil
	} else if err != nil {
		uc.log.Warn().Err(err).Str("kind", string(kind)).Str("state_id", id).Msg("caché de catálogo no disponible")
	}
	st, err := uc.repo.GetByID(ctx, kind, id)
	if err != nil {
		return "", err
	}
	if st == nil {
		return "", domain.ErrNotFound
	}
	if err := uc.cache.SetName(ctx, string(kind), id, st.Name); err != nil {
		uc.log.Warn().Err(err).Str("kind", string(kind)).Str("state_id", id).Msg("no se pudo cachear el nombre")
	}
	return st.Name, nil
}

// Rename cambia el nombre del estado conservando su ID y deja audit trail. Tras el commit
// escribe el nombre nuevo en la caché; una lectura concurrente que cacheó el nombre
// viejo queda sobrescrita. Si la escritura falla se invalida la clave.
func (uc *UseCase) Rename(ctx context.Context, kind entity.StateKind, id, name, actorID string) (*entity.CatalogState, error) {
	name = strings.TrimSpace(name)
	switch {
	case actorID == "":
		return nil, domain.Invalid("actor_id")
	case !kind.Valid():
		return nil, fmt.Errorf("%w: catálogo %q", domain.ErrInvalidInput, kind)
	case id == "":
		return nil, domain.Invalid("id")
	case name == "":
		return nil, domain.Invalid("name")
	}
	now := uc.clock.Now()
	var renamed *entity.CatalogState
	err := uc.txRunner.Run(ctx, func(tx repository.Repos) error {
		st, err := tx.Catalog.GetByID(ctx, kind, id)
		if err != nil {
			return err
		}
		if st == nil {
			return domain.ErrNotFound
		}
		other, err := tx.Catalog.GetByName(ctx, kind, name)
		if err != nil {
			return err
		}
		if other != nil && other.ID != id {
			return fmt.Errorf("%w: ya existe el estado %q", domain.ErrDuplicate, name)
		}
		if err := tx.Catalog.Rename(ctx, kind, id, name); err != nil {
			return err
		}
		entries := audit.Diff(kind.CatalogTable(), id,
			audit.Snapshot{"nombre": audit.Value(st.Name)},
			audit.Snapshot{"nombre": audit.Value(name)},
			entity.AuditUpdate, actorID, now)
		if len(entries) > 0 {
			if err := tx.Audit.Append(ctx, entries...); err != nil {
				return err
			}
		}
		renamed = &entity.CatalogState{ID: id, Kind: kind, Name: name}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if err := uc.cache.SetName(ctx, string(kind), id, name); err != nil {
		uc.log.Warn().Err(err).Str("kind", string(kind)).Str("state_id", id).Msg("no se pudo actualizar la caché")
		if err := uc.cache.Invalidate(ctx, string(kind), id); err != nil {
			uc.log.Warn().Err(err).Str("kind", string(kind)).Str("state_id", id).Msg("no se pudo invalidar la caché")
		}
	}
	uc.log.Info().Str("kind", string(kind)).Str("state_id", id).Str("name", name).Str("actor_id", actorID).Msg("estado renombrado")
	return renamed, nil
}
