package memory

import (
	"context"
	"slices"
	"strings"

	"github.com/jhoicas/lims-api/internal/domain"
	"github.com/jhoicas/lims-api/internal/domain/entity"
)

type userRepo struct{ base }

func (r *userRepo) Create(_ context.Context, u *entity.User) error {
	defer r.lock()()
	if err := r.fail("Users.Create"); err != nil {
		return err
	}
	for _, other := range r.t().users {
		if strings.EqualFold(other.Email, u.Email) {
			return domain.ErrEmailAlreadyExists
		}
	}
	cp := copyOf(u)
	cp.Roles = slices.Clone(u.Roles)
	r.t().users[u.ID] = cp
	return nil
}

func (r *userRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	defer r.lock()()
	return r.out(r.t().users[id]), nil
}

func (r *userRepo) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	defer r.lock()()
	for _, u := range r.t().users {
		if strings.EqualFold(u.Email, email) {
			return r.out(u), nil
		}
	}
	return nil, nil
}

func (r *userRepo) out(u *entity.User) *entity.User {
	cp := copyOf(u)
	if cp != nil {
		cp.Roles = slices.Clone(u.Roles)
	}
	return cp
}
