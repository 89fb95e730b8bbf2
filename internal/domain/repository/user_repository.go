package repository

import (
	"context"

	"github.com/jhoicas/Equipos-api/internal/domain/entity"
)

// UserRepository define el puerto de persistencia para usuarios (auth_users).
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByUsername(ctx context.Context, username string) (*entity.User, error)
	Update(ctx context.Context, user *entity.User) error
	List(ctx context.Context) ([]*entity.User, error)
	Count(ctx context.Context) (int, error)
}
