package repository

import (
	"context"

	"trocagames/internal/domain/entity"
)

type SessionRepository interface {
	Save(ctx context.Context, session *entity.Session) error
	GetByID(ctx context.Context, id string) (*entity.Session, error)
	List(ctx context.Context) ([]*entity.Session, error)
	Delete(ctx context.Context, id string) error
}
