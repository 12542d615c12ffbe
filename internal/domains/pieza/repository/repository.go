package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"registro/infras/otel"
	"registro/infras/postgres"
	"registro/internal/domains/pieza/model"
	gDto "registro/shared/dto"
	gRepo "registro/shared/repository"
)

type Pieza interface {
	Insert(ctx context.Context, model model.Pieza) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Pieza, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Pieza, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	Delete(ctx context.Context, filter gDto.FilterGroup) error
}

type repositoryImpl struct {
	gRepo.Repository[model.Pieza]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Pieza {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Pieza](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}
