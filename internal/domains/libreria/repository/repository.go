package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"registro/infras/otel"
	"registro/infras/postgres"
	"registro/internal/domains/libreria/model"
	gDto "registro/shared/dto"
	gRepo "registro/shared/repository"
)

type Libreria interface {
	Insert(ctx context.Context, model model.Libreria) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Libreria, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Libreria, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	Delete(ctx context.Context, filter gDto.FilterGroup) error
}

type repositoryImpl struct {
	gRepo.Repository[model.Libreria]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Libreria {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Libreria](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}
