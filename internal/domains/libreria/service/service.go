package service

import (
	"context"
	"fmt"

	"registro/config"
	"registro/infras/otel"
	"registro/internal/domains/libreria/model"
	"registro/internal/domains/libreria/model/dto"
	"registro/internal/domains/libreria/repository"
	"registro/shared"
	"registro/shared/cache"
	"registro/shared/constant"
	gDto "registro/shared/dto"
	"registro/shared/failure"

	"github.com/rs/zerolog/log"
)

const (
	cacheGetAllLibreria = "libreria:get_all"
)

type Libreria interface {
	GetAll(ctx context.Context) (dto.GetLibreriasResponse, error)
	Create(ctx context.Context, req dto.CreateLibreriaRequest) error
	Update(ctx context.Context, req dto.UpdateLibreriaRequest, id string) error
	Delete(ctx context.Context, id string) error
}

type serviceImpl struct {
	repo  repository.Libreria
	cfg   *config.Config
	cache cache.RedisCache
	otel  otel.Otel
}

func New(repo repository.Libreria, cfg *config.Config, cache cache.RedisCache, otel otel.Otel) Libreria {
	return &serviceImpl{
		repo:  repo,
		cfg:   cfg,
		cache: cache,
		otel:  otel,
	}
}

// GetAll returns the full picklist ordered by name. The form is public and
// read-heavy, so the whole list is cached as one entry.
func (s *serviceImpl) GetAll(ctx context.Context) (res dto.GetLibreriasResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKey(cacheGetAllLibreria)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for librerias")

		return res, nil
	}

	librerias, err := s.repo.GetAll(
		ctx,
		gDto.QueryParams{SortBy: model.FieldNombreLibreria, SortDir: "ASC"},
		gDto.FilterGroup{},
	)
	if err != nil {
		log.Error().Err(err).Msg("failed to get librerias")

		return res, err
	}

	res.FromModels(librerias)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save librerias to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateLibreriaRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	if err = s.repo.Insert(ctx, req.ToModel(user)); err != nil {
		return err
	}

	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, cacheGetAllLibreria)
	}()

	return nil
}

func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateLibreriaRequest, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Update")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	exist, err := s.repo.Exist(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to check libreria existence")

		return err
	}

	if !exist {
		return failure.NotFound("libreria not found")
	}

	updatedFields := shared.TransformFields(req, user)
	if err = s.repo.Update(ctx, updatedFields, filter); err != nil {
		log.Error().Err(err).Msg("failed to update libreria")

		return fmt.Errorf("failed to update libreria: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, cacheGetAllLibreria)
	}()

	return nil
}

func (s *serviceImpl) Delete(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Delete")
	defer scope.End()
	defer scope.TraceIfError(err)

	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	exist, err := s.repo.Exist(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to check libreria existence")

		return err
	}

	if !exist {
		return failure.NotFound("libreria not found")
	}

	if err = s.repo.Delete(ctx, filter); err != nil {
		log.Error().Err(err).Msg("failed to delete libreria")

		return fmt.Errorf("failed to delete libreria: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, cacheGetAllLibreria)
	}()

	return nil
}
