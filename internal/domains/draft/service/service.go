package service

import (
	"context"

	"registro/config"
	"registro/infras/otel"
	"registro/internal/domains/draft/model/dto"
	"registro/shared"
	"registro/shared/cache"
	"registro/shared/constant"
	"registro/shared/failure"
	"registro/shared/timezone"

	"github.com/rs/zerolog/log"
)

const (
	cacheDraftRegistro = "draft:registro"
)

// Draft is the server-side store for in-progress registration forms, keyed
// by the opaque client key. Entries are TTL-bounded in Redis.
type Draft interface {
	Save(ctx context.Context, key string, req dto.SaveDraftRequest) (dto.DraftResponse, error)
	Get(ctx context.Context, key string) (dto.DraftResponse, error)
	Delete(ctx context.Context, key string) error
}

type serviceImpl struct {
	cfg   *config.Config
	cache cache.RedisCache
	otel  otel.Otel
}

func New(cfg *config.Config, cache cache.RedisCache, otel otel.Otel) Draft {
	return &serviceImpl{
		cfg:   cfg,
		cache: cache,
		otel:  otel,
	}
}

func (s *serviceImpl) Save(ctx context.Context, key string, req dto.SaveDraftRequest) (res dto.DraftResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".SaveDraft")
	defer scope.End()
	defer scope.TraceIfError(err)

	res.SaveDraftRequest = req
	res.SavedAt = timezone.Now()

	if err = s.cache.Save(ctx, shared.BuildCacheKey(cacheDraftRegistro, key), res, s.cfg.Draft.TTLSeconds); err != nil {
		log.Error().Err(err).Msg("failed to save draft")

		return res, err
	}

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, key string) (res dto.DraftResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetDraft")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKey(cacheDraftRegistro, key)

	if err = s.cache.Get(ctx, cacheKey, &res); err != nil {
		return res, failure.NotFound("draft not found")
	}

	// A draft written under an older payload shape is unusable; drop it
	// instead of returning it.
	if res.SchemaVersion != dto.SchemaVersion {
		go func() {
			c := context.WithoutCancel(ctx)

			if err := s.cache.Delete(c, cacheKey); err != nil {
				log.Error().Err(err).Msg("failed to delete stale draft")
			}
		}()

		return dto.DraftResponse{}, failure.NotFound("draft not found")
	}

	return res, nil
}

func (s *serviceImpl) Delete(ctx context.Context, key string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".DeleteDraft")
	defer scope.End()
	defer scope.TraceIfError(err)

	if err = s.cache.Delete(ctx, shared.BuildCacheKey(cacheDraftRegistro, key)); err != nil {
		log.Error().Err(err).Msg("failed to delete draft")

		return err
	}

	return nil
}
