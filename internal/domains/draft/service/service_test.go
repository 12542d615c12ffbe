package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"registro/config"
	"registro/infras/otel/mocks"
	"registro/internal/domains/draft/model/dto"
	"registro/internal/domains/draft/service"
	cacheMocks "registro/shared/cache/mocks"
	"registro/shared/failure"
)

func newService(t *testing.T) (service.Draft, *cacheMocks.MockRedisCache) {
	t.Helper()

	ctrl := gomock.NewController(t)

	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	mockOtel := mocks.NewOtel()

	cfg := &config.Config{}
	cfg.Draft.TTLSeconds = 86400

	return service.New(cfg, mockCache, mockOtel), mockCache
}

func TestDraftService_Save(t *testing.T) {
	t.Run("stores the draft with the configured TTL", func(t *testing.T) {
		svc, mockCache := newService(t)

		req := dto.SaveDraftRequest{
			SchemaVersion:  dto.SchemaVersion,
			NombreLibreria: "Libreria Nacional",
			Piezas:         []dto.PiezaDraft{{NombrePieza: "Pendon"}},
		}

		mockCache.EXPECT().
			Save(gomock.Any(), "draft:registro:key-1", gomock.Any(), 86400).
			Return(nil)

		res, err := svc.Save(context.Background(), "key-1", req)

		assert.NoError(t, err)
		assert.Equal(t, req, res.SaveDraftRequest)
		assert.False(t, res.SavedAt.IsZero())
	})

	t.Run("cache error is returned", func(t *testing.T) {
		svc, mockCache := newService(t)

		mockCache.EXPECT().
			Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(errors.New("redis unavailable"))

		_, err := svc.Save(context.Background(), "key-1", dto.SaveDraftRequest{SchemaVersion: dto.SchemaVersion})

		assert.Error(t, err)
	})
}

func TestDraftService_Get(t *testing.T) {
	t.Run("returns the stored draft", func(t *testing.T) {
		svc, mockCache := newService(t)

		mockCache.EXPECT().
			Get(gomock.Any(), "draft:registro:key-1", gomock.Any()).
			DoAndReturn(func(_ context.Context, _ string, value any) error {
				res := value.(*dto.DraftResponse)
				res.SchemaVersion = dto.SchemaVersion
				res.NombreLibreria = "Libreria Nacional"
				return nil
			})

		res, err := svc.Get(context.Background(), "key-1")

		assert.NoError(t, err)
		assert.Equal(t, "Libreria Nacional", res.NombreLibreria)
	})

	t.Run("missing draft yields not found", func(t *testing.T) {
		svc, mockCache := newService(t)

		mockCache.EXPECT().
			Get(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(errors.New("cache miss"))

		_, err := svc.Get(context.Background(), "key-1")

		assert.Error(t, err)
		assert.True(t, failure.IsNotFound(err))
	})

	t.Run("stale schema version is discarded", func(t *testing.T) {
		svc, mockCache := newService(t)

		mockCache.EXPECT().
			Get(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ string, value any) error {
				res := value.(*dto.DraftResponse)
				res.SchemaVersion = dto.SchemaVersion - 1
				res.NombreLibreria = "Libreria Nacional"
				return nil
			})
		mockCache.EXPECT().
			Delete(gomock.Any(), "draft:registro:key-1").
			Return(nil).
			AnyTimes()

		res, err := svc.Get(context.Background(), "key-1")

		time.Sleep(10 * time.Millisecond)

		assert.Error(t, err)
		assert.True(t, failure.IsNotFound(err))
		assert.Empty(t, res.NombreLibreria)
	})
}

func TestDraftService_Delete(t *testing.T) {
	svc, mockCache := newService(t)

	mockCache.EXPECT().
		Delete(gomock.Any(), "draft:registro:key-1").
		Return(nil)

	assert.NoError(t, svc.Delete(context.Background(), "key-1"))
}
