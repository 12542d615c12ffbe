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
	libreriaMocks "registro/internal/domains/libreria/mocks"
	"registro/internal/domains/libreria/model"
	"registro/internal/domains/libreria/model/dto"
	"registro/internal/domains/libreria/service"
	cacheMocks "registro/shared/cache/mocks"
	"registro/shared/constant"
	gDto "registro/shared/dto"
	"registro/shared/failure"
)

func newService(t *testing.T) (service.Libreria, *libreriaMocks.MockLibreria, *cacheMocks.MockRedisCache) {
	t.Helper()

	ctrl := gomock.NewController(t)

	mockRepo := libreriaMocks.NewMockLibreria(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	mockOtel := mocks.NewOtel()

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	return service.New(mockRepo, cfg, mockCache, mockOtel), mockRepo, mockCache
}

func TestLibreriaService_GetAll(t *testing.T) {
	t.Run("cache miss loads the whole list ordered by name", func(t *testing.T) {
		svc, mockRepo, mockCache := newService(t)

		mockCache.EXPECT().
			Get(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(errors.New("cache miss"))
		mockRepo.EXPECT().
			GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, params gDto.QueryParams, _ gDto.FilterGroup, _ ...string) ([]model.Libreria, error) {
				assert.Equal(t, model.FieldNombreLibreria, params.SortBy)
				assert.Equal(t, gDto.SortDirAsc, params.SortDir)
				return []model.Libreria{
					{ID: "l1", NombreLibreria: "Libreria Nacional", Sede: "Centro"},
					{ID: "l2", NombreLibreria: "Libreria del Parque"},
				}, nil
			})
		mockCache.EXPECT().
			Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil).
			AnyTimes()

		res, err := svc.GetAll(context.Background())

		time.Sleep(10 * time.Millisecond)

		assert.NoError(t, err)
		assert.Len(t, res.Librerias, 2)
		assert.Equal(t, 2, res.TotalData)
	})

	t.Run("cache hit skips the repository", func(t *testing.T) {
		svc, _, mockCache := newService(t)

		mockCache.EXPECT().
			Get(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ string, value any) error {
				res := value.(*dto.GetLibreriasResponse)
				res.Librerias = []dto.LibreriaResponse{{ID: "l1"}}
				res.TotalData = 1
				return nil
			})

		res, err := svc.GetAll(context.Background())

		assert.NoError(t, err)
		assert.Equal(t, 1, res.TotalData)
	})
}

func TestLibreriaService_Create(t *testing.T) {
	svc, mockRepo, mockCache := newService(t)

	mockRepo.EXPECT().
		Insert(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, m model.Libreria) error {
			assert.NotEmpty(t, m.ID)
			assert.Equal(t, "Libreria Nacional", m.NombreLibreria)
			assert.Equal(t, "admin-1", m.CreatedBy)
			return nil
		})
	mockCache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, "admin-1")
	err := svc.Create(ctx, dto.CreateLibreriaRequest{NombreLibreria: "Libreria Nacional"})

	time.Sleep(10 * time.Millisecond)

	assert.NoError(t, err)
}

func TestLibreriaService_Update(t *testing.T) {
	t.Run("unknown id yields not found", func(t *testing.T) {
		svc, mockRepo, _ := newService(t)

		mockRepo.EXPECT().
			Exist(gomock.Any(), gomock.Any()).
			Return(false, nil)

		err := svc.Update(context.Background(), dto.UpdateLibreriaRequest{}, "missing")

		assert.Error(t, err)
		assert.True(t, failure.IsNotFound(err))
	})

	t.Run("patches only the submitted fields", func(t *testing.T) {
		svc, mockRepo, mockCache := newService(t)

		mockRepo.EXPECT().
			Exist(gomock.Any(), gomock.Any()).
			Return(true, nil)
		mockRepo.EXPECT().
			Update(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
				assert.Equal(t, "Norte", fields[model.FieldSede])
				assert.NotContains(t, fields, model.FieldNombreLibreria)
				return nil
			})
		mockCache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

		err := svc.Update(context.Background(), dto.UpdateLibreriaRequest{Sede: "Norte"}, "l1")

		time.Sleep(10 * time.Millisecond)

		assert.NoError(t, err)
	})
}

func TestLibreriaService_Delete(t *testing.T) {
	t.Run("unknown id yields not found", func(t *testing.T) {
		svc, mockRepo, _ := newService(t)

		mockRepo.EXPECT().
			Exist(gomock.Any(), gomock.Any()).
			Return(false, nil)

		err := svc.Delete(context.Background(), "missing")

		assert.Error(t, err)
		assert.True(t, failure.IsNotFound(err))
	})

	t.Run("deletes and invalidates the picklist cache", func(t *testing.T) {
		svc, mockRepo, mockCache := newService(t)

		mockRepo.EXPECT().
			Exist(gomock.Any(), gomock.Any()).
			Return(true, nil)
		mockRepo.EXPECT().
			Delete(gomock.Any(), gomock.Any()).
			Return(nil)
		mockCache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

		err := svc.Delete(context.Background(), "l1")

		time.Sleep(10 * time.Millisecond)

		assert.NoError(t, err)
	})
}
