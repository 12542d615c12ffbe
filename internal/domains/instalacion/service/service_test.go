package service_test

import (
	"context"
	"errors"
	"mime/multipart"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"registro/config"
	"registro/infras/otel/mocks"
	s3Mocks "registro/infras/s3/mocks"
	instalacionMocks "registro/internal/domains/instalacion/mocks"
	"registro/internal/domains/instalacion/model"
	"registro/internal/domains/instalacion/model/dto"
	"registro/internal/domains/instalacion/service"
	piezaMocks "registro/internal/domains/pieza/mocks"
	piezaModel "registro/internal/domains/pieza/model"
	cacheMocks "registro/shared/cache/mocks"
	"registro/shared/constant"
	gDto "registro/shared/dto"
	"registro/shared/failure"
)

func newService(t *testing.T) (service.Instalacion, *instalacionMocks.MockInstalacion, *piezaMocks.MockPieza, *cacheMocks.MockRedisCache, *s3Mocks.MockS3) {
	t.Helper()

	ctrl := gomock.NewController(t)

	mockRepo := instalacionMocks.NewMockInstalacion(ctrl)
	mockPiezaRepo := piezaMocks.NewMockPieza(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	mockOtel := mocks.NewOtel()
	mockS3 := s3Mocks.NewMockS3(ctrl)

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600
	cfg.External.S3.BucketName = "imagenes-instalaciones"

	svc := service.New(mockRepo, mockPiezaRepo, cfg, mockCache, mockOtel, mockS3, nil)

	return svc, mockRepo, mockPiezaRepo, mockCache, mockS3
}

func TestInstalacionService_Create(t *testing.T) {
	t.Run("parent inserted before children, children in form order", func(t *testing.T) {
		svc, mockRepo, mockPiezaRepo, mockCache, mockS3 := newService(t)

		req := dto.CreateInstalacionRequest{
			NombreLibreria: "Libreria Nacional",
			Sede:           "Centro",
			Piezas: []dto.CreatePiezaRequest{
				{NombrePieza: "Pendon"},
				{NombrePieza: "Afiche", MedidasPieza: "50x70"},
			},
		}

		mockS3.EXPECT().
			UploadBatch(gomock.Any(), gomock.Any(), constant.S3DirLibrerias, gomock.Any()).
			Return([]string{"https://cdn/librerias/1.jpg"}, nil)
		mockS3.EXPECT().
			UploadBatch(gomock.Any(), gomock.Any(), constant.S3DirEspacios, gomock.Any()).
			Return(nil, nil)
		mockS3.EXPECT().
			UploadBatch(gomock.Any(), gomock.Any(), constant.S3DirPiezas, gomock.Any()).
			Return(nil, nil).
			Times(2)

		var inserted []string

		parentInsert := mockRepo.EXPECT().
			Insert(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, m model.Instalacion) error {
				assert.Equal(t, []string{"https://cdn/librerias/1.jpg"}, []string(m.FotosLibreria))
				assert.Equal(t, constant.ContextGuest, m.CreatedBy)
				inserted = append(inserted, "parent")
				return nil
			})

		firstChild := mockPiezaRepo.EXPECT().
			Insert(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, p piezaModel.Pieza) error {
				inserted = append(inserted, p.NombrePieza)
				return nil
			}).
			After(parentInsert)
		mockPiezaRepo.EXPECT().
			Insert(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, p piezaModel.Pieza) error {
				inserted = append(inserted, p.NombrePieza)
				return nil
			}).
			After(firstChild)

		mockCache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

		res, err := svc.Create(context.Background(), req)

		time.Sleep(10 * time.Millisecond)

		assert.NoError(t, err)
		assert.NotEmpty(t, res.ID)
		assert.Equal(t, []string{"parent", "Pendon", "Afiche"}, inserted)
	})

	t.Run("child insert failure aborts remaining children", func(t *testing.T) {
		svc, mockRepo, mockPiezaRepo, _, mockS3 := newService(t)

		req := dto.CreateInstalacionRequest{
			NombreLibreria: "Libreria Nacional",
			Piezas: []dto.CreatePiezaRequest{
				{NombrePieza: "Pendon"},
				{NombrePieza: "Afiche"},
				{NombrePieza: "Banner"},
			},
		}

		mockS3.EXPECT().
			UploadBatch(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil, nil).
			Times(5)
		mockRepo.EXPECT().
			Insert(gomock.Any(), gomock.Any()).
			Return(nil)

		mockPiezaRepo.EXPECT().
			Insert(gomock.Any(), gomock.Any()).
			Return(nil)
		mockPiezaRepo.EXPECT().
			Insert(gomock.Any(), gomock.Any()).
			Return(errors.New("database error"))

		_, err := svc.Create(context.Background(), req)

		assert.Error(t, err)
	})

	t.Run("upload failure aborts before any insert", func(t *testing.T) {
		svc, _, _, _, mockS3 := newService(t)

		req := dto.CreateInstalacionRequest{
			NombreLibreria: "Libreria Nacional",
			Piezas:         []dto.CreatePiezaRequest{{NombrePieza: "Pendon"}},
		}

		mockS3.EXPECT().
			UploadBatch(gomock.Any(), gomock.Any(), constant.S3DirLibrerias, gomock.Any()).
			Return(nil, errors.New("s3 unavailable"))

		_, err := svc.Create(context.Background(), req)

		assert.Error(t, err)
	})
}

func TestInstalacionService_GetAll(t *testing.T) {
	t.Run("cache miss falls back to repository", func(t *testing.T) {
		svc, mockRepo, _, mockCache, _ := newService(t)

		params := gDto.QueryParams{Page: 1, Limit: 10}
		filtros := dto.AppliedFilters{Libreria: "Nacional"}

		mockCache.EXPECT().
			Get(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(errors.New("cache miss")).
			Times(2)

		mockRepo.EXPECT().
			Count(gomock.Any(), gomock.Any()).
			Return(25, nil)
		mockRepo.EXPECT().
			GetAll(gomock.Any(), params, gomock.Any()).
			Return([]model.Instalacion{{ID: "a"}, {ID: "b"}}, nil)

		mockCache.EXPECT().
			Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil).
			AnyTimes()

		res, err := svc.GetAll(context.Background(), params, gDto.FilterGroup{}, filtros)

		time.Sleep(10 * time.Millisecond)

		assert.NoError(t, err)
		assert.Len(t, res.Instalaciones, 2)
		assert.Equal(t, 25, res.TotalData)
		assert.Equal(t, 3, res.TotalPage)
		assert.Equal(t, filtros, res.Filtros)
	})

	t.Run("count error stops the listing", func(t *testing.T) {
		svc, mockRepo, _, mockCache, _ := newService(t)

		mockCache.EXPECT().
			Get(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(errors.New("cache miss")).
			Times(2)
		mockRepo.EXPECT().
			Count(gomock.Any(), gomock.Any()).
			Return(0, errors.New("database error"))

		_, err := svc.GetAll(context.Background(), gDto.QueryParams{Page: 1, Limit: 10}, gDto.FilterGroup{}, dto.AppliedFilters{})

		assert.Error(t, err)
	})
}

func TestInstalacionService_Get(t *testing.T) {
	t.Run("returns detail with piezas", func(t *testing.T) {
		svc, mockRepo, mockPiezaRepo, mockCache, _ := newService(t)

		lat, lng := 4.60971, -74.08175

		mockCache.EXPECT().
			Get(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(errors.New("cache miss"))
		mockRepo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(model.Instalacion{
				ID:             "inst-1",
				NombreLibreria: "Libreria Nacional",
				IsEvento:       true,
				NombrePersonaRecibe: "Ana",
				Latitud:        &lat,
				Longitud:       &lng,
			}, nil)
		mockPiezaRepo.EXPECT().
			GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
			Return([]piezaModel.Pieza{{ID: "p1", NombrePieza: "Pendon"}}, nil)
		mockCache.EXPECT().
			Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil).
			AnyTimes()

		res, err := svc.Get(context.Background(), "inst-1")

		time.Sleep(10 * time.Millisecond)

		assert.NoError(t, err)
		assert.Equal(t, "inst-1", res.ID)
		assert.Equal(t, "Ana", res.NombrePersonaRecibe)
		assert.Equal(t, "https://www.google.com/maps?q=4.60971,-74.08175", res.MapsURL)
		assert.Len(t, res.Piezas, 1)
	})

	t.Run("unknown id yields not found", func(t *testing.T) {
		svc, mockRepo, _, mockCache, _ := newService(t)

		mockCache.EXPECT().
			Get(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(errors.New("cache miss"))
		mockRepo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(model.Instalacion{}, nil)

		_, err := svc.Get(context.Background(), "missing")

		assert.Error(t, err)
		assert.True(t, failure.IsNotFound(err))
	})
}

func TestInstalacionService_Update(t *testing.T) {
	t.Run("unknown id yields not found", func(t *testing.T) {
		svc, mockRepo, _, _, _ := newService(t)

		mockRepo.EXPECT().
			Exist(gomock.Any(), gomock.Any()).
			Return(false, nil)

		err := svc.Update(context.Background(), dto.UpdateInstalacionRequest{}, "missing")

		assert.Error(t, err)
		assert.True(t, failure.IsNotFound(err))
	})

	t.Run("eliminar entry deletes the pieza", func(t *testing.T) {
		svc, mockRepo, mockPiezaRepo, mockCache, _ := newService(t)

		req := dto.UpdateInstalacionRequest{
			Sede:   "Norte",
			Piezas: []dto.UpdatePiezaRequest{{ID: "11111111-1111-1111-1111-111111111111", Eliminar: true}},
		}

		mockRepo.EXPECT().
			Exist(gomock.Any(), gomock.Any()).
			Return(true, nil)
		mockRepo.EXPECT().
			Update(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
				assert.Equal(t, "Norte", fields[model.FieldSede])
				assert.NotContains(t, fields, model.FieldFotosLibreria)
				return nil
			})
		mockPiezaRepo.EXPECT().
			Delete(gomock.Any(), gomock.Any()).
			Return(nil)
		mockCache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
		mockCache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

		err := svc.Update(context.Background(), req, "inst-1")

		time.Sleep(10 * time.Millisecond)

		assert.NoError(t, err)
	})

	t.Run("isevento false and horas reach the parent row", func(t *testing.T) {
		svc, mockRepo, _, mockCache, _ := newService(t)

		isEvento := false
		inicio := time.Date(2026, 8, 15, 10, 0, 0, 0, time.UTC)
		req := dto.UpdateInstalacionRequest{
			IsEvento:              &isEvento,
			HoraInicioInstalacion: inicio,
		}

		mockRepo.EXPECT().
			Exist(gomock.Any(), gomock.Any()).
			Return(true, nil)
		mockRepo.EXPECT().
			Update(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
				assert.Equal(t, &isEvento, fields[model.FieldIsEvento])
				assert.Equal(t, inicio, fields[model.FieldHoraInicioInstalacion])
				assert.NotContains(t, fields, model.FieldHoraFinInstalacion)
				return nil
			})
		mockCache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
		mockCache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

		err := svc.Update(context.Background(), req, "inst-1")

		time.Sleep(10 * time.Millisecond)

		assert.NoError(t, err)
	})

	t.Run("entry with id appends new photos after existing ones", func(t *testing.T) {
		svc, mockRepo, mockPiezaRepo, mockCache, mockS3 := newService(t)

		piezaID := "22222222-2222-2222-2222-222222222222"
		req := dto.UpdateInstalacionRequest{
			Piezas: []dto.UpdatePiezaRequest{{ID: piezaID, NombrePieza: "Pendon XL"}},
			FotosPiezas: [][]*multipart.FileHeader{
				{{Filename: "nueva.jpg", Size: 1024}},
			},
		}

		mockRepo.EXPECT().
			Exist(gomock.Any(), gomock.Any()).
			Return(true, nil)
		mockRepo.EXPECT().
			Update(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil)
		mockPiezaRepo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(piezaModel.Pieza{ID: piezaID, FotosPieza: []string{"https://cdn/piezas/vieja.jpg"}}, nil)
		mockS3.EXPECT().
			UploadBatch(gomock.Any(), gomock.Any(), constant.S3DirPiezas, gomock.Any()).
			Return([]string{"https://cdn/piezas/nueva.jpg"}, nil)
		mockPiezaRepo.EXPECT().
			Update(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
				assert.Equal(t, "Pendon XL", fields[piezaModel.FieldNombrePieza])
				assert.Equal(t, pq.StringArray{"https://cdn/piezas/vieja.jpg", "https://cdn/piezas/nueva.jpg"}, fields[piezaModel.FieldFotosPieza])
				return nil
			})
		mockCache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
		mockCache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

		err := svc.Update(context.Background(), req, "inst-1")

		time.Sleep(10 * time.Millisecond)

		assert.NoError(t, err)
	})

	t.Run("entry without id inserts a new pieza", func(t *testing.T) {
		svc, mockRepo, mockPiezaRepo, mockCache, _ := newService(t)

		req := dto.UpdateInstalacionRequest{
			Piezas: []dto.UpdatePiezaRequest{{NombrePieza: "Nuevo afiche"}},
		}

		mockRepo.EXPECT().
			Exist(gomock.Any(), gomock.Any()).
			Return(true, nil)
		mockRepo.EXPECT().
			Update(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil)
		mockPiezaRepo.EXPECT().
			Insert(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, p piezaModel.Pieza) error {
				assert.NotEmpty(t, p.ID)
				assert.Equal(t, "inst-1", p.InstalacionID)
				assert.Equal(t, "Nuevo afiche", p.NombrePieza)
				// No photos attached still means an empty array, never NULL.
				assert.Equal(t, pq.StringArray{}, p.FotosPieza)

				value, verr := p.FotosPieza.Value()
				assert.NoError(t, verr)
				assert.NotNil(t, value)
				return nil
			})
		mockCache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
		mockCache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

		err := svc.Update(context.Background(), req, "inst-1")

		time.Sleep(10 * time.Millisecond)

		assert.NoError(t, err)
	})

	t.Run("eliminar without id is a no-op", func(t *testing.T) {
		svc, mockRepo, _, mockCache, _ := newService(t)

		req := dto.UpdateInstalacionRequest{
			Piezas: []dto.UpdatePiezaRequest{{Eliminar: true}},
		}

		mockRepo.EXPECT().
			Exist(gomock.Any(), gomock.Any()).
			Return(true, nil)
		mockRepo.EXPECT().
			Update(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil)
		mockCache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
		mockCache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

		err := svc.Update(context.Background(), req, "inst-1")

		time.Sleep(10 * time.Millisecond)

		assert.NoError(t, err)
	})
}

func TestInstalacionService_Delete(t *testing.T) {
	t.Run("piezas removed before the parent", func(t *testing.T) {
		svc, mockRepo, mockPiezaRepo, mockCache, mockS3 := newService(t)

		mockRepo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(model.Instalacion{
				ID:            "inst-1",
				FotosLibreria: []string{"https://cdn/librerias/1.jpg"},
			}, nil)
		mockPiezaRepo.EXPECT().
			GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
			Return([]piezaModel.Pieza{{ID: "p1", FotosPieza: []string{"https://cdn/piezas/1.jpg"}}}, nil)

		childDelete := mockPiezaRepo.EXPECT().
			Delete(gomock.Any(), gomock.Any()).
			Return(nil)
		mockRepo.EXPECT().
			Delete(gomock.Any(), gomock.Any()).
			Return(nil).
			After(childDelete)

		mockCache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
		mockCache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
		mockS3.EXPECT().GetObjectNameFromURL(gomock.Any(), gomock.Any()).Return("object").AnyTimes()
		mockS3.EXPECT().DeleteFile(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

		err := svc.Delete(context.Background(), "inst-1")

		time.Sleep(10 * time.Millisecond)

		assert.NoError(t, err)
	})

	t.Run("child delete failure keeps the parent", func(t *testing.T) {
		svc, mockRepo, mockPiezaRepo, _, _ := newService(t)

		mockRepo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(model.Instalacion{ID: "inst-1"}, nil)
		mockPiezaRepo.EXPECT().
			GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil, nil)
		mockPiezaRepo.EXPECT().
			Delete(gomock.Any(), gomock.Any()).
			Return(errors.New("database error"))

		err := svc.Delete(context.Background(), "inst-1")

		assert.Error(t, err)
	})

	t.Run("unknown id yields not found", func(t *testing.T) {
		svc, mockRepo, _, _, _ := newService(t)

		mockRepo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(model.Instalacion{}, nil)

		err := svc.Delete(context.Background(), "missing")

		assert.Error(t, err)
		assert.True(t, failure.IsNotFound(err))
	})
}
