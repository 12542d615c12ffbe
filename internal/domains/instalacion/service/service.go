package service

import (
	"context"
	"fmt"
	"mime/multipart"

	"registro/config"
	"registro/infras/kafka"
	"registro/infras/otel"
	"registro/infras/s3"
	"registro/internal/domains/instalacion/model"
	"registro/internal/domains/instalacion/model/dto"
	"registro/internal/domains/instalacion/repository"
	piezaModel "registro/internal/domains/pieza/model"
	piezaRepository "registro/internal/domains/pieza/repository"
	"registro/shared"
	"registro/shared/cache"
	"registro/shared/constant"
	gDto "registro/shared/dto"
	"registro/shared/failure"
	gModel "registro/shared/model"
	"registro/shared/timezone"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/rs/zerolog/log"
)

const (
	cacheGetInstalacion    = "instalacion:get"
	cacheGetAllInstalacion = "instalacion:get_all"
	cacheCountInstalacion  = "instalacion:count"

	eventRegistered = "instalacion.registered"
	eventDeleted    = "instalacion.deleted"
)

type Event struct {
	Type           string `json:"type"`
	InstalacionID  string `json:"instalacion_id"`
	NombreLibreria string `json:"nombre_libreria,omitempty"`
	OccurredAt     string `json:"occurred_at"`
}

type Instalacion interface {
	Create(ctx context.Context, req dto.CreateInstalacionRequest) (dto.CreateInstalacionResponse, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup, filtros dto.AppliedFilters) (dto.GetInstalacionesResponse, error)
	Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (int, error)
	Get(ctx context.Context, id string) (dto.InstalacionDetailResponse, error)
	Update(ctx context.Context, req dto.UpdateInstalacionRequest, id string) error
	Delete(ctx context.Context, id string) error
}

type serviceImpl struct {
	repo      repository.Instalacion
	piezaRepo piezaRepository.Pieza
	cfg       *config.Config
	cache     cache.RedisCache
	otel      otel.Otel
	s3        s3.S3
	kafka     kafka.Client
}

func New(repo repository.Instalacion, piezaRepo piezaRepository.Pieza, cfg *config.Config, cache cache.RedisCache, otel otel.Otel, s3 s3.S3, kafka kafka.Client) Instalacion {
	return &serviceImpl{
		repo:      repo,
		piezaRepo: piezaRepo,
		cfg:       cfg,
		cache:     cache,
		otel:      otel,
		s3:        s3,
		kafka:     kafka,
	}
}

// Create runs the registration workflow: photos are uploaded first (venue,
// branded space, then one batch per pieza), the parent row is inserted, then
// one child row per pieza. Any failure aborts the remaining steps; committed
// uploads and rows are not rolled back.
func (s *serviceImpl) Create(ctx context.Context, req dto.CreateInstalacionRequest) (res dto.CreateInstalacionResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	if user == constant.Empty {
		user = constant.ContextGuest
	}

	bucketName := s.cfg.External.S3.BucketName

	fotosLibreria, err := s.s3.UploadBatch(ctx, bucketName, constant.S3DirLibrerias, req.FotosLibreria)
	if err != nil {
		log.Error().Err(err).Msg("failed to upload venue photos")

		return res, fmt.Errorf("failed to upload venue photos: %w", err)
	}

	fotosEspacio, err := s.s3.UploadBatch(ctx, bucketName, constant.S3DirEspacios, req.FotosEspacio)
	if err != nil {
		log.Error().Err(err).Msg("failed to upload branded space photos")

		return res, fmt.Errorf("failed to upload branded space photos: %w", err)
	}

	fotosPiezas := make([][]string, len(req.Piezas))

	for idx := range req.Piezas {
		var files []*multipart.FileHeader
		if idx < len(req.FotosPiezas) {
			files = req.FotosPiezas[idx]
		}

		fotosPiezas[idx], err = s.s3.UploadBatch(ctx, bucketName, constant.S3DirPiezas, files)
		if err != nil {
			log.Error().Err(err).Int("pieza", idx).Msg("failed to upload piece photos")

			return res, fmt.Errorf("failed to upload piece photos: %w", err)
		}
	}

	instalacion := req.ToModel(user)
	instalacion.FotosLibreria = fotosLibreria
	instalacion.FotosEspacio = fotosEspacio

	if err = s.repo.Insert(ctx, instalacion); err != nil {
		log.Error().Err(err).Msg("failed to insert instalacion")

		return res, err
	}

	for idx, piezaReq := range req.Piezas {
		pieza := piezaReq.ToModel(instalacion.ID, user)
		pieza.FotosPieza = fotosPiezas[idx]

		// First child failure aborts the rest; the parent and earlier
		// children stay committed.
		if err = s.piezaRepo.Insert(ctx, pieza); err != nil {
			log.Error().Err(err).Int("pieza", idx).Msg("failed to insert pieza")

			return res, fmt.Errorf("failed to insert pieza %d: %w", idx, err)
		}
	}

	res.ID = instalacion.ID

	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, cacheGetAllInstalacion)
		shared.InvalidateCaches(c, s.cache, cacheCountInstalacion)

		s.publishEvent(c, eventRegistered, instalacion.ID, instalacion.NombreLibreria)
	}()

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup, filtros dto.AppliedFilters) (res dto.GetInstalacionesResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllInstalacion, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for instalaciones")

		return res, nil
	}

	total, err := s.Count(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count instalaciones")

		return res, err
	}

	instalaciones, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get instalaciones")

		return res, err
	}

	res.FromModels(instalaciones, total, req.Limit, filtros)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save instalaciones to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (total int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Count")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountInstalacion, req, filter)

	err = s.cache.Get(ctx, cacheKey, &total)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for instalacion count")

		return total, nil
	}

	total, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count instalaciones")

		return total, err
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, total, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save instalacion count to cache")
		}
	}()

	return total, nil
}

// Get returns the detail view: the parent row plus its piezas in insertion
// order. Detail and edit-load share this path, so a missing id yields the
// same typed not-found in both flows.
func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.InstalacionDetailResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKey(cacheGetInstalacion, id)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for instalacion")

		return res, nil
	}

	instalacion, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get instalacion")

		return res, fmt.Errorf("failed to get instalacion: %w", err)
	}

	if instalacion.ID == constant.Empty {
		return res, failure.NotFound("instalacion not found")
	}

	piezas, err := s.getPiezas(ctx, id)
	if err != nil {
		return res, err
	}

	res.FromModel(instalacion, piezas)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save instalacion to cache")
		}
	}()

	return res, nil
}

// Update runs the edit workflow. The parent scalars are patched first (photo
// arrays untouched), then every submitted pieza is processed in order:
// eliminar deletes, an id updates (new photos appended after the existing
// ones), no id inserts. A failed step aborts the remaining ones; applied
// steps stay committed.
func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateInstalacionRequest, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Update")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	exist, err := s.repo.Exist(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to check instalacion existence")

		return err
	}

	if !exist {
		return failure.NotFound("instalacion not found")
	}

	scalars := req
	scalars.Piezas = nil
	scalars.FotosPiezas = nil

	updatedFields := shared.TransformFields(scalars, user)
	if err = s.repo.Update(ctx, updatedFields, filter); err != nil {
		log.Error().Err(err).Msg("failed to update instalacion")

		return fmt.Errorf("failed to update instalacion: %w", err)
	}

	for idx, pieza := range req.Piezas {
		var files []*multipart.FileHeader
		if idx < len(req.FotosPiezas) {
			files = req.FotosPiezas[idx]
		}

		if err = s.applyPiezaChange(ctx, id, user, pieza, files); err != nil {
			log.Error().Err(err).Int("pieza", idx).Msg("failed to apply pieza change")

			return err
		}
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetInstalacion, id)); err != nil {
			log.Error().Err(err).Msg("failed to delete instalacion cache")
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllInstalacion)
		shared.InvalidateCaches(c, s.cache, cacheCountInstalacion)
	}()

	return nil
}

// Delete removes the piezas first and only then the parent, so a child
// failure never leaves orphaned rows. Photos are cleaned from object storage
// asynchronously.
func (s *serviceImpl) Delete(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Delete")
	defer scope.End()
	defer scope.TraceIfError(err)

	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	instalacion, err := s.repo.Get(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get instalacion for deletion")

		return fmt.Errorf("failed to get instalacion: %w", err)
	}

	if instalacion.ID == constant.Empty {
		return failure.NotFound("instalacion not found")
	}

	piezas, err := s.getPiezas(ctx, id)
	if err != nil {
		return err
	}

	piezaFilter := shared.FilterByID(id, piezaModel.FieldInstalacionID, piezaModel.TableName)

	if err = s.piezaRepo.Delete(ctx, piezaFilter); err != nil {
		log.Error().Err(err).Msg("failed to delete piezas")

		return fmt.Errorf("failed to delete piezas: %w", err)
	}

	if err = s.repo.Delete(ctx, filter); err != nil {
		log.Error().Err(err).Msg("failed to delete instalacion")

		return fmt.Errorf("failed to delete instalacion: %w", err)
	}

	urls := append([]string{}, instalacion.FotosLibreria...)
	urls = append(urls, instalacion.FotosEspacio...)

	for _, pieza := range piezas {
		urls = append(urls, pieza.FotosPieza...)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetInstalacion, id)); err != nil {
			log.Error().Err(err).Msg("failed to delete instalacion cache")
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllInstalacion)
		shared.InvalidateCaches(c, s.cache, cacheCountInstalacion)

		s.deleteFotosFromS3(c, urls)

		s.publishEvent(c, eventDeleted, id, instalacion.NombreLibreria)
	}()

	return nil
}

func (s *serviceImpl) applyPiezaChange(ctx context.Context, instalacionID, user string, pieza dto.UpdatePiezaRequest, files []*multipart.FileHeader) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".applyPiezaChange")
	defer scope.End()
	defer scope.TraceIfError(err)

	bucketName := s.cfg.External.S3.BucketName

	piezaFilter := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    piezaModel.FieldID,
				Value:    pieza.ID,
				Operator: gDto.FilterOperatorEq,
				Table:    piezaModel.TableName,
			},
			gDto.Filter{
				ArgName:  piezaModel.FieldInstalacionID,
				Field:    piezaModel.FieldInstalacionID,
				Value:    instalacionID,
				Operator: gDto.FilterOperatorEq,
				Table:    piezaModel.TableName,
			},
		},
	}

	switch {
	case pieza.ID != constant.Empty && pieza.Eliminar:
		if err = s.piezaRepo.Delete(ctx, piezaFilter); err != nil {
			return fmt.Errorf("failed to delete pieza: %w", err)
		}

		return nil

	case pieza.ID != constant.Empty:
		current, err := s.piezaRepo.Get(ctx, piezaFilter)
		if err != nil {
			return fmt.Errorf("failed to get pieza: %w", err)
		}

		if current.ID == constant.Empty {
			return failure.NotFound("pieza not found")
		}

		fields := map[string]any{
			constant.FieldModifiedAt: timezone.Now(),
			constant.FieldModifiedBy: user,
		}

		if pieza.NombrePieza != constant.Empty {
			fields[piezaModel.FieldNombrePieza] = pieza.NombrePieza
		}

		if pieza.MedidasPieza != constant.Empty {
			fields[piezaModel.FieldMedidasPieza] = pieza.MedidasPieza
		}

		if len(files) > 0 {
			urls, err := s.s3.UploadBatch(ctx, bucketName, constant.S3DirPiezas, files)
			if err != nil {
				return fmt.Errorf("failed to upload piece photos: %w", err)
			}

			// New photos go after the existing ones, preserving order.
			fields[piezaModel.FieldFotosPieza] = append(current.FotosPieza, urls...)
		}

		if err = s.piezaRepo.Update(ctx, fields, piezaFilter); err != nil {
			return fmt.Errorf("failed to update pieza: %w", err)
		}

		return nil

	case pieza.Eliminar:
		// Delete flag without an id is a no-op.
		return nil

	default:
		newPieza := piezaModel.Pieza{
			ID:            uuid.NewString(),
			InstalacionID: instalacionID,
			NombrePieza:   pieza.NombrePieza,
			MedidasPieza:  pieza.MedidasPieza,
			FotosPieza:    pq.StringArray{},
			Metadata: gModel.Metadata{
				CreatedAt:  timezone.Now(),
				ModifiedAt: timezone.Now(),
				CreatedBy:  user,
				ModifiedBy: user,
			},
		}

		if len(files) > 0 {
			urls, err := s.s3.UploadBatch(ctx, bucketName, constant.S3DirPiezas, files)
			if err != nil {
				return fmt.Errorf("failed to upload piece photos: %w", err)
			}

			newPieza.FotosPieza = urls
		}

		if err = s.piezaRepo.Insert(ctx, newPieza); err != nil {
			return fmt.Errorf("failed to insert pieza: %w", err)
		}

		return nil
	}
}

func (s *serviceImpl) getPiezas(ctx context.Context, instalacionID string) ([]piezaModel.Pieza, error) {
	piezas, err := s.piezaRepo.GetAll(
		ctx,
		gDto.QueryParams{SortBy: constant.FieldCreatedAt, SortDir: "ASC"},
		shared.FilterByID(instalacionID, piezaModel.FieldInstalacionID, piezaModel.TableName),
	)
	if err != nil {
		log.Error().Err(err).Msg("failed to get piezas")

		return nil, fmt.Errorf("failed to get piezas: %w", err)
	}

	return piezas, nil
}

func (s *serviceImpl) deleteFotosFromS3(ctx context.Context, urls []string) {
	bucketName := s.cfg.External.S3.BucketName

	for _, url := range urls {
		objectName := s.s3.GetObjectNameFromURL(bucketName, url)
		if objectName == constant.Empty {
			log.Warn().Str("url", url).Msg("failed to extract object name from URL")

			continue
		}

		if err := s.s3.DeleteFile(ctx, bucketName, constant.Empty, objectName); err != nil {
			log.Error().Err(err).Str("objectName", objectName).Msg("failed to delete photo from S3")
		}
	}
}

func (s *serviceImpl) publishEvent(ctx context.Context, eventType, id, nombreLibreria string) {
	if !s.cfg.Kafka.Enable || s.kafka == nil {
		return
	}

	event := Event{
		Type:           eventType,
		InstalacionID:  id,
		NombreLibreria: nombreLibreria,
		OccurredAt:     timezone.Format(timezone.Now(), constant.DateFormat),
	}

	err := s.kafka.SendMessages(ctx, s.cfg.Kafka.Topic.Instalaciones, kafka.Message{
		Key:   id,
		Value: event,
	})
	if err != nil {
		log.Error().Err(err).Str("type", eventType).Msg("failed to publish instalacion event")
	}
}
