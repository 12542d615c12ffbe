package instalacion

import (
	"context"
	"net/http"
	"registro/infras/otel"
	"registro/internal/domains/draft/service"
	"registro/internal/domains/instalacion/model/dto"
	instalacionService "registro/internal/domains/instalacion/service"
	"registro/shared/constant"
	gDto "registro/shared/dto"
	"registro/shared/failure"
	"registro/shared/validator"
	"registro/transport/http/middleware"
	"registro/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service      instalacionService.Instalacion
	draftService service.Draft
	auth         middleware.Auth
	otel         otel.Otel
}

func New(service instalacionService.Instalacion, draftService service.Draft, auth middleware.Auth, otel otel.Otel) Handler {
	return Handler{
		service:      service,
		draftService: draftService,
		auth:         auth,
		otel:         otel,
	}
}

// Router mounts the instalacion routes. Registration is public so the
// field crews can submit without an account; the dashboard routes sit
// behind the auth gate.
func (handler *Handler) Router(router chi.Router) {
	router.Route("/instalaciones", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.CreateInstalacion)

		routerGroup.Group(func(authGroup chi.Router) {
			authGroup.Use(handler.auth.Auth)
			authGroup.Get("/", handler.GetInstalaciones)
			authGroup.Get("/{id}", handler.GetInstalacionByID)
			authGroup.Patch("/{id}", handler.UpdateInstalacion)
			authGroup.Delete("/{id}", handler.DeleteInstalacion)
		})
	})
}

// CreateInstalacion registers a new instalacion from the public
// multipart form, photos included.
func (handler *Handler) CreateInstalacion(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateInstalacion")
	defer scope.End()

	req := dto.CreateInstalacionRequest{}

	if err := req.FromMultipart(request); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to parse multipart form")

		response.WithError(writer, failure.BadRequest(err))

		return
	}

	if err := validator.ValidateStruct(&req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate registration request")

		response.WithError(writer, err)

		return
	}

	res, err := handler.service.Create(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create instalacion")

		response.WithError(writer, err)

		return
	}

	if draftKey := request.Header.Get(constant.RequestHeaderDraftKey); draftKey != constant.Empty {
		go func(draftCtx context.Context, key string) {
			if err := handler.draftService.Delete(draftCtx, key); err != nil {
				log.Warn().Err(err).Msg("failed to clear registration draft")
			}
		}(context.WithoutCancel(ctx), draftKey)
	}

	scope.AddEvent("Instalacion registered successfully")

	response.WithJSON(writer, http.StatusCreated, res)
}

// GetInstalaciones serves the dashboard list: filterable by libreria,
// sede and fecha, paginated at a fixed page size, newest first.
func (handler *Handler) GetInstalaciones(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetInstalaciones")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)
	queryParams.Limit = constant.DefaultValueLimit
	queryParams.SortBy = constant.FieldCreatedAt
	queryParams.SortDir = gDto.SortDirDesc

	libreria := r.URL.Query().Get(constant.RequestParamLibreria)
	sede := r.URL.Query().Get(constant.RequestParamSede)
	fecha := r.URL.Query().Get(constant.RequestParamFecha)

	filterGroup, err := dto.BuildDashboardFilter(libreria, sede, fecha)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to build dashboard filter")

		response.WithError(w, failure.BadRequest(err))

		return
	}

	filtros := dto.AppliedFilters{
		Libreria: libreria,
		Sede:     sede,
		Fecha:    fecha,
	}

	instalaciones, err := handler.service.GetAll(ctx, queryParams, filterGroup, filtros)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get instalaciones")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Instalaciones retrieved successfully")

	response.WithJSON(w, http.StatusOK, instalaciones)
}

// GetInstalacionByID retrieves the full detail of one instalacion with
// its piezas.
func (handler *Handler) GetInstalacionByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetInstalacionByID")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	if err := validator.ValidateVar(id, "required,uuid"); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("invalid instalacion id")

		response.WithError(w, err)

		return
	}

	instalacion, err := handler.service.Get(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get instalacion by ID")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Instalacion retrieved successfully")

	response.WithJSON(w, http.StatusOK, instalacion)
}

// UpdateInstalacion edits an existing instalacion from the dashboard
// edit form, applying pieza additions, updates and removals in order.
func (handler *Handler) UpdateInstalacion(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateInstalacion")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	if err := validator.ValidateVar(id, "required,uuid"); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("invalid instalacion id")

		response.WithError(w, err)

		return
	}

	req := dto.UpdateInstalacionRequest{}

	if err := req.FromMultipart(r); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to parse multipart form")

		response.WithError(w, failure.BadRequest(err))

		return
	}

	if err := validator.ValidateStruct(&req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate update request")

		response.WithError(w, err)

		return
	}

	if err := handler.service.Update(ctx, req, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to update instalacion")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Instalacion updated successfully by user " + user)

	response.WithMessage(w, http.StatusOK, "Instalacion updated successfully")
}

// DeleteInstalacion removes an instalacion with its piezas and photos.
func (handler *Handler) DeleteInstalacion(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteInstalacion")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	if err := validator.ValidateVar(id, "required,uuid"); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("invalid instalacion id")

		response.WithError(w, err)

		return
	}

	if err := handler.service.Delete(ctx, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to delete instalacion")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Instalacion deleted successfully by user " + user)

	response.WithMessage(w, http.StatusOK, "Instalacion deleted successfully")
}
