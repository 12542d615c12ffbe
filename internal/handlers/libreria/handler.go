package libreria

import (
	"net/http"
	"registro/infras/otel"
	"registro/internal/domains/libreria/model/dto"
	"registro/internal/domains/libreria/service"
	"registro/shared/constant"
	"registro/shared/validator"
	"registro/transport/http/middleware"
	"registro/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Libreria
	auth    middleware.Auth
	otel    otel.Otel
}

func New(service service.Libreria, auth middleware.Auth, otel otel.Otel) Handler {
	return Handler{
		service: service,
		auth:    auth,
		otel:    otel,
	}
}

// Router mounts the libreria routes. The picklist is public because the
// registration form needs it; catalog management requires auth.
func (handler *Handler) Router(router chi.Router) {
	router.Route("/librerias", func(routerGroup chi.Router) {
		routerGroup.Get("/", handler.GetLibrerias)

		routerGroup.Group(func(authGroup chi.Router) {
			authGroup.Use(handler.auth.Auth)
			authGroup.Post("/", handler.CreateLibreria)
			authGroup.Patch("/{id}", handler.UpdateLibreria)
			authGroup.Delete("/{id}", handler.DeleteLibreria)
		})
	})
}

// GetLibrerias returns the full catalog for the registration picklist.
func (handler *Handler) GetLibrerias(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetLibrerias")
	defer scope.End()

	librerias, err := handler.service.GetAll(ctx)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get librerias")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Librerias retrieved successfully")

	response.WithJSON(w, http.StatusOK, librerias)
}

// CreateLibreria adds a libreria to the catalog.
func (handler *Handler) CreateLibreria(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateLibreria")
	defer scope.End()

	req := dto.CreateLibreriaRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	if err := handler.service.Create(ctx, req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create libreria")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Libreria created successfully by user " + user)

	response.WithMessage(w, http.StatusCreated, "Libreria created successfully")
}

// UpdateLibreria edits a catalog entry.
func (handler *Handler) UpdateLibreria(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateLibreria")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	if err := validator.ValidateVar(id, "required,uuid"); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("invalid libreria id")

		response.WithError(w, err)

		return
	}

	req := dto.UpdateLibreriaRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	if err := handler.service.Update(ctx, req, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to update libreria")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Libreria updated successfully by user " + user)

	response.WithMessage(w, http.StatusOK, "Libreria updated successfully")
}

// DeleteLibreria removes a catalog entry. Existing instalaciones keep
// the libreria name they were registered with.
func (handler *Handler) DeleteLibreria(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteLibreria")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	if err := validator.ValidateVar(id, "required,uuid"); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("invalid libreria id")

		response.WithError(w, err)

		return
	}

	if err := handler.service.Delete(ctx, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to delete libreria")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Libreria deleted successfully by user " + user)

	response.WithMessage(w, http.StatusOK, "Libreria deleted successfully")
}
