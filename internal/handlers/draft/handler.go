package draft

import (
	"net/http"
	"registro/infras/otel"
	"registro/internal/domains/draft/model/dto"
	"registro/internal/domains/draft/service"
	"registro/shared/constant"
	"registro/shared/failure"
	"registro/shared/validator"
	"registro/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Draft
	otel    otel.Otel
}

func New(service service.Draft, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

// Router mounts the registration draft routes. Drafts are keyed by the
// X-Draft-Key header so an unauthenticated registrant can resume a
// half-filled form from the same browser.
func (handler *Handler) Router(router chi.Router) {
	router.Route("/drafts", func(routerGroup chi.Router) {
		routerGroup.Put("/registro", handler.SaveDraft)
		routerGroup.Get("/registro", handler.GetDraft)
		routerGroup.Delete("/registro", handler.DeleteDraft)
	})
}

// SaveDraft stores or replaces the registration draft for the caller's
// draft key.
func (handler *Handler) SaveDraft(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".SaveDraft")
	defer scope.End()

	key := r.Header.Get(constant.RequestHeaderDraftKey)
	if key == constant.Empty {
		err := failure.BadRequestFromString("Missing " + constant.RequestHeaderDraftKey + " header")
		scope.TraceError(err)

		response.WithError(w, err)

		return
	}

	req := dto.SaveDraftRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate draft body")

		response.WithError(w, err)

		return
	}

	res, err := handler.service.Save(ctx, key, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to save draft")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Draft saved successfully")

	response.WithJSON(w, http.StatusOK, res)
}

// GetDraft returns the stored draft for the caller's draft key.
func (handler *Handler) GetDraft(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetDraft")
	defer scope.End()

	key := r.Header.Get(constant.RequestHeaderDraftKey)
	if key == constant.Empty {
		err := failure.BadRequestFromString("Missing " + constant.RequestHeaderDraftKey + " header")
		scope.TraceError(err)

		response.WithError(w, err)

		return
	}

	res, err := handler.service.Get(ctx, key)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get draft")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Draft retrieved successfully")

	response.WithJSON(w, http.StatusOK, res)
}

// DeleteDraft discards the stored draft for the caller's draft key.
func (handler *Handler) DeleteDraft(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteDraft")
	defer scope.End()

	key := r.Header.Get(constant.RequestHeaderDraftKey)
	if key == constant.Empty {
		err := failure.BadRequestFromString("Missing " + constant.RequestHeaderDraftKey + " header")
		scope.TraceError(err)

		response.WithError(w, err)

		return
	}

	if err := handler.service.Delete(ctx, key); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to delete draft")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Draft deleted successfully")

	response.WithMessage(w, http.StatusOK, "Draft deleted successfully")
}
