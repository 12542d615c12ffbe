package router

import (
	"registro/internal/handlers/auth"
	"registro/internal/handlers/draft"
	"registro/internal/handlers/instalacion"
	"registro/internal/handlers/libreria"

	"github.com/go-chi/chi/v5"
)

type DomainHandlers struct {
	Auth        auth.Handler
	Instalacion instalacion.Handler
	Libreria    libreria.Handler
	Draft       draft.Handler
}

type Router struct {
	DomainHandlers DomainHandlers
}

func (r *Router) SetupRoutes(router chi.Router) {
	router.Route("/v1", func(routerGroup chi.Router) {
		r.DomainHandlers.Auth.Router(routerGroup)
		r.DomainHandlers.Instalacion.Router(routerGroup)
		r.DomainHandlers.Libreria.Router(routerGroup)
		r.DomainHandlers.Draft.Router(routerGroup)
	})
}

func New(domainHandlers DomainHandlers) Router {
	return Router{
		DomainHandlers: domainHandlers,
	}
}
