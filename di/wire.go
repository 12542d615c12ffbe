//go:build wireinject
// +build wireinject

package di

import (
	"registro/config"
	"registro/infras/jwt"
	"registro/infras/kafka"
	"registro/infras/otel"
	"registro/infras/postgres"
	"registro/infras/redis"
	"registro/infras/s3"
	"registro/shared/cache"
	"registro/transport/http"
	"registro/transport/http/middleware"
	"registro/transport/http/router"

	"github.com/google/wire"

	authService "registro/internal/domains/auth/service"
	draftService "registro/internal/domains/draft/service"
	instalacionRepository "registro/internal/domains/instalacion/repository"
	instalacionService "registro/internal/domains/instalacion/service"
	libreriaRepository "registro/internal/domains/libreria/repository"
	libreriaService "registro/internal/domains/libreria/service"
	piezaRepository "registro/internal/domains/pieza/repository"
	userRepository "registro/internal/domains/user/repository"
	authHandler "registro/internal/handlers/auth"
	draftHandler "registro/internal/handlers/draft"
	instalacionHandler "registro/internal/handlers/instalacion"
	libreriaHandler "registro/internal/handlers/libreria"
)

var configurations = wire.NewSet(
	config.Get,
)

var infrastructures = wire.NewSet(
	postgres.New,
	otel.New,
	redis.New,
	jwt.New,
	s3.New,
	kafka.New,
)

var middlewares = wire.NewSet(
	middleware.NewAppMiddleware,
	middleware.NewAuthMiddleware,
)

var sharedHelpers = wire.NewSet(
	cache.NewRedisCache,
)

var instalacionDomain = wire.NewSet(
	instalacionRepository.New,
	piezaRepository.New,
	instalacionService.New,
)

var libreriaDomain = wire.NewSet(
	libreriaRepository.New,
	libreriaService.New,
)

var draftDomain = wire.NewSet(
	draftService.New,
)

var authDomain = wire.NewSet(
	userRepository.New,
	authService.New,
)

var domains = wire.NewSet(
	instalacionDomain,
	libreriaDomain,
	draftDomain,
	authDomain,
)

var routing = wire.NewSet(
	wire.Struct(new(router.DomainHandlers), "*"),
	instalacionHandler.New,
	libreriaHandler.New,
	draftHandler.New,
	authHandler.New,
	router.New,
)

func InitializeService() *http.HTTP {
	wire.Build(
		configurations,
		infrastructures,
		middlewares,
		sharedHelpers,
		domains,
		routing,
		http.New,
	)

	return &http.HTTP{}
}
