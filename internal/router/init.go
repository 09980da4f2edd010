package router

import (
	"github.com/quantdeck/quantdeck/internal/application"
	"github.com/quantdeck/quantdeck/internal/container"
	pginfra "github.com/quantdeck/quantdeck/internal/infrastructure/postgres"
	handlers "github.com/quantdeck/quantdeck/internal/interface/http"
	"github.com/quantdeck/quantdeck/internal/router/modules"
)

// InitModules builds every feature module from the container singletons
// and registers it with the router registry. Called once at startup,
// after the container has been populated.
func InitModules(r *Registry) {
	cfg := container.GetConfig()
	logger := container.GetLogger()

	users := pginfra.NewUserRepository(container.GetPGPool())
	strategies := pginfra.NewStrategyRepository(container.GetPGPool())

	authSvc := application.NewAuthService(
		users,
		container.GetJWT(),
		container.GetRedis(),
		logger,
		container.GetRabbitPub(),
		cfg.MailSendEnabled,
	)
	userSvc := application.NewUserService(
		users,
		container.GetRedis(),
		container.GetGCS(),
		cfg.GCSBucket,
		logger,
	)
	strategySvc := application.NewStrategyService(
		strategies,
		users,
		container.GetAdvisor(),
		container.GetRedis(),
		logger,
		container.GetES(),
		cfg.ESStrategiesIndex,
	)
	adminSvc := application.NewAdminService(
		users,
		strategies,
		container.GetRedis(),
		logger,
		container.GetRabbitPub(),
		container.GetES(),
		cfg.ESStrategiesIndex,
		cfg.MailSendEnabled,
		cfg.StatsCacheTTL,
	)

	authHandler := handlers.NewAuthHandler(authSvc, logger, cfg.CookieDomain, cfg.CookieSecure)
	userHandler := handlers.NewUserHandler(userSvc, logger)
	strategyHandler := handlers.NewStrategyHandler(strategySvc, logger)
	adminHandler := handlers.NewAdminHandler(adminSvc, logger)
	systemHandler := handlers.NewSystemHandler(container.GetPGPool(), container.GetRedis())

	jwt := container.GetJWT()
	r.Add(modules.NewSystemModule(systemHandler))
	r.Add(modules.NewAuthModule(authHandler, jwt))
	r.Add(modules.NewUserModule(userHandler, jwt))
	r.Add(modules.NewStrategyModule(strategyHandler, jwt))
	r.Add(modules.NewAdminModule(adminHandler, jwt))
}
