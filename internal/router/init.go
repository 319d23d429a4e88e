package router

import (
	"github.com/redis/go-redis/v9"

	"github.com/oksasatya/holocard-api/internal/application"
	"github.com/oksasatya/holocard-api/internal/container"
	repo "github.com/oksasatya/holocard-api/internal/domain/repository"
	pginfra "github.com/oksasatya/holocard-api/internal/infrastructure/postgres"
	"github.com/oksasatya/holocard-api/internal/infrastructure/rediscache"
	"github.com/oksasatya/holocard-api/internal/infrastructure/search"
	handlers "github.com/oksasatya/holocard-api/internal/interface/http"
	"github.com/oksasatya/holocard-api/internal/router/modules"
)

// Deps is everything the HTTP modules are built from.
type Deps struct {
	Auth     *application.AuthService
	Cards    *application.CardService
	Profiles *application.ProfileService
	Assets   *application.AssetService

	AuthHandler    *handlers.AuthHandler
	ProfileHandler *handlers.ProfileHandler
	UploadHandler  *handlers.UploadHandler
	CardHandler    *handlers.CardHandler
	HealthHandler  *handlers.HealthHandler
}

// BuildDeps wires services and handlers on top of the given repositories.
func BuildDeps(c *container.Container, users repo.UserRepository, cards repo.CardRepository) Deps {
	cfg := c.Config
	logger := c.Logger

	cardSvc := application.NewCardService(cards, users, logger)
	profileSvc := application.NewProfileService(users, cardSvc, logger)

	if rdb := redisOf(c); rdb != nil {
		cardSvc.Cache = rediscache.NewCardCache(rdb, cfg.PublicCardCacheTTL, logger)
	}
	if c.ES != nil {
		idx := search.NewCardIndex(c.ES, cfg.ESCardsIndex, logger)
		cardSvc.Searcher = idx
		profileSvc.Indexer = idx
	}

	authSvc := application.NewAuthService(users, c.Verifier, c.Sessions, logger)
	assetSvc := application.NewAssetService(cardSvc, c.Objects, c.Reaper, logger)

	errs := handlers.NewErrorResponder(logger, cfg.IsProduction())

	var pinger handlers.Pinger
	if c.Pool != nil {
		pinger = c.Pool
	}

	return Deps{
		Auth:     authSvc,
		Cards:    cardSvc,
		Profiles: profileSvc,
		Assets:   assetSvc,

		AuthHandler:    handlers.NewAuthHandler(authSvc, profileSvc, c.Cookies, errs),
		ProfileHandler: handlers.NewProfileHandler(profileSvc, errs),
		UploadHandler:  handlers.NewUploadHandler(assetSvc, cfg.UploadMaxBytes, errs),
		CardHandler:    handlers.NewCardHandler(cardSvc, cfg.FrontendURL, errs),
		HealthHandler:  handlers.NewHealthHandler(pinger),
	}
}

// Mount adds every module to the registry.
func Mount(r *Registry, c *container.Container, d Deps) {
	guard := modules.Guard{
		Sessions:   d.Auth,
		CookieName: c.Cookies.Name,
		Redis:      redisOf(c),
		Production: c.Config.IsProduction(),
	}

	r.AddRoot(modules.NewHealthModule(d.HealthHandler))
	r.Add(modules.NewAuthModule(d.AuthHandler, guard))
	r.Add(modules.NewProfileModule(d.ProfileHandler, guard))
	r.Add(modules.NewUploadModule(d.UploadHandler, guard))
	r.Add(modules.NewCardModule(d.CardHandler, guard))
	if c.Config.DebugMetricsEnabled {
		r.Add(modules.NewDebugModule(guard.Redis))
	}
}

// InitModules initializes all application modules against Postgres and registers them with the router registry
// This function should be called once during application startup to wire up all modules
func InitModules(r *Registry, c *container.Container) {
	deps := BuildDeps(c, pginfra.NewUserRepository(c.Pool), pginfra.NewCardRepository(c.Pool))
	Mount(r, c, deps)
}

func redisOf(c *container.Container) redis.Cmdable {
	if c.Redis == nil {
		return nil
	}
	return c.Redis
}
