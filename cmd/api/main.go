// @title                       Storefront API
// @version                     1.0
// @description                 E-commerce backend: accounts, catalog and orders behind bearer-token auth.
// @BasePath                    /api/v1
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
// @description                 Type "Bearer" followed by a space and the token.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	_ "github.com/storefront/storefront-api/docs"
	"github.com/storefront/storefront-api/internal/api"
	"github.com/storefront/storefront-api/internal/api/handler"
	"github.com/storefront/storefront-api/internal/api/validation"
	"github.com/storefront/storefront-api/internal/core/domain"
	"github.com/storefront/storefront-api/internal/core/ports"
	"github.com/storefront/storefront-api/internal/core/service"
	"github.com/storefront/storefront-api/internal/infrastructure/db/memory"
	mongostore "github.com/storefront/storefront-api/internal/infrastructure/db/mongo"
	redisstore "github.com/storefront/storefront-api/internal/infrastructure/db/redis"
	"github.com/storefront/storefront-api/internal/infrastructure/queue"
	"github.com/storefront/storefront-api/internal/infrastructure/security"
	"github.com/storefront/storefront-api/internal/pkg/config"
	"github.com/storefront/storefront-api/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

type stores struct {
	users      ports.Store[domain.User]
	categories ports.Store[domain.Category]
	products   ports.Store[domain.Product]
	orders     ports.Store[domain.Order]
	events     ports.Store[domain.AuditEvent]
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		bootLog := logger.New(logger.Options{})
		bootLog.Fatal().Err(err).Msg("failed to load configuration")
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
		Service: "storefront-api",
	})

	readiness := map[string]handler.Pinger{}
	st, closeStores := openStores(ctx, cfg, log, readiness)
	defer closeStores()

	tokens, err := security.NewJWTIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL, logger.Component("tokens"))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create token issuer")
	}

	var limiter ports.LoginLimiter
	if cfg.Redis.Addr != "" {
		rdb, err := redisstore.Connect(ctx, redisstore.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to redis")
		}
		defer rdb.Close()
		limiter = redisstore.NewLoginThrottle(rdb, cfg.Auth.LoginMaxAttempts, cfg.Auth.LoginLockout)
		readiness["redis"] = redisstore.Pinger(rdb)
	} else {
		log.Warn().Msg("REDIS_ADDR not set, login throttling disabled")
	}

	dispatcher := queue.NewDispatcher(cfg.Audit.Workers, st.events, logger.Component("audit"))
	dispatcher.Start(context.Background())

	userSvc := service.NewUserService(st.users, dispatcher, logger.Component("users"))
	authSvc := service.NewAuthService(st.users, security.NewBcryptHasher(cfg.Auth.BcryptCost), tokens, service.AuthConfig{
		AllowAdminRegistration: cfg.Auth.AllowAdminRegistration,
		DefaultResetPassword:   cfg.Auth.DefaultResetPassword,
		Limiter:                limiter,
		Audit:                  dispatcher,
	}, logger.Component("auth"))

	e := api.NewRouter(api.Deps{
		Log: log,
		Services: api.Services{
			Auth:       authSvc,
			Users:      userSvc,
			Categories: service.NewCategoryService(st.categories, logger.Component("categories")),
			Products:   service.NewProductService(st.products, st.categories, logger.Component("products")),
			Orders:     service.NewOrderService(st.orders, st.users, st.products, logger.Component("orders")),
			Audit:      service.NewAuditService(st.events),
		},
		Tokens:     tokens,
		Validator:  validation.New(validation.Storefront()...),
		Lookup:     userSvc.CurrentIdentity,
		Registerer: prometheus.DefaultRegisterer,
		Gatherer:   prometheus.DefaultGatherer,
		Readiness:  readiness,
	})

	go func() {
		log.Info().Str("port", cfg.Port).Str("store", cfg.Store).Msg("server starting")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
	dispatcher.Close()
}

// openStores builds the configured persistence backend and registers its
// readiness check.
func openStores(ctx context.Context, cfg *config.Config, log zerolog.Logger, readiness map[string]handler.Pinger) (stores, func()) {
	if cfg.Store == config.StoreMemory {
		log.Warn().Msg("using in-memory store, data is lost on restart")
		return stores{
			users:      memory.NewStore[domain.User]("email"),
			categories: memory.NewStore[domain.Category](),
			products:   memory.NewStore[domain.Product](),
			orders:     memory.NewStore[domain.Order](),
			events:     memory.NewStore[domain.AuditEvent]("eventId"),
		}, func() {}
	}

	client, db, err := mongostore.Connect(ctx, mongostore.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to mongo")
	}
	if err := mongostore.EnsureIndexes(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("failed to create indexes")
	}
	readiness["mongo"] = mongostore.Pinger(client)

	return stores{
		users:      mongostore.NewStore[domain.User](db, mongostore.UsersCollection),
		categories: mongostore.NewStore[domain.Category](db, mongostore.CategoriesCollection),
		products:   mongostore.NewStore[domain.Product](db, mongostore.ProductsCollection),
		orders:     mongostore.NewStore[domain.Order](db, mongostore.OrdersCollection),
		events:     mongostore.NewStore[domain.AuditEvent](db, mongostore.AuditEventsCollection),
	}, func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := client.Disconnect(disconnectCtx); err != nil {
			log.Error().Err(err).Msg("mongo disconnect failed")
		}
	}
}
