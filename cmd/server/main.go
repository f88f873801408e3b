package main // Entry point package

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"

	"github.com/iliyamo/contacts-manager/internal/config"
	"github.com/iliyamo/contacts-manager/internal/database"
	"github.com/iliyamo/contacts-manager/internal/handler"
	"github.com/iliyamo/contacts-manager/internal/logging"
	"github.com/iliyamo/contacts-manager/internal/middleware"
	"github.com/iliyamo/contacts-manager/internal/queue"
	"github.com/iliyamo/contacts-manager/internal/repository"
	"github.com/iliyamo/contacts-manager/internal/router"
	"github.com/iliyamo/contacts-manager/internal/service"
	"github.com/iliyamo/contacts-manager/internal/utils"
)

// stores groups the repositories selected by STORE_DRIVER.
type stores struct {
	users    service.UserStore
	contacts service.ContactStore
	pinger   handler.Pinger
	close    func() error
}

func openStores(ctx context.Context, cfg config.Config) (stores, error) {
	if cfg.StoreDriver == config.StoreMemory {
		mem := repository.NewMemory()
		return stores{
			users:    mem.Users(),
			contacts: mem.Contacts(),
			pinger:   mem,
			close:    func() error { return nil },
		}, nil
	}

	db, err := database.Open(ctx, cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		return stores{}, err
	}
	if cfg.DBMigrate {
		if err := database.Migrate(ctx, db); err != nil {
			_ = db.Close()
			return stores{}, err
		}
	}
	return stores{
		users:    repository.NewUserRepo(db),
		contacts: repository.NewContactRepo(db),
		pinger:   db,
		close:    db.Close,
	}, nil
}

func openPublisher(cfg config.Config) queue.Publisher {
	if cfg.AMQPURL == "" {
		return queue.NopPublisher{}
	}
	return queue.NewAMQPPublisher(cfg.AMQPURL, cfg.EventsQueue)
}

func main() {
	// a missing .env is normal outside local development
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Warn().Err(err).Msg("read .env")
	}

	cfg := config.Load() // Load environment config
	logging.Setup(cfg.LogLevel, cfg.LogFormat)
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := openStores(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.StoreDriver).Msg("open store")
	}
	events := openPublisher(cfg)

	tokens := utils.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL)
	authSvc, err := service.NewAuthService(st.users, tokens, cfg.BcryptCost, events)
	if err != nil {
		log.Fatal().Err(err).Msg("init auth service")
	}
	contactSvc := service.NewContactService(st.contacts, events)

	var shuttingDown atomic.Bool
	e := router.New(router.Options{
		CORSOrigin: cfg.CORSOrigin,
		Registerer: prometheus.DefaultRegisterer,
		Gatherer:   prometheus.DefaultGatherer,
	})
	gate := middleware.Authenticate(authSvc)
	router.RegisterRoutes(e, &handler.HealthHandler{Store: st.pinger, ShuttingDown: &shuttingDown})
	router.RegisterAuth(e, handler.NewAuthHandler(authSvc, cfg.CookieSecure), gate)
	router.RegisterContacts(e, handler.NewContactHandler(contactSvc), gate)

	addr := ":" + cfg.Port
	go func() {
		log.Info().Str("addr", addr).Str("env", cfg.Env).Str("store", cfg.StoreDriver).Msg("listening")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	shuttingDown.Store(true)
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}
	if err := events.Close(); err != nil {
		log.Error().Err(err).Msg("close publisher")
	}
	if err := st.close(); err != nil && !errors.Is(err, sql.ErrConnDone) {
		log.Error().Err(err).Msg("close store")
	}
}
