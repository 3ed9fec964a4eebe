package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mini_one/internal/api"
	"mini_one/internal/app/service"
	"mini_one/internal/common/security"
	"mini_one/internal/domain/repository"
	"mini_one/internal/platform/config"
	"mini_one/internal/platform/database"
	"mini_one/internal/platform/kv"
	"mini_one/internal/platform/logging"

	"github.com/sirupsen/logrus"
)

func main() {
	// 1. Load Configuration
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("invalid configuration")
	}
	log := logging.New(cfg)
	log.WithField("env", cfg.Env).Info("configuration loaded")

	ctx := context.Background()

	// 2. Initialize Database
	db, err := database.Connect(ctx, cfg)
	if err != nil {
		log.WithError(err).Fatal("database unavailable")
	}
	defer db.Close()
	if err := database.Migrate(ctx, db); err != nil {
		log.WithError(err).Fatal("migrations failed")
	}
	log.Info("database connected and migrated")

	// 3. Initialize Redis
	rdb, err := kv.Connect(ctx, cfg)
	if err != nil {
		log.WithError(err).Fatal("redis unavailable")
	}
	defer rdb.Close()
	log.Info("redis connected")

	// 4. Security primitives
	tokens := security.NewTokenCodec(cfg.JWTKey, cfg.JWTExp)
	hasher, err := security.NewHasher(cfg.BcryptCost)
	if err != nil {
		log.WithError(err).Fatal("invalid BCRYPT_COST")
	}

	// 5. Repositories and services
	userRepo := repository.NewPgUserRepository(db)
	messageRepo := repository.NewPgMessageRepository(db)

	accountService := service.NewAccountService(userRepo, tokens, hasher, log)
	messageService := service.NewMessageService(messageRepo, log)

	// 6. Router & HTTP Server
	router := api.NewRouter(api.Dependencies{
		Config:         cfg,
		Log:            log,
		Tokens:         tokens,
		AccountService: accountService,
		MessageService: messageService,
		RateCounter:    kv.NewWindowCounter(rdb),
	})

	server := &http.Server{
		Addr:         ":" + cfg.APIPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// 7. Graceful Shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.WithField("port", cfg.APIPort).Info("server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatalf("could not listen on %s", cfg.APIPort)
		}
	}()

	<-stop

	log.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("server shutdown failed")
		return
	}
	log.Info("server stopped gracefully")
}
