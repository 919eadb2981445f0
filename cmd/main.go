package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	restctx "github.com/dazuba/feature-votes/internal/api/rest/context"
	"github.com/dazuba/feature-votes/internal/api/rest/router"
	"github.com/dazuba/feature-votes/internal/config"
	"github.com/dazuba/feature-votes/internal/logger"
	"github.com/dazuba/feature-votes/internal/model"
	"github.com/dazuba/feature-votes/internal/repository/postgres"
	"github.com/dazuba/feature-votes/internal/security"
	"github.com/dazuba/feature-votes/internal/server"
	"github.com/dazuba/feature-votes/internal/service"
	"github.com/dazuba/feature-votes/internal/token"
)

var (
	buildVersion = "N/A" // set by ldflags
	buildDate    = "N/A" // set by ldflags
	buildCommit  = "N/A" // set by ldflags
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT, os.Interrupt)
	defer stop()

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	logger := logger.New(cfg.LogLevel)

	db, err := postgres.NewConnection(ctx, cfg.Database.DSN)
	if err != nil {
		logger.Fatal("failed to initialize storage", "error", err)
	}
	defer db.Close()

	userRepo := postgres.NewUserRepository(db)
	featureRepo := postgres.NewFeatureRepository(db)
	voteRepo := postgres.NewVoteRepository(db)
	refreshTokenRepo := postgres.NewRefreshTokenRepository(db)

	tokenManager := token.NewJWT(cfg.JWT.Secret)
	hasher := security.NewBcryptHasher()
	ctxMgr := restctx.NewManager()

	tokenService := service.NewTokenService(tokenManager, refreshTokenRepo, logger)
	authService := service.NewAuth(userRepo, hasher, tokenService, logger)
	featureService := service.NewFeature(featureRepo, voteRepo, userRepo, logger)

	r := router.New(authService, featureService, tokenService, ctxMgr, logger)
	httpServer := server.NewHTTPServer(r.Register(), fmt.Sprintf(":%s", cfg.HTTP.Port))

	var sl model.SecurityLayer

	if cfg.HTTP.EnableHTTPS {
		sl = server.NewTLSListener(cfg.HTTP.CertFileName, cfg.HTTP.PrivateKeyFileName)
	} else {
		sl = server.NewPlainListener()
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func(s model.Server) {
		defer wg.Done()
		logger.Info("Starting server on", "address", s.Address())
		err := s.Start(sl)
		if err != nil {
			logger.Error("failed to start server", "error", err)
		}
	}(httpServer)

	logAppVersion()

	<-ctx.Done()
	logger.Info("received interruption signal, shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := httpServer.Stop(shutdownCtx); err != nil {
		logger.Error("error during server shutdown", "error", err, "address", httpServer.Address())
	}

	wg.Wait()
	logger.Info("shutdown complete")
}

func logAppVersion() {
	tmpl := `
Build version: %s
Build date: %s
Build commit: %s
`

	fmt.Printf(tmpl, buildVersion, buildDate, buildCommit)
}
