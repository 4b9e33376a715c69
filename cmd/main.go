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

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	httpctx "github.com/harlo-app/harlo-server/internal/api/http/context"
	"github.com/harlo-app/harlo-server/internal/api/http/middleware"
	"github.com/harlo-app/harlo-server/internal/api/http/router"
	httpServer "github.com/harlo-app/harlo-server/internal/api/http/server"
	"github.com/harlo-app/harlo-server/internal/config"
	"github.com/harlo-app/harlo-server/internal/logger"
	"github.com/harlo-app/harlo-server/internal/metrics"
	"github.com/harlo-app/harlo-server/internal/model"
	"github.com/harlo-app/harlo-server/internal/repository/postgres"
	"github.com/harlo-app/harlo-server/internal/server"
	"github.com/harlo-app/harlo-server/internal/service"
	storage "github.com/harlo-app/harlo-server/internal/storage/minio"
	"github.com/harlo-app/harlo-server/internal/summarizer"
	"github.com/harlo-app/harlo-server/internal/token"
	"github.com/harlo-app/harlo-server/internal/watch"
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

	db, err := postgres.NewConection(ctx, cfg.Database.DSN)
	if err != nil {
		logger.Fatal("failed to initialize storage", "error", err)
	}
	defer db.Close()

	authUserRepo := postgres.NewAuthUserRepository(db)
	profileRepo := postgres.NewProfileRepository(db)
	summaryRepo := postgres.NewSummaryRepository(db)
	quizRepo := postgres.NewQuizRepository(db)
	documentRepo := postgres.NewDocumentRepository(db)
	refreshTokenRepo := postgres.NewRefreshTokenRepository(db)
	tokenManager := token.NewJWT(cfg.JWT.Secret)

	minioClient, err := minio.New(cfg.Storage.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.Storage.AccessKey, cfg.Storage.SecretKey, ""),
		Secure: cfg.Storage.UseSSL,
	})
	if err != nil {
		logger.Fatal("failed to create minio client", "error", err)
	}
	storageClient, err := storage.NewClient(ctx, minioClient, cfg.Storage.Bucket)
	if err != nil {
		logger.Fatal("failed to initialize storage client", "error", err)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	httpMetrics := metrics.NewHTTP(registry)
	deletionMetrics := metrics.NewDeletion(registry)

	tokenService := service.NewTokenService(tokenManager, refreshTokenRepo, logger)
	authService := service.NewAuth(authUserRepo, profileRepo, tokenService, service.ReauthLimit{
		AttemptsPerMinute: cfg.Reauth.AttemptsPerMinute,
		Burst:             cfg.Reauth.Burst,
	}, logger)

	generator := summarizer.NewHTTPClient(cfg.Summarizer.Endpoint, cfg.Summarizer.APIKey,
		time.Duration(cfg.Summarizer.TimeoutMS)*time.Millisecond)
	hub := watch.NewHub()

	summaryService := service.NewSummary(summaryRepo, storageClient, generator, hub, logger)
	profileService := service.NewProfile(profileRepo, storageClient, logger)
	quizService := service.NewQuiz(quizRepo, summaryRepo, logger)
	deletionService := service.NewDeletion(authService, documentRepo, storageClient, deletionMetrics, logger)

	contextManager := httpctx.NewManager()
	rateLimit := middleware.NewRateLimit(cfg.HTTP.RatePerSecond, cfg.HTTP.RateBurst,
		contextManager, logger)
	defer rateLimit.Stop()

	rt := router.New(authService, tokenService, profileService, summaryService,
		quizService, deletionService, contextManager, registry, httpMetrics,
		rateLimit, logger.With("component", "http"))
	srv := httpServer.NewHTTPServer(rt.Register(), fmt.Sprintf(":%s", cfg.HTTP.Port))

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
	}(srv)

	logAppVersion()

	<-ctx.Done()
	logger.Info("received interruption signal, shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Stop(shutdownCtx); err != nil {
		logger.Error("error during server shutdown", "error", err, "address", srv.Address())
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
