package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/redis/go-redis/v9"

	httpctx "github.com/smartblink/smartblink-server/internal/api/http/context"
	"github.com/smartblink/smartblink-server/internal/api/http/router"
	httpServer "github.com/smartblink/smartblink-server/internal/api/http/server"
	"github.com/smartblink/smartblink-server/internal/config"
	"github.com/smartblink/smartblink-server/internal/device"
	"github.com/smartblink/smartblink-server/internal/logger"
	"github.com/smartblink/smartblink-server/internal/model"
	"github.com/smartblink/smartblink-server/internal/repository/postgres"
	"github.com/smartblink/smartblink-server/internal/server"
	"github.com/smartblink/smartblink-server/internal/service"
	storage "github.com/smartblink/smartblink-server/internal/storage/minio"
	"github.com/smartblink/smartblink-server/internal/token"
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
	profileRepo := postgres.NewProfileRepository(db)
	refreshTokenRepo := postgres.NewRefreshTokenRepository(db)
	tokenManager := token.NewJWT(cfg.JWT.Secret)

	minioClient, err := minio.New(cfg.Storage.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.Storage.AccessKey, cfg.Storage.SecretKey, ""),
		Secure: cfg.Storage.UseSSL,
	})
	if err != nil {
		logger.Fatal("failed to create minio client", "error", err)
	}
	avatarStorage, err := storage.NewClient(ctx, minioClient, cfg.Storage.Bucket)
	if err != nil {
		logger.Fatal("failed to initialize avatar storage", "error", err)
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	deviceClient := device.NewClient(http.DefaultClient, logger)

	authService := service.NewAuth(userRepo, profileRepo, refreshTokenRepo, logger, tokenManager, cfg.Auth.BcryptCost)
	tokenService := service.NewTokenService(tokenManager, refreshTokenRepo, logger)
	profileService := service.NewProfile(profileRepo, avatarStorage, logger, cfg.Device.Scheme)
	deviceService := service.NewDevice(profileRepo, deviceClient, logger)
	ctxMgr := httpctx.NewManager()

	srv := registerHTTPServer(authService, profileService, deviceService, tokenService, ctxMgr, rdb, logger, fmt.Sprintf(":%s", cfg.HTTP.Port))

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

func registerHTTPServer(
	authService *service.Auth,
	profileService *service.Profile,
	deviceService *service.Device,
	tokenService *service.TokenService,
	ctxMgr model.ContextManager,
	rdb *redis.Client,
	logger *logger.Logger,
	addr string,
) *httpServer.HTTPServer {
	r := router.New(authService, profileService, deviceService, tokenService, ctxMgr, rdb, logger)

	return httpServer.NewHTTPServer(r.Register(), addr)
}
