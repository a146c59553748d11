package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "go.uber.org/automaxprocs"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gorm.io/gorm"

	coreauth "github.com/SangramSaha/capsule/internal/core/auth"
	"github.com/SangramSaha/capsule/internal/core/cache"
	"github.com/SangramSaha/capsule/internal/core/config"
	"github.com/SangramSaha/capsule/internal/core/database"
	"github.com/SangramSaha/capsule/internal/core/logger"
	"github.com/SangramSaha/capsule/internal/core/server"
	"github.com/SangramSaha/capsule/internal/core/storage"
	"github.com/SangramSaha/capsule/internal/core/vision"
	"github.com/SangramSaha/capsule/internal/domain"
	authfeat "github.com/SangramSaha/capsule/internal/feature/auth"
	capsulefeat "github.com/SangramSaha/capsule/internal/feature/capsule"
	uploadfeat "github.com/SangramSaha/capsule/internal/feature/upload"
	"github.com/SangramSaha/capsule/internal/repo"
	"github.com/SangramSaha/capsule/internal/transport/http/handler"
	"github.com/SangramSaha/capsule/internal/transport/http/router"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load(os.Getenv("CONFIG_PATH"))
	log, cleanup := newLogger(cfg)
	defer cleanup()

	// 数据库（失败直接 Fatal）
	db := mustOpenDB(cfg, log)
	log.Info("database connected", zap.String("driver", cfg.DB.Driver))

	if cfg.DB.AutoMigrate {
		if err := db.AutoMigrate(&domain.User{}, &domain.Capsule{}); err != nil {
			log.Fatal("automigrate failed", zap.Error(err))
		}
		log.Info("automigrate done")
	}

	// 进程级单例客户端：redis / s3 / rekognition，启动建一次，所有请求复用
	rdb := cache.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)

	ctx := context.Background()
	store, err := storage.New(ctx, storage.Opts{
		Region:    cfg.S3.Region,
		Bucket:    cfg.S3.Bucket,
		AccessKey: cfg.S3.AccessKey,
		SecretKey: cfg.S3.SecretKey,
		Endpoint:  cfg.S3.Endpoint,
	})
	if err != nil {
		log.Fatal("s3 init", zap.Error(err))
	}

	detector, err := vision.New(ctx, vision.Opts{
		Region:    cfg.Rekognition.Region,
		AccessKey: cfg.Rekognition.AccessKey,
		SecretKey: cfg.Rekognition.SecretKey,
	})
	if err != nil {
		log.Fatal("rekognition init", zap.Error(err))
	}

	jwter := &coreauth.JWTer{
		Secret: []byte(cfg.JWT.Secret),
		Issuer: cfg.JWT.Issuer,
		TTL:    time.Duration(cfg.JWT.AccessTokenTTLMin) * time.Minute,
	}

	// 业务装配
	authSvc := authfeat.NewService(repo.NewUserRepo(db), jwter)
	uploadSvc := uploadfeat.NewService(store, detector, cfg.Rekognition.MaxLabels)
	capsuleSvc := capsulefeat.NewService(
		repo.NewCapsuleRepo(db), rdb,
		cfg.Cache.Prefix, time.Duration(cfg.Cache.TTLSec)*time.Second,
	)

	r := router.NewAPIEngine(log, jwter,
		handler.NewAuthHandler(authSvc),
		handler.NewUploadHandler(uploadSvc),
		handler.NewCapsuleHandler(capsuleSvc),
	)

	addr := server.Addr(cfg.App.HTTP.Host, cfg.App.HTTP.Port)
	srv := server.BuildServer(
		addr, r,
		time.Duration(cfg.App.HTTP.ReadTimeoutSec)*time.Second,
		time.Duration(cfg.App.HTTP.WriteTimeoutSec)*time.Second,
		time.Duration(cfg.App.HTTP.IdleTimeoutSec)*time.Second,
	)

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("api start FAILED", zap.Error(err))
		}
	}()
	log.Info("api started", zap.String("addr", addr))

	// 优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
	log.Info("api stopped gracefully")
}

func newLogger(cfg *config.Config) (*zap.Logger, func()) {
	if cfg.Log.File != "" {
		return logger.NewWithRotate(cfg.Log.Level, cfg.Log.JSON, cfg.Log.File,
			cfg.Log.MaxSizeMB, cfg.Log.MaxBackups, cfg.Log.MaxAgeDays, cfg.Log.Compress)
	}
	return logger.New(cfg.Log.Level, cfg.Log.JSON)
}

func mustOpenDB(cfg *config.Config, l *zap.Logger) *gorm.DB {
	db, err := database.NewGorm(database.Opts{
		Driver:             cfg.DB.Driver,
		DSN:                cfg.DB.DSN,
		Username:           cfg.DB.Username,
		Password:           cfg.DB.Password,
		MaxOpenConns:       cfg.DB.MaxOpenConns,
		MaxIdleConns:       cfg.DB.MaxIdleConns,
		ConnMaxLifetimeMin: cfg.DB.ConnMaxLifetimeMin,
		LogLevel:           cfg.DB.LogLevel,
	})
	if err != nil {
		l.Fatal("db open", zap.Error(err))
	}
	return db
}
