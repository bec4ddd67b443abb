package main

import (
	"context"
	"log"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/aradhya-7-7/XC/internal/config"
	"github.com/aradhya-7-7/XC/internal/handler"
	"github.com/aradhya-7-7/XC/internal/ratelimit"
	"github.com/aradhya-7-7/XC/internal/repository"
	"github.com/aradhya-7-7/XC/internal/service"
	jwtpkg "github.com/aradhya-7-7/XC/pkg/jwt"
	"github.com/aradhya-7-7/XC/pkg/logger"
	"github.com/aradhya-7-7/XC/pkg/middleware"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	zlog, err := logger.New(cfg.LogLevel, cfg.IsDevelopment())
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer func() { _ = zlog.Sync() }()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		zlog.Fatal("failed to connect to MongoDB", zap.Error(err))
	}
	defer func() { _ = client.Disconnect(context.Background()) }()
	if err := client.Ping(ctx, nil); err != nil {
		zlog.Fatal("failed to ping MongoDB", zap.Error(err))
	}
	zlog.Info("MongoDB connected", zap.String("database", cfg.MongoDB))

	repo := repository.NewUserRepository(client.Database(cfg.MongoDB))
	if err := repo.EnsureIndexes(ctx); err != nil {
		zlog.Fatal("failed to ensure user indexes", zap.Error(err))
	}

	var limiter ratelimit.Limiter
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		defer func() { _ = rdb.Close() }()
		limiter = ratelimit.New(rdb, ratelimit.DefaultLimit, ratelimit.DefaultWindow)
		zlog.Info("login rate limiting enabled", zap.String("redis", cfg.RedisAddr))
	}

	tokens := jwtpkg.NewTokenManager(cfg.JWTSecret, jwtpkg.SessionTTL)
	svc, err := service.NewAuthService(repo, tokens)
	if err != nil {
		zlog.Fatal("failed to build auth service", zap.Error(err))
	}
	h := handler.NewAuthHandler(svc, tokens, limiter, !cfg.IsDevelopment(), zlog)

	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSAllowedOrigins,
		AllowMethods:     []string{"GET", "POST"},
		AllowHeaders:     []string{"Origin", "Content-Type"},
		AllowCredentials: true,
	}))

	h.RegisterRoutes(r, middleware.RequireAuth(tokens, repo, zlog))

	zlog.Info("server starting", zap.String("port", cfg.ServerPort))
	if err := r.Run(":" + cfg.ServerPort); err != nil {
		zlog.Fatal("server stopped", zap.Error(err))
	}
}
