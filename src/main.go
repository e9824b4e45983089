package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	_ "employee-feedback/docs"
	"employee-feedback/src/config"
	"employee-feedback/src/controllers"
	"employee-feedback/src/database"
	"employee-feedback/src/jobs"
	"employee-feedback/src/logger"
	"employee-feedback/src/server"
	"employee-feedback/src/services/auth"
	"employee-feedback/src/services/feedbacks"
	"employee-feedback/src/services/stats"
)

// @title           Employee Feedback API
// @version         1.0
// @description     Feedback submission, triage and statistics for administrators.
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in              header
// @name            Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	zl, err := logger.New(cfg.Logger)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer func() { _ = zl.Sync() }()

	loc, err := cfg.App.Location()
	if err != nil {
		zl.Fatal("invalid timezone", zap.Error(err))
	}

	ctx := context.Background()

	mongo, err := database.ConnectMongoDB(ctx, cfg.Mongo, zl)
	if err != nil {
		zl.Fatal("error connecting to the database", zap.Error(err))
	}
	if err := mongo.EnsureIndexes(ctx); err != nil {
		zl.Warn("failed to ensure indexes", zap.Error(err))
	}

	rdb := database.InitRedis(ctx, cfg.Redis, zl)
	redisClient := rdb.Conn()

	store := feedbacks.NewMongoStore(mongo.Feedbacks, cfg.Mongo.Timeout())

	asynqClient := database.NewAsynqClient(rdb)
	notifier := jobs.NewNotifier(asynqClient, store, zl)

	var worker *jobs.Worker
	if rdb != nil && cfg.Worker.Enabled {
		worker = jobs.NewWorker(rdb.AsynqRedisOpt(), cfg.Worker.Concurrency, store, zl)
		if err := worker.Start(); err != nil {
			zl.Error("failed to start job worker", zap.Error(err))
			worker = nil
		}
	}

	credentials, err := auth.ParseCredentials(cfg.Auth.AdminCredentials)
	if err != nil {
		zl.Fatal("invalid AUTH_ADMIN_CREDENTIALS", zap.Error(err))
	}
	if cfg.Auth.AdminCredentials == "" {
		zl.Warn("AUTH_ADMIN_CREDENTIALS not set; using development admin account")
	}

	authService := auth.NewService(auth.Dependencies{
		Credentials: credentials,
		Issuer:      auth.NewJWTIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL(), nil),
		Revocations: auth.NewRevocations(redisClient, nil),
		Throttle:    auth.NewLoginThrottle(redisClient, cfg.Auth.LoginMaxAttempts, cfg.Auth.LoginWindow()),
		Logger:      zl,
	})

	var redisProbe controllers.Pinger
	if rdb != nil {
		redisProbe = rdb
	}

	app := server.New(server.Dependencies{
		Config:   cfg,
		Logger:   zl,
		Feedback: feedbacks.NewService(feedbacks.Dependencies{Store: store, Notifier: notifier, Logger: zl}),
		Stats:    stats.NewService(store, nil),
		Auth:     authService,
		Mongo:    mongo,
		Redis:    redisProbe,
		Location: loc,
	})

	go func() {
		zl.Info("server starting", zap.String("addr", cfg.App.Addr()), zap.String("env", cfg.App.Env))
		if err := app.Listen(cfg.App.Addr()); err != nil {
			zl.Fatal("server stopped", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zl.Info("shutting down")

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		zl.Error("http shutdown", zap.Error(err))
	}
	if worker != nil {
		worker.Shutdown()
	}
	if asynqClient != nil {
		_ = asynqClient.Close()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	rdb.Close()
	mongo.Close(shutdownCtx)
}
