package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-co-op/gocron"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/flashvault/flashvault/internal/config"
	"github.com/flashvault/flashvault/internal/handler"
	"github.com/flashvault/flashvault/internal/models"
	"github.com/flashvault/flashvault/internal/repository"
	"github.com/flashvault/flashvault/internal/service"
)

func main() {
	zapConfig := zap.NewDevelopmentConfig()
	zapConfig.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	zapConfig.EncoderConfig.TimeKey = "timestamp"
	zapConfig.EncoderConfig.EncodeTime = func(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
		enc.AppendString(t.UTC().Format("2006-01-02T15:04:05Z"))
	}

	logger, err := zapConfig.Build()
	if err != nil {
		panic(fmt.Errorf("init logger: %w", err))
	}
	defer logger.Sync()

	zap.ReplaceGlobals(logger)
	zap.S().Info("logger initialized")

	if err := godotenv.Load(); err != nil {
		zap.S().Debug("load .env file", zap.Error(err))
	}

	cfg := config.Load()

	if os.Getenv("POSTGRES_HOST") == "" {
		zap.S().Fatal("missing required environment variables")
	}

	repo, err := repository.NewDB(config.DSN(), cfg.DBMaxIdleConns, cfg.DBMaxOpenConns)
	if err != nil {
		zap.S().Error("connect to PostgreSQL", zap.Error(err))
		os.Exit(1)
	}
	defer repo.Close()

	if err = repo.Up(cfg.MigrationsDir); err != nil {
		zap.S().Error("run migrations", zap.Error(err))
		os.Exit(1)
	}

	svc := service.NewService(repo, cfg.SRS)

	scheduler := gocron.NewScheduler(time.UTC)
	_, err = scheduler.Every(1).Day().At(cfg.BriefTime).Do(func() {
		runDailyBrief(repo, svc)
	})
	if err != nil {
		zap.S().Error("schedule daily brief", zap.Error(err))
		os.Exit(1)
	}
	scheduler.StartAsync()

	router := gin.Default()
	handler.NewHTTPHandler(svc).RegisterRoutes(router)

	zap.S().Infow("starting server", "port", cfg.ServerPort)
	if err := router.Run(":" + cfg.ServerPort); err != nil {
		zap.S().Error("run server", zap.Error(err))
		os.Exit(1)
	}
}

// runDailyBrief logs how much work each active user has waiting. A frontend
// notification channel can tail these via log shipping until push delivery
// lands.
func runDailyBrief(repo models.Repository, svc models.Service) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	userIDs, err := repo.GetUserIDsWithRecords(ctx)
	if err != nil {
		zap.S().Error("daily brief: list users", zap.Error(err))
		return
	}

	now := time.Now().UTC()
	for _, userID := range userIDs {
		snap, err := svc.Snapshot(ctx, userID, nil, now)
		if err != nil {
			zap.S().Errorw("daily brief: snapshot", "user_id", userID, "error", err)
			continue
		}
		zap.S().Infow("daily brief",
			"user_id", userID,
			"due", snap.DueItems,
			"due_soon", snap.DueSoonItems,
			"daily_streak", snap.DailyStreak,
		)
	}
}
