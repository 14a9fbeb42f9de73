package app

import (
	httpserver "ditoolz-coins/internal/app/http-server"
	"ditoolz-coins/internal/handlers"
	"ditoolz-coins/internal/lib/jwt"
	"ditoolz-coins/internal/middlewares"
	"ditoolz-coins/internal/repository/postgres"
	"ditoolz-coins/internal/repository/redis"
	"ditoolz-coins/internal/routes"
	"ditoolz-coins/internal/services"
	"context"
	"log/slog"
	"os"
	"time"
)

// adPlaybackDelay stands in for the ad the SPA plays before the reward call.
const adPlaybackDelay = 3 * time.Second

type App struct {
	HTTPServer *httpserver.Server
}

func New(log *slog.Logger, serverPort, storagePath, secret string, accessTTL, refreshTTL int) *App {
	storage, err := postgres.NewPostgres(context.Background(), storagePath)
	if err != nil {
		panic(err)
	}

	jwtGen := jwt.NewGenerator(secret, time.Minute*time.Duration(accessTTL), time.Hour*time.Duration(refreshTTL))

	redisDB, err := redis.InitRedis(os.Getenv("REDIS_STORAGE_PATH"), os.Getenv("REDIS_PASSWORD"), os.Getenv("REDIS_DB_NUMBER"), time.Duration(refreshTTL)*24*time.Hour)
	if err != nil {
		panic(err)
	}

	authService := services.NewAuthService(log, storage, redisDB, jwtGen)
	ledgerService := services.NewLedgerService(log, storage, storage, storage, adPlaybackDelay)
	premiumService := services.NewPremiumService(log, storage, ledgerService)
	toolGate := services.NewToolGate(log, ledgerService)

	authHandler := handlers.NewAuthHandler(log, authService)
	walletHandler := handlers.NewWalletHandler(log, ledgerService)
	premiumHandler := handlers.NewPremiumHandler(log, premiumService)
	toolsHandler := handlers.NewToolsHandler(log, toolGate)

	authMiddleware := middlewares.NewAuthMiddleware(jwtGen)

	r := routes.InitRoutes(authHandler, walletHandler, premiumHandler, toolsHandler, authMiddleware)

	server := httpserver.NewServer(log, serverPort, r)

	return &App{
		HTTPServer: server,
	}
}
