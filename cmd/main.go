package main

import (
	"context"
	"ditoolz-coins/internal/app"
	"ditoolz-coins/internal/config"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	cfg := config.MustLoad()

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	log.Info("Starting ditoolz-coins", "env", cfg.Server.Env)

	application := app.New(
		log,
		cfg.Server.Address,
		cfg.Database.PostgresConn,
		cfg.JWT.Secret,
		cfg.JWT.AccessExpirationMinutes,
		cfg.JWT.RefreshExpirationDays,
	)

	go application.HTTPServer.MustRun()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGTERM, syscall.SIGINT)

	sign := <-stop

	log.Info("Application stopped", slog.String("signal", sign.String()))

	if err := application.HTTPServer.Stop(context.Background()); err != nil {
		log.Error("shutdown failed", slog.String("error", err.Error()))
	}
}
