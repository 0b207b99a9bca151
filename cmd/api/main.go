package main

import (
	"context"
	"net/http"
	"os"
	"time"

	jwtcodec "pet-alert/internal/adapters/auth/jwt"
	"pet-alert/internal/platform/config"
	"pet-alert/internal/platform/logger"
	"pet-alert/internal/ports/auth"
	"pet-alert/internal/router"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.New(logger.Options{}).Error("configuración inválida", map[string]any{"error": err.Error()})
		os.Exit(1)
	}

	log := logger.New(logger.Options{
		Level:  logger.ParseLevel(cfg.LogLevel),
		Format: logger.ParseFormat(cfg.LogFormat),
		App:    cfg.AppName,
	})

	// Sin secreto no hay tokens: queda el modo dev (X-Debug-Owner-ID).
	var codec auth.TokenCodec
	if cfg.JWTSecret != "" {
		codec = jwtcodec.NewCodec(cfg.JWTSecret, cfg.JWTTTL)
	} else {
		log.Warn("JWT_SECRET vacío: auth en modo dev", nil)
	}

	ctx := context.Background()
	handler, ownersSvc, err := router.NewRouter(ctx, router.Options{
		Config: cfg,
		Codec:  codec,
		Log:    log,
	})
	if err != nil {
		log.Error("no se pudo armar el router", map[string]any{"error": err.Error()})
		os.Exit(1)
	}

	// Cuenta admin de arranque, opcional e idempotente.
	if email := os.Getenv("ADMIN_EMAIL"); email != "" {
		if err := ownersSvc.EnsureAdmin(ctx, email, os.Getenv("ADMIN_PASSWORD")); err != nil {
			log.Error("no se pudo sembrar el admin", map[string]any{"error": err.Error()})
			os.Exit(1)
		}
	}

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      handler,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	log.Info("starting server", map[string]any{"addr": cfg.Addr(), "driver": string(cfg.Driver())})
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", map[string]any{"error": err.Error()})
		os.Exit(1)
	}
}
