package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"event-rsvp/internal/config"
	"event-rsvp/internal/lifecycle"
	"event-rsvp/internal/mailer"
	"event-rsvp/internal/models"
	"event-rsvp/internal/qr"
	"event-rsvp/internal/settings"
	"event-rsvp/internal/storage"
	"event-rsvp/internal/web"
)

func main() {
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	if dir := filepath.Dir(cfg.DatabasePath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			log.Fatal().Err(err).Msg("Failed to create data directory")
		}
	}
	store, err := storage.NewSQLiteStore(cfg.DatabasePath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open database")
	}
	defer store.Close()

	settingsSvc := settings.New(store, models.EventInfo{
		Name:         cfg.EventName,
		Date:         cfg.EventDate,
		Location:     cfg.EventLocation,
		Address:      cfg.EventAddress,
		ContactPhone: cfg.ContactPhone,
		ContactEmail: cfg.ContactEmail,
	})

	var notifier lifecycle.Notifier
	if cfg.SMTP.Host != "" {
		notifier = mailer.New(mailer.Config{
			Host:     cfg.SMTP.Host,
			Port:     cfg.SMTP.Port,
			Username: cfg.SMTP.Username,
			Password: cfg.SMTP.Password,
			From:     cfg.SMTP.From,
		}, settingsSvc, log)
	} else {
		log.Warn().Msg("SMTP_HOST not set, approval emails will be logged only")
		notifier = mailer.LogNotifier{Log: log}
	}

	encoder := qr.Encoder{}
	lc := lifecycle.New(store, notifier, encoder, log)

	server, err := web.NewServer(lc, store, settingsSvc, encoder, web.Config{
		AdminPasswordHash: cfg.AdminPasswordHash,
		DoorPasswordHash:  cfg.DoorPasswordHash,
	}, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to build web server")
	}
	if cfg.AdminPasswordHash == "" {
		log.Warn().Msg("ADMIN_PASSWORD_HASH not set, admin login is disabled")
	}
	if cfg.DoorPasswordHash == "" {
		log.Warn().Msg("DOOR_PASSWORD_HASH not set, check-in login is disabled")
	}

	httpServer := &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      server.Handler(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		log.Info().Str("addr", cfg.ListenAddr).Msg("Server listening")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// Wait for interrupt signal
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	<-c

	log.Info().Msg("Shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Shutdown failed")
	}
}
