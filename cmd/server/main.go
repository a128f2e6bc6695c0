package main

import (
	"fmt"
	"net/http"
	"time"

	"diet-tracker/internal/config"
	"diet-tracker/internal/handlers"
	"diet-tracker/internal/storage"

	"github.com/sirupsen/logrus"
)

func main() {
	cfg := config.NewConfig()

	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logLevel, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	db, err := storage.NewDB(cfg.DBPath)
	if err != nil {
		logger.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	h := handlers.NewHandlers(db, logger, cfg.SecureCookie)
	server := newServer(cfg, h)

	logger.Infof("Starting server on %s", server.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatalf("Server failed: %v", err)
	}
}

func newServer(cfg *config.Config, h *handlers.Handlers) *http.Server {
	return &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      h.Routes(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
}
