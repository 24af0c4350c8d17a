// Command pcbinv serves the PCB inventory planning API.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/gauravv-jainn/oneup-sub000/internal/config"
	"github.com/gauravv-jainn/oneup-sub000/internal/database"
	"github.com/gauravv-jainn/oneup-sub000/internal/logging"
	"github.com/gauravv-jainn/oneup-sub000/internal/planning"
	"github.com/gauravv-jainn/oneup-sub000/internal/server"
)

func main() {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		log.Fatal("config: ", err)
	}
	logger, err := logging.New(cfg.Log.Level, cfg.Log.Development)
	if err != nil {
		log.Fatal("logger: ", err)
	}
	defer logger.Sync()

	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		logger.Fatal("DB init failed", zap.String("path", cfg.Database.Path), zap.Error(err))
	}
	defer db.Close()

	app := server.New(db, logger, planning.Options{
		DefaultLeadDays:    cfg.Planning.DefaultLeadDays,
		AllowNegativeStock: cfg.Planning.AllowNegativeStock,
	})

	sigCtx, stopSignals := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stopSignals()

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           app.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	serverErrCh := make(chan error, 1)
	go func() {
		serverErrCh <- srv.ListenAndServe()
	}()
	logger.Info("pcbinv listening",
		zap.Int("port", cfg.Server.Port),
		zap.String("db", cfg.Database.Path),
		zap.Int("default_lead_days", cfg.Planning.DefaultLeadDays),
		zap.Bool("allow_negative_stock", cfg.Planning.AllowNegativeStock))

	select {
	case <-sigCtx.Done():
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown", zap.Error(err))
		}
	case err := <-serverErrCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server", zap.Error(err))
		}
	}
}
