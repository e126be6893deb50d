package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"ladis-lite/apps/server/internal/config"
	"ladis-lite/apps/server/internal/gateway"
	"ladis-lite/apps/server/internal/ledger"
	"ladis-lite/apps/server/internal/lobby"
	"ladis-lite/apps/server/internal/room"
	"ladis-lite/ladis"
)

func main() {
	logger := logrus.New()
	if err := config.ConfigureLogger(logger); err != nil {
		logger.WithError(err).Fatal("failed to configure logger")
	}
	log := logger.WithField("component", "server")

	cfg, err := config.FromEnv()
	if err != nil {
		log.WithError(err).Fatal("failed to load config")
	}

	ledgerService, ledgerMode, err := ledger.NewServiceFromEnv(logger)
	if err != nil {
		log.WithError(err).Fatal("failed to init ledger service")
	}
	defer ledgerService.Close()

	lby := lobby.New(room.Config{
		Game: ladis.Config{
			CountdownTicks: cfg.Rules.CountdownTicks,
			CarryOverHands: cfg.Rules.CarryOverHands,
		},
		CountdownInterval: cfg.Rules.CountdownInterval,
		RoundEndDelay:     cfg.Rules.RoundEndDelay,
	}, ledgerService, logger)
	defer lby.Close()

	gw := gateway.New(lby, cfg.OriginAllowed, logger)
	historyHTTP := ledger.NewHTTPHandler(ledgerService)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", gw.HandleWebSocket)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"status": "ok",
			"rooms":  lby.Count(),
		})
	})
	historyHTTP.RegisterRoutes(mux)

	srv := &http.Server{Addr: cfg.Addr, Handler: mux}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.WithError(err).Warn("shutdown failed")
		}
	}()

	log.WithFields(logrus.Fields{
		"ledger":    ledgerMode,
		"countdown": cfg.Rules.CountdownTicks,
		"carryOver": cfg.Rules.CarryOverHands,
	}).Info("configuration loaded")
	log.WithField("addr", cfg.Addr).Info("starting websocket server")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.WithError(err).Fatal("failed to start")
	}
	log.Info("server stopped")
}
