package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/comanda/internal/app"
	"github.com/MrJamesThe3rd/comanda/internal/config"
	comandaHttp "github.com/MrJamesThe3rd/comanda/internal/http"
	clientHandler "github.com/MrJamesThe3rd/comanda/internal/http/client"
	maintenanceHandler "github.com/MrJamesThe3rd/comanda/internal/http/maintenance"
	revenueHandler "github.com/MrJamesThe3rd/comanda/internal/http/revenue"
	ticketHandler "github.com/MrJamesThe3rd/comanda/internal/http/ticket"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg)
	if err != nil {
		slog.Error("failed to start application", "error", err)
		os.Exit(1)
	}
	defer a.Close()

	var (
		ticketH      = ticketHandler.NewHandler(a.Tickets, a.Settlement, a.Commissions)
		clientH      = clientHandler.NewHandler(a.Clients)
		revenueH     = revenueHandler.NewHandler(a.Revenue, a.Settlement)
		maintenanceH = maintenanceHandler.NewHandler(a.Settlement)
	)

	router := comandaHttp.New(cfg.App.AllowedOrigins, ticketH, clientH, revenueH, maintenanceH)

	srv := &http.Server{
		Addr:              cfg.Address(),
		Handler:           http.TimeoutHandler(router, cfg.Server.Timeout, "request timed out"),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.Timeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("server shutdown failed", "error", err)
		}
	}()

	slog.Info("starting server", "addr", srv.Addr, "driver", cfg.DB.Driver, "timezone", cfg.App.Timezone)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
