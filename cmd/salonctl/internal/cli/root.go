// Package cli implements the salonctl operator commands.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/MrJamesThe3rd/comanda/internal/app"
	"github.com/MrJamesThe3rd/comanda/internal/config"
	"github.com/MrJamesThe3rd/comanda/internal/revenue"
)

// svc is opened before every command runs.
var svc *app.App

var rootCmd = &cobra.Command{
	Use:   "salonctl",
	Short: "Operate the salon ticket ledger",
	Long: `salonctl finalizes tickets, inspects and rebuilds the daily revenue ledger,
loads demo fixtures and wipes test data. It reads the same environment as the API.`,
	SilenceUsage:      true,
	PersistentPreRunE: openApp,
}

func openApp(cmd *cobra.Command, _ []string) error {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	if cfg.DB.Driver == config.DriverMemory {
		slog.Warn("salonctl is running against in-memory storage; changes are discarded on exit")
	}

	a, err := app.New(cmd.Context(), cfg)
	if err != nil {
		return fmt.Errorf("starting: %w", err)
	}

	svc = a

	return nil
}

// Execute runs the command line and closes whatever the command opened.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)

	if svc != nil {
		if cerr := svc.Close(); cerr != nil {
			slog.Error("failed to close resources", "error", cerr)
		}

		svc = nil
	}

	if err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("error: "+err.Error()))
	}

	return err
}

// dayArg parses an optional YYYY-MM-DD argument, defaulting to today in the salon timezone.
func dayArg(args []string) (revenue.Day, error) {
	if len(args) == 0 || args[0] == "today" {
		return svc.Revenue.Today(), nil
	}

	return revenue.ParseDay(args[0])
}
