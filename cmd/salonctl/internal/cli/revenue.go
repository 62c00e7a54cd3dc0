package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MrJamesThe3rd/comanda/internal/errs"
	"github.com/MrJamesThe3rd/comanda/internal/money"
	"github.com/MrJamesThe3rd/comanda/internal/revenue"
)

func init() {
	rootCmd.AddCommand(revenueCmd)
	revenueCmd.AddCommand(revenueShowCmd)
	revenueCmd.AddCommand(revenueRecomputeCmd)
}

var revenueCmd = &cobra.Command{
	Use:   "revenue",
	Short: "Inspect and rebuild the daily revenue ledger",
}

var revenueShowCmd = &cobra.Command{
	Use:   "show [DAY]",
	Short: "Print a day's revenue row (default today)",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runRevenueShow,
}

func runRevenueShow(cmd *cobra.Command, args []string) error {
	day, err := dayArg(args)
	if err != nil {
		return err
	}

	row, err := svc.Revenue.Get(cmd.Context(), day)
	if err != nil {
		if !errors.Is(err, errs.ErrNotFound) {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), warnStyle.Render("no finalizations on "+day.String()))

		return nil
	}

	printRow(cmd, row)

	return nil
}

var revenueRecomputeCmd = &cobra.Command{
	Use:   "recompute [DAY]",
	Short: "Rebuild a day's revenue row from its finalization records (default today)",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runRevenueRecompute,
}

func runRevenueRecompute(cmd *cobra.Command, args []string) error {
	day, err := dayArg(args)
	if err != nil {
		return err
	}

	rc, err := svc.Settlement.RecomputeDay(cmd.Context(), day)
	if err != nil {
		return err
	}

	if rc.Row == nil {
		fmt.Fprintln(cmd.OutOrStdout(), warnStyle.Render(fmt.Sprintf("no finalizations on %s; removed %d row(s)", rc.Day, rc.Deleted)))
		return nil
	}

	printRow(cmd, rc.Row)

	return nil
}

func printRow(cmd *cobra.Command, row *revenue.Row) {
	w := cmd.OutOrStdout()

	printTitle(w, "Revenue "+row.Day.String())
	printField(w, "Revenue", okStyle.Render(money.Format(row.Revenue)))
	printField(w, "Commissions", money.Format(row.Commissions))
	printField(w, "Tickets", row.TicketCount)
}
