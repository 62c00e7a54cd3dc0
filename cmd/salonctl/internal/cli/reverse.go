package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/MrJamesThe3rd/comanda/internal/settlement"
	"github.com/MrJamesThe3rd/comanda/internal/ticket"
)

func init() {
	rootCmd.AddCommand(reverseCmd)

	reverseCmd.Flags().StringSliceP("status", "s", nil, "Ticket statuses to reverse (default open,finalized)")
	reverseCmd.Flags().Bool("global", false, "Also wipe every finalization, commission and client history")
	reverseCmd.Flags().BoolP("yes", "y", false, "Skip the confirmation prompt")
}

var reverseCmd = &cobra.Command{
	Use:   "reverse",
	Short: "Delete test tickets and undo their ledger effects",
	Long: `Deletes the selected tickets, returns their products to stock and removes the
finalizations, commissions, client visits and revenue they produced. Revenue days touched
by the reversal are rebuilt from the finalizations that remain.

With --global every finalization, commission and client history is wiped, and today's
revenue row is dropped.`,
	Args: cobra.NoArgs,
	RunE: runReverse,
}

func runReverse(cmd *cobra.Command, _ []string) error {
	raw, _ := cmd.Flags().GetStringSlice("status")
	global, _ := cmd.Flags().GetBool("global")
	yes, _ := cmd.Flags().GetBool("yes")

	params := settlement.ReverseParams{Global: global}
	for _, s := range raw {
		params.Statuses = append(params.Statuses, ticket.Status(s))
	}

	if !yes {
		scope := "open and finalized"
		if len(raw) > 0 {
			scope = strings.Join(raw, ", ")
		}

		title := fmt.Sprintf("Delete all %s tickets?", scope)
		if global {
			title = fmt.Sprintf("Delete all %s tickets and wipe every finalization, commission and client history?", scope)
		}

		if err := huh.NewConfirm().
			Title(title).
			Description("This cannot be undone.").
			Affirmative("Delete").
			Negative("Cancel").
			Value(&yes).
			Run(); err != nil {
			return err
		}

		if !yes {
			fmt.Fprintln(cmd.OutOrStdout(), warnStyle.Render("cancelled"))
			return nil
		}
	}

	params.Confirm = true

	sum, err := svc.Settlement.ReverseTestTickets(cmd.Context(), params)
	if err != nil {
		return err
	}

	printSummary(cmd, sum)

	return nil
}

func printSummary(cmd *cobra.Command, sum *settlement.Summary) {
	w := cmd.OutOrStdout()

	mode := "scoped"
	if sum.Global {
		mode = "global"
	}

	printTitle(w, "Reversal complete ("+mode+")")
	printField(w, "Tickets deleted", sum.TicketsDeleted)
	printField(w, "Finalizations deleted", sum.FinalizationsDeleted)
	printField(w, "Commissions deleted", sum.CommissionsDeleted)
	printField(w, "Revenue rows deleted", sum.RevenueRowsDeleted)
	printField(w, "Revenue rows rebuilt", sum.RevenueRowsRecomputed)
	printField(w, "Clients reset", sum.ClientsReset)
	printField(w, "Products restocked", fmt.Sprintf("%d (%d units)", sum.ProductsRestocked, sum.UnitsRestocked))

	for _, warn := range sum.Warnings {
		fmt.Fprintln(w, warnStyle.Render("warning: "+warn))
	}
}
