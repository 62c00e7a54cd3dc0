package cli

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/MrJamesThe3rd/comanda/internal/errs"
	"github.com/MrJamesThe3rd/comanda/internal/money"
	"github.com/MrJamesThe3rd/comanda/internal/settlement"
	"github.com/MrJamesThe3rd/comanda/internal/ticket"
)

func init() {
	rootCmd.AddCommand(finalizeCmd)
	rootCmd.AddCommand(ticketsCmd)

	finalizeCmd.Flags().StringP("payment", "p", "", "Payment method (pix, cash, card...)")
	finalizeCmd.Flags().String("discount", "0", "Discount in reais")
	finalizeCmd.Flags().String("credit", "0", "Client credit applied in reais")
	_ = finalizeCmd.MarkFlagRequired("payment")

	ticketsCmd.Flags().StringSliceP("status", "s", []string{string(ticket.StatusOpen)}, "Statuses to list")
}

var finalizeCmd = &cobra.Command{
	Use:   "finalize TICKET_ID",
	Short: "Close a ticket and settle its commissions and revenue",
	Args:  cobra.ExactArgs(1),
	RunE:  runFinalize,
}

func runFinalize(cmd *cobra.Command, args []string) error {
	id, err := uuid.Parse(args[0])
	if err != nil {
		return errs.Validation("invalid ticket id %q", args[0])
	}

	payment, _ := cmd.Flags().GetString("payment")

	discount, err := decimalFlag(cmd, "discount")
	if err != nil {
		return err
	}

	credit, err := decimalFlag(cmd, "credit")
	if err != nil {
		return err
	}

	res, err := svc.Settlement.FinalizeTicket(cmd.Context(), settlement.FinalizeParams{
		TicketID:      id,
		PaymentMethod: payment,
		Discount:      discount,
		CreditApplied: credit,
	})
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	r := res.Record

	printTitle(w, "Ticket "+r.TicketID.String()+" finalized")
	printField(w, "Subtotal", money.Format(r.Subtotal))
	printField(w, "Discount", money.Format(r.Discount))
	printField(w, "Credit applied", money.Format(r.CreditApplied))
	printField(w, "Final amount", okStyle.Render(money.Format(r.FinalAmount)))
	printField(w, "Payment", r.PaymentMethod)
	printField(w, "Commission total", money.Format(r.CommissionTotal))

	for _, e := range res.Commissions {
		fmt.Fprintf(w, "  %-8s %-24s %12s  -> %s\n", e.Kind, e.ItemName, money.Format(e.Commission), e.ProfessionalID)
	}

	return nil
}

var ticketsCmd = &cobra.Command{
	Use:   "tickets",
	Short: "List tickets",
	Args:  cobra.NoArgs,
	RunE:  runTickets,
}

func runTickets(cmd *cobra.Command, _ []string) error {
	raw, _ := cmd.Flags().GetStringSlice("status")

	statuses := make([]ticket.Status, len(raw))
	for i, s := range raw {
		statuses[i] = ticket.Status(s)
	}

	tickets, err := svc.Tickets.List(cmd.Context(), statuses...)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	for _, t := range tickets {
		fmt.Fprintf(w, "%s  %-9s %12s  %s\n", t.ID, t.Status, money.Format(t.Subtotal()), t.OpenedAt.Format("2006-01-02 15:04"))
	}

	if len(tickets) == 0 {
		fmt.Fprintln(w, warnStyle.Render("no tickets"))
	}

	return nil
}

func decimalFlag(cmd *cobra.Command, name string) (decimal.Decimal, error) {
	raw, _ := cmd.Flags().GetString(name)

	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, errs.Validation("invalid --%s %q", name, raw)
	}

	return d, nil
}
