package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MrJamesThe3rd/comanda/internal/seed"
)

func init() {
	rootCmd.AddCommand(seedCmd)

	seedCmd.Flags().StringP("file", "f", "fixtures/demo.toml", "Fixture file to load")
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load demo clients, products and open tickets",
	Args:  cobra.NoArgs,
	RunE:  runSeed,
}

func runSeed(cmd *cobra.Command, _ []string) error {
	path, _ := cmd.Flags().GetString("file")

	f, err := seed.DecodeFile(path)
	if err != nil {
		return err
	}

	rep, err := svc.Seeder.Apply(cmd.Context(), f)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()

	printTitle(w, "Seeded "+path)
	printField(w, "Clients", rep.Clients)
	printField(w, "Products", rep.Products)
	printField(w, "Professionals", len(rep.Professionals))

	for _, id := range rep.TicketIDs {
		fmt.Fprintf(w, "  open ticket %s\n", id)
	}

	return nil
}
