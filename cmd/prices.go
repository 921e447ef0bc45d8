package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"fleetsim/app"
	"fleetsim/config"
)

var pricesOut string

var pricesCmd = &cobra.Command{
	Use:   "prices",
	Short: "Generate a synthetic market price CSV",
	RunE:  generatePrices,
}

func init() {
	pricesCmd.Flags().StringVarP(&pricesOut, "out", "o", "", "output file (defaults to outputs.prices_csv)")
	rootCmd.AddCommand(pricesCmd)
}

func generatePrices(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	svc, err := app.New(cfg)
	if err != nil {
		return err
	}
	out := pricesOut
	if out == "" {
		out = cfg.Outputs.PricesCSV
	}
	series, err := svc.GeneratePrices(out, time.Now())
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %d price points to %s\n", len(series), out)
	return nil
}
