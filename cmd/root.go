package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"fleetsim/app"
	"fleetsim/config"
	"fleetsim/infra/output"
)

var cfgPath string

var rootCmd = &cobra.Command{
	Use:   "fleetsim",
	Short: "Battery fleet dispatch simulator",
	Long: "Simulates a fleet of battery energy-storage systems arbitraging " +
		"a market price series under a fleet-wide power ceiling.",
	RunE: run,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "config.yaml", "configuration file")
}

// Execute runs the CLI.
func Execute() error { return rootCmd.Execute() }

func run(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	svc, err := app.New(cfg)
	if err != nil {
		return err
	}
	res, rep, err := svc.RunOnce(ctx)
	if err != nil {
		return err
	}

	output.PrintSummary(cmd.OutOrStdout(), svc.Fleet(), res)
	fmt.Fprintf(cmd.OutOrStdout(), "Equivalent cycles: %.2f | Annualized revenue: $%.2f/MWh/yr\n",
		rep.EquivalentCycles, rep.AnnualizedRevenuePerMWh)
	return nil
}
