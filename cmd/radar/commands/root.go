package commands

import (
	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "radar",
	Short: "Radar BDR - monitor de oportunidades em BDRs",
	Long: `Radar BDR

Monitora os BDRs listados na B3: resolve o universo, baixa o histórico de
preços, calcula indicadores técnicos e classifica os ativos em queda.

Usage:
  go run ./cmd/radar [command]

Examples:
  go run ./cmd/radar scan
  go run ./cmd/radar scan --threshold -0.05 --bollinger
  go run ./cmd/radar universe
  go run ./cmd/radar api
  go run ./cmd/radar scheduler`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}
