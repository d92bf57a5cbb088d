package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/vsantana/radarbdr/internal/universe"
	"github.com/vsantana/radarbdr/pkg/config"
	"github.com/vsantana/radarbdr/pkg/logger"
)

// universeCmd represents the universe command
var universeCmd = &cobra.Command{
	Use:   "universe",
	Short: "Lista o universo de BDRs resolvido a partir do catálogo",
	Long: `Busca o catálogo de instrumentos e aplica o filtro de sufixos de BDR.

Example:
  go run ./cmd/radar universe`,
	RunE: runUniverse,
}

func init() {
	rootCmd.AddCommand(universeCmd)
}

func runUniverse(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log := logger.New(cfg)

	d, err := buildDeps(cfg, log)
	if err != nil {
		return err
	}
	defer d.close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	catalog, err := d.brapi.FetchQuoteList(ctx)
	if err != nil {
		return fmt.Errorf("fetch catalog: %w", err)
	}

	resolver := universe.NewResolver(log)
	tickers, names := resolver.Resolve(catalog)

	fmt.Printf("%d BDRs no catálogo (%d instrumentos no total)\n\n", len(tickers), len(catalog))
	for _, ticker := range tickers {
		fmt.Printf("%-8s %s\n", ticker, names[ticker])
	}
	return nil
}
