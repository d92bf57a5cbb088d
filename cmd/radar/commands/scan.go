package commands

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/vsantana/radarbdr/internal/contracts"
	"github.com/vsantana/radarbdr/pkg/config"
	"github.com/vsantana/radarbdr/pkg/logger"
)

// scanCmd represents the scan command
var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Executa uma varredura completa do universo de BDRs",
	Long: `Executa o pipeline completo uma vez:
catálogo → universo → histórico de preços → indicadores → sinais.

Example:
  go run ./cmd/radar scan
  go run ./cmd/radar scan --threshold -0.05 --bollinger
  go run ./cmd/radar scan --fibonacci
  go run ./cmd/radar scan --notify --top 10`,
	RunE: runScan,
}

var (
	scanThreshold float64
	scanBollinger bool
	scanFibonacci bool
	scanDonchian  bool
	scanTop       int
	scanNotify    bool
)

func init() {
	rootCmd.AddCommand(scanCmd)

	scanCmd.Flags().Float64Var(&scanThreshold, "threshold", 0, "queda mínima do dia, fração negativa (ex: -0.03)")
	scanCmd.Flags().BoolVar(&scanBollinger, "bollinger", false, "exige mínima abaixo da banda inferior de Bollinger")
	scanCmd.Flags().BoolVar(&scanFibonacci, "fibonacci", false, "estratégia golden zone de Fibonacci")
	scanCmd.Flags().BoolVar(&scanDonchian, "donchian", false, "estratégia de rompimento Donchian semanal")
	scanCmd.Flags().IntVar(&scanTop, "top", 0, "limita a exibição aos N primeiros sinais")
	scanCmd.Flags().BoolVar(&scanNotify, "notify", false, "envia o resumo para o webhook configurado")
}

func runScan(cmd *cobra.Command, args []string) error {
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

	runCfg := scanDefaults(cfg)
	if cmd.Flags().Changed("threshold") {
		if scanThreshold > 0 {
			return fmt.Errorf("threshold must be negative or zero, got %v", scanThreshold)
		}
		runCfg.DeclineThreshold = scanThreshold
	}
	if cmd.Flags().Changed("bollinger") {
		runCfg.RequireBollinger = scanBollinger
	}
	if cmd.Flags().Changed("fibonacci") {
		runCfg.EnableFibonacci = scanFibonacci
	}
	if cmd.Flags().Changed("donchian") {
		runCfg.EnableDonchian = scanDonchian
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	result := d.pipeline.Run(ctx, runCfg)
	if result.ProviderDown {
		return fmt.Errorf("scan aborted: market data providers unavailable")
	}

	printResult(result, scanTop)

	if d.archive != nil {
		if _, err := d.archive.SaveScan(ctx, result); err != nil {
			log.WithError(err).Warn("Failed to archive scan")
		}
	}

	if scanNotify {
		if !d.notifier.Enabled() {
			log.Warn("Notification requested but WHATSAPP_WEBHOOK_URL is not set")
		} else if err := d.notifier.Push(ctx, result); err != nil {
			log.WithError(err).Warn("Failed to push scan summary")
		}
	}

	return nil
}

func printResult(result *contracts.ScanResult, top int) {
	fmt.Printf("=== Radar BDR — %s ===\n", result.At.Format("02/01/2006 15:04 MST"))
	fmt.Printf("Universo: %d | Analisados: %d | Ignorados: %d\n\n",
		result.UniverseSize, result.Analyzed, result.Skipped)

	signals := result.Signals
	if top > 0 {
		signals = result.Top(top)
	}

	if len(signals) == 0 {
		fmt.Println("Nenhuma oportunidade encontrada com os critérios atuais.")
		return
	}

	fmt.Printf("%-8s %-22s %10s %8s %6s %6s %5s %-11s %s\n",
		"TICKER", "EMPRESA", "PREÇO", "DIA%", "I.S.", "RSI", "SCORE", "POTENCIAL", "SINAIS")
	for _, s := range signals {
		trend := " "
		if s.TrendUp {
			trend = "*"
		}
		fmt.Printf("%-8s %-22s %10.2f %7.2f%% %6.0f %6.1f %5d %-11s%s %s\n",
			s.Ticker, s.Name, s.Price, s.ChangeDay*100, s.OversoldIndex,
			s.RSI14, s.Score, s.Label, trend, strings.Join(s.Rationale, ", "))
	}
	fmt.Printf("\n%d sinais (* = tendência de alta)\n", len(signals))
}
