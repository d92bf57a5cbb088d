package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vsantana/radarbdr/internal/scheduler"
	"github.com/vsantana/radarbdr/internal/scheduler/jobs"
	"github.com/vsantana/radarbdr/pkg/config"
	"github.com/vsantana/radarbdr/pkg/logger"
)

// schedulerCmd represents the scheduler command
var schedulerCmd = &cobra.Command{
	Use:   "scheduler",
	Short: "Inicia o agendador da varredura diária",
	Long: `Inicia o daemon que executa a varredura nos dias úteis após o
fechamento da B3 (21:30 UTC), arquivando o resultado e enviando o resumo
para o webhook quando configurado.

Example:
  go run ./cmd/radar scheduler
  go run ./cmd/radar scheduler --run-now`,
	RunE: runScheduler,
}

var schedulerRunNow bool

func init() {
	rootCmd.AddCommand(schedulerCmd)

	schedulerCmd.Flags().BoolVar(&schedulerRunNow, "run-now", false, "dispara a varredura imediatamente ao iniciar")
}

func runScheduler(cmd *cobra.Command, args []string) error {
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

	var archive jobs.ScanArchive
	if d.archive != nil {
		archive = d.archive
	}
	var notifier jobs.Notifier
	if d.notifier.Enabled() {
		notifier = d.notifier
	}

	scanJob := jobs.NewScanJob(d.pipeline, archive, notifier, nil, scanDefaults(cfg), log)

	sched := scheduler.New(log)
	if err := sched.AddJob(scanJob); err != nil {
		return err
	}

	sched.Start()
	defer sched.Stop()

	if schedulerRunNow {
		if err := sched.RunJob(scanJob.Name()); err != nil {
			return err
		}
	}

	fmt.Printf("Scheduler running: %s @ %q\n", scanJob.Name(), scanJob.Schedule())
	fmt.Println("Press Ctrl+C to stop")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	return nil
}
