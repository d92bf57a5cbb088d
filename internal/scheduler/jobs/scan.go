package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/vsantana/radarbdr/internal/contracts"
	"github.com/vsantana/radarbdr/pkg/logger"
)

// ScanRunner executes one scan pass
type ScanRunner interface {
	Run(ctx context.Context, cfg contracts.ScanConfig) *contracts.ScanResult
}

// ScanArchive persists completed scans
type ScanArchive interface {
	SaveScan(ctx context.Context, result *contracts.ScanResult) (int64, error)
}

// Notifier pushes a scan summary to the configured sink
type Notifier interface {
	Enabled() bool
	Push(ctx context.Context, result *contracts.ScanResult) error
}

// Broadcaster pushes completed scans to live subscribers
type Broadcaster interface {
	Broadcast(result *contracts.ScanResult)
}

// ScanJob runs the daily market scan after the B3 close
type ScanJob struct {
	runner   ScanRunner
	archive  ScanArchive // nil when no database is configured
	notifier Notifier    // nil when notifications are off
	hub      Broadcaster // nil outside API mode
	cfg      contracts.ScanConfig
	logger   *logger.Logger
}

// NewScanJob creates the daily scan job
func NewScanJob(runner ScanRunner, archive ScanArchive, notifier Notifier, hub Broadcaster, cfg contracts.ScanConfig, log *logger.Logger) *ScanJob {
	return &ScanJob{
		runner:   runner,
		archive:  archive,
		notifier: notifier,
		hub:      hub,
		cfg:      cfg,
		logger:   log,
	}
}

// Name returns the job name
func (j *ScanJob) Name() string {
	return "daily_scan"
}

// Schedule returns the cron schedule: weekdays at 21:30 UTC, after the
// B3 closing auction settles
func (j *ScanJob) Schedule() string {
	return "0 30 21 * * 1-5"
}

// Run executes the scan and fans the result out. Only a provider outage is
// reported as a job failure so the scheduler retries it; archive and
// notification problems are logged and swallowed.
func (j *ScanJob) Run(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Minute)
	defer cancel()

	result := j.runner.Run(ctx, j.cfg)
	if result.ProviderDown {
		return fmt.Errorf("scan aborted: market data providers unavailable")
	}

	if j.archive != nil {
		if _, err := j.archive.SaveScan(ctx, result); err != nil {
			j.logger.WithError(err).Warn("Failed to archive scheduled scan")
		}
	}

	if j.hub != nil {
		j.hub.Broadcast(result)
	}

	if j.notifier != nil && j.notifier.Enabled() {
		if err := j.notifier.Push(ctx, result); err != nil {
			j.logger.WithError(err).Warn("Failed to push scan summary")
		}
	}

	return nil
}
