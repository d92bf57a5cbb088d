package jobs

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vsantana/radarbdr/internal/contracts"
	"github.com/vsantana/radarbdr/pkg/config"
	"github.com/vsantana/radarbdr/pkg/logger"
)

type fakeRunner struct {
	result *contracts.ScanResult
}

func (f *fakeRunner) Run(ctx context.Context, cfg contracts.ScanConfig) *contracts.ScanResult {
	return f.result
}

type fakeArchive struct {
	saves int
	err   error
}

func (f *fakeArchive) SaveScan(ctx context.Context, result *contracts.ScanResult) (int64, error) {
	f.saves++
	return 1, f.err
}

type fakeNotifier struct {
	pushes int
	err    error
}

func (f *fakeNotifier) Enabled() bool { return true }

func (f *fakeNotifier) Push(ctx context.Context, result *contracts.ScanResult) error {
	f.pushes++
	return f.err
}

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	cfg, err := config.Load()
	require.NoError(t, err)
	return logger.New(cfg)
}

func TestScanJob_Run(t *testing.T) {
	runner := &fakeRunner{result: &contracts.ScanResult{Analyzed: 10}}
	archive := &fakeArchive{}
	notifier := &fakeNotifier{}

	job := NewScanJob(runner, archive, notifier, nil, contracts.ScanConfig{}, testLogger(t))
	require.NoError(t, job.Run(context.Background()))

	assert.Equal(t, 1, archive.saves)
	assert.Equal(t, 1, notifier.pushes)
}

func TestScanJob_ProviderDownFailsTheJob(t *testing.T) {
	runner := &fakeRunner{result: &contracts.ScanResult{ProviderDown: true}}
	archive := &fakeArchive{}

	job := NewScanJob(runner, archive, nil, nil, contracts.ScanConfig{}, testLogger(t))
	assert.Error(t, job.Run(context.Background()))
	assert.Zero(t, archive.saves, "outage scans carry no data worth archiving")
}

func TestScanJob_SideEffectFailuresAreSwallowed(t *testing.T) {
	runner := &fakeRunner{result: &contracts.ScanResult{Analyzed: 5}}
	archive := &fakeArchive{err: errors.New("db down")}
	notifier := &fakeNotifier{err: errors.New("webhook down")}

	job := NewScanJob(runner, archive, notifier, nil, contracts.ScanConfig{}, testLogger(t))
	assert.NoError(t, job.Run(context.Background()))
}

func TestScanJob_Schedule(t *testing.T) {
	job := NewScanJob(&fakeRunner{result: &contracts.ScanResult{}}, nil, nil, nil, contracts.ScanConfig{}, testLogger(t))
	assert.Equal(t, "daily_scan", job.Name())
	assert.Equal(t, "0 30 21 * * 1-5", job.Schedule())
}
