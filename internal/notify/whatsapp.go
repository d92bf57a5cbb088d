package notify

import (
	"context"
	"fmt"
	"strings"

	"github.com/vsantana/radarbdr/internal/contracts"
	"github.com/vsantana/radarbdr/pkg/config"
	"github.com/vsantana/radarbdr/pkg/httputil"
	"github.com/vsantana/radarbdr/pkg/logger"
)

// WhatsAppNotifier pushes a scan summary to a WhatsApp gateway webhook.
// Delivery is best-effort: a failed push never touches the scan result.
type WhatsAppNotifier struct {
	httpClient *httputil.Client
	logger     *logger.Logger
	webhookURL string
	topN       int
	enabled    bool
}

// NewWhatsApp creates a notifier from config. When notifications are
// disabled the notifier is inert.
func NewWhatsApp(httpClient *httputil.Client, log *logger.Logger, cfg config.NotifyConfig) *WhatsAppNotifier {
	return &WhatsAppNotifier{
		httpClient: httpClient,
		logger:     log,
		webhookURL: cfg.WebhookURL,
		topN:       cfg.TopN,
		enabled:    cfg.Enabled && cfg.WebhookURL != "",
	}
}

// Enabled reports whether pushes will actually be sent
func (n *WhatsAppNotifier) Enabled() bool {
	return n.enabled
}

// Push sends the top signals of a scan as one pre-formatted text message.
// Returns the delivery error for logging purposes only; callers must not
// propagate it into the scan outcome.
func (n *WhatsAppNotifier) Push(ctx context.Context, result *contracts.ScanResult) error {
	if !n.enabled {
		return nil
	}
	if result == nil || len(result.Signals) == 0 {
		n.logger.Debug("No signals to notify")
		return nil
	}

	payload := map[string]string{"message": FormatSummary(result, n.topN)}
	resp, err := n.httpClient.PostJSON(ctx, n.webhookURL, payload)
	if err != nil {
		n.logger.WithError(err).Warn("WhatsApp push failed")
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		err := fmt.Errorf("webhook status %d", resp.StatusCode)
		n.logger.WithError(err).Warn("WhatsApp push rejected")
		return err
	}

	n.logger.WithField("signals", len(result.Top(n.topN))).Info("WhatsApp summary sent")
	return nil
}

// FormatSummary renders the top-n signals as the message text:
// one line per signal with ticker, daily change and label.
func FormatSummary(result *contracts.ScanResult, n int) string {
	top := result.Top(n)

	var b strings.Builder
	fmt.Fprintf(&b, "Radar BDR %s\n", result.At.Format("02/01/2006"))
	fmt.Fprintf(&b, "%d oportunidades de %d ativos\n", len(result.Signals), result.Analyzed)

	for i, sig := range top {
		fmt.Fprintf(&b, "%d. %s (%s) %.2f%% - %s\n",
			i+1, sig.Ticker, sig.Name, sig.ChangeDay*100, sig.Label)
	}
	return strings.TrimRight(b.String(), "\n")
}
