package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"student_intervention_service/internal/domain/notify"
)

const defaultWebhookTimeout = 10 * time.Second

// WebhookNotifier POSTs mentor alerts as JSON to an automation webhook
// (an n8n workflow in the reference deployment), which fans out to email or
// chat on its own.
type WebhookNotifier struct {
	webhookURL string
	client     *http.Client
}

func NewWebhookNotifier(webhookURL string) *WebhookNotifier {
	return &WebhookNotifier{
		webhookURL: webhookURL,
		client:     &http.Client{Timeout: defaultWebhookTimeout},
	}
}

func (n *WebhookNotifier) NotifyMentor(ctx context.Context, alert notify.MentorAlert) error {
	if n.webhookURL == "" {
		return fmt.Errorf("webhook URL not configured")
	}
	if alert.Timestamp.IsZero() {
		alert.Timestamp = time.Now().UTC()
	}

	body, err := json.Marshal(alert)
	if err != nil {
		return fmt.Errorf("failed to marshal mentor alert: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to deliver mentor alert to webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook rejected mentor alert: status %d", resp.StatusCode)
	}
	return nil
}
