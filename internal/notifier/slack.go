package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

var levelEmoji = map[Level]string{
	LevelSuccess: "✅",
	LevelWarning: "⚠️",
	LevelError:   "❌",
}

// Slack posts notifications to a Slack incoming webhook.
type Slack struct {
	WebhookURL string
	Client     *http.Client
	MaxRetries int
	log        zerolog.Logger
}

// NewSlack creates a webhook notifier with a bounded retry budget.
func NewSlack(webhookURL string, log zerolog.Logger) *Slack {
	return &Slack{
		WebhookURL: webhookURL,
		Client:     &http.Client{Timeout: 10 * time.Second},
		MaxRetries: 2,
		log:        log.With().Str("component", "slack").Logger(),
	}
}

// Notify posts the message, retrying with exponential backoff. Best-effort:
// the caller is expected to log and discard the error.
func (s *Slack) Notify(ctx context.Context, level Level, message, details string) error {
	text := fmt.Sprintf("%s *%s*", levelEmoji[level], message)
	if details != "" {
		text += "\n```" + details + "```"
	}

	var lastErr error
	for attempt := 0; attempt <= s.MaxRetries; attempt++ {
		if err := s.post(ctx, text); err != nil {
			lastErr = err
			backoff := time.Duration(1<<uint(attempt)) * time.Second
			s.log.Warn().Int("attempt", attempt+1).Err(err).Dur("backoff", backoff).Msg("webhook post failed")
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
				continue
			}
		}
		return nil
	}
	return fmt.Errorf("all %d attempts exhausted: %w", s.MaxRetries+1, lastErr)
}

func (s *Slack) post(ctx context.Context, text string) error {
	body, err := json.Marshal(map[string]string{"text": text})
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.WebhookURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.Client.Do(req)
	if err != nil {
		return fmt.Errorf("post webhook: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("webhook error: status %d, body: %s", resp.StatusCode, string(respBody))
	}
	return nil
}
