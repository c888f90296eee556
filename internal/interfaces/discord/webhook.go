package discord

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"pricewatch/internal/application/port"
)

var ErrWebhookRejected = errors.New("discord: webhook rejected")

// Webhook posts {"content": text} to a Discord-compatible webhook URL.
type Webhook struct {
	url    string
	client *http.Client
}

type payload struct {
	Content string `json:"content"`
}

func NewWebhook(url string, timeout time.Duration) *Webhook {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Webhook{
		url: strings.TrimSpace(url),
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

func (w *Webhook) Name() string { return "discord" }

func (w *Webhook) Send(ctx context.Context, text string) error {
	if w.url == "" {
		return errors.New("discord: webhook url is empty")
	}

	body, err := json.Marshal(payload{Content: text})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("discord request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%w: %d %s", ErrWebhookRejected, resp.StatusCode, string(msg))
	}
	return nil
}

var _ port.Notifier = (*Webhook)(nil)
