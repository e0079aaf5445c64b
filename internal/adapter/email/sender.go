// Package email sends admin notifications through a transactional email
// HTTP API.
package email

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/heartmarshall/forkful-backend/internal/config"
	"github.com/heartmarshall/forkful-backend/internal/domain"
)

const userAgent = "forkful-backend/1.0"

// Sender is the notification surface used by the services.
type Sender interface {
	NotifyRecipeSubmitted(ctx context.Context, r *domain.Recipe) error
	NotifyPhotoFlagged(ctx context.Context, p *domain.Photo) error
}

// NewSender builds an HTTP sender when an endpoint and recipients are
// configured. Otherwise a noop implementation is returned.
func NewSender(cfg config.EmailConfig) Sender {
	endpoint := strings.TrimSpace(cfg.Endpoint)
	to := cfg.Recipients()
	if endpoint == "" || len(to) == 0 {
		return noopSender{}
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &httpSender{
		endpoint: endpoint,
		apiKey:   cfg.APIKey,
		from:     cfg.From,
		to:       to,
		client:   &http.Client{Timeout: timeout},
	}
}

type message struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	Text    string   `json:"text"`
}

type httpSender struct {
	endpoint string
	apiKey   string
	from     string
	to       []string
	client   *http.Client
}

func (s *httpSender) NotifyRecipeSubmitted(ctx context.Context, r *domain.Recipe) error {
	var b strings.Builder
	fmt.Fprintf(&b, "A community recipe is waiting for review.\n\nTitle: %s\nSlug: %s\n", r.Title, r.Slug)
	if len(r.Ingredients) > 0 {
		fmt.Fprintf(&b, "Ingredients: %s\n", strings.Join(r.Ingredients, ", "))
	}
	return s.send(ctx, "New recipe submitted: "+r.Title, b.String())
}

func (s *httpSender) NotifyPhotoFlagged(ctx context.Context, p *domain.Photo) error {
	var b strings.Builder
	fmt.Fprintf(&b, "A photo was flagged as likely AI-generated.\n\nRecipe: %s\nPhoto: %s\nURL: %s\n", p.RecipeSlug, p.ID, p.URL)
	if p.AuthenticityConfidence != nil {
		fmt.Fprintf(&b, "Confidence: %d\n", *p.AuthenticityConfidence)
	}
	if p.Reasoning != nil && *p.Reasoning != "" {
		fmt.Fprintf(&b, "Reasoning: %s\n", *p.Reasoning)
	}
	return s.send(ctx, "Photo flagged for review", b.String())
}

func (s *httpSender) send(ctx context.Context, subject, text string) error {
	body, err := json.Marshal(message{From: s.from, To: s.to, Subject: subject, Text: text})
	if err != nil {
		return fmt.Errorf("email.send: marshal: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("email.send: build request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "application/json")
	if s.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.apiKey)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("email.send: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("email.send: status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

type noopSender struct{}

func (noopSender) NotifyRecipeSubmitted(context.Context, *domain.Recipe) error { return nil }
func (noopSender) NotifyPhotoFlagged(context.Context, *domain.Photo) error     { return nil }
