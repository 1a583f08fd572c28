// Package payment creates Stripe Checkout sessions and verifies the
// webhooks that confirm them.
package payment

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/dtnitsch/llmstxt-generator/models"
)

const (
	DefaultAPIBase = "https://api.stripe.com"

	// SignatureTolerance bounds the age of a webhook timestamp.
	SignatureTolerance = 300 * time.Second

	PriceUSD = 8
	Provider = "Stripe Checkout"

	maxResponseSize = 1 << 20
)

var (
	ErrNotConfigured        = errors.New("Stripe is not configured.")
	ErrWebhookNotConfigured = errors.New("Stripe webhook secret not configured.")
	ErrCheckoutFailed       = errors.New("Stripe checkout failed.")
	ErrMissingRunID         = errors.New("Missing run_id.")
	ErrMissingOrigin        = errors.New("Missing origin.")
	ErrMissingSignature     = errors.New("Missing Stripe signature.")
	ErrMissingPayload       = errors.New("Missing payload.")
	ErrInvalidSignature     = errors.New("Invalid signature.")
)

// Gateway talks to the Stripe REST API with plain form posts.
type Gateway struct {
	secretKey     string
	priceID       string
	webhookSecret string
	apiBase       string
	httpClient    *http.Client
	logger        *slog.Logger
	now           func() time.Time
}

type Option func(*Gateway)

func WithHTTPClient(c *http.Client) Option {
	return func(g *Gateway) { g.httpClient = c }
}

func WithLogger(l *slog.Logger) Option {
	return func(g *Gateway) { g.logger = l }
}

// WithClock replaces the time source used for signature tolerance.
func WithClock(now func() time.Time) Option {
	return func(g *Gateway) { g.now = now }
}

func NewGateway(cfg models.PaymentConfig, opts ...Option) *Gateway {
	g := &Gateway{
		secretKey:     cfg.SecretKey,
		priceID:       cfg.PriceID,
		webhookSecret: cfg.WebhookSecret,
		apiBase:       strings.TrimRight(cfg.APIBase, "/"),
		httpClient:    &http.Client{Timeout: 20 * time.Second},
		logger:        slog.Default(),
		now:           time.Now,
	}
	if g.apiBase == "" {
		g.apiBase = DefaultAPIBase
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// CheckoutConfigured reports whether sessions can be created.
func (g *Gateway) CheckoutConfigured() bool {
	return g.secretKey != "" && g.priceID != ""
}

// WebhookConfigured reports whether webhooks can be verified.
func (g *Gateway) WebhookConfigured() bool {
	return g.webhookSecret != ""
}

type checkoutSession struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// CreateCheckout opens a one-time payment session for runID and returns the
// hosted checkout URL. Retries for the same run reuse the same session.
func (g *Gateway) CreateCheckout(ctx context.Context, runID, origin string) (string, error) {
	if !g.CheckoutConfigured() {
		return "", ErrNotConfigured
	}
	if runID == "" {
		return "", ErrMissingRunID
	}
	origin = strings.TrimRight(origin, "/")
	if origin == "" {
		return "", ErrMissingOrigin
	}

	form := url.Values{}
	form.Set("mode", "payment")
	form.Set("success_url", origin+"/success?runId="+url.QueryEscape(runID))
	form.Set("cancel_url", origin+"/?checkout=cancel&runId="+url.QueryEscape(runID))
	form.Set("line_items[0][price]", g.priceID)
	form.Set("line_items[0][quantity]", "1")
	form.Set("client_reference_id", runID)
	form.Set("metadata[run_id]", runID)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.apiBase+"/v1/checkout/sessions", strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("failed to create checkout request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+g.secretKey)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Idempotency-Key", "checkout-"+runID)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to call stripe: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return "", fmt.Errorf("failed to read stripe response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		g.logger.Warn("Stripe checkout rejected", "run_id", runID, "status", resp.StatusCode, "body", truncate(body, 300))
		return "", fmt.Errorf("%w (status %d)", ErrCheckoutFailed, resp.StatusCode)
	}

	var session checkoutSession
	if err := json.Unmarshal(body, &session); err != nil {
		return "", fmt.Errorf("%w: %v", ErrCheckoutFailed, err)
	}
	if session.URL == "" {
		return "", ErrCheckoutFailed
	}

	g.logger.Info("Checkout session created", "run_id", runID, "session", session.ID)
	return session.URL, nil
}

func truncate(b []byte, n int) string {
	if len(b) > n {
		return string(b[:n])
	}
	return string(b)
}

// WebhookEvent is the part of a Stripe event the store cares about. RunID is
// empty unless the event confirms a completed payment.
type WebhookEvent struct {
	ID    string
	Type  string
	RunID string
}

type stripeEvent struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Data struct {
		Object struct {
			PaymentStatus     *string           `json:"payment_status"`
			ClientReferenceID string            `json:"client_reference_id"`
			Metadata          map[string]string `json:"metadata"`
		} `json:"object"`
	} `json:"data"`
}

var paidEvents = map[string]bool{
	"checkout.session.completed":               true,
	"checkout.session.async_payment_succeeded": true,
}

// VerifyWebhook checks the Stripe-Signature header against payload and
// decodes the event.
func (g *Gateway) VerifyWebhook(payload []byte, signatureHeader string) (*WebhookEvent, error) {
	if !g.WebhookConfigured() {
		return nil, ErrWebhookNotConfigured
	}
	if strings.TrimSpace(signatureHeader) == "" {
		return nil, ErrMissingSignature
	}
	if len(payload) == 0 {
		return nil, ErrMissingPayload
	}

	timestamp, signatures := parseSignatureHeader(signatureHeader)
	if timestamp == "" || len(signatures) == 0 {
		return nil, ErrInvalidSignature
	}

	ts, err := strconv.ParseInt(timestamp, 10, 64)
	if err != nil {
		return nil, ErrInvalidSignature
	}
	if age := g.now().Sub(time.Unix(ts, 0)); age > SignatureTolerance || age < -SignatureTolerance {
		return nil, ErrInvalidSignature
	}

	expected := Sign(g.webhookSecret, timestamp, payload)
	matched := false
	for _, sig := range signatures {
		if hmac.Equal([]byte(expected), []byte(sig)) {
			matched = true
			break
		}
	}
	if !matched {
		return nil, ErrInvalidSignature
	}

	var event stripeEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return nil, ErrInvalidSignature
	}

	out := &WebhookEvent{ID: event.ID, Type: event.Type}
	obj := event.Data.Object
	if paidEvents[event.Type] && (obj.PaymentStatus == nil || *obj.PaymentStatus == "paid") {
		out.RunID = obj.Metadata["run_id"]
		if out.RunID == "" {
			out.RunID = obj.ClientReferenceID
		}
	}
	return out, nil
}

// Sign returns the hex HMAC-SHA256 of "timestamp.payload".
func Sign(secret, timestamp string, payload []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(timestamp))
	mac.Write([]byte("."))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

func parseSignatureHeader(header string) (string, []string) {
	var (
		timestamp  string
		signatures []string
	)
	for _, part := range strings.Split(header, ",") {
		key, value, ok := strings.Cut(strings.TrimSpace(part), "=")
		if !ok {
			continue
		}
		switch key {
		case "t":
			timestamp = value
		case "v1":
			signatures = append(signatures, value)
		}
	}
	return timestamp, signatures
}
