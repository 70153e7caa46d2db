package whatsapp

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

	"github.com/angelmondragon/pedidoz-backend/pkg/config"
	pkgerrors "github.com/angelmondragon/pedidoz-backend/pkg/errors"
)

const (
	defaultBaseURL              = "https://graph.facebook.com/v19.0"
	responseBodyReadLimit int64 = 1024
)

var (
	errTokenRequired   = errors.New("whatsapp access token is required")
	errPhoneIDRequired = errors.New("whatsapp phone number id is required")
)

// Client wraps the Cloud API endpoints used to reply to users.
type Client struct {
	httpClient    *http.Client
	baseURL       string
	token         string
	phoneNumberID string
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithBaseURL overrides the configured Graph API base URL.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		trimmed := strings.TrimSpace(baseURL)
		if trimmed != "" {
			c.baseURL = trimmed
		}
	}
}

// NewClient builds the Cloud API client from configuration.
func NewClient(cfg config.WhatsAppConfig, opts ...Option) (*Client, error) {
	token := strings.TrimSpace(cfg.Token)
	if token == "" {
		return nil, errTokenRequired
	}
	phoneID := strings.TrimSpace(cfg.PhoneNumberID)
	if phoneID == "" {
		return nil, errPhoneIDRequired
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	client := &Client{
		token:         token,
		phoneNumberID: phoneID,
		baseURL:       defaultBaseURL,
		httpClient:    &http.Client{Timeout: timeout},
	}
	if trimmed := strings.TrimSpace(cfg.BaseURL); trimmed != "" {
		client.baseURL = trimmed
	}

	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}

	if client.httpClient == nil {
		client.httpClient = &http.Client{Timeout: timeout}
	}
	if client.baseURL == "" {
		client.baseURL = defaultBaseURL
	}

	return client, nil
}

// MarkRead flags an inbound message as read so the user sees the blue check.
// Failures are reported but callers treat them as non-fatal.
func (c *Client) MarkRead(ctx context.Context, messageID string) error {
	if strings.TrimSpace(messageID) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "message ID is required")
	}
	payload := map[string]any{
		"messaging_product": "whatsapp",
		"status":            "read",
		"message_id":        messageID,
	}
	return c.post(ctx, payload)
}

// SendText delivers a plain text message to the given wa_id.
func (c *Client) SendText(ctx context.Context, waID, body string) error {
	if strings.TrimSpace(waID) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "recipient wa_id is required")
	}
	if strings.TrimSpace(body) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "message body is required")
	}
	payload := map[string]any{
		"messaging_product": "whatsapp",
		"to":                waID,
		"type":              "text",
		"text":              map[string]string{"body": body},
	}
	return c.post(ctx, payload)
}

// SendButtons delivers an interactive reply-button message. The Cloud API
// caps reply buttons at three per message.
func (c *Client) SendButtons(ctx context.Context, waID, header, body string, buttons []ReplyButton) error {
	if strings.TrimSpace(waID) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "recipient wa_id is required")
	}
	if len(buttons) == 0 || len(buttons) > MaxReplyButtons {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("reply buttons must number 1..%d", MaxReplyButtons))
	}

	wire := make([]map[string]any, 0, len(buttons))
	for _, b := range buttons {
		wire = append(wire, map[string]any{
			"type":  "reply",
			"reply": map[string]string{"id": b.ID, "title": b.Title},
		})
	}

	interactive := map[string]any{
		"type":   "button",
		"body":   map[string]string{"text": body},
		"action": map[string]any{"buttons": wire},
	}
	if strings.TrimSpace(header) != "" {
		interactive["header"] = map[string]string{"type": "text", "text": header}
	}

	payload := map[string]any{
		"messaging_product": "whatsapp",
		"to":                waID,
		"type":              "interactive",
		"interactive":       interactive,
	}
	return c.post(ctx, payload)
}

// SendList delivers an interactive list message. The Cloud API caps list
// rows at ten per message.
func (c *Client) SendList(ctx context.Context, waID, body, buttonLabel string, rows []ListRow) error {
	if strings.TrimSpace(waID) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "recipient wa_id is required")
	}
	if len(rows) == 0 || len(rows) > MaxListRows {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("list rows must number 1..%d", MaxListRows))
	}

	wire := make([]map[string]any, 0, len(rows))
	for _, r := range rows {
		row := map[string]any{"id": r.ID, "title": r.Title}
		if r.Description != "" {
			row["description"] = r.Description
		}
		wire = append(wire, row)
	}

	payload := map[string]any{
		"messaging_product": "whatsapp",
		"to":                waID,
		"type":              "interactive",
		"interactive": map[string]any{
			"type": "list",
			"body": map[string]string{"text": body},
			"action": map[string]any{
				"button":   buttonLabel,
				"sections": []map[string]any{{"rows": wire}},
			},
		},
	}
	return c.post(ctx, payload)
}

func (c *Client) post(ctx context.Context, payload any) error {
	if c == nil {
		return pkgerrors.New(pkgerrors.CodeDependency, "whatsapp client not configured")
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "marshal whatsapp payload")
	}

	url := fmt.Sprintf("%s/%s/messages", strings.TrimRight(c.baseURL, "/"), c.phoneNumberID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build whatsapp request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "execute whatsapp request")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, responseBodyReadLimit))
		return pkgerrors.Wrap(pkgerrors.CodeDependency, fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg))), "whatsapp request failed")
	}

	return nil
}
