package email

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/ErlanBelekov/newsletter/internal/domain"
	"github.com/resend/resend-go/v2"
)

// ErrSend wraps every failure to hand a message to the provider.
var ErrSend = errors.New("send email")

type Message struct {
	To      domain.SubscriberEmail
	Subject string
	HTML    string
	Text    string
}

type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// LogSender logs emails instead of sending them. Only allowed with ENV=local.
type LogSender struct {
	logger *slog.Logger
}

func NewLogSender(logger *slog.Logger) *LogSender {
	return &LogSender{logger: logger.With("component", "email")}
}

func (s *LogSender) Send(ctx context.Context, msg Message) error {
	s.logger.InfoContext(ctx, "confirmation email (local dev)",
		"to", msg.To.Masked(), "subject", msg.Subject, "text", msg.Text)
	return nil
}

// HTTPSender posts to a /mail/send endpoint using the SendGrid v3 body shape.
type HTTPSender struct {
	client  *http.Client
	baseURL string
	token   string
	from    domain.SubscriberEmail
}

func NewHTTPSender(baseURL, token string, from domain.SubscriberEmail, timeout time.Duration) *HTTPSender {
	return &HTTPSender{
		client:  &http.Client{Timeout: timeout},
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		from:    from,
	}
}

type address struct {
	Email string `json:"email"`
}

type personalization struct {
	To []address `json:"to"`
}

type content struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

type sendRequest struct {
	Personalizations []personalization `json:"personalizations"`
	From             address           `json:"from"`
	Subject          string            `json:"subject"`
	Content          []content         `json:"content"`
}

func (s *HTTPSender) Send(ctx context.Context, msg Message) error {
	body, err := json.Marshal(sendRequest{
		Personalizations: []personalization{{To: []address{{Email: msg.To.String()}}}},
		From:             address{Email: s.from.String()},
		Subject:          msg.Subject,
		Content: []content{
			{Type: "text/plain", Value: msg.Text},
			{Type: "text/html", Value: msg.HTML},
		},
	})
	if err != nil {
		return fmt.Errorf("%w: encode body: %w", ErrSend, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/mail/send", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: build request: %w", ErrSend, err)
	}
	req.Header.Set("Authorization", "Bearer "+s.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrSend, err)
	}
	defer func() { _ = resp.Body.Close() }()
	_, _ = io.Copy(io.Discard, resp.Body) // drain so the connection can be reused

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: provider responded %d", ErrSend, resp.StatusCode)
	}
	return nil
}

// ResendSender sends emails via the Resend API.
type ResendSender struct {
	client  *resend.Client
	from    domain.SubscriberEmail
	timeout time.Duration
}

func NewResendSender(apiKey string, from domain.SubscriberEmail, timeout time.Duration) *ResendSender {
	return &ResendSender{
		client:  resend.NewClient(apiKey),
		from:    from,
		timeout: timeout,
	}
}

func (s *ResendSender) Send(ctx context.Context, msg Message) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	params := &resend.SendEmailRequest{
		From:    s.from.String(),
		To:      []string{msg.To.String()},
		Subject: msg.Subject,
		Html:    msg.HTML,
		Text:    msg.Text,
	}
	if _, err := s.client.Emails.SendWithContext(ctx, params); err != nil {
		return fmt.Errorf("%w: %w", ErrSend, err)
	}
	return nil
}

type Options struct {
	Provider   string // log, http or resend
	From       string
	APIBaseURL string
	APIToken   string
	ResendKey  string
	Timeout    time.Duration
}

// NewSender picks the implementation named by opts.Provider.
func NewSender(opts Options, logger *slog.Logger) (Sender, error) {
	from, err := domain.ParseSubscriberEmail(opts.From)
	if err != nil {
		return nil, fmt.Errorf("sender address: %w", err)
	}

	switch opts.Provider {
	case "log":
		return NewLogSender(logger), nil
	case "http":
		return NewHTTPSender(opts.APIBaseURL, opts.APIToken, from, opts.Timeout), nil
	case "resend":
		return NewResendSender(opts.ResendKey, from, opts.Timeout), nil
	default:
		return nil, fmt.Errorf("unknown email provider %q", opts.Provider)
	}
}
