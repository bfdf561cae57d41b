package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/resend/resend-go/v2"
)

// DeliveryPurpose tells the dispatcher which flow a code belongs to, so it
// can render the right subject and body.
type DeliveryPurpose string

const (
	PurposeRegistration  DeliveryPurpose = "registration"
	PurposePasswordReset DeliveryPurpose = "password_reset"
)

// NotificationDispatcher delivers a code to a user. The state machines call
// it fire-and-forget: delivery failure never changes committed account state.
type NotificationDispatcher interface {
	Deliver(ctx context.Context, destination, code string, purpose DeliveryPurpose) error
}

// NoopDispatcher is used when outbound email is disabled (local development,
// tests).
type NoopDispatcher struct{}

func (d *NoopDispatcher) Deliver(ctx context.Context, destination, code string, purpose DeliveryPurpose) error {
	log.Printf("[Dispatcher] noop deliver purpose=%s to=%s", purpose, destination)
	return nil
}

// ResendDispatcher delivers codes via the Resend REST API.
type ResendDispatcher struct {
	from    string
	codeTTL time.Duration
	client  *resend.Client
}

func NewResendDispatcher(apiKey, from string, codeTTL time.Duration) (*ResendDispatcher, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("resend api key is required")
	}
	if from == "" {
		return nil, fmt.Errorf("email from is required")
	}
	if codeTTL <= 0 {
		codeTTL = 15 * time.Minute
	}
	return &ResendDispatcher{
		from:    from,
		codeTTL: codeTTL,
		client:  resend.NewClient(apiKey),
	}, nil
}

func (d *ResendDispatcher) Deliver(ctx context.Context, destination, code string, purpose DeliveryPurpose) error {
	if destination == "" || code == "" {
		return fmt.Errorf("destination and code are required")
	}

	subject, action := "Confirm your registration", "confirm your AgroScan registration"
	if purpose == PurposePasswordReset {
		subject, action = "Reset your password", "reset your AgroScan password"
	}
	minutes := int(d.codeTTL.Minutes())

	params := &resend.SendEmailRequest{
		From:    d.from,
		To:      []string{destination},
		Subject: subject,
		Text: fmt.Sprintf("Use code %s to %s. It expires in %d minutes.",
			code, action, minutes),
		Html: fmt.Sprintf("<p>Use code <strong>%s</strong> to %s.</p><p>It expires in %d minutes.</p>",
			code, action, minutes),
	}

	var lastErr error
	for attempt := 0; attempt < 3; attempt++ {
		_, err := d.client.Emails.SendWithContext(ctx, params)
		if err == nil {
			return nil
		}
		lastErr = err

		if wait, ok := resendRetryDelay(err, attempt); ok {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(wait):
				continue
			}
		}

		return fmt.Errorf("resend send failed: %w", err)
	}

	return fmt.Errorf("resend send failed after retries: %w", lastErr)
}

func resendRetryDelay(err error, attempt int) (time.Duration, bool) {
	var rateLimitErr *resend.RateLimitError
	if errors.As(err, &rateLimitErr) {
		if seconds, convErr := strconv.Atoi(strings.TrimSpace(rateLimitErr.RetryAfter)); convErr == nil && seconds > 0 {
			if seconds > 30 {
				seconds = 30
			}
			return time.Duration(seconds) * time.Second, true
		}
		return time.Duration(attempt+1) * time.Second, true
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return time.Duration(attempt+1) * 500 * time.Millisecond, true
	}

	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "timeout") || strings.Contains(msg, "temporar") {
		return time.Duration(attempt+1) * 500 * time.Millisecond, true
	}

	return 0, false
}
