package service

import (
	"context"
	"errors"
	"net/textproto"
	"strings"
	"testing"

	"github.com/abc-fitness/storefront/internal/config"
)

func TestBuildSubscriberWelcomeContent(t *testing.T) {
	subject, body := buildSubscriberWelcomeContent(" jane@example.com ")
	if !strings.Contains(subject, "ABC Fitness") {
		t.Fatalf("subject missing brand: %s", subject)
	}
	if !strings.Contains(body, "Hi jane@example.com,") || !strings.Contains(body, "Thank you for subscribing!") {
		t.Fatalf("unexpected body: %s", body)
	}
}

func TestSendSubscriberWelcomeRequiresConfig(t *testing.T) {
	ctx := context.Background()
	if err := NewEmailService(nil).SendSubscriberWelcome(ctx, "jane@example.com"); !errors.Is(err, ErrEmailServiceDisabled) {
		t.Fatalf("nil config should be disabled, got %v", err)
	}
	svc := NewEmailService(&config.EmailConfig{Enabled: true})
	if err := svc.SendSubscriberWelcome(ctx, "jane@example.com"); !errors.Is(err, ErrEmailServiceNotConfigured) {
		t.Fatalf("missing host should be not configured, got %v", err)
	}
	svc.SetConfig(&config.EmailConfig{Enabled: true, Host: "smtp.example.com", Port: 587, From: "news@example.com"})
	if err := svc.SendSubscriberWelcome(ctx, "not-an-email"); !errors.Is(err, ErrInvalidEmail) {
		t.Fatalf("invalid recipient should be rejected before dialing, got %v", err)
	}
}

func TestBuildEmailMessageHeaders(t *testing.T) {
	from := buildFromAddress("news@example.com", "ABC Fitness")
	msg := buildEmailMessage(from, "jane@example.com", "Welcome", "body")
	for _, expected := range []string{"From: ", "news@example.com", "To: jane@example.com\r\n", "Message-ID: <", "@example.com>\r\n", "Content-Type: text/plain; charset=UTF-8\r\n", "\r\n\r\nbody"} {
		if !strings.Contains(msg, expected) {
			t.Fatalf("message missing %q: %q", expected, msg)
		}
	}
}

func TestIsEmailRecipientRejected(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{
			name: "smtp_550_no_such_recipient",
			err:  errors.New("550 No such recipient here"),
			want: true,
		},
		{
			name: "smtp_user_unknown",
			err:  errors.New("SMTP 5.1.1 user unknown"),
			want: true,
		},
		{
			name: "smtp_550_mailbox_unavailable",
			err:  errors.New("550 mailbox unavailable"),
			want: true,
		},
		{
			name: "textproto_553",
			err:  &textproto.Error{Code: 553, Msg: "5.1.3 bad destination"},
			want: true,
		},
		{
			name: "textproto_421",
			err:  &textproto.Error{Code: 421, Msg: "service not available"},
			want: false,
		},
		{
			name: "network_timeout",
			err:  errors.New("dial tcp timeout"),
			want: false,
		},
		{
			name: "nil_error",
			err:  nil,
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isEmailRecipientRejected(tt.err); got != tt.want {
				t.Fatalf("isEmailRecipientRejected() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNormalizeEmailSendError(t *testing.T) {
	rejected := errors.New("550 No such recipient here")
	if got := normalizeEmailSendError(rejected); !errors.Is(got, ErrEmailRecipientRejected) {
		t.Fatalf("normalizeEmailSendError() expected ErrEmailRecipientRejected, got %v", got)
	}

	networkErr := errors.New("dial tcp timeout")
	if got := normalizeEmailSendError(networkErr); !errors.Is(got, networkErr) {
		t.Fatalf("normalizeEmailSendError() should keep original error, got %v", got)
	}

	if got := normalizeEmailSendError(nil); got != nil {
		t.Fatalf("normalizeEmailSendError(nil) should be nil, got %v", got)
	}
}

func TestSendSubscriberWelcomeHonoursContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	svc := NewEmailService(&config.EmailConfig{Enabled: true, Host: "127.0.0.1", Port: 2525, From: "news@example.com"})
	if err := svc.SendSubscriberWelcome(ctx, "jane@example.com"); err == nil {
		t.Fatalf("cancelled context should abort dialing")
	}
}
