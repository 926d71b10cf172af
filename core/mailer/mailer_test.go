package mailer

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/resend/resend-go/v2"
	"ministore/config"
	"ministore/core/utils"
)

type recordingSender struct {
	sent []Email
	err  error
}

func (r *recordingSender) Send(_ context.Context, email Email) error {
	if r.err != nil {
		return r.err
	}
	r.sent = append(r.sent, email)
	return nil
}

func TestSendContactSimulatedWithoutKey(t *testing.T) {
	m := New(config.MailConfig{From: "shop@example.com", To: "owner@example.com"}, utils.NewDiscardLogger())
	simulated, err := m.SendContact(context.Background(), ContactMessage{Name: "Kim", Email: "kim@example.com", Message: "hi"})
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if !simulated {
		t.Fatalf("expected simulated delivery")
	}
}

func TestSendContactRequiresAllFields(t *testing.T) {
	m := NewWithSender(&recordingSender{}, "shop@example.com", "owner@example.com", utils.NewDiscardLogger())
	_, err := m.SendContact(context.Background(), ContactMessage{Name: "Kim", Email: " "})
	if !errors.Is(err, ErrMissingFields) {
		t.Fatalf("expected ErrMissingFields, got %v", err)
	}
}

func TestSendContactEscapesHTML(t *testing.T) {
	rec := &recordingSender{}
	m := NewWithSender(rec, "shop@example.com", "a@example.com, b@example.com", utils.NewDiscardLogger())
	simulated, err := m.SendContact(context.Background(), ContactMessage{
		Name:    "Kim",
		Email:   "kim@example.com",
		Message: "<script>alert(1)</script>",
	})
	if err != nil || simulated {
		t.Fatalf("unexpected result simulated=%v err=%v", simulated, err)
	}
	if len(rec.sent) != 1 {
		t.Fatalf("expected one mail, got %d", len(rec.sent))
	}
	got := rec.sent[0]
	if len(got.To) != 2 || got.Subject != "New enquiry: Kim" {
		t.Fatalf("unexpected envelope: %+v", got)
	}
	if strings.Contains(got.HTML, "<script>") {
		t.Fatalf("message body not escaped: %s", got.HTML)
	}
}

func TestSendContactWrapsProviderError(t *testing.T) {
	boom := errors.New("provider down")
	m := NewWithSender(&recordingSender{err: boom}, "shop@example.com", "owner@example.com", utils.NewDiscardLogger())
	if _, err := m.SendContact(context.Background(), ContactMessage{Name: "a", Email: "b@c.d", Message: "m"}); !errors.Is(err, boom) {
		t.Fatalf("expected wrapped provider error, got %v", err)
	}
}

func TestResendSenderHonoursContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	t.Cleanup(srv.Close)
	client := resend.NewClient("re_test")
	base, err := url.Parse(srv.URL + "/")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	client.BaseURL = base
	m := NewWithSender(&resendSender{client: client}, "shop@example.com", "owner@example.com", utils.NewDiscardLogger())

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	start := time.Now()
	_, err = m.SendContact(ctx, ContactMessage{Name: "Kim", Email: "kim@example.com", Message: "hi"})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
	if time.Since(start) > 5*time.Second {
		t.Fatalf("send did not stop with its context")
	}
}
