package notify

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime"
	"mime/multipart"
	"net"
	"net/http"
	"net/http/httptest"
	"net/mail"
	"net/smtp"
	"runtime"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/supplier-catalog/internal/adapters/clients"
	"github.com/jsamuelsen/supplier-catalog/internal/domain"
	"github.com/jsamuelsen/supplier-catalog/internal/mocks"
	"github.com/jsamuelsen/supplier-catalog/internal/platform/config"
)

type sentMail struct {
	addr string
	from string
	to   []string
	msg  []byte
}

type mailbox struct {
	mu   sync.Mutex
	sent []sentMail
	err  error
}

func (m *mailbox) send(_ context.Context, addr string, _ smtp.Auth, from string, to []string, msg []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.err != nil {
		return m.err
	}

	m.sent = append(m.sent, sentMail{addr: addr, from: from, to: to, msg: msg})

	return nil
}

func testQuote() *domain.QuoteRequest {
	return &domain.QuoteRequest{
		ID:             "q-1",
		Name:           "Ada Lovelace",
		Company:        "Analytical Engines",
		Phone:          "5551111",
		Email:          "ada@example.com",
		ProductName:    "NYY-J 5x16 cable",
		Quantity:       "300 m",
		ProjectDetails: "Warehouse <retrofit> & lighting",
		Status:         domain.StatusNew,
		CreatedAt:      time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC),
	}
}

func newTestEmail(t *testing.T, box *mailbox) *EmailNotifier {
	t.Helper()

	n, err := NewEmailNotifier(SMTPConfig{
		Host:     "smtp.example.com",
		Port:     2525,
		From:     "quotes@example.com",
		FromName: "Catalog Quotes",
	}, nil,
		WithSendFunc(box.send),
		WithEmailClock(func() time.Time { return time.Date(2026, 3, 10, 14, 0, 1, 0, time.UTC) }),
	)
	require.NoError(t, err)

	return n
}

// parts decodes a multipart/alternative message into content type -> body.
func parts(t *testing.T, raw []byte) (*mail.Message, map[string]string) {
	t.Helper()

	msg, err := mail.ReadMessage(strings.NewReader(string(raw)))
	require.NoError(t, err)

	mediaType, params, err := mime.ParseMediaType(msg.Header.Get("Content-Type"))
	require.NoError(t, err)
	require.Equal(t, "multipart/alternative", mediaType)

	out := map[string]string{}
	r := multipart.NewReader(msg.Body, params["boundary"])

	for {
		p, err := r.NextPart()
		if errors.Is(err, io.EOF) {
			break
		}

		require.NoError(t, err)

		body, err := io.ReadAll(p)
		require.NoError(t, err)

		ct, _, _ := mime.ParseMediaType(p.Header.Get("Content-Type"))
		out[ct] = string(body)
	}

	return msg, out
}

func TestNewEmailNotifier_Validation(t *testing.T) {
	_, err := NewEmailNotifier(SMTPConfig{From: "a@b.com"}, nil)
	assert.ErrorContains(t, err, "host is required")

	_, err = NewEmailNotifier(SMTPConfig{Host: "smtp", From: "not an address"}, nil)
	assert.ErrorContains(t, err, "invalid from address")
}

func TestSMTPConfig_Addr(t *testing.T) {
	assert.Equal(t, "smtp.example.com:587", SMTPConfig{Host: "smtp.example.com"}.Addr())
	assert.Equal(t, "smtp.example.com:2525", SMTPConfig{Host: "smtp.example.com", Port: 2525}.Addr())
}

func TestEmailNotifier_StaffAlertAndConfirmation(t *testing.T) {
	box := &mailbox{}
	n := newTestEmail(t, box)

	err := n.Notify(context.Background(), testQuote(), []domain.Recipient{
		{Address: "sales@example.com", Kind: domain.RecipientStaff},
		{Address: "ops@example.com", Kind: domain.RecipientStaff},
		{Address: "ada@example.com", Kind: domain.RecipientRequester},
	})
	require.NoError(t, err)
	require.Len(t, box.sent, 2)

	alert := box.sent[0]
	assert.Equal(t, "smtp.example.com:2525", alert.addr)
	assert.Equal(t, "quotes@example.com", alert.from)
	assert.Equal(t, []string{"sales@example.com", "ops@example.com"}, alert.to)

	msg, body := parts(t, alert.msg)
	assert.Equal(t, "New quote request from Ada Lovelace (Analytical Engines)", msg.Header.Get("Subject"))
	assert.Contains(t, msg.Header.Get("From"), "Catalog Quotes")
	assert.Contains(t, body["text/html"], "Warehouse &lt;retrofit&gt; &amp; lighting", "user input must be escaped")
	assert.Contains(t, body["text/plain"], "Warehouse <retrofit> & lighting")
	assert.Contains(t, body["text/plain"], "NYY-J 5x16 cable")
	assert.NotContains(t, body["text/plain"], "<td>")

	confirmation := box.sent[1]
	assert.Equal(t, []string{"ada@example.com"}, confirmation.to)

	msg, body = parts(t, confirmation.msg)
	assert.Equal(t, "We received your quote request", msg.Header.Get("Subject"))
	assert.Contains(t, body["text/plain"], "Reference: q-1")
}

func TestEmailNotifier_SendFailureIsUnavailable(t *testing.T) {
	box := &mailbox{err: errors.New("421 service not available")}
	n := newTestEmail(t, box)

	err := n.Notify(context.Background(), testQuote(), domain.StaffRecipients([]string{"sales@example.com"}))

	require.Error(t, err)
	assert.True(t, domain.IsUnavailable(err))
	assert.Contains(t, err.Error(), "421")
}

func TestEmailNotifier_RespectsContext(t *testing.T) {
	n, err := NewEmailNotifier(SMTPConfig{Host: "smtp", From: "quotes@example.com"}, nil,
		WithSendFunc(func(ctx context.Context, _ string, _ smtp.Auth, _ string, _ []string, _ []byte) error {
			<-ctx.Done()
			return ctx.Err()
		}),
	)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err = n.Notify(ctx, testQuote(), domain.StaffRecipients([]string{"sales@example.com"}))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestEmailNotifier_HungRelayReleasesConnection(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	baseline := runtime.NumGoroutine()

	// The relay accepts and then never says a word.
	accepted := make(chan net.Conn, 1)
	go func() {
		conn, err := ln.Accept()
		if err == nil {
			accepted <- conn
		}
	}()

	host, port, err := net.SplitHostPort(ln.Addr().String())
	require.NoError(t, err)

	portNum, err := strconv.Atoi(port)
	require.NoError(t, err)

	n, err := NewEmailNotifier(SMTPConfig{Host: host, Port: portNum, From: "quotes@example.com"}, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	start := time.Now()
	err = n.Notify(ctx, testQuote(), domain.StaffRecipients([]string{"sales@example.com"}))

	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 2*time.Second)

	select {
	case conn := <-accepted:
		_ = conn.Close()
	case <-time.After(time.Second):
		t.Fatal("relay never saw a connection")
	}

	require.NoError(t, ln.Close())

	assert.Eventually(t, func() bool { return runtime.NumGoroutine() <= baseline },
		2*time.Second, 10*time.Millisecond, "smtp goroutines outlived the send")
}

func TestEmailNotifier_SendDigest(t *testing.T) {
	box := &mailbox{}
	n := newTestEmail(t, box)

	second := testQuote()
	second.ID, second.Name, second.Company = "q-2", "Grace Hopper", ""

	recipients := []domain.Recipient{
		{Address: "sales@example.com", Kind: domain.RecipientStaff},
		{Address: "ada@example.com", Kind: domain.RecipientRequester},
	}

	require.NoError(t, n.SendDigest(context.Background(), []*domain.QuoteRequest{testQuote(), second}, recipients))
	require.Len(t, box.sent, 1)
	assert.Equal(t, []string{"sales@example.com"}, box.sent[0].to, "digests go to staff only")

	msg, body := parts(t, box.sent[0].msg)
	assert.Equal(t, "2 quote requests waiting for a reply", msg.Header.Get("Subject"))
	assert.Contains(t, body["text/plain"], "- 2026-03-10 14:00 UTC: Ada Lovelace (Analytical Engines)")
	assert.Contains(t, body["text/plain"], "Grace Hopper")

	require.NoError(t, n.SendDigest(context.Background(), nil, recipients))
	assert.Len(t, box.sent, 1)
}

func TestHTMLToText(t *testing.T) {
	got := HTMLToText(`<html><body><h2>Title</h2><p>First   paragraph</p><ul><li>one</li><li>two</li></ul></body></html>`)

	assert.Equal(t, "Title\n\nFirst paragraph\n\n- one\n- two", got)
}

func newWebhookClient(t *testing.T) *clients.Client {
	t.Helper()

	c, err := clients.New(clients.Config{
		Name:    "staff-webhook",
		Timeout: time.Second,
		Retry: config.RetryConfig{
			MaxAttempts:     2,
			InitialInterval: time.Millisecond,
			MaxInterval:     5 * time.Millisecond,
			Multiplier:      2,
		},
		Circuit: config.CircuitBreakerConfig{MaxFailures: 1, Timeout: time.Hour, HalfOpenLimit: 1},
	})
	require.NoError(t, err)

	return c
}

func TestWebhookNotifier_PostsAlert(t *testing.T) {
	var got webhookPayload

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte("ok"))
	}))
	defer srv.Close()

	w := NewWebhookNotifier(newWebhookClient(t), srv.URL, nil)

	require.NoError(t, w.Notify(context.Background(), testQuote(), domain.StaffRecipients([]string{"sales@example.com"})))
	assert.Contains(t, got.Text, "New quote request from Ada Lovelace (Analytical Engines)")
	assert.Contains(t, got.Text, "Quantity: 300 m")
	assert.Equal(t, got.Text, got.Content)
	assert.NoError(t, w.Check(context.Background()))
	assert.Equal(t, "staff-webhook", w.Name())
}

func TestWebhookNotifier_SkipsRequesterOnly(t *testing.T) {
	var calls atomic.Int32

	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { calls.Add(1) }))
	defer srv.Close()

	w := NewWebhookNotifier(newWebhookClient(t), srv.URL, nil)

	err := w.Notify(context.Background(), testQuote(), []domain.Recipient{{Address: "ada@example.com", Kind: domain.RecipientRequester}})
	require.NoError(t, err)
	assert.Zero(t, calls.Load())
}

func TestWebhookNotifier_Errors(t *testing.T) {
	t.Run("rejected payload", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"ok":false,"error":"invalid_payload"}`))
		}))
		defer srv.Close()

		err := NewWebhookNotifier(newWebhookClient(t), srv.URL, nil).
			Notify(context.Background(), testQuote(), domain.StaffRecipients([]string{"s@example.com"}))

		assert.True(t, domain.IsValidation(err))
		assert.Contains(t, err.Error(), "invalid_payload")
	})

	t.Run("server down opens circuit", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer srv.Close()

		w := NewWebhookNotifier(newWebhookClient(t), srv.URL, nil)

		err := w.Notify(context.Background(), testQuote(), domain.StaffRecipients([]string{"s@example.com"}))
		assert.True(t, domain.IsUnavailable(err))

		checkErr := w.Check(context.Background())
		assert.True(t, domain.IsUnavailable(checkErr))
		assert.Contains(t, checkErr.Error(), "circuit breaker open")
	})
}

func TestWebhookNotifier_SendDigest(t *testing.T) {
	var got webhookPayload

	srv := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&got)
	}))
	defer srv.Close()

	w := NewWebhookNotifier(newWebhookClient(t), srv.URL, nil)

	err := w.SendDigest(context.Background(), []*domain.QuoteRequest{testQuote()}, domain.StaffRecipients([]string{"s@example.com"}))
	require.NoError(t, err)
	assert.Contains(t, got.Text, "1 quote requests waiting for a reply")
	assert.Contains(t, got.Text, "<ada@example.com> 5551111")
}

type channelMock struct {
	*mocks.MockNotifier
	*mocks.MockDigestSender
}

func TestMulti_FansOutAndJoinsErrors(t *testing.T) {
	q := testQuote()
	recipients := domain.StaffRecipients([]string{"sales@example.com"})

	ok := channelMock{mocks.NewMockNotifier(t), mocks.NewMockDigestSender(t)}
	failing := channelMock{mocks.NewMockNotifier(t), mocks.NewMockDigestSender(t)}

	ok.MockNotifier.EXPECT().Notify(mock.Anything, q, recipients).Return(nil).Once()
	failing.MockNotifier.EXPECT().Notify(mock.Anything, q, recipients).Return(errors.New("smtp down")).Once()

	m := NewMulti(ok, nil, failing)
	assert.Equal(t, 2, m.Len())

	err := m.Notify(context.Background(), q, recipients)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "channel 1: smtp down")
}

func TestMulti_SendDigest(t *testing.T) {
	pending := []*domain.QuoteRequest{testQuote()}
	recipients := domain.StaffRecipients([]string{"sales@example.com"})

	a := channelMock{mocks.NewMockNotifier(t), mocks.NewMockDigestSender(t)}
	b := channelMock{mocks.NewMockNotifier(t), mocks.NewMockDigestSender(t)}

	a.MockDigestSender.EXPECT().SendDigest(mock.Anything, pending, recipients).Return(nil).Once()
	b.MockDigestSender.EXPECT().SendDigest(mock.Anything, pending, recipients).Return(nil).Once()

	assert.NoError(t, NewMulti(a, b).SendDigest(context.Background(), pending, recipients))
}

func TestNoop(t *testing.T) {
	assert.NoError(t, Noop{}.Notify(context.Background(), testQuote(), nil))
	assert.NoError(t, Noop{}.SendDigest(context.Background(), nil, nil))
}
