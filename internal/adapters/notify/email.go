// Package notify implements the quote notification channels: SMTP email, a
// staff chat webhook and a fan-out over several channels.
package notify

import (
	"bytes"
	"context"
	"crypto/rand"
	"crypto/tls"
	"encoding/hex"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"mime"
	"mime/quotedprintable"
	"net"
	"net/mail"
	"net/smtp"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/jsamuelsen/supplier-catalog/internal/domain"
)

// SMTPConfig configures EmailNotifier.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	FromName string
}

// Addr returns host:port, defaulting to the submission port.
func (c SMTPConfig) Addr() string {
	port := c.Port
	if port == 0 {
		port = 587
	}

	return net.JoinHostPort(c.Host, strconv.Itoa(port))
}

// defaultDialTimeout bounds the SMTP dial when ctx has no deadline.
const defaultDialTimeout = 10 * time.Second

// SendFunc delivers one message. It must return once ctx is done.
type SendFunc func(ctx context.Context, addr string, a smtp.Auth, from string, to []string, msg []byte) error

// EmailOption configures an EmailNotifier.
type EmailOption func(*EmailNotifier)

// WithSendFunc replaces the SMTP exchange, mainly in tests.
func WithSendFunc(fn SendFunc) EmailOption {
	return func(n *EmailNotifier) { n.send = fn }
}

// WithEmailClock sets the Date header clock.
func WithEmailClock(fn func() time.Time) EmailOption {
	return func(n *EmailNotifier) { n.now = fn }
}

// EmailNotifier sends quote alerts to staff and confirmations to requesters.
type EmailNotifier struct {
	cfg    SMTPConfig
	from   mail.Address
	auth   smtp.Auth
	send   SendFunc
	now    func() time.Time
	logger *slog.Logger
}

// NewEmailNotifier creates an EmailNotifier. Authentication is skipped when
// no username is configured (local relays, MailHog).
func NewEmailNotifier(cfg SMTPConfig, logger *slog.Logger, opts ...EmailOption) (*EmailNotifier, error) {
	if cfg.Host == "" {
		return nil, fmt.Errorf("notify: smtp host is required")
	}

	from, err := mail.ParseAddress(cfg.From)
	if err != nil {
		return nil, fmt.Errorf("notify: invalid from address %q: %w", cfg.From, err)
	}

	from.Name = cfg.FromName

	if logger == nil {
		logger = slog.Default()
	}

	n := &EmailNotifier{
		cfg:    cfg,
		from:   *from,
		now:    time.Now,
		logger: logger.With(slog.String("component", "notify.EmailNotifier")),
	}

	n.send = n.sendSMTP

	if cfg.Username != "" {
		n.auth = smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host)
	}

	for _, opt := range opts {
		opt(n)
	}

	return n, nil
}

// Notify emails the staff alert and, for requester recipients, the
// confirmation. Each message is sent separately so one bad address does not
// hold back the others.
func (n *EmailNotifier) Notify(ctx context.Context, q *domain.QuoteRequest, recipients []domain.Recipient) error {
	var staff, requesters []string

	for _, r := range recipients {
		if r.Kind == domain.RecipientRequester {
			requesters = append(requesters, r.Address)
		} else {
			staff = append(staff, r.Address)
		}
	}

	var errs []error

	if len(staff) > 0 {
		subject := fmt.Sprintf("New quote request from %s", displayName(q))
		if err := n.deliver(ctx, staff, subject, staffAlertTemplate, q); err != nil {
			errs = append(errs, fmt.Errorf("staff alert: %w", err))
		}
	}

	for _, to := range requesters {
		if err := n.deliver(ctx, []string{to}, "We received your quote request", confirmationTemplate, q); err != nil {
			errs = append(errs, fmt.Errorf("confirmation: %w", err))
		}
	}

	return errors.Join(errs...)
}

// SendDigest emails staff the list of requests still waiting for a reply.
func (n *EmailNotifier) SendDigest(ctx context.Context, pending []*domain.QuoteRequest, recipients []domain.Recipient) error {
	to := make([]string, 0, len(recipients))
	for _, r := range recipients {
		if r.Kind == domain.RecipientStaff {
			to = append(to, r.Address)
		}
	}

	if len(to) == 0 || len(pending) == 0 {
		return nil
	}

	subject := fmt.Sprintf("%d quote requests waiting for a reply", len(pending))

	return n.deliver(ctx, to, subject, digestTemplate, pending)
}

func (n *EmailNotifier) deliver(ctx context.Context, to []string, subject string, tmpl *template.Template, data any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var body bytes.Buffer
	if err := tmpl.Execute(&body, data); err != nil {
		return fmt.Errorf("rendering %s: %w", tmpl.Name(), err)
	}

	msg, err := n.compose(to, subject, body.String())
	if err != nil {
		return err
	}

	if err := n.send(ctx, n.cfg.Addr(), n.auth, n.from.Address, to, msg); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("sending email: %w", ctxErr)
		}

		// The connection deadline can fire just before ctx notices.
		if errors.Is(err, os.ErrDeadlineExceeded) {
			return fmt.Errorf("sending email: %w: %w", context.DeadlineExceeded, err)
		}

		return domain.NewUnavailableError("smtp", err.Error())
	}

	n.logger.DebugContext(ctx, "email sent", slog.String("subject", subject), slog.Int("recipients", len(to)))

	return nil
}

// sendSMTP is smtp.SendMail on a connection bound to ctx: the deadline covers
// every read and write, and cancellation closes the connection.
func (n *EmailNotifier) sendSMTP(ctx context.Context, addr string, a smtp.Auth, from string, to []string, msg []byte) error {
	dialer := &net.Dialer{Timeout: defaultDialTimeout}

	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("dialing %s: %w", addr, err)
	}

	if deadline, ok := ctx.Deadline(); ok {
		if err := conn.SetDeadline(deadline); err != nil {
			_ = conn.Close()
			return fmt.Errorf("setting deadline: %w", err)
		}
	}

	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })
	defer stop()

	c, err := smtp.NewClient(conn, n.cfg.Host)
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("greeting: %w", err)
	}
	defer c.Close()

	if ok, _ := c.Extension("STARTTLS"); ok {
		if err := c.StartTLS(&tls.Config{ServerName: n.cfg.Host, MinVersion: tls.VersionTLS12}); err != nil {
			return fmt.Errorf("starttls: %w", err)
		}
	}

	if a != nil {
		if ok, _ := c.Extension("AUTH"); !ok {
			return errors.New("server does not support AUTH")
		}

		if err := c.Auth(a); err != nil {
			return fmt.Errorf("auth: %w", err)
		}
	}

	if err := c.Mail(from); err != nil {
		return fmt.Errorf("mail from: %w", err)
	}

	for _, rcpt := range to {
		if err := c.Rcpt(rcpt); err != nil {
			return fmt.Errorf("rcpt %s: %w", rcpt, err)
		}
	}

	w, err := c.Data()
	if err != nil {
		return fmt.Errorf("data: %w", err)
	}

	if _, err := w.Write(msg); err != nil {
		return fmt.Errorf("writing message: %w", err)
	}

	if err := w.Close(); err != nil {
		return fmt.Errorf("finishing message: %w", err)
	}

	return c.Quit()
}

// compose builds a multipart/alternative message with a plain-text part
// derived from the HTML.
func (n *EmailNotifier) compose(to []string, subject, htmlBody string) ([]byte, error) {
	boundary, err := newBoundary()
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer

	header := func(k, v string) { fmt.Fprintf(&buf, "%s: %s\r\n", k, v) }

	header("From", n.from.String())
	header("To", strings.Join(to, ", "))
	header("Subject", mime.QEncoding.Encode("utf-8", subject))
	header("Date", n.now().UTC().Format(time.RFC1123Z))
	header("MIME-Version", "1.0")
	header("Content-Type", `multipart/alternative; boundary="`+boundary+`"`)
	buf.WriteString("\r\n")

	for _, part := range []struct{ contentType, body string }{
		{"text/plain; charset=utf-8", HTMLToText(htmlBody)},
		{"text/html; charset=utf-8", htmlBody},
	} {
		fmt.Fprintf(&buf, "--%s\r\n", boundary)
		fmt.Fprintf(&buf, "Content-Type: %s\r\nContent-Transfer-Encoding: quoted-printable\r\n\r\n", part.contentType)

		qp := quotedprintable.NewWriter(&buf)
		if _, err := qp.Write([]byte(part.body)); err != nil {
			return nil, fmt.Errorf("encoding body: %w", err)
		}

		if err := qp.Close(); err != nil {
			return nil, fmt.Errorf("encoding body: %w", err)
		}

		buf.WriteString("\r\n")
	}

	fmt.Fprintf(&buf, "--%s--\r\n", boundary)

	return buf.Bytes(), nil
}

func newBoundary() (string, error) {
	b := make([]byte, 12)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generating mime boundary: %w", err)
	}

	return "quote-" + hex.EncodeToString(b), nil
}

func displayName(q *domain.QuoteRequest) string {
	if q.Company != "" {
		return fmt.Sprintf("%s (%s)", q.Name, q.Company)
	}

	if q.Name != "" {
		return q.Name
	}

	return q.Email
}
