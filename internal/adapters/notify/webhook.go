package notify

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jsamuelsen/supplier-catalog/internal/adapters/clients"
	"github.com/jsamuelsen/supplier-catalog/internal/domain"
	"github.com/jsamuelsen/supplier-catalog/internal/ports"
)

const webhookOperation = "post staff alert"

// webhookPayload works with Slack and Mattermost incoming webhooks; Discord
// reads the same text from "content".
type webhookPayload struct {
	Text    string `json:"text"`
	Content string `json:"content,omitempty"`
}

// WebhookNotifier posts staff alerts to a chat webhook through the
// instrumented HTTP client. Requester recipients are ignored.
type WebhookNotifier struct {
	client *clients.Client
	url    string
	logger *slog.Logger
}

// NewWebhookNotifier creates a WebhookNotifier.
func NewWebhookNotifier(client *clients.Client, url string, logger *slog.Logger) *WebhookNotifier {
	if logger == nil {
		logger = slog.Default()
	}

	return &WebhookNotifier{
		client: client,
		url:    url,
		logger: logger.With(slog.String("component", "notify.WebhookNotifier")),
	}
}

// Notify posts one alert when recipients include staff.
func (w *WebhookNotifier) Notify(ctx context.Context, q *domain.QuoteRequest, recipients []domain.Recipient) error {
	if !hasStaff(recipients) {
		return nil
	}

	text := alertText(q)

	return w.post(ctx, webhookPayload{Text: text, Content: text})
}

// SendDigest posts the list of stale requests.
func (w *WebhookNotifier) SendDigest(ctx context.Context, pending []*domain.QuoteRequest, recipients []domain.Recipient) error {
	if len(pending) == 0 || !hasStaff(recipients) {
		return nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%d quote requests waiting for a reply:", len(pending))

	for _, q := range pending {
		fmt.Fprintf(&b, "\n- %s %s <%s> %s", q.CreatedAt.UTC().Format("2006-01-02 15:04"), displayName(q), q.Email, q.Phone)
	}

	return w.post(ctx, webhookPayload{Text: b.String(), Content: b.String()})
}

// Check reports the webhook as unhealthy while its circuit is open.
func (w *WebhookNotifier) Check(context.Context) error {
	if state := w.client.CircuitState(); state == clients.StateOpen {
		return domain.NewUnavailableError(w.client.Name(), "circuit breaker open")
	}

	return nil
}

// Name identifies the webhook in health reports.
func (w *WebhookNotifier) Name() string {
	return w.client.Name()
}

func (w *WebhookNotifier) post(ctx context.Context, payload webhookPayload) error {
	resp, err := w.client.PostJSON(ctx, w.url, payload)
	if err != nil {
		return clients.MapResponseError(nil, err, w.client.Name(), webhookOperation)
	}
	defer resp.Body.Close() //nolint:errcheck // read-only body

	return clients.MapResponseError(resp, nil, w.client.Name(), webhookOperation)
}

func alertText(q *domain.QuoteRequest) string {
	var b strings.Builder

	fmt.Fprintf(&b, "New quote request from %s\nEmail: %s\nPhone: %s", displayName(q), q.Email, q.Phone)

	if q.Messenger != "" {
		fmt.Fprintf(&b, "\nMessenger: %s", q.Messenger)
	}

	if q.ProductName != "" {
		fmt.Fprintf(&b, "\nProduct: %s", q.ProductName)
	}

	if q.Quantity != "" {
		fmt.Fprintf(&b, "\nQuantity: %s", q.Quantity)
	}

	fmt.Fprintf(&b, "\nRef: %s", q.ID)

	return b.String()
}

func hasStaff(recipients []domain.Recipient) bool {
	for _, r := range recipients {
		if r.Kind == domain.RecipientStaff {
			return true
		}
	}

	return false
}

var _ ports.HealthChecker = (*WebhookNotifier)(nil)
