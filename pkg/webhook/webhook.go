package webhook

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/go-querystring/query"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/venturelinkhq/venturelink/pkg/db"
	"github.com/venturelinkhq/venturelink/pkg/db/models"
	"github.com/venturelinkhq/venturelink/pkg/store"
	"github.com/venturelinkhq/venturelink/pkg/sync"
	"github.com/venturelinkhq/venturelink/pkg/version"
)

// Hook is a user webhook.
type Hook struct {
	models.Webhook
	ContentType ContentType
	Events      []Event
}

// Delivery is a webhook delivery.
type Delivery struct {
	models.WebhookDelivery
	Event Event
}

// sendConcurrency bounds parallel deliveries for a single event.
const sendConcurrency = 4

// deliveryTimeout caps one delivery attempt end to end.
const deliveryTimeout = 30 * time.Second

var deliveryCounter = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "venturelink",
	Subsystem: "webhook",
	Name:      "deliveries_total",
	Help:      "The total number of webhook deliveries",
}, []string{"event", "status"})

// deliveryClient never follows redirects, since a redirect could bounce a
// request past URL validation, and re-checks every dialed address, which
// closes the DNS rebinding window between validation and delivery.
var deliveryClient = &http.Client{
	Timeout: deliveryTimeout,
	Transport: &http.Transport{
		DialContext:           guardedDial,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: time.Second,
	},
	CheckRedirect: func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	},
}

func guardedDial(ctx context.Context, network, addr string) (net.Conn, error) {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		return nil, err
	}

	if ip := net.ParseIP(host); ip != nil {
		if err := ValidateIPBeforeDial(ip); err != nil {
			return nil, fmt.Errorf("blocked connection to %s: %w", host, err)
		}
	}

	d := &net.Dialer{
		Timeout:   10 * time.Second,
		KeepAlive: 30 * time.Second,
	}
	return d.DialContext(ctx, network, addr)
}

// encodeBody renders payload in the webhook's negotiated encoding.
func encodeBody(ct ContentType, payload any) ([]byte, error) {
	switch ct {
	case ContentTypeJSON:
		return json.Marshal(payload)
	case ContentTypeForm:
		v, err := query.Values(payload)
		if err != nil {
			return nil, err
		}
		return []byte(v.Encode()), nil
	default:
		return nil, ErrInvalidContentType
	}
}

// deliveryHeaders builds the outgoing header set. When the webhook carries a
// secret the body is signed with HMAC-SHA256 so the receiver can verify the
// sender.
func deliveryHeaders(ct ContentType, event Event, id uuid.UUID, secret string, body []byte) http.Header {
	h := http.Header{}
	h.Set("Content-Type", ct.String())
	h.Set("User-Agent", "VentureLink/"+version.Version)
	h.Set("X-VentureLink-Event", event.String())
	h.Set("X-VentureLink-Delivery", id.String())

	if secret != "" {
		mac := hmac.New(sha256.New, []byte(secret))
		mac.Write(body) // nolint: errcheck
		h.Set("X-VentureLink-Signature", "sha256="+hex.EncodeToString(mac.Sum(nil)))
	}

	return h
}

// flattenHeader renders headers one per line for the delivery log.
func flattenHeader(h http.Header) string {
	var sb strings.Builder
	for k, v := range h {
		sb.WriteString(k)
		sb.WriteString(": ")
		sb.WriteString(v[0])
		sb.WriteString("\n")
	}
	return sb.String()
}

// capture is what the delivery log keeps of a response.
type capture struct {
	status  int
	headers string
	body    string
}

// deliver posts body to url and captures the response. A non-nil capture
// comes back alongside the error when the request reached the server but
// reading the response failed.
func deliver(ctx context.Context, url string, headers http.Header, body []byte) (capture, error) {
	var c capture

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return c, err
	}
	req.Header = headers

	res, err := deliveryClient.Do(req)
	if err != nil {
		return c, err
	}
	defer res.Body.Close() // nolint: errcheck

	c.status = res.StatusCode
	c.headers = flattenHeader(res.Header)

	b, err := io.ReadAll(res.Body)
	if err != nil {
		return c, err
	}
	c.body = string(b)

	return c, nil
}

// SendWebhook sends one event to one webhook and records the delivery,
// failed attempts included, so endpoint problems can be debugged from the
// delivery log.
func SendWebhook(ctx context.Context, w models.Webhook, event Event, payload any) error {
	dbx := db.FromContext(ctx)
	datastore := store.FromContext(ctx)

	body, err := encodeBody(ContentType(w.ContentType), payload)
	if err != nil {
		return err
	}

	id, err := uuid.NewUUID()
	if err != nil {
		return err
	}

	headers := deliveryHeaders(ContentType(w.ContentType), event, id, w.Secret, body)

	res, reqErr := deliver(ctx, w.URL, headers, body)
	deliveryCounter.WithLabelValues(event.String(), strconv.FormatBool(reqErr == nil)).Inc()

	return db.WrapError(datastore.CreateWebhookDelivery(ctx, dbx, id, w.ID, int(event), w.URL, http.MethodPost,
		reqErr, flattenHeader(headers), string(body), res.status, res.headers, res.body))
}

// SendEvent delivers an event to every active webhook subscribed to it.
// Deliveries run in parallel with bounded concurrency. Individual delivery
// failures are logged and recorded, never returned, so one bad endpoint
// cannot block the rest.
func SendEvent(ctx context.Context, payload EventPayload) error {
	dbx := db.FromContext(ctx)
	datastore := store.FromContext(ctx)
	logger := log.FromContext(ctx).WithPrefix("webhook")

	hooks, err := datastore.GetWebhooksByUserIDWhereEvent(ctx, dbx, payload.OwnerID(), []int{int(payload.Event())})
	if err != nil {
		return db.WrapError(err)
	}

	wp := sync.NewWorkPool(ctx, sendConcurrency,
		sync.WithWorkPoolLogger(logger.Errorf))
	for _, w := range hooks {
		if !w.Active {
			continue
		}

		w := w
		wp.Add(fmt.Sprintf("webhook/%d", w.ID), func() {
			if err := SendWebhook(ctx, w, payload.Event(), payload); err != nil {
				logger.Error("delivery failed", "id", w.ID, "url", w.URL, "err", err)
			}
		})
	}
	wp.Run()

	return nil
}
