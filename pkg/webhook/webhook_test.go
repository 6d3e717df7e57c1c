package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
)

type flatPayload struct {
	Event string `json:"event" url:"event"`
	ID    int64  `json:"id" url:"id"`
}

func TestEncodeBody(t *testing.T) {
	p := flatPayload{Event: "affiliation_create", ID: 7}

	b, err := encodeBody(ContentTypeJSON, p)
	if err != nil {
		t.Fatal(err)
	}
	if got, want := string(b), `{"event":"affiliation_create","id":7}`; got != want {
		t.Errorf("json body: got %q, want %q", got, want)
	}

	b, err = encodeBody(ContentTypeForm, p)
	if err != nil {
		t.Fatal(err)
	}
	if got, want := string(b), "event=affiliation_create&id=7"; got != want {
		t.Errorf("form body: got %q, want %q", got, want)
	}

	if _, err := encodeBody(ContentType(99), p); !errors.Is(err, ErrInvalidContentType) {
		t.Errorf("expected invalid content type, got %v", err)
	}
}

func TestDeliveryHeaders(t *testing.T) {
	id := uuid.New()
	body := []byte(`{"event":"affiliation_delete"}`)

	h := deliveryHeaders(ContentTypeJSON, EventAffiliationDelete, id, "s3cret", body)
	if got := h.Get("Content-Type"); got != ContentTypeJSON.String() {
		t.Errorf("content type: got %q", got)
	}
	if got := h.Get("X-VentureLink-Event"); got != "affiliation_delete" {
		t.Errorf("event header: got %q", got)
	}
	if got := h.Get("X-VentureLink-Delivery"); got != id.String() {
		t.Errorf("delivery header: got %q", got)
	}
	if !strings.HasPrefix(h.Get("User-Agent"), "VentureLink/") {
		t.Errorf("user agent: got %q", h.Get("User-Agent"))
	}

	mac := hmac.New(sha256.New, []byte("s3cret"))
	mac.Write(body)
	want := "sha256=" + hex.EncodeToString(mac.Sum(nil))
	if got := h.Get("X-VentureLink-Signature"); got != want {
		t.Errorf("signature: got %q, want %q", got, want)
	}

	h = deliveryHeaders(ContentTypeJSON, EventAffiliationDelete, id, "", body)
	if got := h.Get("X-VentureLink-Signature"); got != "" {
		t.Errorf("unsigned delivery carries a signature: %q", got)
	}
}

func TestFlattenHeader(t *testing.T) {
	h := deliveryHeaders(ContentTypeForm, EventAffiliationCreate, uuid.New(), "", nil)
	flat := flattenHeader(h)

	if strings.Count(flat, "\n") != len(h) {
		t.Errorf("expected one line per header:\n%s", flat)
	}
	if !strings.Contains(flat, "Content-Type: "+ContentTypeForm.String()+"\n") {
		t.Errorf("missing content type line:\n%s", flat)
	}
	if !strings.Contains(flat, "X-VentureLink-Event: affiliation_create\n") {
		t.Errorf("missing event line:\n%s", flat)
	}
}
