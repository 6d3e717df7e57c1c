package web

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-jose/go-jose/v3"

	"github.com/venturelinkhq/venturelink/pkg/backend"
	"github.com/venturelinkhq/venturelink/pkg/config"
	"github.com/venturelinkhq/venturelink/pkg/db"
	"github.com/venturelinkhq/venturelink/pkg/db/migrate"
	"github.com/venturelinkhq/venturelink/pkg/proto"
	"github.com/venturelinkhq/venturelink/pkg/store"
	"github.com/venturelinkhq/venturelink/pkg/store/database"
)

type testEnv struct {
	ctx     context.Context
	backend *backend.Backend
	server  *httptest.Server
}

func setupTestServer(t *testing.T) testEnv {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.DataPath = t.TempDir()
	cfg.JWT.KeyPath = filepath.Join(cfg.DataPath, "jwt", "test_ed25519")
	ctx := config.WithContext(context.TODO(), cfg)
	ctx = log.WithContext(ctx, log.Default())

	dbpath := filepath.Join(t.TempDir(), "test.db")
	dbx, err := db.Open(ctx, "sqlite", dbpath+"?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := dbx.Close(); err != nil {
			t.Error(err)
		}
	})

	if err := migrate.Migrate(ctx, dbx); err != nil {
		t.Fatal(err)
	}

	ctx = db.WithContext(ctx, dbx)
	datastore := database.New()
	ctx = store.WithContext(ctx, datastore)
	be := backend.New(ctx, cfg, dbx, datastore)
	ctx = backend.WithContext(ctx, be)

	srv := httptest.NewServer(NewRouter(ctx))
	t.Cleanup(srv.Close)

	return testEnv{ctx: ctx, backend: be, server: srv}
}

// seedUser creates a user with a password and a forever access token.
func seedUser(t *testing.T, env testEnv, handle, password string) (proto.User, string) {
	t.Helper()
	user, err := env.backend.CreateUser(env.ctx, handle, proto.UserOptions{Password: password})
	if err != nil {
		t.Fatal(err)
	}

	token, err := env.backend.CreateAccessToken(env.ctx, user, "test", time.Time{})
	if err != nil {
		t.Fatal(err)
	}

	return user, token
}

func request(t *testing.T, env testEnv, method, path, token string, body any) *http.Response {
	t.Helper()
	var buf io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		buf = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, env.server.URL+path, buf)
	if err != nil {
		t.Fatal(err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	res, err := env.server.Client().Do(req)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { res.Body.Close() }) //nolint:errcheck

	return res
}

func decodeBody(t *testing.T, res *http.Response, v any) {
	t.Helper()
	if err := json.NewDecoder(res.Body).Decode(v); err != nil {
		t.Fatal(err)
	}
}

func TestHealthEndpoints(t *testing.T) {
	env := setupTestServer(t)

	for _, path := range []string{"/healthz", "/readyz"} {
		res := request(t, env, http.MethodGet, path, "", nil)
		if res.StatusCode != http.StatusOK {
			t.Errorf("%s: got %d, want %d", path, res.StatusCode, http.StatusOK)
		}
	}
}

func TestUnknownRoute(t *testing.T) {
	env := setupTestServer(t)

	res := request(t, env, http.MethodGet, "/nope", "", nil)
	if res.StatusCode != http.StatusNotFound {
		t.Errorf("got %d, want %d", res.StatusCode, http.StatusNotFound)
	}
}

func TestAffiliationsRequireAuth(t *testing.T) {
	env := setupTestServer(t)

	res := request(t, env, http.MethodGet, "/v1/affiliations", "", nil)
	if res.StatusCode != http.StatusUnauthorized {
		t.Errorf("no auth: got %d, want %d", res.StatusCode, http.StatusUnauthorized)
	}

	res = request(t, env, http.MethodGet, "/v1/affiliations", "vl_bogus", nil)
	if res.StatusCode != http.StatusUnauthorized {
		t.Errorf("bogus token: got %d, want %d", res.StatusCode, http.StatusUnauthorized)
	}
}

func TestAffiliationCRUD(t *testing.T) {
	env := setupTestServer(t)
	_, token := seedUser(t, env, "jane", "secret")

	res := request(t, env, http.MethodPost, "/v1/affiliations", token, proto.AffiliationChange{
		CompanyName: "  Acme Inc  ",
		Title:       "CEO",
		WebsiteURL:  "acme.com",
	})
	if res.StatusCode != http.StatusCreated {
		t.Fatalf("create: got %d, want %d", res.StatusCode, http.StatusCreated)
	}

	var created proto.Affiliation
	decodeBody(t, res, &created)
	if created.ID == "" {
		t.Fatal("expected an id")
	}
	if created.CompanyName != "Acme Inc" {
		t.Errorf("company name: got %q, want %q", created.CompanyName, "Acme Inc")
	}
	if created.WebsiteURL != "acme.com" {
		t.Errorf("website: got %q, want %q", created.WebsiteURL, "acme.com")
	}

	res = request(t, env, http.MethodPost, "/v1/affiliations", token, proto.AffiliationChange{
		CompanyName: "Globex",
		Title:       "Board Observer",
	})
	if res.StatusCode != http.StatusCreated {
		t.Fatalf("create: got %d, want %d", res.StatusCode, http.StatusCreated)
	}

	var affs []proto.Affiliation
	res = request(t, env, http.MethodGet, "/v1/affiliations", token, nil)
	if res.StatusCode != http.StatusOK {
		t.Fatalf("list: got %d", res.StatusCode)
	}
	decodeBody(t, res, &affs)
	if len(affs) != 2 {
		t.Fatalf("list: got %d entries, want 2", len(affs))
	}

	// Only the CEO role reads as current.
	res = request(t, env, http.MethodGet, "/v1/affiliations?current=1", token, nil)
	decodeBody(t, res, &affs)
	if len(affs) != 1 || affs[0].Title != "CEO" {
		t.Errorf("current: got %+v", affs)
	}

	res = request(t, env, http.MethodGet, "/v1/affiliations/"+created.ID, token, nil)
	if res.StatusCode != http.StatusOK {
		t.Fatalf("get: got %d", res.StatusCode)
	}
	var got proto.Affiliation
	decodeBody(t, res, &got)
	if got.ID != created.ID {
		t.Errorf("get: got id %q, want %q", got.ID, created.ID)
	}

	res = request(t, env, http.MethodPut, "/v1/affiliations/"+created.ID, token, proto.AffiliationChange{
		CompanyName: "Acme Inc",
		Title:       "Chairman",
		WebsiteURL:  "https://acme.com",
	})
	if res.StatusCode != http.StatusOK {
		t.Fatalf("update: got %d", res.StatusCode)
	}
	decodeBody(t, res, &got)
	if got.Title != "Chairman" {
		t.Errorf("update: got title %q, want %q", got.Title, "Chairman")
	}

	res = request(t, env, http.MethodPut, "/v1/affiliations/missing", token, proto.AffiliationChange{
		CompanyName: "Acme Inc",
		Title:       "CEO",
	})
	if res.StatusCode != http.StatusNotFound {
		t.Errorf("update missing: got %d, want %d", res.StatusCode, http.StatusNotFound)
	}

	res = request(t, env, http.MethodDelete, "/v1/affiliations/"+created.ID, token, nil)
	if res.StatusCode != http.StatusNoContent {
		t.Errorf("delete: got %d, want %d", res.StatusCode, http.StatusNoContent)
	}

	res = request(t, env, http.MethodDelete, "/v1/affiliations/"+created.ID, token, nil)
	if res.StatusCode != http.StatusNotFound {
		t.Errorf("delete again: got %d, want %d", res.StatusCode, http.StatusNotFound)
	}
}

func TestAffiliationValidation(t *testing.T) {
	env := setupTestServer(t)
	_, token := seedUser(t, env, "jane", "secret")

	res := request(t, env, http.MethodPost, "/v1/affiliations", token, proto.AffiliationChange{
		CompanyName: "   ",
		Title:       "C",
		WebsiteURL:  "not a url",
	})
	if res.StatusCode != http.StatusBadRequest {
		t.Fatalf("got %d, want %d", res.StatusCode, http.StatusBadRequest)
	}

	var body fieldErrorResponse
	decodeBody(t, res, &body)
	fields := make(map[string]string, len(body.Errors))
	for _, fe := range body.Errors {
		fields[fe.Field] = fe.Message
	}
	if fields["company_name"] != "company name is required" {
		t.Errorf("company_name: got %q", fields["company_name"])
	}
	if fields["title"] != "title must be at least 2 characters" {
		t.Errorf("title: got %q", fields["title"])
	}
	if fields["website_url"] != "website must be a valid URL" {
		t.Errorf("website_url: got %q", fields["website_url"])
	}

	// Nothing may reach the store on a validation failure.
	affs, err := env.backend.ListAffiliations(env.ctx, mustUser(t, env, "jane").ID())
	if err != nil {
		t.Fatal(err)
	}
	if len(affs) != 0 {
		t.Errorf("got %d stored entries, want 0", len(affs))
	}
}

func TestAffiliationOwnerScoping(t *testing.T) {
	env := setupTestServer(t)
	_, janeToken := seedUser(t, env, "jane", "secret")
	_, joeToken := seedUser(t, env, "joe", "hunter2")

	res := request(t, env, http.MethodPost, "/v1/affiliations", janeToken, proto.AffiliationChange{
		CompanyName: "Acme Inc",
		Title:       "CEO",
	})
	if res.StatusCode != http.StatusCreated {
		t.Fatalf("create: got %d", res.StatusCode)
	}
	var created proto.Affiliation
	decodeBody(t, res, &created)

	// Another user's records answer as missing, never as forbidden.
	res = request(t, env, http.MethodGet, "/v1/affiliations/"+created.ID, joeToken, nil)
	if res.StatusCode != http.StatusNotFound {
		t.Errorf("cross-user get: got %d, want %d", res.StatusCode, http.StatusNotFound)
	}

	res = request(t, env, http.MethodDelete, "/v1/affiliations/"+created.ID, joeToken, nil)
	if res.StatusCode != http.StatusNotFound {
		t.Errorf("cross-user delete: got %d, want %d", res.StatusCode, http.StatusNotFound)
	}

	res = request(t, env, http.MethodGet, "/v1/affiliations", joeToken, nil)
	var affs []proto.Affiliation
	decodeBody(t, res, &affs)
	if len(affs) != 0 {
		t.Errorf("cross-user list: got %d entries, want 0", len(affs))
	}
}

func TestSessionToken(t *testing.T) {
	env := setupTestServer(t)
	seedUser(t, env, "jane", "secret")

	req, err := http.NewRequest(http.MethodPost, env.server.URL+"/v1/auth/session", nil)
	if err != nil {
		t.Fatal(err)
	}
	req.SetBasicAuth("jane", "secret")
	res, err := env.server.Client().Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer res.Body.Close() //nolint:errcheck
	if res.StatusCode != http.StatusCreated {
		t.Fatalf("session: got %d, want %d", res.StatusCode, http.StatusCreated)
	}

	var session sessionResponse
	decodeBody(t, res, &session)
	if session.Token == "" {
		t.Fatal("expected a token")
	}

	// The signed token authenticates API calls.
	ures := request(t, env, http.MethodGet, "/v1/user", session.Token, nil)
	if ures.StatusCode != http.StatusOK {
		t.Fatalf("user: got %d", ures.StatusCode)
	}
	var user userResponse
	decodeBody(t, ures, &user)
	if user.Handle != "jane" {
		t.Errorf("handle: got %q, want %q", user.Handle, "jane")
	}

	// Wrong password is rejected.
	req, err = http.NewRequest(http.MethodPost, env.server.URL+"/v1/auth/session", nil)
	if err != nil {
		t.Fatal(err)
	}
	req.SetBasicAuth("jane", "wrong")
	res2, err := env.server.Client().Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer res2.Body.Close() //nolint:errcheck
	if res2.StatusCode != http.StatusUnauthorized {
		t.Errorf("bad password: got %d, want %d", res2.StatusCode, http.StatusUnauthorized)
	}
}

func TestJWKS(t *testing.T) {
	env := setupTestServer(t)

	res := request(t, env, http.MethodGet, "/.well-known/jwks.json", "", nil)
	if res.StatusCode != http.StatusOK {
		t.Fatalf("got %d, want %d", res.StatusCode, http.StatusOK)
	}

	var set jose.JSONWebKeySet
	decodeBody(t, res, &set)
	if len(set.Keys) != 1 {
		t.Fatalf("got %d keys, want 1", len(set.Keys))
	}
	if set.Keys[0].KeyID == "" {
		t.Error("expected a key id")
	}
}

func mustUser(t *testing.T, env testEnv, handle string) proto.User {
	t.Helper()
	user, err := env.backend.User(env.ctx, handle)
	if err != nil && !errors.Is(err, proto.ErrUserNotFound) {
		t.Fatal(err)
	}
	if user == nil {
		t.Fatalf("user %q not found", handle)
	}
	return user
}
