package database

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/venturelinkhq/venturelink/pkg/config"
	"github.com/venturelinkhq/venturelink/pkg/db"
	"github.com/venturelinkhq/venturelink/pkg/db/migrate"
	"github.com/venturelinkhq/venturelink/pkg/store"
)

func setupTestStore(t *testing.T) (context.Context, *db.DB, store.Store) {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.DataPath = t.TempDir()
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

	return ctx, dbx, New()
}

func TestAffiliationRoundTrip(t *testing.T) {
	ctx, dbx, s := setupTestStore(t)

	user, err := s.FindUserByHandle(ctx, dbx, "admin")
	if err != nil {
		t.Fatal(err)
	}

	created, err := s.CreateAffiliation(ctx, dbx, "aff-1", user.ID, "Acme Capital", "Managing Partner", "acme.vc")
	if err != nil {
		t.Fatal(err)
	}
	if created.ID != "aff-1" || created.CompanyName != "Acme Capital" {
		t.Fatalf("unexpected affiliation %+v", created)
	}
	if !created.WebsiteURL.Valid || created.WebsiteURL.String != "acme.vc" {
		t.Fatalf("unexpected website %+v", created.WebsiteURL)
	}

	if err := s.UpdateAffiliationByID(ctx, dbx, user.ID, "aff-1", "Acme Capital", "General Partner", ""); err != nil {
		t.Fatal(err)
	}

	got, err := s.GetAffiliationByID(ctx, dbx, user.ID, "aff-1")
	if err != nil {
		t.Fatal(err)
	}
	if got.Title != "General Partner" {
		t.Errorf("title: got %q, want %q", got.Title, "General Partner")
	}
	if got.WebsiteURL.Valid {
		t.Errorf("website should be cleared, got %q", got.WebsiteURL.String)
	}

	if err := s.DeleteAffiliationByID(ctx, dbx, user.ID, "aff-1"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.GetAffiliationByID(ctx, dbx, user.ID, "aff-1"); !errors.Is(db.WrapError(err), db.ErrRecordNotFound) {
		t.Errorf("expected record not found, got %v", err)
	}
}

func TestAffiliationNewestFirst(t *testing.T) {
	ctx, dbx, s := setupTestStore(t)

	user, err := s.FindUserByHandle(ctx, dbx, "admin")
	if err != nil {
		t.Fatal(err)
	}

	// Same-second inserts must still come back in reverse insertion order.
	for _, id := range []string{"aff-1", "aff-2", "aff-3"} {
		if _, err := s.CreateAffiliation(ctx, dbx, id, user.ID, "Company "+id, "Founder", ""); err != nil {
			t.Fatal(err)
		}
	}

	affs, err := s.GetAffiliationsByUserID(ctx, dbx, user.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(affs) != 3 {
		t.Fatalf("expected 3 affiliations, got %d", len(affs))
	}
	for i, want := range []string{"aff-3", "aff-2", "aff-1"} {
		if affs[i].ID != want {
			t.Errorf("affs[%d]: got %q, want %q", i, affs[i].ID, want)
		}
	}
}

func TestAffiliationOwnerScoped(t *testing.T) {
	ctx, dbx, s := setupTestStore(t)

	if err := s.CreateUser(ctx, dbx, "jane", "Jane", false, ""); err != nil {
		t.Fatal(err)
	}
	admin, err := s.FindUserByHandle(ctx, dbx, "admin")
	if err != nil {
		t.Fatal(err)
	}
	jane, err := s.FindUserByHandle(ctx, dbx, "jane")
	if err != nil {
		t.Fatal(err)
	}

	if _, err := s.CreateAffiliation(ctx, dbx, "aff-1", admin.ID, "Acme Capital", "CEO", ""); err != nil {
		t.Fatal(err)
	}

	// Another user must not be able to read, update, or delete the row.
	if _, err := s.GetAffiliationByID(ctx, dbx, jane.ID, "aff-1"); !errors.Is(db.WrapError(err), db.ErrRecordNotFound) {
		t.Errorf("cross-user get: expected record not found, got %v", err)
	}
	if err := s.UpdateAffiliationByID(ctx, dbx, jane.ID, "aff-1", "Evil Corp", "CEO", ""); !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("cross-user update: expected no rows, got %v", err)
	}
	if err := s.DeleteAffiliationByID(ctx, dbx, jane.ID, "aff-1"); !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("cross-user delete: expected no rows, got %v", err)
	}

	got, err := s.GetAffiliationByID(ctx, dbx, admin.ID, "aff-1")
	if err != nil {
		t.Fatal(err)
	}
	if got.CompanyName != "Acme Capital" {
		t.Errorf("row was mutated: %+v", got)
	}
}

func TestUpdateMissingAffiliation(t *testing.T) {
	ctx, dbx, s := setupTestStore(t)

	admin, err := s.FindUserByHandle(ctx, dbx, "admin")
	if err != nil {
		t.Fatal(err)
	}

	if err := s.UpdateAffiliationByID(ctx, dbx, admin.ID, "nope", "Acme", "CEO", ""); !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("expected no rows, got %v", err)
	}
	if err := s.DeleteAffiliationByID(ctx, dbx, admin.ID, "nope"); !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("expected no rows, got %v", err)
	}
}

func TestAccessTokenExpiryPrune(t *testing.T) {
	ctx, dbx, s := setupTestStore(t)

	admin, err := s.FindUserByHandle(ctx, dbx, "admin")
	if err != nil {
		t.Fatal(err)
	}

	expired, err := s.CreateAccessToken(ctx, dbx, "expired", admin.ID, "hash-1", time.Now().Add(-time.Hour))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.CreateAccessToken(ctx, dbx, "fresh", admin.ID, "hash-2", time.Now().Add(time.Hour)); err != nil {
		t.Fatal(err)
	}
	if _, err := s.CreateAccessToken(ctx, dbx, "forever", admin.ID, "hash-3", time.Time{}); err != nil {
		t.Fatal(err)
	}

	n, err := s.DeleteExpiredAccessTokens(ctx, dbx, time.Now())
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Fatalf("expected 1 pruned token, got %d", n)
	}
	if _, err := s.GetAccessToken(ctx, dbx, expired.ID); !errors.Is(db.WrapError(err), db.ErrRecordNotFound) {
		t.Errorf("expected expired token gone, got %v", err)
	}

	tokens, err := s.GetAccessTokensByUserID(ctx, dbx, admin.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(tokens) != 2 {
		t.Errorf("expected 2 tokens left, got %d", len(tokens))
	}
}

func TestWebhookEventsFilter(t *testing.T) {
	ctx, dbx, s := setupTestStore(t)

	admin, err := s.FindUserByHandle(ctx, dbx, "admin")
	if err != nil {
		t.Fatal(err)
	}

	id, err := s.CreateWebhook(ctx, dbx, admin.ID, "https://example.com/hook", "secret", 0, true)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.CreateWebhookEvents(ctx, dbx, id, []int{1, 2}); err != nil {
		t.Fatal(err)
	}

	whs, err := s.GetWebhooksByUserIDWhereEvent(ctx, dbx, admin.ID, []int{2})
	if err != nil {
		t.Fatal(err)
	}
	if len(whs) != 1 || whs[0].ID != id {
		t.Fatalf("expected webhook %d, got %+v", id, whs)
	}

	whs, err = s.GetWebhooksByUserIDWhereEvent(ctx, dbx, admin.ID, []int{3})
	if err != nil {
		t.Fatal(err)
	}
	if len(whs) != 0 {
		t.Fatalf("expected no webhooks, got %+v", whs)
	}
}
