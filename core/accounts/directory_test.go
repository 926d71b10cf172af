package accounts

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"ministore/config"
	"ministore/core/store"
	"ministore/core/utils"
)

func mustTestDB(t *testing.T) *sql.DB {
	t.Helper()
	cfg := &config.AppConfig{DBPath: filepath.Join(t.TempDir(), "accounts.db")}
	logger := utils.NewDiscardLogger()
	db, err := store.NewDB(cfg, logger)
	if err != nil {
		t.Fatalf("db: %v", err)
	}
	if err := store.ApplyMigrations(context.Background(), db, logger); err != nil {
		t.Fatalf("migrations: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func newTestDirectory(t *testing.T) (*Directory, store.DocumentsStore) {
	t.Helper()
	docs := store.NewDocumentsStore(mustTestDB(t))
	logger := utils.NewDiscardLogger()
	settings := NewSettingsStore(docs, SecuritySettings{MaxLoginAttempts: 3, MinPasswordLength: 9}, logger)
	dir := NewDirectory(docs, settings, Options{
		Pepper:      "test-pepper",
		RootAdminID: "admin",
		Seed:        DefaultSeed("admin"),
		Now:         func() time.Time { return time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC) },
	}, logger)
	return dir, docs
}

func validRegistration(id string) Registration {
	return Registration{
		ID:              id,
		Password:        "password123",
		ConfirmPassword: "password123",
		Name:            "New User",
		Email:           "new@example.com",
		Phone:           "010-1234-5678",
		Address:         "1 Main St",
	}
}

func TestSeedAccountsLoaded(t *testing.T) {
	dir, _ := newTestDirectory(t)
	list, err := dir.List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 4 {
		t.Fatalf("expected 4 seed accounts, got %d", len(list))
	}
	for _, a := range list {
		if a.Password != "" {
			t.Fatalf("listed account %s leaks credential", a.ID)
		}
	}
	res, err := dir.Authenticate(context.Background(), "admin", "admin")
	if err != nil || !res.Success {
		t.Fatalf("seed admin login failed: %+v %v", res, err)
	}
	if res.Account == nil || !res.Account.IsAdministrator() {
		t.Fatalf("expected administrator snapshot, got %+v", res.Account)
	}
}

func TestAddRejectsDuplicateIdentifier(t *testing.T) {
	dir, _ := newTestDirectory(t)
	ctx := context.Background()
	if _, err := dir.Add(ctx, NewAccount{ID: "dupuser", Password: "x"}); err != nil {
		t.Fatalf("first add: %v", err)
	}
	for _, id := range []string{"dupuser", "DupUser", " dupuser "} {
		if _, err := dir.Add(ctx, NewAccount{ID: id, Password: "y", Name: "other"}); !errors.Is(err, ErrDuplicateIdentifier) {
			t.Fatalf("add %q: expected duplicate, got %v", id, err)
		}
	}
	list, _ := dir.List(ctx)
	count := 0
	for _, a := range list {
		if strings.EqualFold(a.ID, "dupuser") {
			count++
			if a.Name != "" {
				t.Fatalf("duplicate add overwrote the record: %+v", a)
			}
		}
	}
	if count != 1 {
		t.Fatalf("expected exactly one dupuser, got %d", count)
	}
}

func TestAddHashesAndStamps(t *testing.T) {
	dir, docs := newTestDirectory(t)
	ctx := context.Background()
	a, err := dir.Add(ctx, NewAccount{ID: "hashme", Password: "clear-text-pw", Status: StatusActive})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if a.CreatedAt != "2026-03-01" || a.FailedLoginAttempts != 0 || a.Role != RoleMember {
		t.Fatalf("unexpected stored account %+v", a)
	}
	doc, err := docs.Get(ctx, "accounts")
	if err != nil || doc == nil {
		t.Fatalf("doc: %v", err)
	}
	if strings.Contains(string(doc.Payload), "clear-text-pw") {
		t.Fatalf("clear-text credential persisted")
	}
	if doc.Version != "1.10" {
		t.Fatalf("unexpected collection version %q", doc.Version)
	}
}

func TestLockoutAfterMaxAttempts(t *testing.T) {
	dir, _ := newTestDirectory(t)
	ctx := context.Background()

	res, _ := dir.Authenticate(ctx, "aaa", "wrong")
	if res.Success || res.RemainingAttempts == nil || *res.RemainingAttempts != 2 {
		t.Fatalf("first failure: %+v", res)
	}
	if !strings.Contains(res.Message, "2 attempts remaining") {
		t.Fatalf("message must disclose remaining attempts: %q", res.Message)
	}
	res, _ = dir.Authenticate(ctx, "aaa", "wrong")
	if *res.RemainingAttempts != 1 {
		t.Fatalf("second failure: %+v", res)
	}
	res, _ = dir.Authenticate(ctx, "aaa", "wrong")
	if res.Reason != ReasonLocked || *res.RemainingAttempts != 0 {
		t.Fatalf("third failure must lock: %+v", res)
	}
	a, _ := dir.Get(ctx, "aaa")
	if a.Status != StatusLocked || a.FailedLoginAttempts != 3 {
		t.Fatalf("expected locked account, got %+v", a)
	}

	res, err := dir.Authenticate(ctx, "aaa", "aaa")
	if err != nil {
		t.Fatalf("auth: %v", err)
	}
	if res.Success || res.Reason != ReasonLocked {
		t.Fatalf("correct password on locked account must be refused: %+v", res)
	}

	if _, err := dir.Unlock(ctx, "aaa"); err != nil {
		t.Fatalf("unlock: %v", err)
	}
	res, _ = dir.Authenticate(ctx, "aaa", "aaa")
	if !res.Success {
		t.Fatalf("login after unlock failed: %+v", res)
	}
}

func TestSuccessResetsFailureCounter(t *testing.T) {
	dir, _ := newTestDirectory(t)
	ctx := context.Background()
	_, _ = dir.Authenticate(ctx, "bbb", "nope")
	_, _ = dir.Authenticate(ctx, "bbb", "nope")
	res, _ := dir.Authenticate(ctx, "bbb", "bbb")
	if !res.Success || res.Account.FailedLoginAttempts != 0 {
		t.Fatalf("expected success with zero counter, got %+v", res)
	}
	a, _ := dir.Get(ctx, "bbb")
	if a.FailedLoginAttempts != 0 {
		t.Fatalf("stored counter must be reset, got %d", a.FailedLoginAttempts)
	}
	res, _ = dir.Authenticate(ctx, "bbb", "nope")
	if *res.RemainingAttempts != 2 {
		t.Fatalf("counter must restart from zero: %+v", res)
	}
}

func TestRefusedStatesDoNotConsumeAttempts(t *testing.T) {
	dir, _ := newTestDirectory(t)
	ctx := context.Background()

	res, _ := dir.Authenticate(ctx, "ccc", "ccc")
	if res.Success || res.Reason != ReasonPending {
		t.Fatalf("pending account: %+v", res)
	}
	if _, err := dir.Reject(ctx, "ccc"); err != nil {
		t.Fatalf("reject: %v", err)
	}
	res, _ = dir.Authenticate(ctx, "ccc", "ccc")
	if res.Reason != ReasonRejected {
		t.Fatalf("rejected account: %+v", res)
	}
	if _, err := dir.Deactivate(ctx, "bbb"); err != nil {
		t.Fatalf("deactivate: %v", err)
	}
	for i := 0; i < 5; i++ {
		res, _ = dir.Authenticate(ctx, "bbb", "wrong")
		if res.Reason != ReasonDeactivated {
			t.Fatalf("deactivated account: %+v", res)
		}
	}
	b, _ := dir.Get(ctx, "bbb")
	c, _ := dir.Get(ctx, "ccc")
	if b.FailedLoginAttempts != 0 || c.FailedLoginAttempts != 0 {
		t.Fatalf("refused states consumed attempts: bbb=%d ccc=%d", b.FailedLoginAttempts, c.FailedLoginAttempts)
	}
}

func TestUnknownIdentifierGenericMessage(t *testing.T) {
	dir, _ := newTestDirectory(t)
	res, err := dir.Authenticate(context.Background(), "ghost", "whatever")
	if err != nil {
		t.Fatalf("auth: %v", err)
	}
	if res.Success || res.Reason != ReasonBadCredential || res.RemainingAttempts != nil {
		t.Fatalf("unexpected result %+v", res)
	}
}

func TestRegisterApproveLogin(t *testing.T) {
	dir, _ := newTestDirectory(t)
	ctx := context.Background()
	a, err := dir.Register(ctx, validRegistration("newuser1"))
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if a.Status != StatusPending || a.Role != RoleMember {
		t.Fatalf("expected pending member, got %+v", a)
	}
	res, _ := dir.Authenticate(ctx, "newuser1", "password123")
	if res.Success {
		t.Fatalf("pending account logged in")
	}
	if _, err := dir.Approve(ctx, "newuser1"); err != nil {
		t.Fatalf("approve: %v", err)
	}
	res, _ = dir.Authenticate(ctx, "newuser1", "password123")
	if !res.Success {
		t.Fatalf("login after approval failed: %+v", res)
	}
	if _, err := dir.Approve(ctx, "newuser1"); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("approving an active account must fail, got %v", err)
	}
}

func TestRegisterValidation(t *testing.T) {
	dir, _ := newTestDirectory(t)
	ctx := context.Background()
	in := validRegistration("ab")
	in.Password = "short"
	in.ConfirmPassword = "different"
	in.Email = "bad"
	in.Phone = "123"
	in.Name = " "
	_, err := dir.Register(ctx, in)
	var ve utils.ValidationErrors
	if !errors.As(err, &ve) {
		t.Fatalf("expected validation errors, got %v", err)
	}
	for _, f := range []string{"id", "password", "confirm_password", "name", "email", "phone"} {
		if ve[f] == nil {
			t.Fatalf("missing field error for %s: %v", f, ve)
		}
	}
	if _, err := dir.Register(ctx, validRegistration("ADMIN")); !errors.Is(err, ErrDuplicateIdentifier) {
		t.Fatalf("expected duplicate for ADMIN, got %v", err)
	}
}

func TestIdentifierExistsCaseInsensitive(t *testing.T) {
	dir, _ := newTestDirectory(t)
	ctx := context.Background()
	for id, want := range map[string]bool{"admin": true, "ADMIN": true, " Aaa ": true, "nobody": false} {
		got, err := dir.IdentifierExists(ctx, id)
		if err != nil || got != want {
			t.Fatalf("exists(%q)=%v err=%v want %v", id, got, err, want)
		}
	}
}

func TestUpdateRehashesChangedPassword(t *testing.T) {
	dir, _ := newTestDirectory(t)
	ctx := context.Background()
	pw := "brand-new-pass"
	name := "Renamed"
	if _, err := dir.Update(ctx, "aaa", Patch{Password: &pw, Name: &name}); err != nil {
		t.Fatalf("update: %v", err)
	}
	if res, _ := dir.Authenticate(ctx, "aaa", "brand-new-pass"); !res.Success {
		t.Fatalf("new password rejected: %+v", res)
	}
	a, _ := dir.Get(ctx, "aaa")
	if a.Name != "Renamed" || a.Email != "aaa@example.com" {
		t.Fatalf("shallow merge lost fields: %+v", a)
	}
	if _, err := dir.Update(ctx, "ghost", Patch{Name: &name}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	bad := Status("active+rejected")
	if _, err := dir.Update(ctx, "aaa", Patch{Status: &bad}); err == nil {
		t.Fatalf("invalid status accepted")
	}
}

func TestRemoveIdempotentAndProtected(t *testing.T) {
	dir, _ := newTestDirectory(t)
	ctx := context.Background()
	if err := dir.Remove(ctx, "bbb"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if err := dir.Remove(ctx, "bbb"); err != nil {
		t.Fatalf("second remove must be a no-op, got %v", err)
	}
	if _, err := dir.Get(ctx, "bbb"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected bbb gone, got %v", err)
	}
	if err := dir.Remove(ctx, "admin"); !errors.Is(err, ErrProtectedAccount) {
		t.Fatalf("root admin removal must be refused, got %v", err)
	}
	if _, err := dir.Deactivate(ctx, "admin"); !errors.Is(err, ErrProtectedAccount) {
		t.Fatalf("root admin deactivation must be refused, got %v", err)
	}
	if _, err := dir.Lock(ctx, "admin"); !errors.Is(err, ErrProtectedAccount) {
		t.Fatalf("root admin lock must be refused, got %v", err)
	}
	if _, _, err := dir.ResetPassword(ctx, "admin"); !errors.Is(err, ErrProtectedAccount) {
		t.Fatalf("root admin reset must be refused, got %v", err)
	}
}

func TestResetAndChangePassword(t *testing.T) {
	dir, _ := newTestDirectory(t)
	ctx := context.Background()
	temp, a, err := dir.ResetPassword(ctx, "aaa")
	if err != nil {
		t.Fatalf("reset: %v", err)
	}
	if len(temp) != tempPasswordLength || !a.MustChangePassword {
		t.Fatalf("unexpected reset result %q %+v", temp, a)
	}
	res, _ := dir.Authenticate(ctx, "aaa", temp)
	if !res.Success || !res.Account.MustChangePassword {
		t.Fatalf("temporary password login: %+v", res)
	}
	_, err = dir.ChangePassword(ctx, "aaa", "not-the-temp", "another-pass-1")
	var ve utils.ValidationErrors
	if !errors.As(err, &ve) || ve["current_password"] == nil {
		t.Fatalf("expected current_password error, got %v", err)
	}
	if _, err := dir.ChangePassword(ctx, "aaa", temp, "short"); !errors.As(err, &ve) || ve["new_password"] == nil {
		t.Fatalf("expected new_password error, got %v", err)
	}
	a, err = dir.ChangePassword(ctx, "aaa", temp, "another-pass-1")
	if err != nil || a.MustChangePassword {
		t.Fatalf("change: %+v %v", a, err)
	}
	if ok, _ := dir.VerifyPassword(ctx, "aaa", "another-pass-1"); !ok {
		t.Fatalf("changed password does not verify")
	}
}

func TestVerifyPasswordHasNoSideEffects(t *testing.T) {
	dir, _ := newTestDirectory(t)
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		if ok, _ := dir.VerifyPassword(ctx, "admin", "wrong"); ok {
			t.Fatalf("wrong password verified")
		}
	}
	a, _ := dir.Get(ctx, "admin")
	if a.FailedLoginAttempts != 0 || a.Status != StatusActive {
		t.Fatalf("verify changed account state: %+v", a)
	}
}

func TestSettingsLazyDefaultAndMerge(t *testing.T) {
	dir, docs := newTestDirectory(t)
	ctx := context.Background()
	if doc, _ := docs.Get(ctx, settingsKey); doc != nil {
		t.Fatalf("settings must not exist before first read")
	}
	s, err := dir.Settings().Get(ctx)
	if err != nil || s.MaxLoginAttempts != 3 || s.MinPasswordLength != 9 {
		t.Fatalf("defaults: %+v %v", s, err)
	}
	if doc, _ := docs.Get(ctx, settingsKey); doc == nil {
		t.Fatalf("defaults must be persisted on first read")
	}
	five := 5
	s, err = dir.Settings().Save(ctx, SettingsPatch{MaxLoginAttempts: &five})
	if err != nil || s.MaxLoginAttempts != 5 || s.MinPasswordLength != 9 {
		t.Fatalf("partial save: %+v %v", s, err)
	}
	zero := 0
	if _, err := dir.Settings().Save(ctx, SettingsPatch{MinPasswordLength: &zero}); err == nil {
		t.Fatalf("invalid settings accepted")
	}
	res, _ := dir.Authenticate(ctx, "aaa", "wrong")
	if *res.RemainingAttempts != 4 {
		t.Fatalf("new max not applied: %+v", res)
	}
}

func TestQueryAndCounts(t *testing.T) {
	dir, _ := newTestDirectory(t)
	ctx := context.Background()
	if _, err := dir.Register(ctx, validRegistration("pending2")); err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, err := dir.Reject(ctx, "pending2"); err != nil {
		t.Fatalf("reject: %v", err)
	}
	c, err := dir.Counts(ctx)
	if err != nil {
		t.Fatalf("counts: %v", err)
	}
	if c.Pending != 1 || c.Approved != 3 || c.Rejected != 1 {
		t.Fatalf("unexpected counts %+v", c)
	}
	p, err := dir.Query(ctx, Filter{Statuses: ParseStatusFilter("approved"), Keyword: "EXAMPLE.com", Page: 1, PerPage: 2})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if p.Total != 3 || len(p.Items) != 2 || p.TotalPages != 2 {
		t.Fatalf("unexpected page %+v", p)
	}
	p, _ = dir.Query(ctx, Filter{Keyword: "lee"})
	if p.Total != 1 || p.Items[0].ID != "bbb" {
		t.Fatalf("keyword on name failed: %+v", p)
	}
}
