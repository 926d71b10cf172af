package session

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/gofrs/uuid/v5"
	"ministore/core/accounts"
	"ministore/core/store"
	"ministore/core/utils"
)

const keyPrefix = "session/"

var ErrNoSession = errors.New("session not found")

// Snapshot is a copy of the account taken at login. It is not kept in sync
// with the directory; privileged callers reconcile it on every request.
type Snapshot struct {
	Token     string           `json:"token"`
	Account   accounts.Account `json:"account"`
	CreatedAt time.Time        `json:"created_at"`
	ExpiresAt time.Time        `json:"expires_at"`
}

func (s *Snapshot) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}

// Holder stores who is logged in under each session token.
type Holder struct {
	docs   store.DocumentsStore
	ttl    time.Duration
	now    func() time.Time
	logger *utils.Logger
}

func NewHolder(docs store.DocumentsStore, ttl time.Duration, logger *utils.Logger) *Holder {
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	return &Holder{docs: docs, ttl: ttl, now: time.Now, logger: logger}
}

func (h *Holder) record(token string) *store.Record[Snapshot] {
	return store.NewRecord[Snapshot](h.docs, keyPrefix+token, "1", h.logger)
}

// Begin issues a fresh token for account.
func (h *Holder) Begin(ctx context.Context, account accounts.Account) (*Snapshot, error) {
	id, err := uuid.NewV4()
	if err != nil {
		return nil, err
	}
	now := h.now().UTC()
	snap := &Snapshot{
		Token:     id.String(),
		Account:   account.Sanitized(),
		CreatedAt: now,
		ExpiresAt: now.Add(h.ttl),
	}
	if _, err := h.record(snap.Token).Save(ctx, *snap, 0); err != nil {
		return nil, err
	}
	return snap, nil
}

// Get returns the current snapshot, or nil when the token is unknown or the
// session has expired.
func (h *Holder) Get(ctx context.Context, token string) (*Snapshot, error) {
	if !validToken(token) {
		return nil, nil
	}
	snap, _, err := h.record(token).Load(ctx)
	if err != nil || snap == nil {
		return nil, err
	}
	if snap.Expired(h.now()) {
		return nil, nil
	}
	return snap, nil
}

// Set replaces the account held under token; a nil account clears the
// session.
func (h *Holder) Set(ctx context.Context, token string, account *accounts.Account) error {
	if !validToken(token) {
		return ErrNoSession
	}
	rec := h.record(token)
	if account == nil {
		return rec.Delete(ctx)
	}
	snap, rev, err := rec.Load(ctx)
	if err != nil {
		return err
	}
	now := h.now().UTC()
	next := Snapshot{Token: token, Account: account.Sanitized(), CreatedAt: now, ExpiresAt: now.Add(h.ttl)}
	if snap != nil {
		next.CreatedAt = snap.CreatedAt
		next.ExpiresAt = snap.ExpiresAt
	}
	_, err = rec.Save(ctx, next, rev)
	return err
}

func (h *Holder) End(ctx context.Context, token string) error {
	if !validToken(token) {
		return nil
	}
	return h.record(token).Delete(ctx)
}

// Sweep deletes expired or unreadable snapshots and returns how many were
// removed.
func (h *Holder) Sweep(ctx context.Context) (int, error) {
	keys, err := h.docs.Keys(ctx, keyPrefix)
	if err != nil {
		return 0, err
	}
	now := h.now()
	removed := 0
	for _, key := range keys {
		token := strings.TrimPrefix(key, keyPrefix)
		rec := h.record(token)
		snap, _, err := rec.Load(ctx)
		if err != nil {
			return removed, err
		}
		if snap != nil && !snap.Expired(now) {
			continue
		}
		if err := rec.Delete(ctx); err != nil {
			return removed, err
		}
		removed++
	}
	return removed, nil
}

func validToken(token string) bool {
	_, err := uuid.FromString(token)
	return err == nil
}
