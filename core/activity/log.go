package activity

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/gofrs/uuid/v5"
	"ministore/core/store"
	"ministore/core/utils"
)

const (
	collectionKey     = "activity"
	collectionVersion = "1"
	DefaultPerPage    = 30
)

type Action string

const (
	ActionLogin    Action = "login"
	ActionLogout   Action = "logout"
	ActionPageView Action = "page_view"
)

func (a Action) Valid() bool {
	return a == ActionLogin || a == ActionLogout || a == ActionPageView
}

type Entry struct {
	// ID is a UUIDv7: a millisecond timestamp followed by random bits.
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Action    Action    `json:"action"`
	Details   string    `json:"details"`
	Timestamp time.Time `json:"timestamp"`
}

// Log is an append-only, newest-first event list. Nothing is ever deleted.
type Log struct {
	mu     sync.Mutex
	coll   *store.Collection[Entry]
	now    func() time.Time
	logger *utils.Logger
}

func NewLog(docs store.DocumentsStore, logger *utils.Logger) *Log {
	return &Log{
		coll:   store.NewCollection(docs, collectionKey, store.CollectionOptions[Entry]{Version: collectionVersion}, logger),
		now:    time.Now,
		logger: logger,
	}
}

func (l *Log) Append(ctx context.Context, userID string, action Action, details string) (*Entry, error) {
	if !action.Valid() {
		return nil, fmt.Errorf("activity: unknown action %q", action)
	}
	id, err := uuid.NewV7()
	if err != nil {
		return nil, err
	}
	e := Entry{
		ID:        id.String(),
		UserID:    userID,
		Action:    action,
		Details:   details,
		Timestamp: l.now().UTC(),
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	items, rev, err := l.coll.Load(ctx)
	if err != nil {
		return nil, err
	}
	items = append([]Entry{e}, items...)
	if _, err := l.coll.Save(ctx, items, rev); err != nil {
		return nil, err
	}
	return &e, nil
}

func (l *Log) List(ctx context.Context) ([]Entry, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	items, _, err := l.coll.Load(ctx)
	return items, err
}

type Query struct {
	// User matches the account id as a case-insensitive substring.
	User   string
	Action Action
	// From and To are whole days in loc, both inclusive.
	From    string
	To      string
	Page    int
	PerPage int
}

func (l *Log) Query(ctx context.Context, q Query, loc *time.Location) (utils.Page[Entry], error) {
	if loc == nil {
		loc = time.UTC
	}
	errs := utils.ValidationErrors{}
	var from, to time.Time
	if q.From != "" {
		d, err := time.ParseInLocation("2006-01-02", q.From, loc)
		if err != nil {
			errs.Add("from", &utils.FieldError{Code: "date.invalid", Message: "Start date must be YYYY-MM-DD."})
		}
		from = d
	}
	if q.To != "" {
		d, err := time.ParseInLocation("2006-01-02", q.To, loc)
		if err != nil {
			errs.Add("to", &utils.FieldError{Code: "date.invalid", Message: "End date must be YYYY-MM-DD."})
		}
		to = d.AddDate(0, 0, 1)
	}
	if q.Action != "" && !q.Action.Valid() {
		errs.Add("action", &utils.FieldError{Code: "action.invalid", Message: "Unknown action."})
	}
	if err := errs.Err(); err != nil {
		return utils.Page[Entry]{}, err
	}
	items, err := l.List(ctx)
	if err != nil {
		return utils.Page[Entry]{}, err
	}
	user := strings.ToLower(strings.TrimSpace(q.User))
	out := make([]Entry, 0, len(items))
	for _, e := range items {
		if user != "" && !strings.Contains(strings.ToLower(e.UserID), user) {
			continue
		}
		if q.Action != "" && e.Action != q.Action {
			continue
		}
		if !from.IsZero() && e.Timestamp.Before(from) {
			continue
		}
		if !to.IsZero() && !e.Timestamp.Before(to) {
			continue
		}
		out = append(out, e)
	}
	perPage := q.PerPage
	if perPage <= 0 {
		perPage = DefaultPerPage
	}
	return utils.Paginate(out, q.Page, perPage), nil
}
