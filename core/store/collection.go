package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"ministore/core/utils"
)

type CollectionOptions[T any] struct {
	// Version is stored next to the payload. A stored document carrying a
	// different tag is discarded and rebuilt from Seed.
	Version string
	// Seed produces the initial contents. Without it a missing or unreadable
	// collection starts out empty.
	Seed func() ([]T, error)
	// Validate rejects decoded items; a failure is handled like a parse error.
	Validate func(T) error
}

// Collection is a named sequence of T persisted as one JSON document.
type Collection[T any] struct {
	docs   DocumentsStore
	key    string
	opts   CollectionOptions[T]
	logger *utils.Logger
}

func NewCollection[T any](docs DocumentsStore, key string, opts CollectionOptions[T], logger *utils.Logger) *Collection[T] {
	return &Collection[T]{docs: docs, key: key, opts: opts, logger: logger}
}

func (c *Collection[T]) Key() string {
	return c.key
}

// Load returns the stored items and the revision to hand back to Save.
func (c *Collection[T]) Load(ctx context.Context) ([]T, int64, error) {
	items, rev, err := c.load(ctx, true)
	if errors.Is(err, ErrStaleRevision) {
		// Another writer reinitialized the document first; read its result.
		return c.load(ctx, false)
	}
	return items, rev, err
}

func (c *Collection[T]) load(ctx context.Context, allowReinit bool) ([]T, int64, error) {
	doc, err := c.docs.Get(ctx, c.key)
	if err != nil {
		return nil, 0, fmt.Errorf("load %s: %w", c.key, err)
	}
	if doc == nil {
		if c.opts.Seed == nil {
			return []T{}, 0, nil
		}
		if c.logger != nil {
			c.logger.Printf("store: initializing collection %s version=%s", c.key, c.opts.Version)
		}
		return c.reinit(ctx, 0)
	}
	if c.opts.Version != "" && doc.Version != c.opts.Version && allowReinit {
		if c.logger != nil {
			c.logger.Printf("store: collection %s version %q != %q, reinitializing", c.key, doc.Version, c.opts.Version)
		}
		return c.reinit(ctx, doc.Revision)
	}
	items, err := c.decode(doc.Payload)
	if err != nil {
		if c.logger != nil {
			c.logger.Errorf("store: collection %s: %v; resetting", c.key, err)
		}
		if !allowReinit {
			return []T{}, doc.Revision, nil
		}
		return c.reinit(ctx, doc.Revision)
	}
	return items, doc.Revision, nil
}

func (c *Collection[T]) reinit(ctx context.Context, rev int64) ([]T, int64, error) {
	items := []T{}
	if c.opts.Seed != nil {
		seeded, err := c.opts.Seed()
		if err != nil {
			return nil, 0, fmt.Errorf("seed %s: %w", c.key, err)
		}
		items = seeded
	}
	newRev, err := c.Save(ctx, items, rev)
	if err != nil {
		return nil, 0, err
	}
	return items, newRev, nil
}

func (c *Collection[T]) decode(payload []byte) ([]T, error) {
	var items []T
	if err := json.Unmarshal(payload, &items); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	if items == nil {
		items = []T{}
	}
	if c.opts.Validate != nil {
		for i, it := range items {
			if err := c.opts.Validate(it); err != nil {
				return nil, fmt.Errorf("%w: item %d: %v", ErrParse, i, err)
			}
		}
	}
	return items, nil
}

// Save rewrites the whole collection. rev must be the revision returned by
// the Load this write is based on.
func (c *Collection[T]) Save(ctx context.Context, items []T, rev int64) (int64, error) {
	if items == nil {
		items = []T{}
	}
	payload, err := json.Marshal(items)
	if err != nil {
		return 0, fmt.Errorf("encode %s: %w", c.key, err)
	}
	newRev, err := c.docs.Put(ctx, Document{Key: c.key, Version: c.opts.Version, Payload: payload}, rev)
	if err != nil {
		return 0, fmt.Errorf("save %s: %w", c.key, err)
	}
	return newRev, nil
}

// Update runs one read-modify-write cycle.
func (c *Collection[T]) Update(ctx context.Context, fn func([]T) ([]T, error)) ([]T, error) {
	items, rev, err := c.Load(ctx)
	if err != nil {
		return nil, err
	}
	next, err := fn(items)
	if err != nil {
		return nil, err
	}
	if _, err := c.Save(ctx, next, rev); err != nil {
		return nil, err
	}
	return next, nil
}

// Record is a single JSON value stored under a key.
type Record[T any] struct {
	docs    DocumentsStore
	key     string
	version string
	logger  *utils.Logger
}

func NewRecord[T any](docs DocumentsStore, key, version string, logger *utils.Logger) *Record[T] {
	return &Record[T]{docs: docs, key: key, version: version, logger: logger}
}

// Load returns nil when the record is missing, carries another version or
// cannot be decoded. The revision is still returned so Save can overwrite it.
func (r *Record[T]) Load(ctx context.Context) (*T, int64, error) {
	doc, err := r.docs.Get(ctx, r.key)
	if err != nil {
		return nil, 0, fmt.Errorf("load %s: %w", r.key, err)
	}
	if doc == nil {
		return nil, 0, nil
	}
	if r.version != "" && doc.Version != r.version {
		return nil, doc.Revision, nil
	}
	var v T
	if err := json.Unmarshal(doc.Payload, &v); err != nil {
		if r.logger != nil {
			r.logger.Errorf("store: record %s: %v: %v", r.key, ErrParse, err)
		}
		return nil, doc.Revision, nil
	}
	return &v, doc.Revision, nil
}

func (r *Record[T]) Save(ctx context.Context, v T, rev int64) (int64, error) {
	payload, err := json.Marshal(v)
	if err != nil {
		return 0, fmt.Errorf("encode %s: %w", r.key, err)
	}
	newRev, err := r.docs.Put(ctx, Document{Key: r.key, Version: r.version, Payload: payload}, rev)
	if err != nil {
		return 0, fmt.Errorf("save %s: %w", r.key, err)
	}
	return newRev, nil
}

func (r *Record[T]) Delete(ctx context.Context) error {
	return r.docs.Delete(ctx, r.key)
}
