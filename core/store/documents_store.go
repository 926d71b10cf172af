package store

import (
	"context"
	"database/sql"
	"strings"
	"time"
)

// Document is one persisted collection: the whole payload is rewritten on
// every save.
type Document struct {
	Key      string
	Version  string
	Revision int64
	Payload  []byte
}

type DocumentsStore interface {
	Get(ctx context.Context, key string) (*Document, error)
	// Put writes doc only if the stored revision equals expectedRevision
	// (0 means the key must not exist yet) and returns the new revision.
	Put(ctx context.Context, doc Document, expectedRevision int64) (int64, error)
	Delete(ctx context.Context, key string) error
	Keys(ctx context.Context, prefix string) ([]string, error)
}

type documentsStore struct {
	db *sql.DB
}

func NewDocumentsStore(db *sql.DB) DocumentsStore {
	return &documentsStore{db: db}
}

func (s *documentsStore) Get(ctx context.Context, key string) (*Document, error) {
	row := s.db.QueryRowContext(ctx, `SELECT coll_key, version, revision, payload FROM collections WHERE coll_key=?`, key)
	var d Document
	var payload string
	if err := row.Scan(&d.Key, &d.Version, &d.Revision, &payload); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	d.Payload = []byte(payload)
	return &d, nil
}

func (s *documentsStore) Put(ctx context.Context, doc Document, expectedRevision int64) (int64, error) {
	now := time.Now().UTC()
	var res sql.Result
	var err error
	if expectedRevision <= 0 {
		res, err = s.db.ExecContext(ctx, `
			INSERT INTO collections(coll_key, version, revision, payload, updated_at)
			VALUES(?, ?, 1, ?, ?)
			ON CONFLICT (coll_key) DO NOTHING`,
			doc.Key, doc.Version, string(doc.Payload), now)
	} else {
		res, err = s.db.ExecContext(ctx, `
			UPDATE collections SET version=?, revision=revision+1, payload=?, updated_at=?
			WHERE coll_key=? AND revision=?`,
			doc.Version, string(doc.Payload), now, doc.Key, expectedRevision)
	}
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, ErrStaleRevision
	}
	if expectedRevision <= 0 {
		return 1, nil
	}
	return expectedRevision + 1, nil
}

func (s *documentsStore) Delete(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM collections WHERE coll_key=?`, key)
	return err
}

func (s *documentsStore) Keys(ctx context.Context, prefix string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT coll_key FROM collections WHERE coll_key LIKE ? ESCAPE '\' ORDER BY coll_key`, escapeLike(prefix)+"%")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, err
		}
		res = append(res, k)
	}
	return res, rows.Err()
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
