// Package docstore is a small SQLite-backed document store grouped by collection.
package docstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"innervoice/app/config"
	"math/rand"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/do"
	"github.com/samber/oops"

	_ "modernc.org/sqlite"
)

const (
	Moods         = "moods"
	Conversations = "conversations"
	Posts         = "posts"
)

var ErrNotFound = errors.New("document not found")

var _ do.Shutdownable = (*Store)(nil)

type Document struct {
	Collection string          `json:"collection"`
	ID         string          `json:"id"`
	Owner      string          `json:"owner,omitempty"`
	Data       json.RawMessage `json:"data"`
	CreatedAt  time.Time       `json:"created_at"`
}

func (d Document) Decode(v any) error {
	if err := json.Unmarshal(d.Data, v); err != nil {
		return oops.In("docstore").With("id", d.ID).Wrapf(err, "decode document")
	}
	return nil
}

type Store struct {
	db *sql.DB

	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
}

func New(di *do.Injector) (*Store, error) {
	cfg := do.MustInvoke[*config.Config](di)

	return Open(cfg.Storage.Path)
}

func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, oops.In("docstore").Wrapf(err, "create db dir")
	}

	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, oops.In("docstore").Wrapf(err, "open db")
	}

	s := &Store{
		db:      db,
		entropy: ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0),
	}

	if err = s.migrate(context.Background()); err != nil {
		db.Close()
		return nil, err
	}

	return s, nil
}

func (s *Store) migrate(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS documents (
		collection TEXT NOT NULL,
		id         TEXT NOT NULL,
		owner      TEXT NOT NULL DEFAULT '',
		data       TEXT NOT NULL,
		created_at TEXT NOT NULL,
		PRIMARY KEY (collection, id)
	);
	CREATE INDEX IF NOT EXISTS idx_documents_owner ON documents(collection, owner);
	`

	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return oops.In("docstore").Wrapf(err, "migrate")
	}

	return nil
}

func (s *Store) newID(now time.Time) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return ulid.MustNew(ulid.Timestamp(now), s.entropy).String()
}

// Put stores v as a new document and returns its id. Ids sort in insertion order.
func (s *Store) Put(ctx context.Context, collection, owner string, v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", oops.In("docstore").Wrapf(err, "marshal document")
	}

	now := time.Now().UTC()
	id := s.newID(now)

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO documents (collection, id, owner, data, created_at) VALUES (?, ?, ?, ?, ?)`,
		collection, id, owner, string(data), now.Format(time.RFC3339Nano),
	)
	if err != nil {
		return "", oops.In("docstore").With("collection", collection).Wrapf(err, "insert document")
	}

	return id, nil
}

func (s *Store) Get(ctx context.Context, collection, id string) (*Document, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT collection, id, owner, data, created_at FROM documents WHERE collection = ? AND id = ?`,
		collection, id,
	)

	doc, err := scanDocument(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, oops.In("docstore").With("collection", collection).Wrapf(err, "get document")
	}

	return doc, nil
}

// List returns documents of a collection in insertion order. An empty owner lists all.
func (s *Store) List(ctx context.Context, collection, owner string) ([]Document, error) {
	query := `SELECT collection, id, owner, data, created_at FROM documents WHERE collection = ?`
	args := []any{collection}
	if owner != "" {
		query += ` AND owner = ?`
		args = append(args, owner)
	}
	query += ` ORDER BY id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, oops.In("docstore").With("collection", collection).Wrapf(err, "list documents")
	}
	defer rows.Close()

	var result []Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, oops.In("docstore").Wrapf(err, "scan document")
		}
		result = append(result, *doc)
	}

	if err = rows.Err(); err != nil {
		return nil, oops.In("docstore").Wrapf(err, "iterate documents")
	}

	return result, nil
}

// DeleteCollection removes every document in the collection and reports how many were removed.
func (s *Store) DeleteCollection(ctx context.Context, collection string) (int, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM documents WHERE collection = ?`, collection)
	if err != nil {
		return 0, oops.In("docstore").With("collection", collection).Wrapf(err, "delete collection")
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, oops.In("docstore").Wrapf(err, "rows affected")
	}

	return int(n), nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanDocument(row scanner) (*Document, error) {
	var doc Document
	var data, createdAt string

	if err := row.Scan(&doc.Collection, &doc.ID, &doc.Owner, &data, &createdAt); err != nil {
		return nil, err
	}

	created, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return nil, oops.With("id", doc.ID).Wrapf(err, "parse created_at")
	}

	doc.Data = json.RawMessage(data)
	doc.CreatedAt = created

	return &doc, nil
}

func (s *Store) Shutdown() error {
	return s.db.Close()
}
