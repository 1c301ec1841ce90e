package repository

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	_ "github.com/lib/pq"  // postgres driver
	_ "modernc.org/sqlite" // pure Go sqlite driver

	"github.com/okian/diamond/internal/domain/model"
)

// Supported store drivers.
const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

const sqliteBusyPragma = "_pragma=busy_timeout(5000)"

const schema = `CREATE TABLE IF NOT EXISTS records (
	collection TEXT NOT NULL,
	id         TEXT NOT NULL,
	ord        INTEGER NOT NULL,
	doc        TEXT NOT NULL,
	PRIMARY KEY (collection, id)
)`

// SQLStore keeps every collection in one document table. Each row holds
// one record encoded as JSON.
type SQLStore struct {
	db         *sql.DB
	driver     string
	lockClause string
}

// NewSQLStore opens db with driver ("sqlite" or "postgres") and creates the
// schema if needed.
func NewSQLStore(ctx context.Context, driver, dsn string) (*SQLStore, error) {
	s := &SQLStore{driver: driver}
	switch driver {
	case DriverSQLite:
		dsn = sqliteDSN(dsn)
	case DriverPostgres:
		s.lockClause = " FOR UPDATE"
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, driver)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w: %w", driver, ErrStoreUnavailable, err)
	}
	if driver == DriverSQLite {
		// One connection keeps in-memory databases alive and serializes writers.
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s: %w: %w", driver, ErrStoreUnavailable, err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w: %w", ErrStoreUnavailable, err)
	}
	s.db = db
	return s, nil
}

func sqliteDSN(dsn string) string {
	if strings.Contains(dsn, "busy_timeout") {
		return dsn
	}
	if strings.Contains(dsn, "?") {
		return dsn + "&" + sqliteBusyPragma
	}
	return dsn + "?" + sqliteBusyPragma
}

// rebind rewrites ? placeholders to $n for postgres.
func (s *SQLStore) rebind(query string) string {
	if s.driver != DriverPostgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func unavailable(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrStoreUnavailable, err)
}

// FetchAll implements Store.
func (s *SQLStore) FetchAll(ctx context.Context, collection string) ([]model.Record, error) {
	if err := checkCollection(collection); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx,
		s.rebind(`SELECT id, doc FROM records WHERE collection = ? ORDER BY ord, id`), collection)
	if err != nil {
		return nil, unavailable("fetch "+collection, err)
	}
	defer rows.Close()

	var out []model.Record
	for rows.Next() {
		var id, doc string
		if err := rows.Scan(&id, &doc); err != nil {
			return nil, unavailable("scan "+collection, err)
		}
		r, err := decodeDoc(doc)
		if err != nil {
			return nil, fmt.Errorf("decode %s/%s: %w", collection, id, err)
		}
		r[model.IDField] = id
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable("fetch "+collection, err)
	}
	return out, nil
}

// UpsertPoints implements Store.
func (s *SQLStore) UpsertPoints(ctx context.Context, collection, id string, points int) error {
	if err := checkCollection(collection); err != nil {
		return err
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return unavailable("begin", err)
	}
	defer func() { _ = tx.Rollback() }()

	var doc string
	err = tx.QueryRowContext(ctx,
		s.rebind(`SELECT doc FROM records WHERE collection = ? AND id = ?`+s.lockClause), collection, id).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s/%s: %w", collection, id, ErrNotFound)
	}
	if err != nil {
		return unavailable("load "+collection, err)
	}

	r, err := decodeDoc(doc)
	if err != nil {
		return fmt.Errorf("decode %s/%s: %w", collection, id, err)
	}
	r[model.FieldPoints] = points
	encoded, err := encodeDoc(r)
	if err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx,
		s.rebind(`UPDATE records SET doc = ? WHERE collection = ? AND id = ?`), encoded, collection, id); err != nil {
		return unavailable("update "+collection, err)
	}
	if err := tx.Commit(); err != nil {
		return unavailable("commit", err)
	}
	return nil
}

// ReplaceAll implements Store. Delete and inserts share one transaction, so
// readers never observe a partially rebuilt collection.
func (s *SQLStore) ReplaceAll(ctx context.Context, collection string, records []model.Record) error {
	if err := checkCollection(collection); err != nil {
		return err
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return unavailable("begin", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, s.rebind(`DELETE FROM records WHERE collection = ?`), collection); err != nil {
		return unavailable("clear "+collection, err)
	}

	stmt, err := tx.PrepareContext(ctx, s.rebind(`INSERT INTO records (collection, id, ord, doc) VALUES (?, ?, ?, ?)`))
	if err != nil {
		return unavailable("prepare insert", err)
	}
	defer stmt.Close()

	for i, r := range records {
		encoded, err := encodeDoc(r.Public())
		if err != nil {
			return err
		}
		if _, err := stmt.ExecContext(ctx, collection, uuid.NewString(), i, encoded); err != nil {
			return unavailable("insert "+collection, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return unavailable("commit", err)
	}
	return nil
}

// Delete implements Store.
func (s *SQLStore) Delete(ctx context.Context, collection, id string) error {
	if err := checkCollection(collection); err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx,
		s.rebind(`DELETE FROM records WHERE collection = ? AND id = ?`), collection, id)
	if err != nil {
		return unavailable("delete "+collection, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return unavailable("delete "+collection, err)
	}
	if n == 0 {
		return fmt.Errorf("%s/%s: %w", collection, id, ErrNotFound)
	}
	return nil
}

// Count implements Store.
func (s *SQLStore) Count(ctx context.Context, collection string) (int, error) {
	if err := checkCollection(collection); err != nil {
		return 0, err
	}
	var n int
	err := s.db.QueryRowContext(ctx,
		s.rebind(`SELECT COUNT(*) FROM records WHERE collection = ?`), collection).Scan(&n)
	if err != nil {
		return 0, unavailable("count "+collection, err)
	}
	return n, nil
}

// Close closes the underlying database handle.
func (s *SQLStore) Close() error {
	return s.db.Close()
}

// decodeDoc keeps numbers as json.Number so integer fields survive intact.
func decodeDoc(doc string) (model.Record, error) {
	dec := json.NewDecoder(strings.NewReader(doc))
	dec.UseNumber()
	r := model.Record{}
	if err := dec.Decode(&r); err != nil {
		return nil, err
	}
	return r, nil
}

func encodeDoc(r model.Record) (string, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(r); err != nil {
		return "", fmt.Errorf("encode record: %w", err)
	}
	return strings.TrimSpace(buf.String()), nil
}
