// Package pgxsink implements project.Sink on top of a PostgreSQL pool,
// projecting every document-store collection onto a table of JSONB rows.
// It is one optional backend adapter, not the interface a caller is meant
// to program against — that role belongs to project.Sink.
package pgxsink

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/inab/BP-Model/errs"
	"github.com/inab/BP-Model/model"
	"github.com/inab/BP-Model/project"
)

// Sink writes document-store collections to Postgres tables of
// (id text primary key, data jsonb), with declared indices realized as
// btree indices on jsonb path expressions.
type Sink struct {
	pool *pgxpool.Pool
}

// Open connects to dsn and verifies connectivity with a single round
// trip, mirroring the reference material's pattern of failing fast on a
// bad connection string rather than at first real use.
func Open(ctx context.Context, dsn string) (*Sink, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, errs.Wrap(errs.BackendError, err, "open postgres pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, errs.Wrap(errs.BackendError, err, "ping postgres pool")
	}
	return &Sink{pool: pool}, nil
}

// Close releases the pool.
func (s *Sink) Close() { s.pool.Close() }

var _ project.Sink = (*Sink)(nil)

// EnsureCollection creates the table backing coll if it does not exist,
// plus a btree index for every declared column of every declared index.
func (s *Sink) EnsureCollection(ctx context.Context, coll *model.Collection) error {
	table := tableName(coll.Name)
	ddl := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (id text PRIMARY KEY, data jsonb NOT NULL)`, table)
	if _, err := s.pool.Exec(ctx, ddl); err != nil {
		return errs.Wrap(errs.BackendError, err, "create table %q", table)
	}
	for i, idx := range coll.Indices {
		if err := s.ensureIndex(ctx, table, i, idx); err != nil {
			return err
		}
	}
	return nil
}

func (s *Sink) ensureIndex(ctx context.Context, table string, ord int, idx *model.Index) error {
	exprs := make([]string, 0, len(idx.Columns))
	for _, c := range idx.Columns {
		dir := "ASC"
		if c.Dir < 0 {
			dir = "DESC"
		}
		exprs = append(exprs, fmt.Sprintf("(data->>'%s') %s", c.Name, dir))
	}
	unique := ""
	if idx.Unique {
		unique = "UNIQUE "
	}
	name := fmt.Sprintf("%s_idx_%d", strings.TrimPrefix(table, `"`), ord)
	name = strings.Trim(name, `"`)
	ddl := fmt.Sprintf(`CREATE %sINDEX IF NOT EXISTS %s ON %s (%s)`, unique, pgx.Identifier{name}.Sanitize(), table, strings.Join(exprs, ", "))
	if _, err := s.pool.Exec(ctx, ddl); err != nil {
		return errs.Wrap(errs.BackendError, err, "create index on %q", table)
	}
	return nil
}

// Put upserts docs into collection's table, keyed by each document's "_id"
// field (falling back to "name" for CV segment documents that lack one).
func (s *Sink) Put(ctx context.Context, collection string, docs []project.Document) error {
	table := tableName(collection)
	batch := &pgx.Batch{}
	for _, doc := range docs {
		id := documentID(doc)
		batch.Queue(
			fmt.Sprintf(`INSERT INTO %s (id, data) VALUES ($1, $2)
				ON CONFLICT (id) DO UPDATE SET data = EXCLUDED.data`, table),
			id, doc,
		)
	}
	br := s.pool.SendBatch(ctx, batch)
	defer br.Close()
	for range docs {
		if _, err := br.Exec(); err != nil {
			return errs.Wrap(errs.BackendError, err, "upsert into %q", table)
		}
	}
	return nil
}

func documentID(doc project.Document) string {
	if id, ok := doc["_id"].(string); ok && id != "" {
		return id
	}
	if name, ok := doc["name"].(string); ok {
		if seg, ok := doc["segmentIndex"].(int); ok {
			return fmt.Sprintf("%s#%d", name, seg)
		}
		return name
	}
	return ""
}

func tableName(collection string) string {
	return pgx.Identifier{collection}.Sanitize()
}
