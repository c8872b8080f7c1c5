package words

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PGStore reads word sets from Postgres, one word per row:
//
//	CREATE TABLE word_sets (
//	    id       SERIAL PRIMARY KEY,
//	    set_name TEXT NOT NULL,
//	    word     TEXT NOT NULL
//	);
//
// Sets live in the database so they can be edited without a redeploy; room
// state itself never touches the database.
type PGStore struct {
	pool *pgxpool.Pool
}

func NewPGStore(ctx context.Context, dsn string) (*PGStore, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping word store: %w", err)
	}
	return &PGStore{pool: pool}, nil
}

func (s *PGStore) Lookup(ctx context.Context, name string) (*Set, error) {
	rows, err := s.pool.Query(ctx,
		"SELECT word FROM word_sets WHERE set_name = $1 ORDER BY id", name)
	if err != nil {
		return nil, fmt.Errorf("query word set %q: %w", name, err)
	}
	defer rows.Close()

	set := &Set{Name: name}
	for rows.Next() {
		var word string
		if err := rows.Scan(&word); err != nil {
			return nil, fmt.Errorf("scan word set %q: %w", name, err)
		}
		set.Words = append(set.Words, word)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read word set %q: %w", name, err)
	}
	if len(set.Words) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSet, name)
	}
	return set, nil
}

func (s *PGStore) Close() {
	s.pool.Close()
}
