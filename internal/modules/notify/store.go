// README: Key-value persistence port for the journal, with Redis and Postgres adapters.
package notify

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

// KV is the journal's persistence port. Get on an absent key returns
// (nil, nil); the journal treats that as an empty log. Injecting the port
// keeps the journal testable with an in-memory fake.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, val []byte) error
}

type RedisKV struct {
	redis *redis.Client
}

func NewRedisKV(client *redis.Client) *RedisKV {
	return &RedisKV{redis: client}
}

func (s *RedisKV) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := s.redis.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return val, nil
}

func (s *RedisKV) Set(ctx context.Context, key string, val []byte) error {
	return s.redis.Set(ctx, key, val, 0).Err()
}

// PostgresKV stores each journal key as a row in kv_store. Used by
// deployments that already run Postgres and want the journal there.
type PostgresKV struct {
	db *pgxpool.Pool
}

func NewPostgresKV(db *pgxpool.Pool) *PostgresKV {
	return &PostgresKV{db: db}
}

func (s *PostgresKV) Get(ctx context.Context, key string) ([]byte, error) {
	rows, err := s.db.Query(ctx, `SELECT value FROM kv_store WHERE key = $1`, key)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	if !rows.Next() {
		return nil, rows.Err()
	}
	var val []byte
	if err := rows.Scan(&val); err != nil {
		return nil, err
	}
	return val, nil
}

func (s *PostgresKV) Set(ctx context.Context, key string, val []byte) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO kv_store (key, value, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (key) DO UPDATE SET value = $2, updated_at = NOW()`,
		key, val,
	)
	return err
}
