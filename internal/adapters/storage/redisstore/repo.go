// Package redisstore stores record collections in Redis. Each record is a JSON string under
// <prefix>:<collection>:<id>; insertion order lives in the <prefix>:<collection> list.
package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/go-redis/redis/v8"

	"github.com/hylla/tablero/internal/app"
	"github.com/hylla/tablero/internal/domain"
)

// DefaultPrefix namespaces keys when no prefix is configured.
const DefaultPrefix = "tablero"

// ErrDuplicateID reports an insert for an id that already exists.
var ErrDuplicateID = errors.New("duplicate id")

// Options configures the Redis connection.
type Options struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
}

// Repository persists record collections in Redis.
type Repository struct {
	client        *redis.Client
	items         *table[domain.Item]
	employees     *table[domain.Employee]
	opportunities *table[domain.Opportunity]
}

// Open connects to Redis and verifies the connection.
func Open(ctx context.Context, opts Options) (*Repository, error) {
	if strings.TrimSpace(opts.Addr) == "" {
		return nil, errors.New("redis address is required")
	}
	client := redis.NewClient(&redis.Options{Addr: opts.Addr, Password: opts.Password, DB: opts.DB})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return New(client, opts.Prefix), nil
}

// New wraps an existing client.
func New(client *redis.Client, prefix string) *Repository {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &Repository{
		client:        client,
		items:         &table[domain.Item]{client: client, prefix: prefix + ":" + domain.KindItem.Plural()},
		employees:     &table[domain.Employee]{client: client, prefix: prefix + ":" + domain.KindEmployee.Plural()},
		opportunities: &table[domain.Opportunity]{client: client, prefix: prefix + ":" + domain.KindOpportunity.Plural()},
	}
}

// Close closes the client.
func (r *Repository) Close() error {
	return r.client.Close()
}

// Ping reports whether Redis is reachable.
func (r *Repository) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Items returns the item table.
func (r *Repository) Items() app.Table[domain.Item] { return r.items }

// Employees returns the employee table.
func (r *Repository) Employees() app.Table[domain.Employee] { return r.employees }

// Opportunities returns the opportunity table.
func (r *Repository) Opportunities() app.Table[domain.Opportunity] { return r.opportunities }

type table[T app.Identified] struct {
	client *redis.Client
	prefix string
}

func (t *table[T]) key(id string) string {
	return t.prefix + ":" + id
}

func (t *table[T]) List(ctx context.Context) ([]T, error) {
	ids, err := t.client.LRange(ctx, t.prefix, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", t.prefix, err)
	}
	out := make([]T, 0, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = t.key(id)
	}
	values, err := t.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", t.prefix, err)
	}
	for _, value := range values {
		raw, ok := value.(string)
		if !ok {
			// id listed but value already removed
			continue
		}
		var record T
		if err := json.Unmarshal([]byte(raw), &record); err != nil {
			return nil, fmt.Errorf("decode %s: %w", t.prefix, err)
		}
		out = append(out, record)
	}
	return out, nil
}

func (t *table[T]) Insert(ctx context.Context, record T) error {
	data, err := json.Marshal(record)
	if err != nil {
		return err
	}
	created, err := t.client.SetNX(ctx, t.key(record.RecordID()), data, 0).Result()
	if err != nil {
		return fmt.Errorf("insert %s: %w", t.prefix, err)
	}
	if !created {
		return ErrDuplicateID
	}
	if err := t.client.RPush(ctx, t.prefix, record.RecordID()).Err(); err != nil {
		return fmt.Errorf("index %s: %w", t.prefix, err)
	}
	return nil
}

func (t *table[T]) Replace(ctx context.Context, record T) error {
	data, err := json.Marshal(record)
	if err != nil {
		return err
	}
	updated, err := t.client.SetXX(ctx, t.key(record.RecordID()), data, 0).Result()
	if err != nil {
		return fmt.Errorf("update %s: %w", t.prefix, err)
	}
	if !updated {
		return app.ErrNotFound
	}
	return nil
}

func (t *table[T]) Remove(ctx context.Context, id string) error {
	pipe := t.client.TxPipeline()
	del := pipe.Del(ctx, t.key(id))
	pipe.LRem(ctx, t.prefix, 1, id)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("delete %s: %w", t.prefix, err)
	}
	if del.Val() == 0 {
		return app.ErrNotFound
	}
	return nil
}
