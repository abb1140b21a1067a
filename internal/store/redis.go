package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/ziadkadry99/slidedeck/internal/slides"
)

const (
	presentationKeyPrefix = "presentation:" // Presentation JSON: {prefix}presentation:{id}
	presentationIndexKey  = "presentations" // Set of presentation ids: {prefix}presentations
	maxTxRetries          = 5
)

// RedisStore persists presentations as JSON documents in Redis. Updates use
// WATCH/MULTI so concurrent writers never lose each other's changes.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore connects to the Redis server at addr.
func NewRedisStore(addr, prefix string) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connecting to redis at %s: %w", addr, err)
	}
	return NewRedisStoreFromClient(client, prefix), nil
}

// NewRedisStoreFromClient wraps an existing client.
func NewRedisStoreFromClient(client *redis.Client, prefix string) *RedisStore {
	return &RedisStore{client: client, prefix: prefix}
}

func (r *RedisStore) key(id string) string {
	return r.prefix + presentationKeyPrefix + id
}

func (r *RedisStore) indexKey() string {
	return r.prefix + presentationIndexKey
}

func decodePresentation(data []byte) (*slides.Presentation, error) {
	var p slides.Presentation
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("unmarshaling presentation: %w", err)
	}
	if p.Slides == nil {
		p.Slides = []slides.Slide{}
	}
	return &p, nil
}

func (r *RedisStore) List(ctx context.Context) ([]slides.Presentation, error) {
	ids, err := r.client.SMembers(ctx, r.indexKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("listing presentation ids: %w", err)
	}
	out := make([]slides.Presentation, 0, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = r.key(id)
	}
	values, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("loading presentations: %w", err)
	}
	for _, v := range values {
		s, ok := v.(string)
		if !ok {
			// Index entry without a document.
			continue
		}
		p, err := decodePresentation([]byte(s))
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	sortPresentations(out)
	return out, nil
}

func (r *RedisStore) Get(ctx context.Context, id string) (*slides.Presentation, error) {
	data, err := r.client.Get(ctx, r.key(id)).Bytes()
	if err == redis.Nil {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting presentation %s: %w", id, err)
	}
	return decodePresentation(data)
}

func (r *RedisStore) Create(ctx context.Context, in CreateInput) (*slides.Presentation, error) {
	if err := checkCreate(in); err != nil {
		return nil, err
	}
	p := newPresentation(in, now())
	data, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("marshaling presentation: %w", err)
	}

	ok, err := r.client.SetNX(ctx, r.key(p.ID), data, 0).Result()
	if err != nil {
		return nil, fmt.Errorf("creating presentation: %w", err)
	}
	if !ok {
		return nil, ErrExists
	}
	if err := r.client.SAdd(ctx, r.indexKey(), p.ID).Err(); err != nil {
		return nil, fmt.Errorf("indexing presentation: %w", err)
	}
	return &p, nil
}

func (r *RedisStore) Update(ctx context.Context, id string, patch Patch) (*slides.Presentation, error) {
	if err := patch.Validate(); err != nil {
		return nil, err
	}
	key := r.key(id)
	var updated *slides.Presentation

	txf := func(tx *redis.Tx) error {
		data, err := tx.Get(ctx, key).Bytes()
		if err == redis.Nil {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("getting presentation %s: %w", id, err)
		}
		p, err := decodePresentation(data)
		if err != nil {
			return err
		}
		patch.apply(p, now())
		buf, err := json.Marshal(p)
		if err != nil {
			return fmt.Errorf("marshaling presentation: %w", err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, buf, 0)
			pipe.SAdd(ctx, r.indexKey(), id)
			return nil
		})
		if err != nil {
			return err
		}
		updated = p
		return nil
	}

	for i := 0; i < maxTxRetries; i++ {
		err := r.client.Watch(ctx, txf, key)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		if err != nil {
			return nil, wrapf(err, "updating presentation %s", id)
		}
		return updated, nil
	}
	return nil, fmt.Errorf("updating presentation %s: too many concurrent writers", id)
}

func (r *RedisStore) UpdateSlides(ctx context.Context, id string, list []slides.Slide) (*slides.Presentation, error) {
	if list == nil {
		list = []slides.Slide{}
	}
	return r.Update(ctx, id, Patch{Slides: list})
}

func (r *RedisStore) Close() error {
	return r.client.Close()
}
