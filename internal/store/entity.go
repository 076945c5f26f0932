package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"iter"

	"github.com/dgraph-io/badger/v4"

	apperrors "github.com/termalign/termalign-server/internal/errors"
)

// Entity provides generic JSON CRUD for one domain type under a key prefix.
type Entity[T any] struct {
	store  *Store
	prefix string
	name   string // used in not-found messages
}

// NewEntity creates a new Entity instance for type T.
func NewEntity[T any](s *Store, prefix, name string) *Entity[T] {
	return &Entity[T]{store: s, prefix: prefix, name: name}
}

func (e *Entity[T]) key(id string) []byte {
	return []byte(e.prefix + id)
}

func (e *Entity[T]) notFound(id string) error {
	return apperrors.NotFoundf("%s %s not found", e.name, id)
}

// Create stores a new entity.
// Returns a CONFLICT error if an entity with this ID already exists.
func (e *Entity[T]) Create(ctx context.Context, id string, entity *T) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(entity)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", e.name, err)
	}

	return e.store.db.Update(func(txn *badger.Txn) error {
		_, err := txn.Get(e.key(id))
		if err == nil {
			return apperrors.Conflict(fmt.Sprintf("%s %s already exists", e.name, id))
		}
		if !errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("failed to check existing key: %w", err)
		}
		return txn.Set(e.key(id), data)
	})
}

// Get retrieves an entity by ID.
func (e *Entity[T]) Get(ctx context.Context, id string) (*T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var entity T
	err := e.store.get(e.key(id), &entity)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, e.notFound(id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get %s: %w", e.name, err)
	}
	return &entity, nil
}

// Mutate loads an entity, applies fn and writes the result back in one
// transaction. If fn returns an error nothing is written. Concurrent
// mutations of the same key are retried on conflict.
func (e *Entity[T]) Mutate(ctx context.Context, id string, fn func(*T) error) (*T, error) {
	const maxAttempts = 5

	var result *T
	var err error
	for range maxAttempts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		result, err = e.mutateOnce(id, fn)
		if !errors.Is(err, badger.ErrConflict) {
			return result, err
		}
	}
	return nil, fmt.Errorf("update %s %s: %w", e.name, id, err)
}

func (e *Entity[T]) mutateOnce(id string, fn func(*T) error) (*T, error) {
	var entity T
	err := e.store.db.Update(func(txn *badger.Txn) error {
		item, err := txn.Get(e.key(id))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return e.notFound(id)
		}
		if err != nil {
			return fmt.Errorf("failed to get existing key: %w", err)
		}

		if err := item.Value(func(val []byte) error {
			return json.Unmarshal(val, &entity)
		}); err != nil {
			return fmt.Errorf("failed to unmarshal %s: %w", e.name, err)
		}

		if err := fn(&entity); err != nil {
			return err
		}

		data, err := json.Marshal(&entity)
		if err != nil {
			return fmt.Errorf("failed to marshal %s: %w", e.name, err)
		}
		return txn.Set(e.key(id), data)
	})
	if err != nil {
		return nil, err
	}
	return &entity, nil
}

// Delete removes an entity. Returns NOT_FOUND if it does not exist.
func (e *Entity[T]) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return e.store.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(e.key(id)); err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return e.notFound(id)
			}
			return fmt.Errorf("failed to get key: %w", err)
		}
		return txn.Delete(e.key(id))
	})
}

// Count returns how many entities are stored.
func (e *Entity[T]) Count(ctx context.Context) (int, error) {
	n := 0
	for _, err := range e.List(ctx) {
		if err != nil {
			return 0, err
		}
		n++
	}
	return n, nil
}

// List returns an iterator over all entities.
func (e *Entity[T]) List(ctx context.Context) iter.Seq2[*T, error] {
	return func(yield func(*T, error) bool) {
		_ = e.store.db.View(func(txn *badger.Txn) error {
			opts := badger.DefaultIteratorOptions
			opts.Prefix = []byte(e.prefix)

			it := txn.NewIterator(opts)
			defer it.Close()

			for it.Rewind(); it.Valid(); it.Next() {
				if err := ctx.Err(); err != nil {
					yield(nil, err)
					return err
				}

				var entity T
				if err := it.Item().Value(func(val []byte) error {
					return json.Unmarshal(val, &entity)
				}); err != nil {
					yield(nil, err)
					return err
				}

				if !yield(&entity, nil) {
					return nil // Consumer stopped early
				}
			}
			return nil
		})
	}
}
