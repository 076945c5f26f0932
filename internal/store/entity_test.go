package store_test

import (
	"context"
	stderrors "errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/termalign/termalign-server/internal/domain"
	"github.com/termalign/termalign-server/internal/errors"
	"github.com/termalign/termalign-server/internal/store"
)

type TestEntity struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func setupTestStore(t *testing.T) *store.Store {
	t.Helper()

	s, err := store.New(nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	return s
}

func TestEntity_CreateAndGet(t *testing.T) {
	s := setupTestStore(t)
	entity := store.NewEntity[TestEntity](s, "test:", "test entity")

	require.NoError(t, entity.Create(context.Background(), "1", &TestEntity{ID: "1", Name: "Churn"}))

	got, err := entity.Get(context.Background(), "1")
	require.NoError(t, err)
	assert.Equal(t, "Churn", got.Name)
}

func TestEntity_CreateDuplicate(t *testing.T) {
	s := setupTestStore(t)
	entity := store.NewEntity[TestEntity](s, "test:", "test entity")

	require.NoError(t, entity.Create(context.Background(), "1", &TestEntity{ID: "1"}))
	err := entity.Create(context.Background(), "1", &TestEntity{ID: "1"})
	assert.True(t, errors.Is(err, errors.ErrConflict))
}

func TestEntity_GetMissing(t *testing.T) {
	s := setupTestStore(t)

	_, err := s.Workspaces.Get(context.Background(), "ws-missing")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrNotFound))
	assert.Equal(t, "workspace ws-missing not found", err.Error())
}

func TestEntity_Mutate(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	entity := store.NewEntity[TestEntity](s, "test:", "test entity")
	require.NoError(t, entity.Create(ctx, "1", &TestEntity{ID: "1"}))

	updated, err := entity.Mutate(ctx, "1", func(e *TestEntity) error {
		e.Count++
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, updated.Count)

	boom := stderrors.New("boom")
	_, err = entity.Mutate(ctx, "1", func(e *TestEntity) error {
		e.Count = 100
		return boom
	})
	assert.ErrorIs(t, err, boom)

	got, err := entity.Get(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, 1, got.Count, "failed mutation must not be written")

	_, err = entity.Mutate(ctx, "nope", func(*TestEntity) error { return nil })
	assert.True(t, errors.Is(err, errors.ErrNotFound))
}

func TestEntity_MutateConcurrent(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	entity := store.NewEntity[TestEntity](s, "test:", "test entity")
	require.NoError(t, entity.Create(ctx, "1", &TestEntity{ID: "1"}))

	var wg sync.WaitGroup
	var mu sync.Mutex
	succeeded := 0
	for range 4 {
		wg.Go(func() {
			_, err := entity.Mutate(ctx, "1", func(e *TestEntity) error {
				e.Count++
				return nil
			})
			if err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			}
		})
	}
	wg.Wait()

	got, err := entity.Get(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, succeeded, got.Count)
}

func TestEntity_DeleteAndList(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	entity := store.NewEntity[TestEntity](s, "test:", "test entity")

	for i := range 3 {
		id := fmt.Sprint(i)
		require.NoError(t, entity.Create(ctx, id, &TestEntity{ID: id}))
	}

	require.NoError(t, entity.Delete(ctx, "1"))
	assert.True(t, errors.Is(entity.Delete(ctx, "1"), errors.ErrNotFound))

	var ids []string
	for e, err := range entity.List(ctx) {
		require.NoError(t, err)
		ids = append(ids, e.ID)
	}
	assert.Equal(t, []string{"0", "2"}, ids)

	n, err := entity.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestEntity_PrefixesAreIsolated(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Workspaces.Create(ctx, "ws-1", &domain.Workspace{ID: "ws-1"}))
	other := store.NewEntity[TestEntity](s, "test:", "test entity")
	require.NoError(t, other.Create(ctx, "x", &TestEntity{ID: "x"}))

	n, err := s.Workspaces.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestEntity_CancelledContext(t *testing.T) {
	s := setupTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Workspaces.Get(ctx, "ws-1")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestStore_Ping(t *testing.T) {
	assert.NoError(t, setupTestStore(t).Ping())
}
