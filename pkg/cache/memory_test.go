package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/Harati-Ahmed/My-School-platform-sub000/pkg/errors"
)

func TestMemoryStoreGetSet(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	var out []string
	err := store.Get(ctx, "teacher:t1:subjects", &out)
	require.True(t, errors.Is(err, appErrors.ErrCacheMiss))

	require.NoError(t, store.Set(ctx, "teacher:t1:subjects", []string{"math", "physics"}, time.Minute))
	require.NoError(t, store.Get(ctx, "teacher:t1:subjects", &out))
	assert.Equal(t, []string{"math", "physics"}, out)

	// Overwrite replaces the value and resets expiry.
	require.NoError(t, store.Set(ctx, "teacher:t1:subjects", []string{"biology"}, time.Minute))
	require.NoError(t, store.Get(ctx, "teacher:t1:subjects", &out))
	assert.Equal(t, []string{"biology"}, out)
}

func TestMemoryStoreExpiryOnRead(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	current := time.Date(2025, 9, 1, 8, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return current }

	require.NoError(t, store.Set(ctx, "roster:classes", map[string][]string{"10": {"10A"}}, 5*time.Minute))

	var out map[string][]string
	require.NoError(t, store.Get(ctx, "roster:classes", &out))

	current = current.Add(5 * time.Minute)
	err := store.Get(ctx, "roster:classes", &out)
	assert.True(t, errors.Is(err, appErrors.ErrCacheMiss))
	assert.Equal(t, 0, store.Len())
}

func TestMemoryStoreDeleteByPattern(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "teacher:t1:subjects", []string{"math"}, time.Minute))
	require.NoError(t, store.Set(ctx, "teacher:t1:grades", []string{"10"}, time.Minute))
	require.NoError(t, store.Set(ctx, "teacher:t2:subjects", []string{"art"}, time.Minute))

	require.NoError(t, store.DeleteByPattern(ctx, "teacher:t1:*"))

	var out []string
	assert.True(t, errors.Is(store.Get(ctx, "teacher:t1:subjects", &out), appErrors.ErrCacheMiss))
	assert.True(t, errors.Is(store.Get(ctx, "teacher:t1:grades", &out), appErrors.ErrCacheMiss))
	assert.NoError(t, store.Get(ctx, "teacher:t2:subjects", &out))
}
