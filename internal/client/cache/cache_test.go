package cache

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"keepsafe/internal/client/models"
	"keepsafe/internal/client/storage"
	"keepsafe/internal/common"
	"keepsafe/internal/logging"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCache(t *testing.T, opts ...Option) (*EntryCache, *storage.MemoryStorage) {
	t.Helper()
	store := storage.NewMemoryStorage()
	return New(store, logging.NewNop(), opts...), store
}

func entry(id string, status models.Status) models.Entry {
	return models.Entry{
		ID:        id,
		UserID:    "u1",
		Type:      models.EntryTypePhoto,
		Status:    status,
		CreatedAt: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestGet_EmptyForUnknownUser(t *testing.T) {
	c, _ := newCache(t)
	assert.Empty(t, c.Get(context.Background(), "nobody"))
}

func TestAdd_PrependsNewestFirst(t *testing.T) {
	c, _ := newCache(t)
	ctx := context.Background()

	c.Add(ctx, "u1", entry("tmp1", models.StatusPending))
	c.Add(ctx, "u1", entry("tmp2", models.StatusPending))

	got := c.Get(ctx, "u1")
	require.Len(t, got, 2)
	assert.Equal(t, "tmp2", got[0].ID)
	assert.Equal(t, "tmp1", got[1].ID)
}

func TestReplace_SubstitutesInPlaceAndCompletes(t *testing.T) {
	c, _ := newCache(t)
	ctx := context.Background()

	c.Add(ctx, "u1", entry("tmp0", models.StatusPending))
	c.Add(ctx, "u1", entry("tmp1", models.StatusPending))
	c.Add(ctx, "u1", entry("tmp2", models.StatusPending))

	real := entry("real1", "")
	c.Replace(ctx, "u1", "tmp1", &real)

	got := c.Get(ctx, "u1")
	require.Len(t, got, 3)
	// same ordinal position as the temp entry occupied
	assert.Equal(t, "tmp2", got[0].ID)
	assert.Equal(t, "real1", got[1].ID)
	assert.Equal(t, "tmp0", got[2].ID)

	assert.Equal(t, models.StatusCompleted, got[1].Status)
	require.NotNil(t, got[1].CompletedAt)

	for _, e := range got {
		assert.NotEqual(t, "tmp1", e.ID)
	}
}

func TestReplace_NilRemovesEntry(t *testing.T) {
	c, _ := newCache(t)
	ctx := context.Background()

	c.Add(ctx, "u1", entry("tmp1", models.StatusPending))
	c.Replace(ctx, "u1", "tmp1", nil)

	assert.Empty(t, c.Get(ctx, "u1"))
}

func TestRemove_DecreasesLengthByOne(t *testing.T) {
	c, _ := newCache(t)
	ctx := context.Background()

	c.Add(ctx, "u1", entry("a", models.StatusPending))
	c.Add(ctx, "u1", entry("b", models.StatusPending))
	c.Remove(ctx, "u1", "a")

	got := c.Get(ctx, "u1")
	require.Len(t, got, 1)
	assert.Equal(t, "b", got[0].ID)
}

func TestMarkFailed_RecordsErrorAndTimestamp(t *testing.T) {
	c, _ := newCache(t)
	ctx := context.Background()

	c.Add(ctx, "u1", entry("tmp1", models.StatusProcessing))
	c.MarkFailed(ctx, "u1", "tmp1", "upload timed out")

	got := c.Get(ctx, "u1")
	require.Len(t, got, 1)
	assert.Equal(t, models.StatusFailed, got[0].Status)
	assert.Equal(t, "upload timed out", got[0].Error)
	assert.NotNil(t, got[0].FailedAt)
}

func TestSubscribe_EmitsOnEveryMutation(t *testing.T) {
	c, _ := newCache(t)
	ctx := context.Background()

	var mu sync.Mutex
	var got []ChangeEvent
	unsub := c.Subscribe(func(ev ChangeEvent) {
		mu.Lock()
		got = append(got, ev)
		mu.Unlock()
	})
	defer unsub()

	c.Add(ctx, "u1", entry("tmp1", models.StatusPending))
	real := entry("real1", "")
	c.Replace(ctx, "u1", "tmp1", &real)
	c.Remove(ctx, "u1", "real1")
	c.Set(ctx, "u2", nil)

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, got, 4)
	assert.Equal(t, "u1", got[0].UserID)
	assert.Equal(t, "u2", got[3].UserID)
}

func TestWriteFailure_SwallowedAndReadsKeepWorking(t *testing.T) {
	c, store := newCache(t)
	ctx := context.Background()

	c.Add(ctx, "u1", entry("a", models.StatusPending))

	store.FailWritesWith(errors.New("disk full"))
	c.Add(ctx, "u1", entry("b", models.StatusPending)) // must not panic or error

	// cache keeps the last successfully written state
	got := c.Get(ctx, "u1")
	require.Len(t, got, 1)
	assert.Equal(t, "a", got[0].ID)
}

// recordingLogger captures errors passed as "error" key-value pairs.
type recordingLogger struct {
	logging.Logger
	mu   sync.Mutex
	errs []error
}

func (l *recordingLogger) Warn(_ context.Context, _ string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i := 0; i+1 < len(args); i += 2 {
		if args[i] == "error" {
			if err, ok := args[i+1].(error); ok {
				l.errs = append(l.errs, err)
			}
		}
	}
}

func TestStorageFailures_ClassifiedAsCacheIO(t *testing.T) {
	store := storage.NewMemoryStorage()
	log := &recordingLogger{}
	c := New(store, log)
	ctx := context.Background()

	store.FailWritesWith(errors.New("disk full"))
	c.Add(ctx, "u1", entry("a", models.StatusPending))

	require.NotEmpty(t, log.errs)
	assert.ErrorIs(t, log.errs[0], common.ErrCacheIO)
}

func TestConcurrentAdds_SameUser_NoLostUpdate(t *testing.T) {
	c, _ := newCache(t)
	ctx := context.Background()

	const n = 20
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			e := entry("", models.StatusPending)
			e.ID = string(rune('a' + i))
			c.Add(ctx, "u1", e)
		}(i)
	}
	wg.Wait()

	assert.Len(t, c.Get(ctx, "u1"), n)
}

func TestUsersAreIsolated(t *testing.T) {
	c, _ := newCache(t)
	ctx := context.Background()

	c.Add(ctx, "u1", entry("a", models.StatusPending))

	assert.Empty(t, c.Get(ctx, "u2"))
	assert.Len(t, c.Get(ctx, "u1"), 1)
}
