// Package cache implements the optimistic entry cache: a per-user ordered
// collection of entries in durable storage, with change notification so view
// layers can react without polling.
//
// The cache is an accelerator, not the source of truth. Storage write
// failures are logged and swallowed; the backend resolves any drift on the
// next successful fetch.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"keepsafe/internal/client/events"
	"keepsafe/internal/client/models"
	"keepsafe/internal/client/storage"
	"keepsafe/internal/common"
	"keepsafe/internal/logging"
)

const (
	entriesKeyPrefix   = "entries_"
	reactionsKeyPrefix = "reactions_"
	commentsKeyPrefix  = "comments_"

	// DefaultSocialTTL bounds how long reactions/comments stay served from
	// cache before a refetch is forced. Entries themselves never expire.
	DefaultSocialTTL = 30 * time.Minute
)

// ChangeEvent is published whenever a user's entry collection mutates.
type ChangeEvent struct {
	UserID string
}

// EntryCache is the durable, observable store of local entries. All
// mutations of one user's collection are serialized by a per-user mutex, so
// two concurrent Adds cannot lose each other's write.
type EntryCache struct {
	store     storage.DurableStorage
	log       logging.Logger
	bus       *events.Bus[ChangeEvent]
	socialTTL time.Duration
	now       func() time.Time

	mu    sync.Mutex
	users map[string]*sync.Mutex
}

// Option configures an EntryCache.
type Option func(*EntryCache)

// WithSocialTTL overrides the reactions/comments TTL.
func WithSocialTTL(ttl time.Duration) Option {
	return func(c *EntryCache) { c.socialTTL = ttl }
}

// WithClock injects a clock, for expiry tests.
func WithClock(now func() time.Time) Option {
	return func(c *EntryCache) { c.now = now }
}

func New(store storage.DurableStorage, log logging.Logger, opts ...Option) *EntryCache {
	c := &EntryCache{
		store:     store,
		log:       log,
		bus:       events.NewBus[ChangeEvent](),
		socialTTL: DefaultSocialTTL,
		now:       time.Now,
		users:     make(map[string]*sync.Mutex),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Subscribe registers a handler for entry-change events and returns its
// unsubscribe func.
func (c *EntryCache) Subscribe(handler func(ChangeEvent)) func() {
	return c.bus.Subscribe(handler)
}

func (c *EntryCache) userLock(userID string) *sync.Mutex {
	c.mu.Lock()
	defer c.mu.Unlock()
	m, ok := c.users[userID]
	if !ok {
		m = &sync.Mutex{}
		c.users[userID] = m
	}
	return m
}

// Get returns the cached entries for a user, most recent first. It never
// fails: storage or decode problems are logged and an empty list returned.
func (c *EntryCache) Get(ctx context.Context, userID string) []models.Entry {
	raw, err := c.store.GetItem(ctx, entriesKeyPrefix+userID)
	if err != nil {
		c.log.Warn(ctx, "entry cache read failed", "user_id", userID, "error", fmt.Errorf("%w: %w", common.ErrCacheIO, err))
		return nil
	}
	if raw == nil {
		return nil
	}

	var entries []models.Entry
	if err := json.Unmarshal(raw, &entries); err != nil {
		c.log.Warn(ctx, "entry cache corrupt, ignoring", "user_id", userID, "error", err)
		return nil
	}
	return entries
}

// Set replaces the entire cached collection for a user.
func (c *EntryCache) Set(ctx context.Context, userID string, entries []models.Entry) {
	lock := c.userLock(userID)
	lock.Lock()
	c.write(ctx, userID, entries)
	lock.Unlock()

	c.bus.Publish(ChangeEvent{UserID: userID})
}

// Add prepends an entry to the user's collection. Used for optimistic
// inserts, which is why newest comes first.
func (c *EntryCache) Add(ctx context.Context, userID string, entry models.Entry) {
	c.mutate(ctx, userID, func(entries []models.Entry) []models.Entry {
		return append([]models.Entry{entry}, entries...)
	})
}

// Replace substitutes the entry matching entryID in place, preserving its
// position, and marks it completed. A nil newEntry removes the entry
// instead (a save the caller chose to drop).
func (c *EntryCache) Replace(ctx context.Context, userID, entryID string, newEntry *models.Entry) {
	c.mutate(ctx, userID, func(entries []models.Entry) []models.Entry {
		out := entries[:0]
		for _, e := range entries {
			if e.ID != entryID {
				out = append(out, e)
				continue
			}
			if newEntry != nil {
				confirmed := *newEntry
				confirmed.Status = models.StatusCompleted
				if confirmed.CompletedAt == nil {
					now := c.now().UTC()
					confirmed.CompletedAt = &now
				}
				confirmed.Error = ""
				out = append(out, confirmed)
			}
		}
		return out
	})
}

// Remove deletes an entry by id.
func (c *EntryCache) Remove(ctx context.Context, userID, entryID string) {
	c.Replace(ctx, userID, entryID, nil)
}

// MarkProcessing transitions an entry to processing, stamping the time.
func (c *EntryCache) MarkProcessing(ctx context.Context, userID, entryID string) {
	c.setStatus(ctx, userID, entryID, models.StatusProcessing, "")
}

// MarkFailed transitions an entry to failed, recording the error message the
// UI renders next to the retry affordance.
func (c *EntryCache) MarkFailed(ctx context.Context, userID, entryID, errMsg string) {
	c.setStatus(ctx, userID, entryID, models.StatusFailed, errMsg)
}

func (c *EntryCache) setStatus(ctx context.Context, userID, entryID string, status models.Status, errMsg string) {
	c.mutate(ctx, userID, func(entries []models.Entry) []models.Entry {
		for i := range entries {
			if entries[i].ID != entryID {
				continue
			}
			now := c.now().UTC()
			entries[i].Status = status
			entries[i].Error = errMsg
			switch status {
			case models.StatusProcessing:
				entries[i].ProcessingAt = &now
			case models.StatusFailed:
				entries[i].FailedAt = &now
			case models.StatusCompleted:
				entries[i].CompletedAt = &now
			}
			entries[i].UpdatedAt = now
		}
		return entries
	})
}

// mutate runs a read-modify-write cycle under the user's lock and publishes
// a change event afterwards.
func (c *EntryCache) mutate(ctx context.Context, userID string, fn func([]models.Entry) []models.Entry) {
	lock := c.userLock(userID)
	lock.Lock()
	entries := c.Get(ctx, userID)
	c.write(ctx, userID, fn(entries))
	lock.Unlock()

	c.bus.Publish(ChangeEvent{UserID: userID})
}

func (c *EntryCache) write(ctx context.Context, userID string, entries []models.Entry) {
	if entries == nil {
		entries = []models.Entry{}
	}
	raw, err := json.Marshal(entries)
	if err != nil {
		c.log.Warn(ctx, "entry cache encode failed", "user_id", userID, "error", err)
		return
	}
	if err := c.store.SetItem(ctx, entriesKeyPrefix+userID, raw); err != nil {
		c.log.Warn(ctx, "entry cache write failed", "user_id", userID, "error", fmt.Errorf("%w: %w", common.ErrCacheIO, err))
	}
}
