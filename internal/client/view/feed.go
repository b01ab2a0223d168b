// Package view produces the list the UI renders: locally pending entries
// merged with authoritative backend rows, grouped by calendar day for the
// vault and calendar screens.
package view

import (
	"context"
	"sync"

	"keepsafe/internal/client/backend"
	"keepsafe/internal/client/cache"
	"keepsafe/internal/client/models"
	"keepsafe/internal/client/queue"
	"keepsafe/internal/logging"
)

// DefaultFetchLimit caps a feed refresh.
const DefaultFetchLimit = 200

// EntryFeed is the reconciliation layer between the optimistic cache and
// the backend. It holds a transient, derived view that is rebuilt from its
// two sources and never persisted itself.
type EntryFeed struct {
	userID string
	cache  *cache.EntryCache
	client backend.Client
	queue  *queue.ProcessingQueue
	log    logging.Logger
	limit  int

	mu     sync.RWMutex
	remote []models.Entry

	unsub func()
}

func NewEntryFeed(userID string, c *cache.EntryCache, client backend.Client, q *queue.ProcessingQueue, log logging.Logger) *EntryFeed {
	return &EntryFeed{
		userID: userID,
		cache:  c,
		client: client,
		queue:  q,
		log:    log,
		limit:  DefaultFetchLimit,
	}
}

// Start performs the initial fetch and subscribes to cache change events so
// queue completions surface without manual refresh, even when they land
// after the UI navigated away and back.
func (f *EntryFeed) Start(ctx context.Context) error {
	err := f.Refresh(ctx)

	f.unsub = f.cache.Subscribe(func(ev cache.ChangeEvent) {
		if ev.UserID != f.userID {
			return
		}
		if rerr := f.Refresh(ctx); rerr != nil {
			f.log.Warn(ctx, "feed refresh after cache change failed", "error", rerr)
		}
	})

	return err
}

// Close unsubscribes from cache events. Safe to call more than once.
func (f *EntryFeed) Close() {
	if f.unsub != nil {
		f.unsub()
		f.unsub = nil
	}
}

// Refresh refetches the backend rows backing the merged list.
func (f *EntryFeed) Refresh(ctx context.Context) error {
	rows, err := f.client.ListEntries(ctx, f.limit)
	if err != nil {
		return err
	}

	f.mu.Lock()
	f.remote = rows
	f.mu.Unlock()
	return nil
}

// Entries returns optimistic local entries (pending/processing/failed,
// newest first) followed by the backend rows. No de-duplication pass runs
// between the two sources: the optimistic entry is expected to be replaced
// before the backend list contains it.
func (f *EntryFeed) Entries(ctx context.Context) []models.Entry {
	var local []models.Entry
	for _, e := range f.cache.Get(ctx, f.userID) {
		if e.IsLocal() {
			local = append(local, e)
		}
	}

	f.mu.RLock()
	defer f.mu.RUnlock()
	return append(local, f.remote...)
}

// EntriesByDate groups the merged list by the entry's UTC calendar day.
// Every entry lands in exactly one group.
func (f *EntryFeed) EntriesByDate(ctx context.Context) map[string][]models.Entry {
	out := make(map[string][]models.Entry)
	for _, e := range f.Entries(ctx) {
		key := e.DateKey()
		out[key] = append(out[key], e)
	}
	return out
}

// AddOptimistic inserts the job's pending entry into the cache and returns
// it. The caller then hands the job to the queue.
func (f *EntryFeed) AddOptimistic(ctx context.Context, job models.QueueJob) models.Entry {
	e := job.OptimisticEntry()
	f.cache.Add(ctx, f.userID, e)
	return e
}

// ReplaceOptimistic mirrors the cache replace and refetches to reconcile
// any drift. A nil realEntry drops the optimistic row.
func (f *EntryFeed) ReplaceOptimistic(ctx context.Context, tempID string, realEntry *models.Entry) {
	f.cache.Replace(ctx, f.userID, tempID, realEntry)
	if err := f.Refresh(ctx); err != nil {
		f.log.Warn(ctx, "feed refresh after replace failed", "error", err)
	}
}

// Retry re-runs a failed entry's job through the queue.
func (f *EntryFeed) Retry(ctx context.Context, entryID string) error {
	return f.queue.Retry(ctx, entryID)
}

// Reactions returns an entry's reactions, served from the TTL cache when
// fresh and refetched otherwise.
func (f *EntryFeed) Reactions(ctx context.Context, entryID string) ([]models.Reaction, error) {
	if items, ok := f.cache.Reactions(ctx, entryID); ok {
		return items, nil
	}

	items, err := f.client.ListReactions(ctx, entryID)
	if err != nil {
		return nil, err
	}
	f.cache.SetReactions(ctx, entryID, items)
	return items, nil
}

// Comments returns an entry's comments, served from the TTL cache when
// fresh and refetched otherwise.
func (f *EntryFeed) Comments(ctx context.Context, entryID string) ([]models.Comment, error) {
	if items, ok := f.cache.Comments(ctx, entryID); ok {
		return items, nil
	}

	items, err := f.client.ListComments(ctx, entryID)
	if err != nil {
		return nil, err
	}
	f.cache.SetComments(ctx, entryID, items)
	return items, nil
}
