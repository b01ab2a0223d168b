// Package queue runs entry-creation jobs in the foreground task runner:
// upload the captured media, persist the row against the backend, and
// reconcile the optimistic cache with the outcome. This is the retry and
// recovery boundary of the client.
package queue

import (
	"context"
	"errors"
	"fmt"
	"time"

	"keepsafe/internal/client/backend"
	"keepsafe/internal/client/cache"
	"keepsafe/internal/client/models"
	"keepsafe/internal/client/session"
	"keepsafe/internal/client/upload"
	"keepsafe/internal/common"
	"keepsafe/internal/logging"
)

// DefaultStuckAfter is how long an entry may sit in processing before the
// watchdog fails it. The original pipeline left such entries stuck until an
// app restart; the watchdog turns them into retryable failures instead.
const DefaultStuckAfter = 10 * time.Minute

// ProcessingQueue performs the side-effecting work for one job exactly once
// per invocation and reports the outcome through the cache. Jobs are not
// retried automatically; Retry re-enqueues an equivalent job explicitly.
type ProcessingQueue struct {
	cache      *cache.EntryCache
	client     backend.Client
	uploader   upload.Uploader
	sess       *session.Session
	log        logging.Logger
	stuckAfter time.Duration
	now        func() time.Time
}

type Option func(*ProcessingQueue)

// WithStuckAfter overrides the processing watchdog deadline.
func WithStuckAfter(d time.Duration) Option {
	return func(q *ProcessingQueue) { q.stuckAfter = d }
}

// WithClock injects a clock for watchdog tests.
func WithClock(now func() time.Time) Option {
	return func(q *ProcessingQueue) { q.now = now }
}

func New(c *cache.EntryCache, client backend.Client, uploader upload.Uploader, sess *session.Session, log logging.Logger, opts ...Option) *ProcessingQueue {
	q := &ProcessingQueue{
		cache:      c,
		client:     client,
		uploader:   uploader,
		sess:       sess,
		log:        log,
		stuckAfter: DefaultStuckAfter,
		now:        time.Now,
	}
	for _, o := range opts {
		o(q)
	}
	return q
}

// Enqueue runs the job. The caller is expected to have inserted the
// optimistic entry already; on failure the entry is left in the cache with
// status failed so the UI can offer a retry, and the classified error is
// returned for callers that want to surface it.
func (q *ProcessingQueue) Enqueue(ctx context.Context, job models.QueueJob) error {
	if err := q.sess.RequireValid(); err != nil {
		q.cache.MarkFailed(ctx, job.UserID, job.EntryID, "session expired")
		return err
	}

	q.cache.MarkProcessing(ctx, job.UserID, job.EntryID)
	return q.run(ctx, job)
}

// Retry reconstructs the job for a cached entry and re-runs the full
// processing path from scratch (no partial resume of a half-done upload).
// Returns ErrNotFound when the entry is no longer cached.
func (q *ProcessingQueue) Retry(ctx context.Context, entryID string) error {
	userID := q.sess.UserID

	var found *models.Entry
	for _, e := range q.cache.Get(ctx, userID) {
		if e.ID == entryID {
			found = &e
			break
		}
	}
	if found == nil {
		q.log.Warn(ctx, "retry requested for uncached entry", "entry_id", entryID)
		return fmt.Errorf("%w: entry %s", common.ErrNotFound, entryID)
	}

	q.log.Info(ctx, "retrying entry", "entry_id", entryID, "type", found.Type)
	return q.Enqueue(ctx, models.JobFromEntry(*found))
}

func (q *ProcessingQueue) run(ctx context.Context, job models.QueueJob) error {
	contentType := upload.ContentTypeFor(job.Capture.Type)
	key := upload.StorageKey(job.UserID, job.EntryID, job.Capture.Type)

	publicURL, err := q.uploader.Upload(ctx, job.Capture.SourceURI, key, contentType)
	if err != nil {
		if !errors.Is(err, common.ErrUploadFailed) {
			err = fmt.Errorf("%w: %w", common.ErrUploadFailed, err)
		}
		q.fail(ctx, job, err)
		return err
	}

	row := job.OptimisticEntry()
	row.ContentURL = publicURL
	row.Status = ""

	confirmed, err := q.client.UpsertEntry(ctx, row)
	if err != nil {
		err = fmt.Errorf("%w: %w", common.ErrPersistenceFailed, err)
		q.fail(ctx, job, err)
		return err
	}

	// The optimistic row becomes the authoritative one in place.
	q.cache.Replace(ctx, job.UserID, job.EntryID, &confirmed)
	q.log.Info(ctx, "entry persisted", "entry_id", confirmed.ID, "temp_id", job.EntryID)
	return nil
}

func (q *ProcessingQueue) fail(ctx context.Context, job models.QueueJob, err error) {
	q.log.Error(ctx, "entry job failed", "entry_id", job.EntryID, "error", err)
	q.cache.MarkFailed(ctx, job.UserID, job.EntryID, err.Error())
}

// ExpireStuck fails entries that have been processing longer than the
// watchdog deadline, returning how many were transitioned. Run it from the
// embedder's housekeeping tick.
func (q *ProcessingQueue) ExpireStuck(ctx context.Context) int {
	userID := q.sess.UserID
	deadline := q.now().UTC().Add(-q.stuckAfter)

	expired := 0
	for _, e := range q.cache.Get(ctx, userID) {
		if e.Status != models.StatusProcessing || e.ProcessingAt == nil {
			continue
		}
		if e.ProcessingAt.After(deadline) {
			continue
		}
		q.cache.MarkFailed(ctx, userID, e.ID, "processing timed out")
		expired++
	}

	if expired > 0 {
		q.log.Warn(ctx, "expired stuck entries", "count", expired)
	}
	return expired
}
