package cli

import (
	"bufio"
	"context"
	"log"
	"os"
	"time"

	"keepsafe/internal/client/backend"
	"keepsafe/internal/client/cache"
	"keepsafe/internal/client/config"
	"keepsafe/internal/client/queue"
	"keepsafe/internal/client/session"
	"keepsafe/internal/client/storage"
	"keepsafe/internal/client/upload"
	"keepsafe/internal/client/view"
	"keepsafe/internal/logging"

	_ "modernc.org/sqlite"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

// App holds the wiring of the interactive client. The session, queue and
// feed fields are nil until a user logs in.
type App struct {
	config *config.Config
	logger logging.Logger
	api    *backend.HTTPClient
	cache  *cache.EntryCache

	sess  *session.Session
	queue *queue.ProcessingQueue
	feed  *view.EntryFeed

	Mode   Mode
	reader *bufio.Reader
}

func NewApp(c *config.Config, logger logging.Logger) (*App, error) {

	db, err := storage.Open(c.DatabasePath)
	if err != nil {
		log.Printf("error initializing database: %s", err.Error())
		return nil, err
	}

	api := backend.NewHTTPClient(c.ServerURL, "")

	var store storage.DurableStorage = storage.NewSQLiteStorage(db)
	if c.VaultPasscode != "" {
		store, err = storage.Unlock(context.Background(), store, c.VaultPasscode)
		if err != nil {
			log.Printf("error unlocking vault: %s", err.Error())
			return nil, err
		}
	}

	entryCache := cache.New(store, logger)

	return &App{
		config: c,
		logger: logger,
		api:    api,
		cache:  entryCache,
		reader: bufio.NewReader(os.Stdin),
	}, nil
}

func (a *App) setMode(mode Mode) {
	if a.Mode != mode {
		a.Mode = mode
		log.Printf("Switched to %s mode\n", mode)
	}
}

func (a *App) Run(ctx context.Context) {
	defer func() {
		if a.feed != nil {
			a.feed.Close()
		}
	}()
	a.Root(ctx)
}

func (a *App) isLoggedIn() bool {
	return a.sess != nil
}

// startSession builds the queue and feed for the authenticated user.
func (a *App) startSession(ctx context.Context, token string) error {
	sess, err := session.NewFromToken(token)
	if err != nil {
		return err
	}

	a.api.SetToken(token)
	uploader := upload.NewPresignUploader(a.api)

	a.sess = sess
	a.queue = queue.New(a.cache, a.api, uploader, sess, a.logger)
	a.feed = view.NewEntryFeed(sess.UserID, a.cache, a.api, a.queue, a.logger)

	return a.feed.Start(ctx)
}

func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
			err := a.api.Ping(pingCtx)
			cancel()

			if err != nil {
				if a.Mode == ModeOnline {
					a.setMode(ModeOffline)
				}
			} else {
				if a.Mode != ModeOnline {
					a.setMode(ModeOnline)
				}
			}

		case <-ctx.Done():
			return
		}
	}
}

// StartStuckSweeper periodically fails entries whose processing stalled, so
// the UI can offer a retry instead of showing a spinner forever.
func (a *App) StartStuckSweeper(ctx context.Context, interval time.Duration) {

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if a.queue == nil {
				continue
			}
			if n := a.queue.ExpireStuck(ctx); n > 0 {
				log.Printf("Marked %d stalled upload(s) as failed\n", n)
			}

		case <-ctx.Done():
			return
		}
	}
}
