package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"keepsafe/internal/logging"
	"keepsafe/internal/server/cache"
	"keepsafe/internal/server/config"
	"keepsafe/internal/server/models"
	"keepsafe/internal/server/repositories/repomanager"
)

const (
	settingsKeyPrefix   = "notif_settings_"
	pushTokensKeyPrefix = "push_tokens_"
)

// PushSender delivers one notification to a set of device tokens.
type PushSender interface {
	Send(ctx context.Context, tokens []string, title, body string) error
}

// LogPushSender writes deliveries to the log instead of a push provider.
type LogPushSender struct {
	log logging.Logger
}

func NewLogPushSender(log logging.Logger) *LogPushSender {
	return &LogPushSender{log: log}
}

func (s *LogPushSender) Send(ctx context.Context, tokens []string, title, body string) error {
	s.log.Info(ctx, "push notification", "devices", len(tokens), "title", title, "body", body)
	return nil
}

// NotificationService enqueues share notifications when entries are created
// and periodically dispatches the pending queue. Notification work never
// fails an entry write: every error here is logged and swallowed.
type NotificationService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	cache       cache.Cache
	cacheTTL    time.Duration
	sender      PushSender
	log         logging.Logger
}

func NewNotificationService(db *sql.DB, m repomanager.RepositoryManager, c cache.Cache, cfg *config.Config, sender PushSender, log logging.Logger) *NotificationService {
	return &NotificationService{
		db:          db,
		repomanager: m,
		cache:       c,
		cacheTTL:    cfg.CacheTTL,
		sender:      sender,
		log:         log,
	}
}

// EnqueueForEntry queues one notification per recipient of a freshly created
// entry. Recipients are the shared set minus the owner; the everyone flag
// resolves to the owner's friends. Private entries notify nobody. Users who
// disabled entry notifications are skipped; users without stored settings
// count as enabled.
func (s *NotificationService) EnqueueForEntry(ctx context.Context, entry *models.Entry) {
	recipients, err := s.resolveRecipients(ctx, entry)
	if err != nil {
		s.log.Warn(ctx, "notification recipients not resolved", "entry_id", entry.ID, "error", err)
		return
	}
	if len(recipients) == 0 {
		return
	}

	settings := s.loadSettings(ctx, recipients)

	repo := s.repomanager.Notifications(s.db)
	title := "New shared entry"
	body := fmt.Sprintf("A friend shared a %s with you", entry.Type)

	for _, userID := range recipients {
		if st, ok := settings[userID]; ok && !st.EntriesEnabled {
			continue
		}
		n := &models.Notification{UserID: userID, EntryID: entry.ID, Title: title, Body: body}
		if err := repo.Enqueue(ctx, n); err != nil {
			s.log.Warn(ctx, "notification not enqueued", "user_id", userID, "error", err)
		}
	}
}

func (s *NotificationService) resolveRecipients(ctx context.Context, entry *models.Entry) ([]string, error) {
	if entry.IsPrivate {
		return nil, nil
	}

	if entry.SharedWithEveryone {
		return s.repomanager.Friendships(s.db).ListFriendIDs(ctx, entry.UserID)
	}

	var recipients []string
	for _, id := range entry.SharedWith {
		if id != entry.UserID {
			recipients = append(recipients, id)
		}
	}
	return recipients, nil
}

// loadSettings returns stored notification settings for the given users,
// served from the TTL cache where fresh. Cache failures fall back to the
// database; database failures leave the user absent from the map, which
// callers treat as notifications enabled.
func (s *NotificationService) loadSettings(ctx context.Context, userIDs []string) map[string]*models.NotificationSetting {
	out := make(map[string]*models.NotificationSetting)

	var misses []string
	for _, id := range userIDs {
		raw, ok, err := s.cache.Get(ctx, settingsKeyPrefix+id)
		if err != nil || !ok {
			misses = append(misses, id)
			continue
		}
		setting := &models.NotificationSetting{}
		if err := json.Unmarshal(raw, setting); err != nil {
			misses = append(misses, id)
			continue
		}
		out[id] = setting
	}

	if len(misses) == 0 {
		return out
	}

	stored, err := s.repomanager.Notifications(s.db).GetSettings(ctx, misses)
	if err != nil {
		s.log.Warn(ctx, "notification settings lookup failed", "error", err)
		return out
	}

	for id, setting := range stored {
		out[id] = setting
		if raw, err := json.Marshal(setting); err == nil {
			if err := s.cache.Set(ctx, settingsKeyPrefix+id, raw, s.cacheTTL); err != nil {
				s.log.Warn(ctx, "notification settings not cached", "user_id", id, "error", err)
			}
		}
	}

	return out
}

// loadPushTokens returns the user's device tokens via the TTL cache.
func (s *NotificationService) loadPushTokens(ctx context.Context, userID string) []string {
	raw, ok, err := s.cache.Get(ctx, pushTokensKeyPrefix+userID)
	if err == nil && ok {
		var tokens []string
		if err := json.Unmarshal(raw, &tokens); err == nil {
			return tokens
		}
	}

	stored, err := s.repomanager.Notifications(s.db).ListPushTokens(ctx, []string{userID})
	if err != nil {
		s.log.Warn(ctx, "push token lookup failed", "user_id", userID, "error", err)
		return nil
	}

	tokens := make([]string, 0, len(stored))
	for _, t := range stored {
		tokens = append(tokens, t.Token)
	}

	if raw, err := json.Marshal(tokens); err == nil {
		if err := s.cache.Set(ctx, pushTokensKeyPrefix+userID, raw, s.cacheTTL); err != nil {
			s.log.Warn(ctx, "push tokens not cached", "user_id", userID, "error", err)
		}
	}

	return tokens
}

// RegisterPushToken stores a device token and invalidates the cached set.
func (s *NotificationService) RegisterPushToken(ctx context.Context, token *models.PushToken) error {
	if err := s.repomanager.Notifications(s.db).UpsertPushToken(ctx, token); err != nil {
		return err
	}
	if err := s.cache.Delete(ctx, pushTokensKeyPrefix+token.UserID); err != nil {
		s.log.Warn(ctx, "push token cache not invalidated", "user_id", token.UserID, "error", err)
	}
	return nil
}

// UpdateSettings stores the user's notification settings and invalidates
// the cached copy.
func (s *NotificationService) UpdateSettings(ctx context.Context, setting *models.NotificationSetting) error {
	if err := s.repomanager.Notifications(s.db).UpsertSettings(ctx, setting); err != nil {
		return err
	}
	if err := s.cache.Delete(ctx, settingsKeyPrefix+setting.UserID); err != nil {
		s.log.Warn(ctx, "settings cache not invalidated", "user_id", setting.UserID, "error", err)
	}
	return nil
}

// Dispatch delivers the pending queue: tokens of all of a user's devices are
// flattened into one send. Returns the number of notifications dispatched.
func (s *NotificationService) Dispatch(ctx context.Context) int {
	repo := s.repomanager.Notifications(s.db)

	pending, err := repo.ListPending(ctx, 100)
	if err != nil {
		s.log.Warn(ctx, "pending notifications not listed", "error", err)
		return 0
	}

	var dispatched []string
	for _, n := range pending {
		tokens := s.loadPushTokens(ctx, n.UserID)
		if len(tokens) > 0 {
			if err := s.sender.Send(ctx, tokens, n.Title, n.Body); err != nil {
				s.log.Warn(ctx, "push delivery failed", "notification_id", n.ID, "error", err)
				continue
			}
		}
		dispatched = append(dispatched, n.ID)
	}

	if err := repo.MarkDispatched(ctx, dispatched); err != nil {
		s.log.Warn(ctx, "notifications not marked dispatched", "error", err)
		return 0
	}

	return len(dispatched)
}

// RunDispatcher dispatches the queue on the given interval until ctx ends.
func (s *NotificationService) RunDispatcher(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if n := s.Dispatch(ctx); n > 0 {
				s.log.Info(ctx, "notifications dispatched", "count", n)
			}
		case <-ctx.Done():
			return
		}
	}
}
