package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/mereck/giftwell/internal/logging"
	"github.com/mereck/giftwell/internal/models"
)

// NotificationListParams narrows a notification listing.
type NotificationListParams struct {
	UnreadOnly bool
	Limit      int
	Offset     int
}

const (
	unreadCountKeyFormat = "notifications:unread:%d"
	unreadCountTTL       = 24 * time.Hour
	defaultListLimit     = 50
	maxListLimit         = 200
)

// NotificationService is the concrete Notifier: it persists in-app
// notifications and keeps a per-user unread counter in Redis so the badge
// read path stays off Postgres. The counter is a cache; Postgres remains the
// source of truth and repopulates it on a miss.
type NotificationService struct {
	db    DB
	redis *redis.Client
}

func NewNotificationService(db DB, redisClient *redis.Client) *NotificationService {
	return &NotificationService{db: db, redis: redisClient}
}

// Notify stores a notification for targetID. A Redis failure after the insert
// only logs; the notification itself is durable.
func (s *NotificationService) Notify(ctx context.Context, senderID, targetID int64, title, message string, kind models.NotificationKind) error {
	var actorID *int64
	if senderID > 0 {
		actorID = &senderID
	}

	_, err := s.db.Exec(ctx,
		`INSERT INTO notifications (public_id, user_id, actor_user_id, kind, title, message)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		uuid.New(), targetID, actorID, kind, title, message,
	)
	if err != nil {
		return fmt.Errorf("creating notification: %w", err)
	}

	s.incrUnread(ctx, targetID)
	return nil
}

func (s *NotificationService) List(ctx context.Context, userID int64, params NotificationListParams) ([]models.Notification, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	offset := params.Offset
	if offset < 0 {
		offset = 0
	}

	query := `SELECT id, public_id, user_id, actor_user_id, kind, title, message, read_at, created_at
	          FROM notifications
	          WHERE user_id = $1`
	if params.UnreadOnly {
		query += " AND read_at IS NULL"
	}
	query += " ORDER BY created_at DESC LIMIT $2 OFFSET $3"

	rows, err := s.db.Query(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("listing notifications: %w", err)
	}
	defer rows.Close()

	notifications := []models.Notification{}
	for rows.Next() {
		var n models.Notification
		err := rows.Scan(&n.ID, &n.PublicID, &n.UserID, &n.ActorUserID,
			&n.Kind, &n.Title, &n.Message, &n.ReadAt, &n.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scanning notification: %w", err)
		}
		notifications = append(notifications, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating notifications: %w", err)
	}

	return notifications, nil
}

// MarkRead is idempotent: an unknown, foreign, or already-read notification
// is a no-op.
func (s *NotificationService) MarkRead(ctx context.Context, userID, notificationID int64) error {
	result, err := s.db.Exec(ctx,
		`UPDATE notifications SET read_at = NOW()
		 WHERE id = $1 AND user_id = $2 AND read_at IS NULL`,
		notificationID, userID,
	)
	if err != nil {
		return fmt.Errorf("marking notification read: %w", err)
	}
	if result.RowsAffected() > 0 {
		s.decrUnread(ctx, userID)
	}
	return nil
}

func (s *NotificationService) MarkAllRead(ctx context.Context, userID int64) error {
	_, err := s.db.Exec(ctx,
		"UPDATE notifications SET read_at = NOW() WHERE user_id = $1 AND read_at IS NULL",
		userID,
	)
	if err != nil {
		return fmt.Errorf("marking notifications read: %w", err)
	}

	s.clearUnread(ctx, userID)
	return nil
}

// UnreadCount serves the counter from Redis when possible and falls back to
// a Postgres count, repopulating the cache on the way out.
func (s *NotificationService) UnreadCount(ctx context.Context, userID int64) (int, error) {
	if s.redis != nil {
		count, err := s.redis.Get(ctx, unreadCountKey(userID)).Int()
		if err == nil {
			return count, nil
		}
		if err != redis.Nil {
			logging.Warn("Redis unread count read failed", map[string]interface{}{
				"error":   err.Error(),
				"user_id": userID,
			})
		}
	}

	var count int
	err := s.db.QueryRow(ctx,
		"SELECT COUNT(*) FROM notifications WHERE user_id = $1 AND read_at IS NULL",
		userID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting unread notifications: %w", err)
	}

	if s.redis != nil && count > 0 {
		if err := s.redis.Set(ctx, unreadCountKey(userID), count, unreadCountTTL).Err(); err != nil {
			logging.Warn("Redis unread count set failed", map[string]interface{}{
				"error":   err.Error(),
				"user_id": userID,
			})
		}
	}

	return count, nil
}

func unreadCountKey(userID int64) string {
	return fmt.Sprintf(unreadCountKeyFormat, userID)
}

func (s *NotificationService) incrUnread(ctx context.Context, userID int64) {
	if s.redis == nil {
		return
	}
	key := unreadCountKey(userID)
	if err := s.redis.Incr(ctx, key).Err(); err != nil {
		logging.Warn("Redis unread count incr failed", map[string]interface{}{
			"error":   err.Error(),
			"user_id": userID,
		})
		return
	}
	_ = s.redis.Expire(ctx, key, unreadCountTTL).Err()
}

func (s *NotificationService) decrUnread(ctx context.Context, userID int64) {
	if s.redis == nil {
		return
	}
	key := unreadCountKey(userID)
	count, err := s.redis.Decr(ctx, key).Result()
	if err != nil {
		logging.Warn("Redis unread count decr failed", map[string]interface{}{
			"error":   err.Error(),
			"user_id": userID,
		})
		return
	}
	if count <= 0 {
		_ = s.redis.Del(ctx, key).Err()
	}
}

func (s *NotificationService) clearUnread(ctx context.Context, userID int64) {
	if s.redis == nil {
		return
	}
	if err := s.redis.Del(ctx, unreadCountKey(userID)).Err(); err != nil {
		logging.Warn("Redis unread count clear failed", map[string]interface{}{
			"error":   err.Error(),
			"user_id": userID,
		})
	}
}
