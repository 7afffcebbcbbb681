package models

import (
	"time"

	"github.com/google/uuid"
)

type NotificationKind string

const (
	NotificationKindFriendRequestReceived NotificationKind = "friend_request_received"
	NotificationKindFriendRequestAccepted NotificationKind = "friend_request_accepted"
	NotificationKindEventInviteReceived   NotificationKind = "event_invite_received"
	NotificationKindEventInviteAccepted   NotificationKind = "event_invite_accepted"
	NotificationKindWishlistShared        NotificationKind = "wishlist_shared"
)

type Notification struct {
	ID          int64            `json:"-"`
	PublicID    uuid.UUID        `json:"id"`
	UserID      int64            `json:"user_id"`
	ActorUserID *int64           `json:"actor_user_id,omitempty"`
	Kind        NotificationKind `json:"kind"`
	Title       string           `json:"title"`
	Message     string           `json:"message"`
	ReadAt      *time.Time       `json:"read_at,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
}
