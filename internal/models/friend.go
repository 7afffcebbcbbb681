package models

import (
	"time"

	"github.com/google/uuid"
)

type FriendRequestStatus string

const (
	FriendRequestStatusPending  FriendRequestStatus = "pending"
	FriendRequestStatusAccepted FriendRequestStatus = "accepted"
	FriendRequestStatusRejected FriendRequestStatus = "rejected"
)

// FriendRequest tracks one pending/settled request between two users. At most
// one live pending request exists per unordered pair, in either direction.
type FriendRequest struct {
	ID          int64               `json:"-"`
	PublicID    uuid.UUID           `json:"id"`
	RequesterID int64               `json:"requester_id"`
	ReceiverID  int64               `json:"receiver_id"`
	Status      FriendRequestStatus `json:"status"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
	DeletedAt   *time.Time          `json:"deleted_at,omitempty"`
}

// Friend is one directed edge of a friendship. Edges are always written and
// retired in forward/reverse pairs; reads tolerate a missing half.
type Friend struct {
	ID        int64      `json:"-"`
	UserID    int64      `json:"user_id"`
	FriendID  int64      `json:"friend_id"`
	CreatedAt time.Time  `json:"created_at"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`
}

// FriendWithUser pairs a friendship edge with the other party's display name.
type FriendWithUser struct {
	Friend
	FriendDisplayName string `json:"friend_display_name"`
}

// FriendRequestWithUser pairs a request with the requester's display name.
type FriendRequestWithUser struct {
	FriendRequest
	RequesterDisplayName string `json:"requester_display_name"`
}
