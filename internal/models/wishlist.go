package models

import (
	"time"

	"github.com/google/uuid"
)

type PermissionType string

const (
	PermissionView  PermissionType = "view"
	PermissionEdit  PermissionType = "edit"
	PermissionAdmin PermissionType = "admin"
)

// Valid reports whether p is one of the known permission types.
func (p PermissionType) Valid() bool {
	switch p {
	case PermissionView, PermissionEdit, PermissionAdmin:
		return true
	}
	return false
}

// Wishlist belongs to an owner and may additionally be attached to one event.
// A nil EventID means the list is personal.
type Wishlist struct {
	ID              int64      `json:"-"`
	PublicID        uuid.UUID  `json:"id"`
	OwnerID         int64      `json:"owner_id"`
	EventID         *int64     `json:"event_id,omitempty"`
	Name            string     `json:"name"`
	IsPrivate       bool       `json:"is_private"`
	IsFriendsOnly   bool       `json:"is_friends_only"`
	IsCollaborative bool       `json:"is_collaborative"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
	DeletedAt       *time.Time `json:"deleted_at,omitempty"`
}

// WishlistPermission is either a claimed grant (UserID set) or an unclaimed
// share-link capability (token hash held server-side, UserID nil). The two
// states are mutually exclusive; the schema enforces it.
type WishlistPermission struct {
	ID         int64          `json:"-"`
	PublicID   uuid.UUID      `json:"id"`
	WishlistID int64          `json:"wishlist_id"`
	UserID     *int64         `json:"user_id,omitempty"`
	Permission PermissionType `json:"permission"`
	ExpiresAt  *time.Time     `json:"expires_at,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  *time.Time     `json:"deleted_at,omitempty"`
}

// Claimed reports whether the permission has been bound to a user.
func (p *WishlistPermission) Claimed() bool {
	return p.UserID != nil
}

type CreateWishlistParams struct {
	OwnerID         int64  `json:"-"`
	Name            string `json:"name"`
	IsPrivate       bool   `json:"is_private"`
	IsFriendsOnly   bool   `json:"is_friends_only"`
	IsCollaborative bool   `json:"is_collaborative"`
}

// WishlistVisibilityPatch updates only the flags that are non-nil.
type WishlistVisibilityPatch struct {
	IsPrivate       *bool `json:"is_private,omitempty"`
	IsFriendsOnly   *bool `json:"is_friends_only,omitempty"`
	IsCollaborative *bool `json:"is_collaborative,omitempty"`
}
