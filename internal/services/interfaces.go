package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/mereck/giftwell/internal/models"
)

// Notifier is the abstract notification sink consumed by the engines. State
// transitions call it best-effort: a Notify failure is logged by the caller
// and never fails the operation that triggered it.
type Notifier interface {
	Notify(ctx context.Context, senderID, targetID int64, title, message string, kind models.NotificationKind) error
}

// EventInviteSender delivers invitation emails. Delivery mechanics live
// outside the engine; failures are logged and swallowed.
type EventInviteSender interface {
	SendEventInvite(ctx context.Context, toEmail, inviterDisplayName, eventName, link string) error
	SendFriendInvite(ctx context.Context, toEmail, inviterDisplayName, link string) error
}

// FriendServiceInterface defines the contract for friendship operations.
type FriendServiceInterface interface {
	SendRequest(ctx context.Context, requesterID, receiverID int64) (*models.FriendRequest, error)
	AcceptRequest(ctx context.Context, requestID, actingUserID int64) (bool, error)
	RejectRequest(ctx context.Context, requestID, actingUserID int64) (bool, error)
	RemoveFriend(ctx context.Context, userID, friendID int64) (bool, error)
	AreFriends(ctx context.Context, userID, otherUserID int64) (bool, error)
	ListFriends(ctx context.Context, userID int64) ([]models.FriendWithUser, error)
	ListPendingRequests(ctx context.Context, userID int64) ([]models.FriendRequestWithUser, error)
	ListSentRequests(ctx context.Context, userID int64) ([]models.FriendRequest, error)
}

// WishlistServiceInterface defines the contract for wishlist store glue.
type WishlistServiceInterface interface {
	Create(ctx context.Context, params models.CreateWishlistParams) (*models.Wishlist, error)
	GetByID(ctx context.Context, wishlistID int64) (*models.Wishlist, error)
	GetByPublicID(ctx context.Context, publicID uuid.UUID) (*models.Wishlist, error)
	UpdateVisibility(ctx context.Context, wishlistID, actorID int64, patch models.WishlistVisibilityPatch) (*models.Wishlist, error)
	Delete(ctx context.Context, wishlistID, actorID int64) error
}

// AccessServiceInterface is the authorization decision surface consulted on
// every wishlist read/write.
type AccessServiceInterface interface {
	CanView(ctx context.Context, wishlistID, userID int64) (bool, error)
	CanEdit(ctx context.Context, wishlistID, userID int64) (bool, error)
	CanViewByPublicID(ctx context.Context, publicID uuid.UUID, userID int64) (bool, error)
	CanEditByPublicID(ctx context.Context, publicID uuid.UUID, userID int64) (bool, error)
}

// ShareLinkServiceInterface defines the contract for sharing-link and direct
// permission-grant operations.
type ShareLinkServiceInterface interface {
	CreateLink(ctx context.Context, wishlistID, actorID int64, permission models.PermissionType, expiresAt *time.Time) (*models.WishlistPermission, string, error)
	RedeemLink(ctx context.Context, token string, userID int64) (bool, error)
	ShareWishlist(ctx context.Context, wishlistID, actorID, targetUserID int64, permission models.PermissionType) (*models.WishlistPermission, error)
	RevokePermission(ctx context.Context, wishlistID, actorID, permissionID int64) error
	ListPermissions(ctx context.Context, wishlistID, actorID int64) ([]models.WishlistPermission, error)
}

// EventServiceInterface defines the contract for event membership and the
// invitation state machine.
type EventServiceInterface interface {
	CreateEvent(ctx context.Context, creatorID int64, name string, eventDate *time.Time) (*models.Event, error)
	GetEventByPublicID(ctx context.Context, publicID uuid.UUID) (*models.Event, error)
	InviteUser(ctx context.Context, eventID, inviterID, userID int64) (*models.EventUser, error)
	InviteByEmail(ctx context.Context, eventID, inviterID int64, email string) (*models.EventUser, string, error)
	AcceptInvitation(ctx context.Context, eventUserID, userID int64) (bool, error)
	RejectInvitation(ctx context.Context, eventUserID, userID int64) (bool, error)
	AcceptInvitationByToken(ctx context.Context, token string, userID int64) (bool, error)
	CancelInvitation(ctx context.Context, eventUserID, inviterID int64) (bool, error)
	ResendInvitation(ctx context.Context, eventUserID, inviterID int64) (bool, error)
	ClaimEmailInvitations(ctx context.Context, userID int64, email string) (int, error)
	AttachWishlist(ctx context.Context, eventID, wishlistID, actorID int64) error
	DetachWishlist(ctx context.Context, eventID, wishlistID, actorID int64) error
	IsEventMember(ctx context.Context, eventID, userID int64) (bool, error)
}

// NotificationServiceInterface defines the contract for the in-app
// notification store behind the Notifier seam.
type NotificationServiceInterface interface {
	Notifier
	List(ctx context.Context, userID int64, params NotificationListParams) ([]models.Notification, error)
	MarkRead(ctx context.Context, userID, notificationID int64) error
	MarkAllRead(ctx context.Context, userID int64) error
	UnreadCount(ctx context.Context, userID int64) (int, error)
}
