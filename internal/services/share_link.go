package services

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mereck/giftwell/internal/logging"
	"github.com/mereck/giftwell/internal/models"
)

var (
	ErrPermissionNotFound    = errors.New("wishlist permission not found")
	ErrInvalidPermissionType = errors.New("invalid permission type")
)

// ShareLinkService issues and redeems wishlist sharing capabilities. A link
// is an unclaimed permission row holding the SHA-256 hash of an opaque token;
// whoever redeems the token first owns the grant. It also handles direct
// user-to-user grants, which skip the capability step entirely.
type ShareLinkService struct {
	db             DB
	notifier       Notifier
	linkExpiryDays int
}

// NewShareLinkService wires the sharing store. linkExpiryDays is the default
// lifetime stamped on links issued without an explicit expiry; zero disables
// the default and such links never expire.
func NewShareLinkService(db DB, notifier Notifier, linkExpiryDays int) *ShareLinkService {
	return &ShareLinkService{db: db, notifier: notifier, linkExpiryDays: linkExpiryDays}
}

// CreateLink persists an unclaimed permission carrying a fresh capability
// token and returns the literal token exactly once. Only the owner or a
// holder of a claimed admin grant may issue links. A nil expiresAt falls back
// to the service default.
func (s *ShareLinkService) CreateLink(ctx context.Context, wishlistID, actorID int64, permission models.PermissionType, expiresAt *time.Time) (*models.WishlistPermission, string, error) {
	if !permission.Valid() {
		return nil, "", ErrInvalidPermissionType
	}

	if err := s.authorizeManage(ctx, wishlistID, actorID); err != nil {
		return nil, "", err
	}

	if expiresAt == nil && s.linkExpiryDays > 0 {
		t := time.Now().AddDate(0, 0, s.linkExpiryDays)
		expiresAt = &t
	}

	token, err := generateShareToken()
	if err != nil {
		return nil, "", err
	}
	tokenHash := hashShareToken(token)

	perm := &models.WishlistPermission{}
	err = s.db.QueryRow(ctx,
		`INSERT INTO wishlist_permissions (public_id, wishlist_id, permission, invite_token_hash, expires_at)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, public_id, wishlist_id, user_id, permission, expires_at, created_at, updated_at`,
		uuid.New(), wishlistID, permission, tokenHash, expiresAt,
	).Scan(&perm.ID, &perm.PublicID, &perm.WishlistID, &perm.UserID,
		&perm.Permission, &perm.ExpiresAt, &perm.CreatedAt, &perm.UpdatedAt)
	if err != nil {
		return nil, "", fmt.Errorf("creating share link: %w", err)
	}

	return perm, token, nil
}

// RedeemLink claims the permission behind the token for userID. The claim is
// a single compare-and-swap update: under concurrent redemption of one token
// at most one caller's update matches, the rest observe (false, nil). A
// missing, already-claimed, revoked, or expired token is the same false to
// the caller.
func (s *ShareLinkService) RedeemLink(ctx context.Context, token string, userID int64) (bool, error) {
	if token == "" {
		return false, nil
	}
	tokenHash := hashShareToken(token)

	result, err := s.db.Exec(ctx,
		`UPDATE wishlist_permissions
		 SET user_id = $1, invite_token_hash = NULL, expires_at = NULL, updated_at = NOW()
		 WHERE invite_token_hash = $2
		   AND user_id IS NULL
		   AND deleted_at IS NULL
		   AND (expires_at IS NULL OR expires_at > NOW())`,
		userID, tokenHash,
	)
	if err != nil {
		return false, fmt.Errorf("redeeming share link: %w", err)
	}
	return result.RowsAffected() > 0, nil
}

// ShareWishlist grants targetUserID a claimed permission directly. An
// existing live grant for the target is updated in place rather than
// duplicated.
func (s *ShareLinkService) ShareWishlist(ctx context.Context, wishlistID, actorID, targetUserID int64, permission models.PermissionType) (*models.WishlistPermission, error) {
	if !permission.Valid() {
		return nil, ErrInvalidPermissionType
	}

	if err := s.authorizeManage(ctx, wishlistID, actorID); err != nil {
		return nil, err
	}

	var targetExists bool
	err := s.db.QueryRow(ctx,
		"SELECT EXISTS(SELECT 1 FROM users WHERE id = $1)",
		targetUserID,
	).Scan(&targetExists)
	if err != nil {
		return nil, fmt.Errorf("checking target user: %w", err)
	}
	if !targetExists {
		return nil, ErrUserNotFound
	}

	perm := &models.WishlistPermission{}
	scan := func(r Row) error {
		return r.Scan(&perm.ID, &perm.PublicID, &perm.WishlistID, &perm.UserID,
			&perm.Permission, &perm.ExpiresAt, &perm.CreatedAt, &perm.UpdatedAt)
	}

	err = scan(s.db.QueryRow(ctx,
		`UPDATE wishlist_permissions
		 SET permission = $1, updated_at = NOW()
		 WHERE wishlist_id = $2 AND user_id = $3 AND deleted_at IS NULL
		 RETURNING id, public_id, wishlist_id, user_id, permission, expires_at, created_at, updated_at`,
		permission, wishlistID, targetUserID,
	))
	if err != nil {
		if !isNoRows(err) {
			return nil, fmt.Errorf("updating permission: %w", err)
		}
		err = scan(s.db.QueryRow(ctx,
			`INSERT INTO wishlist_permissions (public_id, wishlist_id, user_id, permission)
			 VALUES ($1, $2, $3, $4)
			 RETURNING id, public_id, wishlist_id, user_id, permission, expires_at, created_at, updated_at`,
			uuid.New(), wishlistID, targetUserID, permission,
		))
		if err != nil {
			return nil, fmt.Errorf("creating permission: %w", err)
		}
	}

	s.notify(ctx, actorID, targetUserID,
		"Wishlist shared with you", "A wishlist has been shared with you.",
		models.NotificationKindWishlistShared)

	return perm, nil
}

// RevokePermission soft-deletes a claimed grant or an unredeemed link.
func (s *ShareLinkService) RevokePermission(ctx context.Context, wishlistID, actorID, permissionID int64) error {
	if err := s.authorizeManage(ctx, wishlistID, actorID); err != nil {
		return err
	}

	result, err := s.db.Exec(ctx,
		`UPDATE wishlist_permissions
		 SET deleted_at = NOW(), updated_at = NOW()
		 WHERE id = $1 AND wishlist_id = $2 AND deleted_at IS NULL`,
		permissionID, wishlistID,
	)
	if err != nil {
		return fmt.Errorf("revoking permission: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrPermissionNotFound
	}
	return nil
}

// ListPermissions returns the live permission rows for a wishlist, claimed
// grants and outstanding links alike. Token hashes never leave the store.
func (s *ShareLinkService) ListPermissions(ctx context.Context, wishlistID, actorID int64) ([]models.WishlistPermission, error) {
	if err := s.authorizeManage(ctx, wishlistID, actorID); err != nil {
		return nil, err
	}

	rows, err := s.db.Query(ctx,
		`SELECT id, public_id, wishlist_id, user_id, permission, expires_at, created_at, updated_at
		 FROM wishlist_permissions
		 WHERE wishlist_id = $1 AND deleted_at IS NULL
		 ORDER BY created_at DESC`,
		wishlistID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing permissions: %w", err)
	}
	defer rows.Close()

	var perms []models.WishlistPermission
	for rows.Next() {
		var p models.WishlistPermission
		if err := rows.Scan(&p.ID, &p.PublicID, &p.WishlistID, &p.UserID,
			&p.Permission, &p.ExpiresAt, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning permission: %w", err)
		}
		perms = append(perms, p)
	}

	if perms == nil {
		perms = []models.WishlistPermission{}
	}
	return perms, nil
}

// authorizeManage allows the wishlist owner and holders of a claimed admin
// grant to manage sharing.
func (s *ShareLinkService) authorizeManage(ctx context.Context, wishlistID, actorID int64) error {
	var ownerID int64
	err := s.db.QueryRow(ctx,
		"SELECT owner_id FROM wishlists WHERE id = $1 AND deleted_at IS NULL",
		wishlistID,
	).Scan(&ownerID)
	if isNoRows(err) {
		return ErrWishlistNotFound
	}
	if err != nil {
		return fmt.Errorf("loading wishlist: %w", err)
	}
	if ownerID == actorID {
		return nil
	}

	var isAdmin bool
	err = s.db.QueryRow(ctx,
		`SELECT EXISTS(
			SELECT 1 FROM wishlist_permissions
			WHERE wishlist_id = $1 AND user_id = $2
			  AND permission = 'admin' AND deleted_at IS NULL
		)`,
		wishlistID, actorID,
	).Scan(&isAdmin)
	if err != nil {
		return fmt.Errorf("checking admin grant: %w", err)
	}
	if !isAdmin {
		return ErrNotWishlistOwner
	}
	return nil
}

func (s *ShareLinkService) notify(ctx context.Context, senderID, targetID int64, title, message string, kind models.NotificationKind) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Notify(ctx, senderID, targetID, title, message, kind); err != nil {
		logging.Warn("Failed to send notification", map[string]interface{}{
			"error":  err.Error(),
			"kind":   string(kind),
			"target": targetID,
		})
	}
}

// generateShareToken returns 32 random bytes in the URL-safe base64 alphabet,
// usable directly as a path or query segment.
func generateShareToken() (string, error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("generating share token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(bytes), nil
}

// hashShareToken produces the at-rest form of a token. Only hashes are
// persisted; a leaked table never yields redeemable tokens.
func hashShareToken(token string) string {
	hash := sha256.Sum256([]byte(token))
	return hex.EncodeToString(hash[:])
}
