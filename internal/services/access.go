package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// AccessService computes VIEW/EDIT eligibility for a wishlist. It is a pure
// decision surface: lack of access is a false result, never an error. The
// only error outcomes are store failures and a wishlist that is absent or
// soft-deleted (ErrWishlistNotFound).
type AccessService struct {
	db DB
}

func NewAccessService(db DB) *AccessService {
	return &AccessService{db: db}
}

type wishlistAccessRow struct {
	id            int64
	ownerID       int64
	eventID       *int64
	isPrivate     bool
	isFriendsOnly bool
	collaborative bool
}

// CanView checks, in order: ownership, an explicit claimed grant, the
// friendship bypass (open lists only: neither private nor friends-only), and
// event membership. First hit wins.
func (s *AccessService) CanView(ctx context.Context, wishlistID, userID int64) (bool, error) {
	w, err := s.load(ctx, "id = $1", wishlistID)
	if err != nil {
		return false, err
	}
	return s.canView(ctx, w, userID)
}

// CanEdit checks ownership, the collaborative path (event members and any
// grant holder may edit a collaborative list), and explicit edit/admin grants.
func (s *AccessService) CanEdit(ctx context.Context, wishlistID, userID int64) (bool, error) {
	w, err := s.load(ctx, "id = $1", wishlistID)
	if err != nil {
		return false, err
	}
	return s.canEdit(ctx, w, userID)
}

func (s *AccessService) CanViewByPublicID(ctx context.Context, publicID uuid.UUID, userID int64) (bool, error) {
	w, err := s.load(ctx, "public_id = $1", publicID)
	if err != nil {
		return false, err
	}
	return s.canView(ctx, w, userID)
}

func (s *AccessService) CanEditByPublicID(ctx context.Context, publicID uuid.UUID, userID int64) (bool, error) {
	w, err := s.load(ctx, "public_id = $1", publicID)
	if err != nil {
		return false, err
	}
	return s.canEdit(ctx, w, userID)
}

func (s *AccessService) canView(ctx context.Context, w *wishlistAccessRow, userID int64) (bool, error) {
	if w.ownerID == userID {
		return true, nil
	}

	granted, err := hasClaimedPermission(ctx, s.db, w.id, userID)
	if err != nil {
		return false, err
	}
	if granted {
		return true, nil
	}

	// Friendship alone opens a list only when it is neither private nor
	// friends-only. A friends-only list demands an explicit grant or event
	// membership on top of the friendship.
	if !w.isPrivate && !w.isFriendsOnly {
		friends, err := friendEdgeExists(ctx, s.db, w.ownerID, userID)
		if err != nil {
			return false, err
		}
		if friends {
			return true, nil
		}
	}

	if w.eventID != nil {
		member, err := eventMemberExists(ctx, s.db, *w.eventID, userID)
		if err != nil {
			return false, err
		}
		if member {
			return true, nil
		}
	}

	return false, nil
}

func (s *AccessService) canEdit(ctx context.Context, w *wishlistAccessRow, userID int64) (bool, error) {
	if w.ownerID == userID {
		return true, nil
	}

	if w.collaborative {
		if w.eventID != nil {
			member, err := eventMemberExists(ctx, s.db, *w.eventID, userID)
			if err != nil {
				return false, err
			}
			if member {
				return true, nil
			}
		}
		granted, err := hasClaimedPermission(ctx, s.db, w.id, userID)
		if err != nil {
			return false, err
		}
		if granted {
			return true, nil
		}
	}

	var canEdit bool
	err := s.db.QueryRow(ctx,
		`SELECT EXISTS(
			SELECT 1 FROM wishlist_permissions
			WHERE wishlist_id = $1 AND user_id = $2
			  AND permission IN ('edit', 'admin')
			  AND deleted_at IS NULL
		)`,
		w.id, userID,
	).Scan(&canEdit)
	if err != nil {
		return false, fmt.Errorf("checking edit permission: %w", err)
	}
	return canEdit, nil
}

func (s *AccessService) load(ctx context.Context, where string, arg any) (*wishlistAccessRow, error) {
	w := &wishlistAccessRow{}
	err := s.db.QueryRow(ctx,
		`SELECT id, owner_id, event_id, is_private, is_friends_only, is_collaborative
		 FROM wishlists
		 WHERE `+where+` AND deleted_at IS NULL`,
		arg,
	).Scan(&w.id, &w.ownerID, &w.eventID, &w.isPrivate, &w.isFriendsOnly, &w.collaborative)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrWishlistNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("loading wishlist for access check: %w", err)
	}
	return w, nil
}

// hasClaimedPermission reports whether userID holds any live claimed grant on
// the wishlist, of any permission type.
func hasClaimedPermission(ctx context.Context, db DBConn, wishlistID, userID int64) (bool, error) {
	var granted bool
	err := db.QueryRow(ctx,
		`SELECT EXISTS(
			SELECT 1 FROM wishlist_permissions
			WHERE wishlist_id = $1 AND user_id = $2 AND deleted_at IS NULL
		)`,
		wishlistID, userID,
	).Scan(&granted)
	if err != nil {
		return false, fmt.Errorf("checking permission: %w", err)
	}
	return granted, nil
}

// friendEdgeExists is the defensive either-direction friendship read shared
// by the resolver; it tolerates a pair with one retired half.
func friendEdgeExists(ctx context.Context, db DBConn, userID, otherUserID int64) (bool, error) {
	var friends bool
	err := db.QueryRow(ctx,
		`SELECT EXISTS(
			SELECT 1 FROM friends
			WHERE ((user_id = $1 AND friend_id = $2)
			    OR (user_id = $2 AND friend_id = $1))
			  AND deleted_at IS NULL
		)`,
		userID, otherUserID,
	).Scan(&friends)
	if err != nil {
		return false, fmt.Errorf("checking friendship: %w", err)
	}
	return friends, nil
}

// eventMemberExists reports whether userID is the event's creator or holds a
// live accepted membership row.
func eventMemberExists(ctx context.Context, db DBConn, eventID, userID int64) (bool, error) {
	var member bool
	err := db.QueryRow(ctx,
		`SELECT EXISTS(
			SELECT 1 FROM events e
			WHERE e.id = $1 AND e.deleted_at IS NULL
			  AND (e.created_by = $2 OR EXISTS(
			    SELECT 1 FROM event_users eu
			    WHERE eu.event_id = e.id AND eu.user_id = $2
			      AND eu.status = 'accepted' AND eu.deleted_at IS NULL
			  ))
		)`,
		eventID, userID,
	).Scan(&member)
	if err != nil {
		return false, fmt.Errorf("checking event membership: %w", err)
	}
	return member, nil
}
