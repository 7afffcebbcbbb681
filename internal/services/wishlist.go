package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/mereck/giftwell/internal/models"
)

var (
	ErrWishlistNotFound  = errors.New("wishlist not found")
	ErrNotWishlistOwner  = errors.New("you do not own this wishlist")
	ErrWishlistNameEmpty = errors.New("wishlist name is required")
)

const wishlistColumns = `id, public_id, owner_id, event_id, name,
	is_private, is_friends_only, is_collaborative, created_at, updated_at`

// WishlistService is the store glue for wishlists themselves. Authorization
// decisions live in AccessService; this service only enforces ownership on
// its own mutations.
type WishlistService struct {
	db DB
}

func NewWishlistService(db DB) *WishlistService {
	return &WishlistService{db: db}
}

func (s *WishlistService) Create(ctx context.Context, params models.CreateWishlistParams) (*models.Wishlist, error) {
	name := strings.TrimSpace(params.Name)
	if name == "" {
		return nil, ErrWishlistNameEmpty
	}

	w := &models.Wishlist{}
	err := s.db.QueryRow(ctx,
		`INSERT INTO wishlists (public_id, owner_id, name, is_private, is_friends_only, is_collaborative)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING `+wishlistColumns,
		uuid.New(), params.OwnerID, name, params.IsPrivate, params.IsFriendsOnly, params.IsCollaborative,
	).Scan(&w.ID, &w.PublicID, &w.OwnerID, &w.EventID, &w.Name,
		&w.IsPrivate, &w.IsFriendsOnly, &w.IsCollaborative, &w.CreatedAt, &w.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("creating wishlist: %w", err)
	}
	return w, nil
}

func (s *WishlistService) GetByID(ctx context.Context, wishlistID int64) (*models.Wishlist, error) {
	return s.get(ctx, "id = $1", wishlistID)
}

func (s *WishlistService) GetByPublicID(ctx context.Context, publicID uuid.UUID) (*models.Wishlist, error) {
	return s.get(ctx, "public_id = $1", publicID)
}

// UpdateVisibility patches the privacy flags. Owner only.
func (s *WishlistService) UpdateVisibility(ctx context.Context, wishlistID, actorID int64, patch models.WishlistVisibilityPatch) (*models.Wishlist, error) {
	w, err := s.GetByID(ctx, wishlistID)
	if err != nil {
		return nil, err
	}
	if w.OwnerID != actorID {
		return nil, ErrNotWishlistOwner
	}

	setClauses := []string{}
	args := []any{}
	idx := 1

	addBool := func(column string, value *bool) {
		if value == nil {
			return
		}
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", column, idx))
		args = append(args, *value)
		idx++
	}

	addBool("is_private", patch.IsPrivate)
	addBool("is_friends_only", patch.IsFriendsOnly)
	addBool("is_collaborative", patch.IsCollaborative)

	if len(setClauses) == 0 {
		return w, nil
	}

	setClauses = append(setClauses, "updated_at = NOW()")
	args = append(args, wishlistID)
	query := fmt.Sprintf(
		"UPDATE wishlists SET %s WHERE id = $%d AND deleted_at IS NULL RETURNING "+wishlistColumns,
		strings.Join(setClauses, ", "),
		idx,
	)

	updated := &models.Wishlist{}
	err = s.db.QueryRow(ctx, query, args...).Scan(
		&updated.ID, &updated.PublicID, &updated.OwnerID, &updated.EventID, &updated.Name,
		&updated.IsPrivate, &updated.IsFriendsOnly, &updated.IsCollaborative,
		&updated.CreatedAt, &updated.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrWishlistNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("updating wishlist visibility: %w", err)
	}
	return updated, nil
}

// Delete soft-deletes the wishlist. Owner only.
func (s *WishlistService) Delete(ctx context.Context, wishlistID, actorID int64) error {
	result, err := s.db.Exec(ctx,
		`UPDATE wishlists
		 SET deleted_at = NOW(), updated_at = NOW()
		 WHERE id = $1 AND owner_id = $2 AND deleted_at IS NULL`,
		wishlistID, actorID,
	)
	if err != nil {
		return fmt.Errorf("deleting wishlist: %w", err)
	}
	if result.RowsAffected() == 0 {
		w, err := s.GetByID(ctx, wishlistID)
		if err != nil {
			return err
		}
		if w.OwnerID != actorID {
			return ErrNotWishlistOwner
		}
		return ErrWishlistNotFound
	}
	return nil
}

func (s *WishlistService) get(ctx context.Context, where string, arg any) (*models.Wishlist, error) {
	w := &models.Wishlist{}
	err := s.db.QueryRow(ctx,
		"SELECT "+wishlistColumns+" FROM wishlists WHERE "+where+" AND deleted_at IS NULL",
		arg,
	).Scan(&w.ID, &w.PublicID, &w.OwnerID, &w.EventID, &w.Name,
		&w.IsPrivate, &w.IsFriendsOnly, &w.IsCollaborative, &w.CreatedAt, &w.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrWishlistNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting wishlist: %w", err)
	}
	return w, nil
}
