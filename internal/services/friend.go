package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/mereck/giftwell/internal/logging"
	"github.com/mereck/giftwell/internal/models"
)

var (
	ErrCannotFriendSelf = errors.New("cannot send friend request to yourself")
	ErrAlreadyFriends   = errors.New("users are already friends")
	ErrDuplicateRequest = errors.New("a pending friend request already exists between these users")
)

// FriendService maintains the symmetric friendship relation and the
// friend-request state machine. Friendships are stored as two directed rows
// written and retired together; reads tolerate a half-broken pair.
type FriendService struct {
	db       DB
	notifier Notifier
}

func NewFriendService(db DB, notifier Notifier) *FriendService {
	return &FriendService{db: db, notifier: notifier}
}

// SendRequest creates a pending request from requester to receiver. It fails
// with ErrAlreadyFriends when a live edge exists in either direction and with
// ErrDuplicateRequest when a pending request exists in either direction.
func (s *FriendService) SendRequest(ctx context.Context, requesterID, receiverID int64) (*models.FriendRequest, error) {
	if requesterID == receiverID {
		return nil, ErrCannotFriendSelf
	}

	friends, err := s.AreFriends(ctx, requesterID, receiverID)
	if err != nil {
		return nil, err
	}
	if friends {
		return nil, ErrAlreadyFriends
	}

	var pendingExists bool
	err = s.db.QueryRow(ctx,
		`SELECT EXISTS(
			SELECT 1 FROM friend_requests
			WHERE ((requester_id = $1 AND receiver_id = $2)
			    OR (requester_id = $2 AND receiver_id = $1))
			  AND status = 'pending'
			  AND deleted_at IS NULL
		)`,
		requesterID, receiverID,
	).Scan(&pendingExists)
	if err != nil {
		return nil, fmt.Errorf("checking pending request: %w", err)
	}
	if pendingExists {
		return nil, ErrDuplicateRequest
	}

	request := &models.FriendRequest{}
	err = s.db.QueryRow(ctx,
		`INSERT INTO friend_requests (public_id, requester_id, receiver_id, status)
		 VALUES ($1, $2, $3, 'pending')
		 RETURNING id, public_id, requester_id, receiver_id, status, created_at, updated_at`,
		uuid.New(), requesterID, receiverID,
	).Scan(&request.ID, &request.PublicID, &request.RequesterID, &request.ReceiverID,
		&request.Status, &request.CreatedAt, &request.UpdatedAt)
	if err != nil {
		// A crossed request that slipped past the pre-check lands on the
		// pending-pair unique index.
		if isUniqueViolation(err) {
			return nil, ErrDuplicateRequest
		}
		return nil, fmt.Errorf("creating friend request: %w", err)
	}

	s.notify(ctx, requesterID, receiverID,
		"New friend request", "You have received a friend request.",
		models.NotificationKindFriendRequestReceived)

	return request, nil
}

// AcceptRequest flips a pending request to accepted and inserts both directed
// friend rows in the same transaction. Only the receiver may accept, and only
// from pending; every precondition failure is a (false, nil) no-op so that
// retries are harmless.
func (s *FriendService) AcceptRequest(ctx context.Context, requestID, actingUserID int64) (bool, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return false, fmt.Errorf("begin accept transaction: %w", err)
	}

	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback(ctx)
		}
	}()

	var requesterID, receiverID int64
	var status models.FriendRequestStatus
	err = tx.QueryRow(ctx,
		`SELECT requester_id, receiver_id, status
		 FROM friend_requests
		 WHERE id = $1 AND deleted_at IS NULL
		 FOR UPDATE`,
		requestID,
	).Scan(&requesterID, &receiverID, &status)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("loading friend request: %w", err)
	}

	if receiverID != actingUserID {
		return false, nil
	}
	if status != models.FriendRequestStatusPending {
		return false, nil
	}

	_, err = tx.Exec(ctx,
		"UPDATE friend_requests SET status = 'accepted', updated_at = NOW() WHERE id = $1",
		requestID,
	)
	if err != nil {
		return false, fmt.Errorf("accepting friend request: %w", err)
	}

	// Both directions in one statement so the pair shares a timestamp and
	// either both exist or neither does.
	_, err = tx.Exec(ctx,
		`INSERT INTO friends (user_id, friend_id)
		 VALUES ($1, $2), ($2, $1)`,
		requesterID, receiverID,
	)
	if err != nil {
		return false, fmt.Errorf("creating friendship edges: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return false, fmt.Errorf("commit accept: %w", err)
	}
	committed = true

	s.notify(ctx, receiverID, requesterID,
		"Friend request accepted", "Your friend request was accepted.",
		models.NotificationKindFriendRequestAccepted)

	return true, nil
}

// RejectRequest flips a pending request to rejected. No friend rows are
// created. Same (false, nil) no-op semantics as AcceptRequest.
func (s *FriendService) RejectRequest(ctx context.Context, requestID, actingUserID int64) (bool, error) {
	result, err := s.db.Exec(ctx,
		`UPDATE friend_requests
		 SET status = 'rejected', updated_at = NOW()
		 WHERE id = $1 AND receiver_id = $2 AND status = 'pending' AND deleted_at IS NULL`,
		requestID, actingUserID,
	)
	if err != nil {
		return false, fmt.Errorf("rejecting friend request: %w", err)
	}
	return result.RowsAffected() > 0, nil
}

// RemoveFriend soft-deletes whichever directional edges exist between the two
// users. It is tolerant of asymmetric state: one live direction is enough to
// remove, and both are retired when present.
func (s *FriendService) RemoveFriend(ctx context.Context, userID, friendID int64) (bool, error) {
	result, err := s.db.Exec(ctx,
		`UPDATE friends
		 SET deleted_at = NOW()
		 WHERE ((user_id = $1 AND friend_id = $2)
		     OR (user_id = $2 AND friend_id = $1))
		   AND deleted_at IS NULL`,
		userID, friendID,
	)
	if err != nil {
		return false, fmt.Errorf("removing friendship: %w", err)
	}
	return result.RowsAffected() > 0, nil
}

// AreFriends reports whether a live edge exists in either direction. A single
// surviving direction counts; writes always repair or retire the pair.
func (s *FriendService) AreFriends(ctx context.Context, userID, otherUserID int64) (bool, error) {
	var friends bool
	err := s.db.QueryRow(ctx,
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

func (s *FriendService) ListFriends(ctx context.Context, userID int64) ([]models.FriendWithUser, error) {
	rows, err := s.db.Query(ctx,
		`SELECT f.id, f.user_id, f.friend_id, f.created_at, u.display_name
		 FROM friends f
		 JOIN users u ON f.friend_id = u.id
		 WHERE f.user_id = $1 AND f.deleted_at IS NULL
		 ORDER BY u.display_name`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing friends: %w", err)
	}
	defer rows.Close()

	var friends []models.FriendWithUser
	for rows.Next() {
		var f models.FriendWithUser
		if err := rows.Scan(&f.ID, &f.UserID, &f.FriendID, &f.CreatedAt, &f.FriendDisplayName); err != nil {
			return nil, fmt.Errorf("scanning friend: %w", err)
		}
		friends = append(friends, f)
	}

	if friends == nil {
		friends = []models.FriendWithUser{}
	}
	return friends, nil
}

func (s *FriendService) ListPendingRequests(ctx context.Context, userID int64) ([]models.FriendRequestWithUser, error) {
	rows, err := s.db.Query(ctx,
		`SELECT r.id, r.public_id, r.requester_id, r.receiver_id, r.status,
		        r.created_at, r.updated_at, u.display_name
		 FROM friend_requests r
		 JOIN users u ON r.requester_id = u.id
		 WHERE r.receiver_id = $1 AND r.status = 'pending' AND r.deleted_at IS NULL
		 ORDER BY r.created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing pending requests: %w", err)
	}
	defer rows.Close()

	var requests []models.FriendRequestWithUser
	for rows.Next() {
		var r models.FriendRequestWithUser
		if err := rows.Scan(&r.ID, &r.PublicID, &r.RequesterID, &r.ReceiverID,
			&r.Status, &r.CreatedAt, &r.UpdatedAt, &r.RequesterDisplayName); err != nil {
			return nil, fmt.Errorf("scanning request: %w", err)
		}
		requests = append(requests, r)
	}

	if requests == nil {
		requests = []models.FriendRequestWithUser{}
	}
	return requests, nil
}

func (s *FriendService) ListSentRequests(ctx context.Context, userID int64) ([]models.FriendRequest, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, public_id, requester_id, receiver_id, status, created_at, updated_at
		 FROM friend_requests
		 WHERE requester_id = $1 AND status = 'pending' AND deleted_at IS NULL
		 ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing sent requests: %w", err)
	}
	defer rows.Close()

	var requests []models.FriendRequest
	for rows.Next() {
		var r models.FriendRequest
		if err := rows.Scan(&r.ID, &r.PublicID, &r.RequesterID, &r.ReceiverID,
			&r.Status, &r.CreatedAt, &r.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning sent request: %w", err)
		}
		requests = append(requests, r)
	}

	if requests == nil {
		requests = []models.FriendRequest{}
	}
	return requests, nil
}

func (s *FriendService) notify(ctx context.Context, senderID, targetID int64, title, message string, kind models.NotificationKind) {
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
