package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mereck/giftwell/internal/logging"
	"github.com/mereck/giftwell/internal/models"
)

var (
	ErrEventNotFound           = errors.New("event not found")
	ErrEventNameEmpty          = errors.New("event name is required")
	ErrNotEventCreator         = errors.New("only the event creator can manage invitations")
	ErrNotEventMember          = errors.New("user is not a member of this event")
	ErrUserNotFound            = errors.New("user not found")
	ErrInviteAlreadyExists     = errors.New("an active invitation already exists for this event")
	ErrInvalidEmail            = errors.New("invalid email address")
	ErrWishlistAlreadyAttached = errors.New("wishlist is already attached to another event")
	ErrAttachNotAllowed        = errors.New("only the wishlist owner or the event creator can attach or detach this wishlist")
)

const eventColumns = `id, public_id, name, created_by, event_date, created_at, updated_at`

const eventUserColumns = `id, public_id, event_id, user_id, invitee_email,
	status, role, invitation_date, created_at, updated_at`

// EventService drives event membership and the invitation state machine:
// Pending -> Accepted/Rejected by the invitee, Pending -> deleted via Cancel
// by the creator, Resend refreshing a Pending invite in place. Invitations
// are keyed by a registered user or, until the address resolves to an
// account, by email plus a capability token.
type EventService struct {
	db       DB
	notifier Notifier
	emails   EventInviteSender
	baseURL  string
	async    func(fn func())
	asyncCtx context.Context
}

func NewEventService(db DB, notifier Notifier, emails EventInviteSender, baseURL string) *EventService {
	return &EventService{
		db:       db,
		notifier: notifier,
		emails:   emails,
		baseURL:  strings.TrimRight(baseURL, "/"),
		async: func(fn func()) {
			go fn()
		},
		asyncCtx: context.Background(),
	}
}

// SetAsync overrides the goroutine used for email dispatch. Tests pass a
// synchronous hook.
func (s *EventService) SetAsync(fn func(fn func())) {
	s.async = fn
}

func (s *EventService) SetAsyncContext(ctx context.Context) {
	if ctx == nil {
		s.asyncCtx = context.Background()
		return
	}
	s.asyncCtx = ctx
}

// CreateEvent inserts the event and its creator's organizer membership row in
// one transaction.
func (s *EventService) CreateEvent(ctx context.Context, creatorID int64, name string, eventDate *time.Time) (*models.Event, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEventNameEmpty
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin create event transaction: %w", err)
	}

	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback(ctx)
		}
	}()

	event := &models.Event{}
	err = tx.QueryRow(ctx,
		`INSERT INTO events (public_id, name, created_by, event_date)
		 VALUES ($1, $2, $3, $4)
		 RETURNING `+eventColumns,
		uuid.New(), name, creatorID, eventDate,
	).Scan(&event.ID, &event.PublicID, &event.Name, &event.CreatedBy,
		&event.EventDate, &event.CreatedAt, &event.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("creating event: %w", err)
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO event_users (public_id, event_id, user_id, status, role)
		 VALUES ($1, $2, $3, 'accepted', 'organizer')`,
		uuid.New(), event.ID, creatorID,
	)
	if err != nil {
		return nil, fmt.Errorf("creating organizer membership: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit create event: %w", err)
	}
	committed = true

	return event, nil
}

func (s *EventService) GetEventByPublicID(ctx context.Context, publicID uuid.UUID) (*models.Event, error) {
	return s.getEvent(ctx, "public_id = $1", publicID)
}

// InviteUser creates a Pending participant invitation for a registered user.
// Only the event creator may invite. A live email invitation for the target's
// address is converted in place rather than duplicated; a live pending or
// accepted row for the user is a conflict. Rejected rows do not block a fresh
// invite.
func (s *EventService) InviteUser(ctx context.Context, eventID, inviterID, userID int64) (*models.EventUser, error) {
	event, err := s.getEvent(ctx, "id = $1", eventID)
	if err != nil {
		return nil, err
	}
	if event.CreatedBy != inviterID {
		return nil, ErrNotEventCreator
	}

	var targetEmail, targetName string
	err = s.db.QueryRow(ctx,
		"SELECT email, display_name FROM users WHERE id = $1", userID,
	).Scan(&targetEmail, &targetName)
	if isNoRows(err) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("loading invitee: %w", err)
	}

	var existingID int64
	var existingUserID *int64
	var existingStatus models.EventUserStatus
	err = s.db.QueryRow(ctx,
		`SELECT id, user_id, status FROM event_users
		 WHERE event_id = $1
		   AND deleted_at IS NULL
		   AND status IN ('pending', 'accepted')
		   AND (user_id = $2 OR LOWER(invitee_email) = LOWER($3))
		 LIMIT 1`,
		eventID, userID, targetEmail,
	).Scan(&existingID, &existingUserID, &existingStatus)
	if err != nil && !isNoRows(err) {
		return nil, fmt.Errorf("checking existing invitation: %w", err)
	}

	var invite *models.EventUser
	switch {
	case err == nil && existingUserID == nil && existingStatus == models.EventUserStatusPending:
		// An email invite for the same person: bind it to the account
		// instead of creating a competing row.
		invite, err = s.convertEmailInvite(ctx, existingID, userID)
		if err != nil {
			return nil, err
		}
	case err == nil:
		return nil, ErrInviteAlreadyExists
	default:
		invite = &models.EventUser{}
		err = s.db.QueryRow(ctx,
			`INSERT INTO event_users (public_id, event_id, user_id, status, role)
			 VALUES ($1, $2, $3, 'pending', 'participant')
			 RETURNING `+eventUserColumns,
			uuid.New(), eventID, userID,
		).Scan(&invite.ID, &invite.PublicID, &invite.EventID, &invite.UserID, &invite.InviteeEmail,
			&invite.Status, &invite.Role, &invite.InvitationDate, &invite.CreatedAt, &invite.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("creating invitation: %w", err)
		}
	}

	s.notify(ctx, inviterID, userID,
		"Event invitation",
		fmt.Sprintf("You have been invited to %s.", event.Name),
		models.NotificationKindEventInviteReceived)

	link := fmt.Sprintf("%s/#events/%s", s.baseURL, event.PublicID)
	s.dispatchInviteEmail(ctx, targetEmail, s.displayName(ctx, inviterID), event.Name, link)

	return invite, nil
}

// InviteByEmail invites an address with no registered account. The accept
// link carries only a single-use capability token; the event id and address
// alone never grant acceptance. If the address already belongs to a
// registered user this degenerates to InviteUser and the returned token is
// empty.
func (s *EventService) InviteByEmail(ctx context.Context, eventID, inviterID int64, email string) (*models.EventUser, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, "", ErrInvalidEmail
	}

	event, err := s.getEvent(ctx, "id = $1", eventID)
	if err != nil {
		return nil, "", err
	}
	if event.CreatedBy != inviterID {
		return nil, "", ErrNotEventCreator
	}

	var registeredID int64
	err = s.db.QueryRow(ctx,
		"SELECT id FROM users WHERE LOWER(email) = $1", email,
	).Scan(&registeredID)
	if err != nil && !isNoRows(err) {
		return nil, "", fmt.Errorf("resolving invitee email: %w", err)
	}
	if err == nil {
		invite, err := s.InviteUser(ctx, eventID, inviterID, registeredID)
		return invite, "", err
	}

	var duplicate bool
	err = s.db.QueryRow(ctx,
		`SELECT EXISTS(
			SELECT 1 FROM event_users
			WHERE event_id = $1
			  AND LOWER(invitee_email) = $2
			  AND status IN ('pending', 'accepted')
			  AND deleted_at IS NULL
		)`,
		eventID, email,
	).Scan(&duplicate)
	if err != nil {
		return nil, "", fmt.Errorf("checking existing email invitation: %w", err)
	}
	if duplicate {
		return nil, "", ErrInviteAlreadyExists
	}

	token, err := generateShareToken()
	if err != nil {
		return nil, "", err
	}

	invite := &models.EventUser{}
	err = s.db.QueryRow(ctx,
		`INSERT INTO event_users (public_id, event_id, invitee_email, status, role, invite_token_hash)
		 VALUES ($1, $2, $3, 'pending', 'participant', $4)
		 RETURNING `+eventUserColumns,
		uuid.New(), eventID, email, hashShareToken(token),
	).Scan(&invite.ID, &invite.PublicID, &invite.EventID, &invite.UserID, &invite.InviteeEmail,
		&invite.Status, &invite.Role, &invite.InvitationDate, &invite.CreatedAt, &invite.UpdatedAt)
	if err != nil {
		return nil, "", fmt.Errorf("creating email invitation: %w", err)
	}

	link := fmt.Sprintf("%s/#event-invite?token=%s", s.baseURL, token)
	s.dispatchInviteEmail(ctx, email, s.displayName(ctx, inviterID), event.Name, link)

	return invite, token, nil
}

// AcceptInvitation flips a pending invitation to accepted. Only the row's own
// user may act, and only while the parent event is live; any precondition
// failure is a (false, nil) no-op so retries and double-clicks are harmless.
func (s *EventService) AcceptInvitation(ctx context.Context, eventUserID, userID int64) (bool, error) {
	var eventID int64
	err := s.db.QueryRow(ctx,
		`UPDATE event_users
		 SET status = 'accepted', updated_at = NOW()
		 WHERE id = $1 AND user_id = $2 AND status = 'pending' AND deleted_at IS NULL
		   AND EXISTS (SELECT 1 FROM events e WHERE e.id = event_users.event_id AND e.deleted_at IS NULL)
		 RETURNING event_id`,
		eventUserID, userID,
	).Scan(&eventID)
	if isNoRows(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("accepting invitation: %w", err)
	}

	s.notifyCreatorAccepted(ctx, eventID, userID)
	return true, nil
}

// RejectInvitation mirrors AcceptInvitation with a rejected terminal state.
func (s *EventService) RejectInvitation(ctx context.Context, eventUserID, userID int64) (bool, error) {
	result, err := s.db.Exec(ctx,
		`UPDATE event_users
		 SET status = 'rejected', updated_at = NOW()
		 WHERE id = $1 AND user_id = $2 AND status = 'pending' AND deleted_at IS NULL
		   AND EXISTS (SELECT 1 FROM events e WHERE e.id = event_users.event_id AND e.deleted_at IS NULL)`,
		eventUserID, userID,
	)
	if err != nil {
		return false, fmt.Errorf("rejecting invitation: %w", err)
	}
	return result.RowsAffected() > 0, nil
}

// AcceptInvitationByToken claims an email invitation: it binds the row to
// userID, retires the token, and accepts, all in one compare-and-swap so a
// token is claimable exactly once.
func (s *EventService) AcceptInvitationByToken(ctx context.Context, token string, userID int64) (bool, error) {
	if token == "" {
		return false, nil
	}

	var eventID int64
	err := s.db.QueryRow(ctx,
		`UPDATE event_users
		 SET user_id = $1, invitee_email = NULL, invite_token_hash = NULL,
		     status = 'accepted', updated_at = NOW()
		 WHERE invite_token_hash = $2
		   AND user_id IS NULL
		   AND status = 'pending'
		   AND deleted_at IS NULL
		   AND EXISTS (SELECT 1 FROM events e WHERE e.id = event_users.event_id AND e.deleted_at IS NULL)
		 RETURNING event_id`,
		userID, hashShareToken(token),
	).Scan(&eventID)
	if isNoRows(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("claiming email invitation: %w", err)
	}

	s.notifyCreatorAccepted(ctx, eventID, userID)
	return true, nil
}

// CancelInvitation soft-deletes an invitation regardless of its status. Only
// the event creator may cancel; a missing row or event is a (false, nil)
// no-op.
func (s *EventService) CancelInvitation(ctx context.Context, eventUserID, inviterID int64) (bool, error) {
	var createdBy int64
	err := s.db.QueryRow(ctx,
		`SELECT e.created_by
		 FROM event_users eu
		 JOIN events e ON eu.event_id = e.id
		 WHERE eu.id = $1 AND eu.deleted_at IS NULL AND e.deleted_at IS NULL`,
		eventUserID,
	).Scan(&createdBy)
	if isNoRows(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("loading invitation: %w", err)
	}
	if createdBy != inviterID {
		return false, ErrNotEventCreator
	}

	result, err := s.db.Exec(ctx,
		`UPDATE event_users
		 SET deleted_at = NOW(), updated_at = NOW()
		 WHERE id = $1 AND deleted_at IS NULL`,
		eventUserID,
	)
	if err != nil {
		return false, fmt.Errorf("cancelling invitation: %w", err)
	}
	return result.RowsAffected() > 0, nil
}

// ResendInvitation refreshes a pending invitation's date and re-delivers it:
// in-app notification plus email for a registered invitee, email only for an
// email invitee. Email invites get a fresh token; the previous link stops
// working.
func (s *EventService) ResendInvitation(ctx context.Context, eventUserID, inviterID int64) (bool, error) {
	invite := &models.EventUser{}
	var eventPublicID uuid.UUID
	var eventName string
	var createdBy int64
	err := s.db.QueryRow(ctx,
		`SELECT eu.id, eu.public_id, eu.event_id, eu.user_id, eu.invitee_email,
		        eu.status, eu.role, eu.invitation_date, eu.created_at, eu.updated_at,
		        e.public_id, e.name, e.created_by
		 FROM event_users eu
		 JOIN events e ON eu.event_id = e.id
		 WHERE eu.id = $1 AND eu.deleted_at IS NULL AND e.deleted_at IS NULL`,
		eventUserID,
	).Scan(&invite.ID, &invite.PublicID, &invite.EventID, &invite.UserID, &invite.InviteeEmail,
		&invite.Status, &invite.Role, &invite.InvitationDate, &invite.CreatedAt, &invite.UpdatedAt,
		&eventPublicID, &eventName, &createdBy)
	if isNoRows(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("loading invitation: %w", err)
	}
	if createdBy != inviterID {
		return false, ErrNotEventCreator
	}
	if invite.Status != models.EventUserStatusPending {
		return false, nil
	}

	if invite.UserID != nil {
		_, err = s.db.Exec(ctx,
			"UPDATE event_users SET invitation_date = NOW(), updated_at = NOW() WHERE id = $1",
			eventUserID,
		)
		if err != nil {
			return false, fmt.Errorf("refreshing invitation: %w", err)
		}

		var inviteeEmail string
		err = s.db.QueryRow(ctx,
			"SELECT email FROM users WHERE id = $1", *invite.UserID,
		).Scan(&inviteeEmail)
		if err != nil {
			logging.Warn("Failed to load invitee email for resend", map[string]interface{}{
				"error": err.Error(), "event_user_id": eventUserID,
			})
		}

		s.notify(ctx, inviterID, *invite.UserID,
			"Event invitation",
			fmt.Sprintf("Reminder: you have been invited to %s.", eventName),
			models.NotificationKindEventInviteReceived)
		if inviteeEmail != "" {
			link := fmt.Sprintf("%s/#events/%s", s.baseURL, eventPublicID)
			s.dispatchInviteEmail(ctx, inviteeEmail, s.displayName(ctx, inviterID), eventName, link)
		}
		return true, nil
	}

	// Email invitee: rotate the token so only the newest link is live.
	token, err := generateShareToken()
	if err != nil {
		return false, err
	}
	_, err = s.db.Exec(ctx,
		`UPDATE event_users
		 SET invite_token_hash = $1, invitation_date = NOW(), updated_at = NOW()
		 WHERE id = $2`,
		hashShareToken(token), eventUserID,
	)
	if err != nil {
		return false, fmt.Errorf("refreshing email invitation: %w", err)
	}

	link := fmt.Sprintf("%s/#event-invite?token=%s", s.baseURL, token)
	s.dispatchInviteEmail(ctx, *invite.InviteeEmail, s.displayName(ctx, inviterID), eventName, link)
	return true, nil
}

// ClaimEmailInvitations converts every live pending email invitation for the
// address into a registered invitation for userID. Called when an account is
// created or an address is verified. Returns the number of converted rows.
func (s *EventService) ClaimEmailInvitations(ctx context.Context, userID int64, email string) (int, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return 0, nil
	}

	result, err := s.db.Exec(ctx,
		`UPDATE event_users
		 SET user_id = $1, invitee_email = NULL, invite_token_hash = NULL, updated_at = NOW()
		 WHERE LOWER(invitee_email) = $2
		   AND user_id IS NULL
		   AND status = 'pending'
		   AND deleted_at IS NULL`,
		userID, email,
	)
	if err != nil {
		return 0, fmt.Errorf("claiming email invitations: %w", err)
	}
	return int(result.RowsAffected()), nil
}

// AttachWishlist binds a wishlist to the event. Both the actor and the
// wishlist owner must be event members, and someone else's list may only be
// attached by its owner or the event creator. A list already bound to a
// different live event is a conflict.
func (s *EventService) AttachWishlist(ctx context.Context, eventID, wishlistID, actorID int64) error {
	event, err := s.getEvent(ctx, "id = $1", eventID)
	if err != nil {
		return err
	}

	var ownerID int64
	var currentEventID *int64
	err = s.db.QueryRow(ctx,
		"SELECT owner_id, event_id FROM wishlists WHERE id = $1 AND deleted_at IS NULL",
		wishlistID,
	).Scan(&ownerID, &currentEventID)
	if isNoRows(err) {
		return ErrWishlistNotFound
	}
	if err != nil {
		return fmt.Errorf("loading wishlist: %w", err)
	}

	if err := s.requireAttachRights(ctx, event, ownerID, actorID); err != nil {
		return err
	}

	if currentEventID != nil {
		if *currentEventID == eventID {
			return nil
		}
		return ErrWishlistAlreadyAttached
	}

	result, err := s.db.Exec(ctx,
		`UPDATE wishlists
		 SET event_id = $1, updated_at = NOW()
		 WHERE id = $2 AND deleted_at IS NULL AND (event_id IS NULL OR event_id = $1)`,
		eventID, wishlistID,
	)
	if err != nil {
		return fmt.Errorf("attaching wishlist: %w", err)
	}
	if result.RowsAffected() == 0 {
		// Lost a race with a concurrent attach to another event.
		return ErrWishlistAlreadyAttached
	}
	return nil
}

// DetachWishlist clears the event binding. Authorization mirrors
// AttachWishlist; once authorized the detach is unconditional.
func (s *EventService) DetachWishlist(ctx context.Context, eventID, wishlistID, actorID int64) error {
	event, err := s.getEvent(ctx, "id = $1", eventID)
	if err != nil {
		return err
	}

	var ownerID int64
	err = s.db.QueryRow(ctx,
		"SELECT owner_id FROM wishlists WHERE id = $1 AND event_id = $2 AND deleted_at IS NULL",
		wishlistID, eventID,
	).Scan(&ownerID)
	if isNoRows(err) {
		return ErrWishlistNotFound
	}
	if err != nil {
		return fmt.Errorf("loading wishlist: %w", err)
	}

	if ownerID != actorID && event.CreatedBy != actorID {
		return ErrAttachNotAllowed
	}

	_, err = s.db.Exec(ctx,
		"UPDATE wishlists SET event_id = NULL, updated_at = NOW() WHERE id = $1 AND event_id = $2",
		wishlistID, eventID,
	)
	if err != nil {
		return fmt.Errorf("detaching wishlist: %w", err)
	}
	return nil
}

// IsEventMember reports whether userID is the creator or an accepted live
// member of the event.
func (s *EventService) IsEventMember(ctx context.Context, eventID, userID int64) (bool, error) {
	return eventMemberExists(ctx, s.db, eventID, userID)
}

func (s *EventService) requireAttachRights(ctx context.Context, event *models.Event, ownerID, actorID int64) error {
	actorMember, err := eventMemberExists(ctx, s.db, event.ID, actorID)
	if err != nil {
		return err
	}
	if !actorMember {
		return ErrNotEventMember
	}

	if ownerID != actorID {
		ownerMember, err := eventMemberExists(ctx, s.db, event.ID, ownerID)
		if err != nil {
			return err
		}
		if !ownerMember {
			return ErrNotEventMember
		}
		if event.CreatedBy != actorID {
			return ErrAttachNotAllowed
		}
	}
	return nil
}

func (s *EventService) convertEmailInvite(ctx context.Context, eventUserID, userID int64) (*models.EventUser, error) {
	invite := &models.EventUser{}
	err := s.db.QueryRow(ctx,
		`UPDATE event_users
		 SET user_id = $1, invitee_email = NULL, invite_token_hash = NULL,
		     invitation_date = NOW(), updated_at = NOW()
		 WHERE id = $2 AND deleted_at IS NULL
		 RETURNING `+eventUserColumns,
		userID, eventUserID,
	).Scan(&invite.ID, &invite.PublicID, &invite.EventID, &invite.UserID, &invite.InviteeEmail,
		&invite.Status, &invite.Role, &invite.InvitationDate, &invite.CreatedAt, &invite.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("converting email invitation: %w", err)
	}
	return invite, nil
}

// notifyCreatorAccepted tells the event creator about an acceptance. An
// unresolvable creator must not fail the accept; it only logs.
func (s *EventService) notifyCreatorAccepted(ctx context.Context, eventID, accepterID int64) {
	var createdBy int64
	var eventName string
	err := s.db.QueryRow(ctx,
		"SELECT created_by, name FROM events WHERE id = $1 AND deleted_at IS NULL",
		eventID,
	).Scan(&createdBy, &eventName)
	if err != nil {
		logging.Warn("Could not resolve event creator for accept notification", map[string]interface{}{
			"error":    err.Error(),
			"event_id": eventID,
		})
		return
	}

	s.notify(ctx, accepterID, createdBy,
		"Invitation accepted",
		fmt.Sprintf("Your invitation to %s was accepted.", eventName),
		models.NotificationKindEventInviteAccepted)
}

func (s *EventService) getEvent(ctx context.Context, where string, arg any) (*models.Event, error) {
	event := &models.Event{}
	err := s.db.QueryRow(ctx,
		"SELECT "+eventColumns+" FROM events WHERE "+where+" AND deleted_at IS NULL",
		arg,
	).Scan(&event.ID, &event.PublicID, &event.Name, &event.CreatedBy,
		&event.EventDate, &event.CreatedAt, &event.UpdatedAt)
	if isNoRows(err) {
		return nil, ErrEventNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting event: %w", err)
	}
	return event, nil
}

// displayName resolves a user's display name for email bodies, falling back
// to a neutral label so a lookup failure never blocks delivery.
func (s *EventService) displayName(ctx context.Context, userID int64) string {
	var name string
	err := s.db.QueryRow(ctx,
		"SELECT display_name FROM users WHERE id = $1", userID,
	).Scan(&name)
	if err != nil || name == "" {
		return "Someone"
	}
	return name
}

func (s *EventService) dispatchInviteEmail(ctx context.Context, toEmail, inviterName, eventName, link string) {
	if s.emails == nil || s.async == nil || toEmail == "" {
		return
	}
	s.async(func() {
		baseCtx := s.asyncCtx
		if baseCtx == nil {
			baseCtx = context.Background()
		}
		sendCtx, cancel := context.WithTimeout(baseCtx, 10*time.Second)
		defer cancel()
		if err := s.emails.SendEventInvite(sendCtx, toEmail, inviterName, eventName, link); err != nil {
			logging.Error("Failed to send event invite email", map[string]interface{}{
				"error": err.Error(),
				"to":    toEmail,
			})
		}
	})
}

func (s *EventService) notify(ctx context.Context, senderID, targetID int64, title, message string, kind models.NotificationKind) {
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
