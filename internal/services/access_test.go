package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
)

// accessAnswers routes the resolver's queries to canned answers. A nil entry
// means the query must not be issued for the scenario under test.
type accessAnswers struct {
	wishlist    []any
	permission  *bool
	friendship  *bool
	eventMember *bool
	editGrant   *bool
}

func accessDB(t *testing.T, a accessAnswers) *fakeDB {
	t.Helper()
	return &fakeDB{
		QueryRowFunc: func(ctx context.Context, sql string, args ...any) Row {
			switch {
			case strings.Contains(sql, "FROM wishlists"):
				if a.wishlist == nil {
					return rowFromValues()
				}
				return rowFromValues(a.wishlist...)
			case strings.Contains(sql, "permission IN ('edit', 'admin')"):
				if a.editGrant == nil {
					t.Fatalf("unexpected edit grant check: %q", sql)
				}
				return rowFromValues(*a.editGrant)
			case strings.Contains(sql, "FROM wishlist_permissions"):
				if a.permission == nil {
					t.Fatalf("unexpected permission check: %q", sql)
				}
				return rowFromValues(*a.permission)
			case strings.Contains(sql, "FROM friends"):
				if a.friendship == nil {
					t.Fatalf("unexpected friendship check: %q", sql)
				}
				return rowFromValues(*a.friendship)
			case strings.Contains(sql, "FROM events"):
				if a.eventMember == nil {
					t.Fatalf("unexpected event membership check: %q", sql)
				}
				return rowFromValues(*a.eventMember)
			default:
				t.Fatalf("unexpected sql: %q", sql)
				return rowFromValues()
			}
		},
	}
}

func boolPtr(v bool) *bool { return &v }

func int64Ptr(v int64) *int64 { return &v }

func openWishlistRow(id, ownerID int64) []any {
	return []any{id, ownerID, nil, false, false, false}
}

func TestAccessService_CanView_Owner(t *testing.T) {
	svc := NewAccessService(accessDB(t, accessAnswers{
		wishlist: openWishlistRow(1, 7),
	}))

	ok, err := svc.CanView(context.Background(), 1, 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Fatal("expected owner to view")
	}
}

func TestAccessService_CanView_Missing(t *testing.T) {
	svc := NewAccessService(accessDB(t, accessAnswers{}))

	_, err := svc.CanView(context.Background(), 1, 7)
	if !errors.Is(err, ErrWishlistNotFound) {
		t.Fatalf("expected ErrWishlistNotFound, got %v", err)
	}
}

func TestAccessService_CanView_ClaimedGrant(t *testing.T) {
	svc := NewAccessService(accessDB(t, accessAnswers{
		wishlist:   []any{int64(1), int64(7), nil, true, false, false},
		permission: boolPtr(true),
	}))

	ok, err := svc.CanView(context.Background(), 1, 9)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Fatal("expected grant holder to view")
	}
}

func TestAccessService_CanView_FriendOnOpenList(t *testing.T) {
	svc := NewAccessService(accessDB(t, accessAnswers{
		wishlist:   openWishlistRow(1, 7),
		permission: boolPtr(false),
		friendship: boolPtr(true),
	}))

	ok, err := svc.CanView(context.Background(), 1, 9)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Fatal("expected friend to view open list")
	}
}

// A private list never consults friendship: privacy wins over the
// relationship.
func TestAccessService_CanView_PrivateBeatsFriendship(t *testing.T) {
	svc := NewAccessService(accessDB(t, accessAnswers{
		wishlist:   []any{int64(1), int64(7), nil, true, false, false},
		permission: boolPtr(false),
	}))

	ok, err := svc.CanView(context.Background(), 1, 9)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Fatal("expected private list to deny a friend without a grant")
	}
}

// IsFriendsOnly narrows access: friendship alone stops being sufficient.
func TestAccessService_CanView_FriendsOnlyRequiresGrant(t *testing.T) {
	svc := NewAccessService(accessDB(t, accessAnswers{
		wishlist:   []any{int64(1), int64(7), nil, false, true, false},
		permission: boolPtr(false),
	}))

	ok, err := svc.CanView(context.Background(), 1, 9)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Fatal("expected friends-only list to deny without an explicit grant")
	}
}

func TestAccessService_CanView_EventMember(t *testing.T) {
	svc := NewAccessService(accessDB(t, accessAnswers{
		wishlist:    []any{int64(1), int64(7), int64Ptr(4), true, false, false},
		permission:  boolPtr(false),
		eventMember: boolPtr(true),
	}))

	ok, err := svc.CanView(context.Background(), 1, 9)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Fatal("expected event member to view attached list")
	}
}

func TestAccessService_CanView_Stranger(t *testing.T) {
	svc := NewAccessService(accessDB(t, accessAnswers{
		wishlist:    []any{int64(1), int64(7), int64Ptr(4), false, false, false},
		permission:  boolPtr(false),
		friendship:  boolPtr(false),
		eventMember: boolPtr(false),
	}))

	ok, err := svc.CanView(context.Background(), 1, 9)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Fatal("expected stranger to be denied")
	}
}

func TestAccessService_CanEdit_Owner(t *testing.T) {
	svc := NewAccessService(accessDB(t, accessAnswers{
		wishlist: openWishlistRow(1, 7),
	}))

	ok, err := svc.CanEdit(context.Background(), 1, 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Fatal("expected owner to edit")
	}
}

func TestAccessService_CanEdit_CollaborativeEventMember(t *testing.T) {
	svc := NewAccessService(accessDB(t, accessAnswers{
		wishlist:    []any{int64(1), int64(7), int64Ptr(4), false, false, true},
		eventMember: boolPtr(true),
	}))

	ok, err := svc.CanEdit(context.Background(), 1, 9)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Fatal("expected collaborative list to allow event member edits")
	}
}

func TestAccessService_CanEdit_CollaborativeAnyGrant(t *testing.T) {
	svc := NewAccessService(accessDB(t, accessAnswers{
		wishlist:   []any{int64(1), int64(7), nil, false, false, true},
		permission: boolPtr(true),
	}))

	ok, err := svc.CanEdit(context.Background(), 1, 9)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Fatal("expected collaborative list to allow any grant holder to edit")
	}
}

func TestAccessService_CanEdit_ExplicitEditGrant(t *testing.T) {
	svc := NewAccessService(accessDB(t, accessAnswers{
		wishlist:  openWishlistRow(1, 7),
		editGrant: boolPtr(true),
	}))

	ok, err := svc.CanEdit(context.Background(), 1, 9)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Fatal("expected edit grant to allow edits")
	}
}

// A view grant opens reads, never writes.
func TestAccessService_CanEdit_ViewGrantInsufficient(t *testing.T) {
	svc := NewAccessService(accessDB(t, accessAnswers{
		wishlist:  openWishlistRow(1, 7),
		editGrant: boolPtr(false),
	}))

	ok, err := svc.CanEdit(context.Background(), 1, 9)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Fatal("expected view-only holder to be denied edit")
	}
}

func TestAccessService_CanViewByPublicID_Missing(t *testing.T) {
	svc := NewAccessService(accessDB(t, accessAnswers{}))

	_, err := svc.CanViewByPublicID(context.Background(), uuid.New(), 7)
	if !errors.Is(err, ErrWishlistNotFound) {
		t.Fatalf("expected ErrWishlistNotFound, got %v", err)
	}
}
