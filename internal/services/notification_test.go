package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/mereck/giftwell/internal/models"
)

func TestNotificationService_Notify_InsertsRow(t *testing.T) {
	var gotArgs []any
	db := &fakeDB{
		ExecFunc: func(ctx context.Context, sql string, args ...any) (CommandTag, error) {
			if !strings.Contains(sql, "INSERT INTO notifications") {
				t.Fatalf("unexpected sql: %q", sql)
			}
			gotArgs = args
			return fakeCommandTag{rowsAffected: 1}, nil
		},
	}

	svc := NewNotificationService(db, nil)
	err := svc.Notify(context.Background(), 7, 11, "Event invitation", "You have been invited.", models.NotificationKindEventInviteReceived)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotArgs[1] != int64(11) {
		t.Fatalf("unexpected target: %v", gotArgs[1])
	}
	actor, ok := gotArgs[2].(*int64)
	if !ok || actor == nil || *actor != 7 {
		t.Fatalf("expected actor pointer 7, got %v", gotArgs[2])
	}
}

// Sender zero means a system notification with no actor.
func TestNotificationService_Notify_SystemSender(t *testing.T) {
	var gotArgs []any
	db := &fakeDB{
		ExecFunc: func(ctx context.Context, sql string, args ...any) (CommandTag, error) {
			gotArgs = args
			return fakeCommandTag{rowsAffected: 1}, nil
		},
	}

	svc := NewNotificationService(db, nil)
	if err := svc.Notify(context.Background(), 0, 11, "t", "m", models.NotificationKindWishlistShared); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if actor, ok := gotArgs[2].(*int64); !ok || actor != nil {
		t.Fatalf("expected nil actor, got %v", gotArgs[2])
	}
}

func TestNotificationService_List(t *testing.T) {
	now := time.Now()
	db := &fakeDB{
		QueryFunc: func(ctx context.Context, sql string, args ...any) (Rows, error) {
			if strings.Contains(sql, "read_at IS NULL") {
				t.Fatalf("unexpected unread filter: %q", sql)
			}
			return &fakeRows{rows: [][]any{
				{int64(1), uuid.New(), int64(11), int64Ptr(7), models.NotificationKindEventInviteReceived, "t", "m", nil, now},
			}}, nil
		},
	}

	svc := NewNotificationService(db, nil)
	notifications, err := svc.List(context.Background(), 11, NotificationListParams{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(notifications) != 1 || notifications[0].UserID != 11 {
		t.Fatalf("unexpected notifications: %+v", notifications)
	}
	if notifications[0].ReadAt != nil {
		t.Fatal("expected unread notification")
	}
}

func TestNotificationService_List_UnreadOnly(t *testing.T) {
	db := &fakeDB{
		QueryFunc: func(ctx context.Context, sql string, args ...any) (Rows, error) {
			if !strings.Contains(sql, "read_at IS NULL") {
				t.Fatalf("expected unread filter, got %q", sql)
			}
			if args[1] != 25 || args[2] != 5 {
				t.Fatalf("unexpected paging args: %v", args)
			}
			return &fakeRows{}, nil
		},
	}

	svc := NewNotificationService(db, nil)
	notifications, err := svc.List(context.Background(), 11, NotificationListParams{UnreadOnly: true, Limit: 25, Offset: 5})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if notifications == nil || len(notifications) != 0 {
		t.Fatalf("expected empty slice, got %v", notifications)
	}
}

func TestNotificationService_List_ClampsLimit(t *testing.T) {
	db := &fakeDB{
		QueryFunc: func(ctx context.Context, sql string, args ...any) (Rows, error) {
			if args[1] != maxListLimit {
				t.Fatalf("expected clamped limit, got %v", args[1])
			}
			return &fakeRows{}, nil
		},
	}

	svc := NewNotificationService(db, nil)
	if _, err := svc.List(context.Background(), 11, NotificationListParams{Limit: 10000}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestNotificationService_MarkRead_Idempotent(t *testing.T) {
	db := &fakeDB{
		ExecFunc: func(ctx context.Context, sql string, args ...any) (CommandTag, error) {
			if !strings.Contains(sql, "read_at IS NULL") {
				t.Fatalf("expected unread guard, got %q", sql)
			}
			return fakeCommandTag{rowsAffected: 0}, nil
		},
	}

	svc := NewNotificationService(db, nil)
	if err := svc.MarkRead(context.Background(), 11, 99); err != nil {
		t.Fatalf("expected no-op, got %v", err)
	}
}

func TestNotificationService_MarkRead_OwnRowOnly(t *testing.T) {
	db := &fakeDB{
		ExecFunc: func(ctx context.Context, sql string, args ...any) (CommandTag, error) {
			if !strings.Contains(sql, "user_id = $2") {
				t.Fatalf("expected ownership guard, got %q", sql)
			}
			return fakeCommandTag{rowsAffected: 1}, nil
		},
	}

	svc := NewNotificationService(db, nil)
	if err := svc.MarkRead(context.Background(), 11, 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestNotificationService_MarkAllRead(t *testing.T) {
	db := &fakeDB{
		ExecFunc: func(ctx context.Context, sql string, args ...any) (CommandTag, error) {
			if !strings.Contains(sql, "user_id = $1 AND read_at IS NULL") {
				t.Fatalf("unexpected sql: %q", sql)
			}
			return fakeCommandTag{rowsAffected: 3}, nil
		},
	}

	svc := NewNotificationService(db, nil)
	if err := svc.MarkAllRead(context.Background(), 11); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// Without Redis the count comes straight from Postgres.
func TestNotificationService_UnreadCount_SQLFallback(t *testing.T) {
	db := &fakeDB{
		QueryRowFunc: func(ctx context.Context, sql string, args ...any) Row {
			if !strings.Contains(sql, "COUNT(*)") {
				t.Fatalf("unexpected sql: %q", sql)
			}
			return rowFromValues(4)
		},
	}

	svc := NewNotificationService(db, nil)
	count, err := svc.UnreadCount(context.Background(), 11)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 4 {
		t.Fatalf("expected 4 unread, got %d", count)
	}
}
