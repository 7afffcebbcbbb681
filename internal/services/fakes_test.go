package services

import (
	"context"
	"fmt"
	"reflect"
	"sync"

	"github.com/jackc/pgx/v5"

	"github.com/mereck/giftwell/internal/models"
)

// fakeDB implements DB with per-method hooks. A nil hook means the call is
// unexpected and returns an empty result.
type fakeDB struct {
	QueryFunc    func(ctx context.Context, sql string, args ...any) (Rows, error)
	QueryRowFunc func(ctx context.Context, sql string, args ...any) Row
	ExecFunc     func(ctx context.Context, sql string, args ...any) (CommandTag, error)
	BeginFunc    func(ctx context.Context) (Tx, error)
}

func (f *fakeDB) Query(ctx context.Context, sql string, args ...any) (Rows, error) {
	if f.QueryFunc == nil {
		return &fakeRows{}, nil
	}
	return f.QueryFunc(ctx, sql, args...)
}

func (f *fakeDB) QueryRow(ctx context.Context, sql string, args ...any) Row {
	if f.QueryRowFunc == nil {
		return fakeRow{scanFunc: func(dest ...any) error { return pgx.ErrNoRows }}
	}
	return f.QueryRowFunc(ctx, sql, args...)
}

func (f *fakeDB) Exec(ctx context.Context, sql string, args ...any) (CommandTag, error) {
	if f.ExecFunc == nil {
		return fakeCommandTag{}, nil
	}
	return f.ExecFunc(ctx, sql, args...)
}

func (f *fakeDB) Begin(ctx context.Context) (Tx, error) {
	if f.BeginFunc == nil {
		return &fakeTx{}, nil
	}
	return f.BeginFunc(ctx)
}

// fakeTx implements Tx the same way.
type fakeTx struct {
	QueryFunc    func(ctx context.Context, sql string, args ...any) (Rows, error)
	QueryRowFunc func(ctx context.Context, sql string, args ...any) Row
	ExecFunc     func(ctx context.Context, sql string, args ...any) (CommandTag, error)
	CommitFunc   func(ctx context.Context) error
	RollbackFunc func(ctx context.Context) error

	committed  bool
	rolledBack bool
}

func (f *fakeTx) Query(ctx context.Context, sql string, args ...any) (Rows, error) {
	if f.QueryFunc == nil {
		return &fakeRows{}, nil
	}
	return f.QueryFunc(ctx, sql, args...)
}

func (f *fakeTx) QueryRow(ctx context.Context, sql string, args ...any) Row {
	if f.QueryRowFunc == nil {
		return fakeRow{scanFunc: func(dest ...any) error { return pgx.ErrNoRows }}
	}
	return f.QueryRowFunc(ctx, sql, args...)
}

func (f *fakeTx) Exec(ctx context.Context, sql string, args ...any) (CommandTag, error) {
	if f.ExecFunc == nil {
		return fakeCommandTag{}, nil
	}
	return f.ExecFunc(ctx, sql, args...)
}

func (f *fakeTx) Commit(ctx context.Context) error {
	f.committed = true
	if f.CommitFunc == nil {
		return nil
	}
	return f.CommitFunc(ctx)
}

func (f *fakeTx) Rollback(ctx context.Context) error {
	f.rolledBack = true
	if f.RollbackFunc == nil {
		return nil
	}
	return f.RollbackFunc(ctx)
}

// fakeRow scans through a supplied function.
type fakeRow struct {
	scanFunc func(dest ...any) error
}

func (r fakeRow) Scan(dest ...any) error {
	return r.scanFunc(dest...)
}

// rowFromValues builds a Row that scans the given values positionally.
// Calling it with no values yields an empty-result row.
func rowFromValues(values ...any) Row {
	return fakeRow{scanFunc: func(dest ...any) error {
		if len(values) == 0 {
			return pgx.ErrNoRows
		}
		if len(dest) != len(values) {
			return fmt.Errorf("scan expected %d destinations, got %d", len(values), len(dest))
		}
		for i, v := range values {
			if err := assignValue(dest[i], v); err != nil {
				return err
			}
		}
		return nil
	}}
}

// fakeRows iterates over literal row value slices.
type fakeRows struct {
	rows [][]any
	idx  int
	err  error
}

func (r *fakeRows) Next() bool {
	if r.idx >= len(r.rows) {
		return false
	}
	r.idx++
	return true
}

func (r *fakeRows) Scan(dest ...any) error {
	values := r.rows[r.idx-1]
	if len(dest) != len(values) {
		return fmt.Errorf("scan expected %d destinations, got %d", len(values), len(dest))
	}
	for i, v := range values {
		if err := assignValue(dest[i], v); err != nil {
			return err
		}
	}
	return nil
}

func (r *fakeRows) Close() {}

func (r *fakeRows) Err() error { return r.err }

type fakeCommandTag struct {
	rowsAffected int64
}

func (t fakeCommandTag) RowsAffected() int64 { return t.rowsAffected }

// assignValue copies v into the scan destination, allocating a pointer when
// the destination is a pointer type (nullable column).
func assignValue(dest, v any) error {
	dv := reflect.ValueOf(dest)
	if dv.Kind() != reflect.Pointer || dv.IsNil() {
		return fmt.Errorf("scan destination must be a non-nil pointer, got %T", dest)
	}
	elem := dv.Elem()

	if v == nil {
		elem.Set(reflect.Zero(elem.Type()))
		return nil
	}

	vv := reflect.ValueOf(v)
	switch {
	case vv.Type().AssignableTo(elem.Type()):
		elem.Set(vv)
	case elem.Kind() == reflect.Pointer && vv.Type().AssignableTo(elem.Type().Elem()):
		p := reflect.New(elem.Type().Elem())
		p.Elem().Set(vv)
		elem.Set(p)
	case vv.Type().ConvertibleTo(elem.Type()):
		elem.Set(vv.Convert(elem.Type()))
	default:
		return fmt.Errorf("cannot scan %T into %T", v, dest)
	}
	return nil
}

// fakeNotifier records Notify calls.
type fakeNotifier struct {
	mu    sync.Mutex
	err   error
	calls []notifyCall
}

type notifyCall struct {
	senderID int64
	targetID int64
	title    string
	message  string
	kind     models.NotificationKind
}

func (f *fakeNotifier) Notify(ctx context.Context, senderID, targetID int64, title, message string, kind models.NotificationKind) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, notifyCall{senderID, targetID, title, message, kind})
	return f.err
}

func (f *fakeNotifier) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

// fakeInviteSender records invitation emails.
type fakeInviteSender struct {
	mu     sync.Mutex
	err    error
	events []inviteEmail
}

type inviteEmail struct {
	to        string
	inviter   string
	eventName string
	link      string
}

func (f *fakeInviteSender) SendEventInvite(ctx context.Context, toEmail, inviterDisplayName, eventName, link string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, inviteEmail{toEmail, inviterDisplayName, eventName, link})
	return f.err
}

func (f *fakeInviteSender) SendFriendInvite(ctx context.Context, toEmail, inviterDisplayName, link string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, inviteEmail{to: toEmail, inviter: inviterDisplayName, link: link})
	return f.err
}

func (f *fakeInviteSender) sent() []inviteEmail {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]inviteEmail, len(f.events))
	copy(out, f.events)
	return out
}
