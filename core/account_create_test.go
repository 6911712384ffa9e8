package core

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/caasmo/accountlink/config"
	"github.com/caasmo/accountlink/db"
	"github.com/caasmo/accountlink/db/mock"
	"github.com/caasmo/accountlink/notify"
	"github.com/caasmo/accountlink/userinfo"
)

// recordingNotifier captures events for assertions.
type recordingNotifier struct {
	mu     sync.Mutex
	events []notify.Event
}

func (r *recordingNotifier) Send(_ context.Context, e notify.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return nil
}

func (r *recordingNotifier) all() []notify.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]notify.Event(nil), r.events...)
}

func newTestApp(t *testing.T, opts ...Option) *App {
	t.Helper()

	base := []Option{
		WithDbApp(&mock.Db{}),
		WithConfig(config.NewDefaultConfig()),
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	}
	app, err := NewApp(append(base, opts...)...)
	if err != nil {
		t.Fatalf("NewApp failed: %v", err)
	}
	return app
}

func TestCreateAccountEmailRequired(t *testing.T) {
	createCalled := false
	mockDb := &mock.Db{
		CreateAccountFunc: func(fields db.AccountFields) (*db.Account, error) {
			createCalled = true
			return nil, errors.New("should not be reached")
		},
	}
	sink := &recordingNotifier{}
	app := newTestApp(t, WithDbApp(mockDb), WithNotifier(sink))

	_, err := app.CreateAccount(context.Background(), userinfo.UserInfo{Sub: "sub-1", Name: "No Email"})
	if !errors.Is(err, ErrEmailRequired) {
		t.Fatalf("expected ErrEmailRequired, got %v", err)
	}
	if createCalled {
		t.Error("store must not be touched when precondition fails")
	}
	if len(sink.all()) != 0 {
		t.Error("no notification must fire on precondition failure")
	}
}

func TestCreateAccountEmailOptionalByPolicy(t *testing.T) {
	cfg := config.NewDefaultConfig()
	cfg.Policy.RequireEmail = false

	app := newTestApp(t, WithConfig(cfg))

	id, err := app.CreateAccount(context.Background(), userinfo.UserInfo{
		Sub:               "sub-1",
		PreferredUsername: "ghost",
	})
	if err != nil {
		t.Fatalf("CreateAccount failed: %v", err)
	}
	if id == "" {
		t.Error("expected an account id")
	}
}

// With the email requirement off, a record carrying no username-bearing
// claims at all must still yield a non-empty login.
func TestCreateAccountGeneratesLoginWhenClaimsEmpty(t *testing.T) {
	cfg := config.NewDefaultConfig()
	cfg.Policy.RequireEmail = false

	var createdFields db.AccountFields
	mockDb := &mock.Db{
		CreateAccountFunc: func(fields db.AccountFields) (*db.Account, error) {
			createdFields = fields
			return &db.Account{ID: "acc-1", Login: fields.Login}, nil
		},
	}
	app := newTestApp(t, WithDbApp(mockDb), WithConfig(cfg))

	id, err := app.CreateAccount(context.Background(), userinfo.UserInfo{Sub: "sub-1"})
	if err != nil {
		t.Fatalf("CreateAccount failed: %v", err)
	}
	if id == "" {
		t.Error("expected an account id")
	}
	if createdFields.Login == "" {
		t.Error("login must be generated, not empty")
	}
	if createdFields.Nickname != createdFields.Login {
		t.Errorf("Nickname = %q, want the generated login %q", createdFields.Nickname, createdFields.Login)
	}
}

func TestCreateAccountVeto(t *testing.T) {
	createCalled := false
	mockDb := &mock.Db{
		CreateAccountFunc: func(fields db.AccountFields) (*db.Account, error) {
			createCalled = true
			return nil, errors.New("should not be reached")
		},
	}
	sink := &recordingNotifier{}
	app := newTestApp(t,
		WithDbApp(mockDb),
		WithNotifier(sink),
		WithCreateHook(func(fields db.AccountFields) bool { return false }),
	)

	_, err := app.CreateAccount(context.Background(), userinfo.UserInfo{
		Sub:   "sub-1",
		Email: "alice@example.com",
	})
	if !errors.Is(err, ErrCreateRejected) {
		t.Fatalf("expected ErrCreateRejected, got %v", err)
	}
	if createCalled {
		t.Error("vetoed creation must not touch the store")
	}
	if len(sink.all()) != 0 {
		t.Error("vetoed creation must not fire a notification")
	}
}

func TestCreateAccountHookSeesFinalFields(t *testing.T) {
	var hookFields db.AccountFields
	app := newTestApp(t, WithCreateHook(func(fields db.AccountFields) bool {
		hookFields = fields
		return true
	}))

	_, err := app.CreateAccount(context.Background(), userinfo.UserInfo{
		Sub:   "sub-1",
		Email: "alice@example.com",
	})
	if err != nil {
		t.Fatalf("CreateAccount failed: %v", err)
	}
	if hookFields.Login != "alice" {
		t.Errorf("hook saw login %q, want %q", hookFields.Login, "alice")
	}
	if hookFields.Password == "" {
		t.Error("hook must see the generated password hash")
	}
}

func TestCreateAccountCollision(t *testing.T) {
	taken := map[string]bool{"alice": true}
	var created db.AccountFields
	mockDb := &mock.Db{
		AccountExistsWithLoginFunc: func(login string) (bool, error) {
			return taken[login], nil
		},
		CreateAccountFunc: func(fields db.AccountFields) (*db.Account, error) {
			created = fields
			return &db.Account{ID: "acc-1", Login: fields.Login, Email: fields.Email}, nil
		},
	}
	app := newTestApp(t, WithDbApp(mockDb))

	_, err := app.CreateAccount(context.Background(), userinfo.UserInfo{
		Sub:   "sub-1",
		Email: "alice@example.com",
	})
	if err != nil {
		t.Fatalf("CreateAccount failed: %v", err)
	}
	if created.Login == "alice" {
		t.Error("collision was not resolved")
	}
	if !strings.HasPrefix(created.Login, "alice") {
		t.Errorf("resolved login %q should keep the candidate as prefix", created.Login)
	}
}

// A store whose existence check always reports true must not make the
// collision loop spin forever.
func TestCreateAccountCollisionCap(t *testing.T) {
	probes := 0
	mockDb := &mock.Db{
		AccountExistsWithLoginFunc: func(login string) (bool, error) {
			probes++
			return true, nil
		},
	}
	cfg := config.NewDefaultConfig()
	cfg.Policy.LoginSuffixAttempts = 5
	app := newTestApp(t, WithDbApp(mockDb), WithConfig(cfg))

	id, err := app.CreateAccount(context.Background(), userinfo.UserInfo{
		Sub:   "sub-1",
		Email: "alice@example.com",
	})
	if err != nil {
		t.Fatalf("CreateAccount failed: %v", err)
	}
	if id == "" {
		t.Error("expected an account id from the fallback path")
	}
	if probes != 5 {
		t.Errorf("expected exactly 5 existence probes, got %d", probes)
	}
}

func TestCreateAccountStoreFailurePropagated(t *testing.T) {
	storeErr := errors.New("disk full")
	mockDb := &mock.Db{
		CreateAccountFunc: func(fields db.AccountFields) (*db.Account, error) {
			return nil, storeErr
		},
	}
	sink := &recordingNotifier{}
	app := newTestApp(t, WithDbApp(mockDb), WithNotifier(sink))

	_, err := app.CreateAccount(context.Background(), userinfo.UserInfo{
		Sub:   "sub-1",
		Email: "alice@example.com",
	})
	if !errors.Is(err, storeErr) {
		t.Fatalf("store failure must propagate as-is, got %v", err)
	}
	if len(sink.all()) != 0 {
		t.Error("no notification must fire on store failure")
	}
}

func TestCreateAccountLinksAndNotifies(t *testing.T) {
	meta := map[string]string{}
	mockDb := &mock.Db{
		SetMetaFunc: func(accountID, key, value string) error {
			meta[accountID+"/"+key] = value
			return nil
		},
	}
	sink := &recordingNotifier{}
	app := newTestApp(t, WithDbApp(mockDb), WithNotifier(sink))

	id, err := app.CreateAccount(context.Background(), userinfo.UserInfo{
		Sub:         "sub-123",
		Email:       "alice@example.com",
		PhoneNumber: "+31612345678",
	})
	if err != nil {
		t.Fatalf("CreateAccount failed: %v", err)
	}

	if got := meta[id+"/"+app.linkageKey()]; got != "sub-123" {
		t.Errorf("linkage = %q, want %q", got, "sub-123")
	}
	if got := meta[id+"/"+app.extendedKey()]; !strings.Contains(got, "+31612345678") {
		t.Errorf("extended attributes blob = %q, want the phone number in it", got)
	}

	events := sink.all()
	if len(events) != 1 {
		t.Fatalf("expected exactly one event, got %d", len(events))
	}
	if events[0].Type != notify.AccountCreated {
		t.Errorf("event type = %v, want AccountCreated", events[0].Type)
	}
	if events[0].AccountID != id {
		t.Errorf("event account id = %q, want %q", events[0].AccountID, id)
	}
}

// Extended attributes persist only when the userinfo actually carried some.
func TestCreateAccountNoExtendedWrite(t *testing.T) {
	var metaKeys []string
	mockDb := &mock.Db{
		SetMetaFunc: func(accountID, key, value string) error {
			metaKeys = append(metaKeys, key)
			return nil
		},
	}
	app := newTestApp(t, WithDbApp(mockDb))

	_, err := app.CreateAccount(context.Background(), userinfo.UserInfo{
		Sub:   "sub-1",
		Email: "alice@example.com",
	})
	if err != nil {
		t.Fatalf("CreateAccount failed: %v", err)
	}

	for _, k := range metaKeys {
		if k == app.extendedKey() {
			t.Error("extended attributes must not be written when empty")
		}
	}
}

// A linkage failure after a successful create must not fail the sign-in.
func TestCreateAccountLinkageFailureTolerated(t *testing.T) {
	mockDb := &mock.Db{
		SetMetaFunc: func(accountID, key, value string) error {
			return errors.New("meta store down")
		},
	}
	app := newTestApp(t, WithDbApp(mockDb))

	id, err := app.CreateAccount(context.Background(), userinfo.UserInfo{
		Sub:   "sub-1",
		Email: "alice@example.com",
	})
	if err != nil {
		t.Fatalf("CreateAccount failed: %v", err)
	}
	if id == "" {
		t.Error("expected an account id despite linkage failure")
	}
}
