package session

import (
	"context"
	"errors"
	"testing"

	"financeiro/internal/core"
	"financeiro/internal/kv"
)

func newTestProvider(t *testing.T) *Provider {
	t.Helper()
	return NewProvider(kv.NewMemory())
}

func TestRegisterOpensSession(t *testing.T) {
	p := newTestProvider(t)
	ctx := context.Background()

	user, err := p.Register(ctx, "Ana@Example.com", "segredo")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if user.Email != "ana@example.com" {
		t.Errorf("expected normalized email, got %q", user.Email)
	}
	if user.UID == "" {
		t.Error("expected a generated uid")
	}

	current, err := p.Current(ctx)
	if err != nil {
		t.Fatalf("Current failed: %v", err)
	}
	if current == nil || current.UID != user.UID {
		t.Errorf("expected session for %q, got %+v", user.UID, current)
	}
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	p := newTestProvider(t)
	ctx := context.Background()

	if _, err := p.Register(ctx, "ana@example.com", "segredo"); err != nil {
		t.Fatalf("first Register failed: %v", err)
	}
	_, err := p.Register(ctx, "ana@example.com", "outra")
	if !errors.Is(err, core.ErrConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
	if err.Error() != MsgEmailTaken {
		t.Errorf("expected %q, got %q", MsgEmailTaken, err.Error())
	}
}

func TestLogin(t *testing.T) {
	p := newTestProvider(t)
	ctx := context.Background()

	registered, err := p.Register(ctx, "ana@example.com", "segredo")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if err := p.Logout(ctx); err != nil {
		t.Fatalf("Logout failed: %v", err)
	}

	if _, err := p.Login(ctx, "ana@example.com", "errada"); !errors.Is(err, core.ErrUnauthorized) {
		t.Fatalf("expected unauthorized for wrong password, got %v", err)
	}
	if _, err := p.Login(ctx, "ninguem@example.com", "segredo"); !errors.Is(err, core.ErrUnauthorized) {
		t.Fatalf("expected unauthorized for unknown email, got %v", err)
	}

	user, err := p.Login(ctx, "ana@example.com", "segredo")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if user.UID != registered.UID {
		t.Errorf("expected uid %q, got %q", registered.UID, user.UID)
	}
	current, err := p.Current(ctx)
	if err != nil {
		t.Fatalf("Current failed: %v", err)
	}
	if current == nil || current.UID != registered.UID {
		t.Errorf("expected open session, got %+v", current)
	}
}

func TestLogoutIsIdempotent(t *testing.T) {
	p := newTestProvider(t)
	ctx := context.Background()

	if err := p.Logout(ctx); err != nil {
		t.Fatalf("Logout without session failed: %v", err)
	}

	if _, err := p.Register(ctx, "ana@example.com", "segredo"); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if err := p.Logout(ctx); err != nil {
		t.Fatalf("Logout failed: %v", err)
	}
	if err := p.Logout(ctx); err != nil {
		t.Fatalf("repeated Logout failed: %v", err)
	}

	current, err := p.Current(ctx)
	if err != nil {
		t.Fatalf("Current failed: %v", err)
	}
	if current != nil {
		t.Errorf("expected no session, got %+v", current)
	}
}

func TestCurrentWithoutSession(t *testing.T) {
	p := newTestProvider(t)
	current, err := p.Current(context.Background())
	if err != nil {
		t.Fatalf("Current failed: %v", err)
	}
	if current != nil {
		t.Errorf("expected nil user, got %+v", current)
	}
}

func TestCurrentDiscardsCorruptSession(t *testing.T) {
	store := kv.NewMemory()
	p := NewProvider(store)
	ctx := context.Background()

	if err := store.Set(ctx, kv.KeyCurrentUser, []byte("{nope")); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	current, err := p.Current(ctx)
	if err != nil {
		t.Fatalf("Current failed: %v", err)
	}
	if current != nil {
		t.Errorf("expected corrupt session to read as absent, got %+v", current)
	}
}

func TestSeedTestUser(t *testing.T) {
	p := newTestProvider(t)
	ctx := context.Background()

	if err := p.SeedTestUser(ctx); err != nil {
		t.Fatalf("SeedTestUser failed: %v", err)
	}
	user, err := p.Login(ctx, TestUserEmail, TestUserPassword)
	if err != nil {
		t.Fatalf("Login as test user failed: %v", err)
	}
	if user.UID != TestUserUID {
		t.Errorf("expected uid %q, got %q", TestUserUID, user.UID)
	}
	// Running the seed again must not duplicate or overwrite anything.
	if err := p.SeedTestUser(ctx); err != nil {
		t.Fatalf("second SeedTestUser failed: %v", err)
	}
}

func TestSeedTestUserSkipsExistingAccounts(t *testing.T) {
	p := newTestProvider(t)
	ctx := context.Background()

	if _, err := p.Register(ctx, "ana@example.com", "segredo"); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if err := p.SeedTestUser(ctx); err != nil {
		t.Fatalf("SeedTestUser failed: %v", err)
	}
	if _, err := p.Login(ctx, TestUserEmail, TestUserPassword); !errors.Is(err, core.ErrUnauthorized) {
		t.Fatalf("expected no test account when users exist, got %v", err)
	}
}

func TestSeedTestUserMarkerBlocksResurrection(t *testing.T) {
	store := kv.NewMemory()
	p := NewProvider(store)
	ctx := context.Background()

	if err := p.SeedTestUser(ctx); err != nil {
		t.Fatalf("SeedTestUser failed: %v", err)
	}
	// Wipe the accounts but keep the marker.
	if err := store.Delete(ctx, kv.KeyUsers); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if err := p.SeedTestUser(ctx); err != nil {
		t.Fatalf("second SeedTestUser failed: %v", err)
	}
	if _, err := p.Login(ctx, TestUserEmail, TestUserPassword); !errors.Is(err, core.ErrUnauthorized) {
		t.Fatalf("expected test user to stay gone, got %v", err)
	}
}

func TestOnChangeNotifications(t *testing.T) {
	p := newTestProvider(t)
	ctx := context.Background()

	var events []*User
	unsubscribe := p.OnChange(func(u *User) {
		events = append(events, u)
	})

	user, err := p.Register(ctx, "ana@example.com", "segredo")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if err := p.Logout(ctx); err != nil {
		t.Fatalf("Logout failed: %v", err)
	}
	if _, err := p.Login(ctx, "ana@example.com", "segredo"); err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	if len(events) != 3 {
		t.Fatalf("expected 3 notifications, got %d", len(events))
	}
	if events[0] == nil || events[0].UID != user.UID {
		t.Errorf("expected register notification for %q, got %+v", user.UID, events[0])
	}
	if events[1] != nil {
		t.Errorf("expected nil notification on logout, got %+v", events[1])
	}
	if events[2] == nil || events[2].UID != user.UID {
		t.Errorf("expected login notification for %q, got %+v", user.UID, events[2])
	}

	unsubscribe()
	if err := p.Logout(ctx); err != nil {
		t.Fatalf("Logout failed: %v", err)
	}
	if len(events) != 3 {
		t.Fatalf("expected no notifications after unsubscribe, got %d", len(events))
	}
}
