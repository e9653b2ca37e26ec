// Package session resolves the active user that namespaces the record
// store. State changes are pushed to subscribers; nothing polls.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"financeiro/internal/core"
	"financeiro/internal/kv"

	"github.com/google/uuid"
)

// User-facing messages, kept from the original product.
const (
	MsgEmailTaken       = "Este email já está cadastrado"
	MsgBadCredentials   = "Email ou senha incorretos"
	MsgUserSaveFailed   = "Erro ao salvar usuários"
	MsgSessionSaveError = "Erro ao salvar sessão"
)

// Test account seeded on first run so the app is usable out of the box.
const (
	TestUserEmail    = "teste@teste.com"
	TestUserPassword = "123456"
	TestUserUID      = "test_user_123"
)

type (
	// User is the public identity, stored under currentUser without the
	// password.
	User struct {
		UID       string    `json:"uid"`
		Email     string    `json:"email"`
		CreatedAt time.Time `json:"createdAt"`
	}

	// storedUser is the users-map entry. The password is kept in
	// plaintext: a known weakness of the original store layout,
	// deliberately preserved and flagged rather than silently fixed.
	storedUser struct {
		UID       string    `json:"uid"`
		Email     string    `json:"email"`
		Password  string    `json:"password"`
		CreatedAt time.Time `json:"createdAt"`
	}
)

// Provider owns the users map and the currentUser key. Every state change
// notifies subscribers with the new current user (nil after logout).
type Provider struct {
	kv  kv.Store
	now func() time.Time

	mu      sync.Mutex
	subs    map[int]func(*User)
	nextSub int
}

func NewProvider(store kv.Store) *Provider {
	return &Provider{
		kv:   store,
		now:  time.Now,
		subs: make(map[int]func(*User)),
	}
}

// OnChange registers a subscriber called after every session change. The
// returned function unsubscribes it.
func (p *Provider) OnChange(fn func(*User)) func() {
	p.mu.Lock()
	defer p.mu.Unlock()
	id := p.nextSub
	p.nextSub++
	p.subs[id] = fn
	return func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		delete(p.subs, id)
	}
}

func (p *Provider) notify(u *User) {
	p.mu.Lock()
	subs := make([]func(*User), 0, len(p.subs))
	for _, fn := range p.subs {
		subs = append(subs, fn)
	}
	p.mu.Unlock()
	for _, fn := range subs {
		fn(u)
	}
}

// Register creates a new account and opens a session for it. Conflict when
// the email is already taken.
func (p *Provider) Register(ctx context.Context, email, password string) (*User, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	users, err := p.loadUsers(ctx)
	if err != nil {
		return nil, err
	}
	if _, taken := users[email]; taken {
		return nil, core.Conflict(MsgEmailTaken)
	}

	now := p.now().UTC()
	user := User{
		UID:       newUserID(now),
		Email:     email,
		CreatedAt: now,
	}
	users[email] = storedUser{
		UID:       user.UID,
		Email:     user.Email,
		Password:  password,
		CreatedAt: user.CreatedAt,
	}

	if err := p.saveUsers(ctx, users); err != nil {
		return nil, err
	}
	if err := p.setCurrent(ctx, &user); err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "User registered", "user_id", user.UID)
	p.notify(&user)
	return &user, nil
}

// Login opens a session for an existing account.
func (p *Provider) Login(ctx context.Context, email, password string) (*User, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	users, err := p.loadUsers(ctx)
	if err != nil {
		return nil, err
	}

	stored, ok := users[email]
	if !ok || stored.Password != password {
		return nil, core.Unauthorized(MsgBadCredentials)
	}

	user := User{UID: stored.UID, Email: stored.Email, CreatedAt: stored.CreatedAt}
	if err := p.setCurrent(ctx, &user); err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "User logged in", "user_id", user.UID)
	p.notify(&user)
	return &user, nil
}

// Logout clears the session. Logging out with no session is a no-op
// success.
func (p *Provider) Logout(ctx context.Context) error {
	if err := p.kv.Delete(ctx, kv.KeyCurrentUser); err != nil {
		return core.StorageFault(MsgSessionSaveError, err)
	}
	slog.InfoContext(ctx, "User logged out")
	p.notify(nil)
	return nil
}

// Current returns the active user, or nil when no session exists. A
// corrupt session blob reads as no session.
func (p *Provider) Current(ctx context.Context) (*User, error) {
	data, ok, err := p.kv.Get(ctx, kv.KeyCurrentUser)
	if err != nil {
		return nil, core.StorageFault(MsgSessionSaveError, err)
	}
	if !ok {
		return nil, nil
	}
	var user User
	if err := json.Unmarshal(data, &user); err != nil {
		slog.WarnContext(ctx, "Discarding unreadable session", "error", err)
		return nil, nil
	}
	return &user, nil
}

// SeedTestUser creates the default test account once, only while the users
// map is still empty. Guarded by a marker key so a later wipe of the
// account does not resurrect it.
func (p *Provider) SeedTestUser(ctx context.Context) error {
	_, done, err := p.kv.Get(ctx, kv.KeyTestUserInitialized)
	if err != nil {
		return core.StorageFault(MsgUserSaveFailed, err)
	}
	if done {
		return nil
	}

	users, err := p.loadUsers(ctx)
	if err != nil {
		return err
	}
	if len(users) == 0 {
		users[TestUserEmail] = storedUser{
			UID:       TestUserUID,
			Email:     TestUserEmail,
			Password:  TestUserPassword,
			CreatedAt: p.now().UTC(),
		}
		if err := p.saveUsers(ctx, users); err != nil {
			return err
		}
		slog.InfoContext(ctx, "Seeded test user", "user_id", TestUserUID)
	}

	if err := p.kv.Set(ctx, kv.KeyTestUserInitialized, []byte("true")); err != nil {
		return core.StorageFault(MsgUserSaveFailed, err)
	}
	return nil
}

func (p *Provider) setCurrent(ctx context.Context, user *User) error {
	data, err := json.Marshal(user)
	if err != nil {
		return core.StorageFault(MsgSessionSaveError, err)
	}
	if err := p.kv.Set(ctx, kv.KeyCurrentUser, data); err != nil {
		return core.StorageFault(MsgSessionSaveError, err)
	}
	return nil
}

func (p *Provider) loadUsers(ctx context.Context) (map[string]storedUser, error) {
	data, ok, err := p.kv.Get(ctx, kv.KeyUsers)
	if err != nil {
		return nil, core.StorageFault(MsgUserSaveFailed, err)
	}
	if !ok {
		return map[string]storedUser{}, nil
	}
	var users map[string]storedUser
	if err := json.Unmarshal(data, &users); err != nil {
		slog.WarnContext(ctx, "Discarding unreadable users map", "error", err)
		return map[string]storedUser{}, nil
	}
	if users == nil {
		users = map[string]storedUser{}
	}
	return users, nil
}

func (p *Provider) saveUsers(ctx context.Context, users map[string]storedUser) error {
	data, err := json.Marshal(users)
	if err != nil {
		return core.StorageFault(MsgUserSaveFailed, err)
	}
	if err := p.kv.Set(ctx, kv.KeyUsers, data); err != nil {
		return core.StorageFault(MsgUserSaveFailed, err)
	}
	return nil
}

func newUserID(now time.Time) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:9]
	return fmt.Sprintf("user_%d_%s", now.UnixMilli(), suffix)
}
