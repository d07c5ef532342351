// Package auth keeps the user directory and the current session.
//
// Passwords are stored and compared in plaintext. Emails are trimmed and
// lower-cased before every comparison, so registration and login are
// case-insensitive.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/safar/go-storefront/internal/events"
	"github.com/safar/go-storefront/internal/models"
	"github.com/safar/go-storefront/internal/paging"
	"github.com/safar/go-storefront/internal/store"
	"go.uber.org/zap"
)

// AdminID is the fixed id of the built-in administrator.
const AdminID = "admin"

// MinPasswordLength applies to registration only; the admin password is
// configured, not registered.
const MinPasswordLength = 6

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrDuplicateUser      = errors.New("email already registered")
	ErrNoSession          = errors.New("no active session")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidUser        = errors.New("email, password and name are required")
	ErrPasswordTooShort   = fmt.Errorf("%w: password must be at least %d characters", ErrInvalidUser, MinPasswordLength)
)

// AdminCredentials configure the single built-in administrator.
type AdminCredentials struct {
	Email    string
	Password string
}

type Directory struct {
	mu    sync.Mutex
	users []models.User
	admin models.User

	session *Session
	store   store.Store
	logger  *zap.Logger
	pub     events.Publisher
	now     func() time.Time
	newID   func() string
}

// NewDirectory loads registered users and the last session from s.
func NewDirectory(ctx context.Context, s store.Store, admin AdminCredentials, logger *zap.Logger, pub events.Publisher) *Directory {
	if logger == nil {
		logger = zap.NewNop()
	}
	if pub == nil {
		pub = events.Discard
	}

	d := &Directory{
		admin: models.User{
			ID:        AdminID,
			Email:     normalizeEmail(admin.Email),
			Password:  admin.Password,
			Name:      "Admin",
			IsAdmin:   true,
			CreatedAt: time.Now(),
		},
		session: &Session{},
		store:   s,
		logger:  logger.Named("auth"),
		pub:     pub,
		now:     time.Now,
		newID:   models.NewID,
	}

	d.users, _ = store.Load[[]models.User](ctx, s, store.KeyUsers, d.logger)

	if current, ok := store.Load[models.User](ctx, s, store.KeyCurrentUser, d.logger); ok {
		d.session.set(&current)
	}

	return d
}

// Session exposes the directory's session for read-only use by other
// components.
func (d *Directory) Session() *Session {
	return d.session
}

func (d *Directory) Login(ctx context.Context, email, password string) (*models.User, error) {
	email = normalizeEmail(email)

	d.mu.Lock()
	var found *models.User
	if email == d.admin.Email && password == d.admin.Password {
		u := d.admin.Clone()
		found = &u
	} else {
		for _, u := range d.users {
			if normalizeEmail(u.Email) == email && u.Password == password {
				c := u.Clone()
				found = &c
				break
			}
		}
	}
	if found == nil {
		d.mu.Unlock()
		d.logger.Info("login rejected")
		return nil, ErrInvalidCredentials
	}

	d.session.set(found)
	store.Persist(ctx, d.store, store.KeyCurrentUser, found, d.logger)
	d.mu.Unlock()

	d.pub.Publish(events.Event{Kind: events.SessionChanged, Subject: found.ID})
	d.logger.Info("login", zap.String("user_id", found.ID), zap.Bool("admin", found.IsAdmin))
	return found, nil
}

// Register adds a non-admin user. It does not log the new user in. The
// reserved and duplicate email checks come before the password length
// check.
func (d *Directory) Register(ctx context.Context, email, password, name string) (*models.User, error) {
	email = normalizeEmail(email)
	name = strings.TrimSpace(name)
	if email == "" || password == "" || name == "" {
		return nil, ErrInvalidUser
	}

	d.mu.Lock()
	if email == d.admin.Email {
		d.mu.Unlock()
		return nil, ErrDuplicateUser
	}
	for _, u := range d.users {
		if normalizeEmail(u.Email) == email {
			d.mu.Unlock()
			return nil, ErrDuplicateUser
		}
	}
	if len([]rune(password)) < MinPasswordLength {
		d.mu.Unlock()
		return nil, ErrPasswordTooShort
	}

	user := models.User{
		ID:        d.newID(),
		Email:     email,
		Password:  password,
		Name:      name,
		IsAdmin:   false,
		CreatedAt: d.now(),
	}
	d.users = append(d.users, user)
	store.Persist(ctx, d.store, store.KeyUsers, d.users, d.logger)
	d.mu.Unlock()

	d.pub.Publish(events.Event{Kind: events.UsersChanged, Subject: user.ID})
	d.logger.Info("user registered", zap.String("user_id", user.ID))
	return &user, nil
}

// Logout ends the session. The directory is untouched.
func (d *Directory) Logout(ctx context.Context) {
	d.mu.Lock()
	d.session.set(nil)
	store.Erase(ctx, d.store, store.KeyCurrentUser, d.logger)
	d.mu.Unlock()

	d.pub.Publish(events.Event{Kind: events.SessionChanged})
}

// UpdateProfile applies patch to the session user and, for regular users,
// to their directory entry. Without a session nothing changes and
// ErrNoSession is returned.
func (d *Directory) UpdateProfile(ctx context.Context, patch models.ProfilePatch) (*models.User, error) {
	d.mu.Lock()

	current := d.session.Current()
	if current == nil {
		d.mu.Unlock()
		return nil, ErrNoSession
	}

	updated := patch.Apply(*current)
	d.session.set(&updated)
	store.Persist(ctx, d.store, store.KeyCurrentUser, updated, d.logger)

	if !updated.IsAdmin {
		for i := range d.users {
			if d.users[i].ID == updated.ID {
				d.users[i] = updated.Clone()
				store.Persist(ctx, d.store, store.KeyUsers, d.users, d.logger)
				break
			}
		}
	}
	d.mu.Unlock()

	d.pub.Publish(events.Event{Kind: events.SessionChanged, Subject: updated.ID})
	return &updated, nil
}

// Users lists registered users, oldest first. The administrator is not
// part of the list.
func (d *Directory) Users() []models.User {
	d.mu.Lock()
	defer d.mu.Unlock()

	out := make([]models.User, len(d.users))
	for i, u := range d.users {
		out[i] = u.Clone()
	}
	return out
}

// ListUsers pages through registered users, newest first.
func (d *Directory) ListUsers(page, pageSize int) *paging.OffsetPage[models.User] {
	users := d.Users()
	for i, j := 0, len(users)-1; i < j; i, j = i+1, j-1 {
		users[i], users[j] = users[j], users[i]
	}
	return paging.Offset(users, page, pageSize)
}

func (d *Directory) User(id string) (*models.User, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if id == d.admin.ID {
		u := d.admin.Clone()
		return &u, nil
	}
	for _, u := range d.users {
		if u.ID == id {
			c := u.Clone()
			return &c, nil
		}
	}
	return nil, ErrUserNotFound
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
