// Package session holds the locally persisted identity of the authenticated
// user. Services receive a *Context explicitly; nothing reads session state
// from globals.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

var ErrNoSession = errors.New("no active session")

const (
	KeyUser = "user"
	KeyJWT  = "jwt"
)

// Store is a string key/value persistence.
type Store interface {
	GetItem(ctx context.Context, key string) (string, bool, error)
	SetItem(ctx context.Context, key, value string) error
	Clear(ctx context.Context) error
}

type UserType string

const (
	Employee UserType = "Employee"
	Admin    UserType = "Admin"
)

// User is the value stored under KeyUser.
type User struct {
	Type  UserType `json:"type"`
	Email string   `json:"email"`
}

type Context struct {
	store Store
}

func New(store Store) *Context {
	return &Context{store: store}
}

func (c *Context) User(ctx context.Context) (User, error) {
	raw, ok, err := c.store.GetItem(ctx, KeyUser)
	if err != nil {
		return User{}, fmt.Errorf("reading session user: %w", err)
	}

	if !ok || raw == "" {
		return User{}, ErrNoSession
	}

	var u User
	if err := json.Unmarshal([]byte(raw), &u); err != nil {
		return User{}, fmt.Errorf("decoding session user: %w", err)
	}

	if u.Email == "" {
		return User{}, ErrNoSession
	}

	return u, nil
}

func (c *Context) SetUser(ctx context.Context, u User) error {
	raw, err := json.Marshal(u)
	if err != nil {
		return fmt.Errorf("encoding session user: %w", err)
	}

	return c.store.SetItem(ctx, KeyUser, string(raw))
}

// Token returns the bearer token, or "" when none is stored.
func (c *Context) Token(ctx context.Context) (string, error) {
	token, _, err := c.store.GetItem(ctx, KeyJWT)
	if err != nil {
		return "", fmt.Errorf("reading session token: %w", err)
	}

	return token, nil
}

func (c *Context) SetToken(ctx context.Context, token string) error {
	return c.store.SetItem(ctx, KeyJWT, token)
}

// Clear removes every session key. It is safe to call without a session.
func (c *Context) Clear(ctx context.Context) error {
	return c.store.Clear(ctx)
}
