// Package login authenticates a user against the API and opens the session.
package login

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/MrJamesThe3rd/billed/internal/gateway"
	"github.com/MrJamesThe3rd/billed/internal/route"
	"github.com/MrJamesThe3rd/billed/internal/session"
)

var ErrMissingCredentials = errors.New("email and password are required")

//go:generate mockgen -source=service.go -destination=authenticator_mock.go -package=login
type Authenticator interface {
	Login(ctx context.Context, email, password string) (*gateway.LoginResult, error)
}

type Service struct {
	auth     Authenticator
	session  *session.Context
	navigate route.Navigator
}

func NewService(auth Authenticator, sess *session.Context, navigate route.Navigator) *Service {
	if navigate == nil {
		navigate = route.Discard
	}

	return &Service{auth: auth, session: sess, navigate: navigate}
}

// Login stores the identity and token returned by the API and navigates to
// the home route of the user type.
func (s *Service) Login(ctx context.Context, email, password string) (session.User, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return session.User{}, ErrMissingCredentials
	}

	res, err := s.auth.Login(ctx, email, password)
	if err != nil {
		slog.Error("failed to log in", "email", email, "error", err)
		return session.User{}, fmt.Errorf("logging in: %w", err)
	}

	if err := s.session.SetUser(ctx, res.User); err != nil {
		return session.User{}, err
	}

	if err := s.session.SetToken(ctx, res.JWT); err != nil {
		return session.User{}, err
	}

	s.navigate(Home(res.User.Type))

	return res.User, nil
}

// Home is the route a user lands on after login.
func Home(t session.UserType) route.Path {
	if t == session.Admin {
		return route.Dashboard
	}

	return route.Bills
}
