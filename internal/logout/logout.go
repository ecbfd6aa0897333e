// Package logout ends the authenticated session.
package logout

import (
	"context"
	"log/slog"

	"github.com/MrJamesThe3rd/billed/internal/route"
	"github.com/MrJamesThe3rd/billed/internal/session"
)

type Terminator struct {
	session  *session.Context
	navigate route.Navigator
}

func NewTerminator(sess *session.Context, navigate route.Navigator) *Terminator {
	if navigate == nil {
		navigate = route.Discard
	}

	return &Terminator{session: sess, navigate: navigate}
}

// HandleClick clears the session and returns to the login route. Navigation
// happens even when clearing fails.
func (t *Terminator) HandleClick(ctx context.Context) error {
	err := t.session.Clear(ctx)
	if err != nil {
		slog.Error("failed to clear session", "error", err)
	}

	t.navigate(route.Login)

	return err
}
