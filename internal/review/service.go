// Package review lets an administrator accept or refuse pending bills.
package review

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/MrJamesThe3rd/billed/internal/bill"
	"github.com/MrJamesThe3rd/billed/internal/gateway"
	"github.com/MrJamesThe3rd/billed/internal/listing"
	"github.com/MrJamesThe3rd/billed/internal/route"
	"github.com/MrJamesThe3rd/billed/internal/session"
)

type Service struct {
	gateway  gateway.Gateway
	listing  *listing.Service
	session  *session.Context
	navigate route.Navigator
}

func NewService(g gateway.Gateway, sess *session.Context, navigate route.Navigator) *Service {
	if g == nil {
		g = gateway.None{}
	}

	if navigate == nil {
		navigate = route.Discard
	}

	return &Service{gateway: g, listing: listing.NewService(g), session: sess, navigate: navigate}
}

// Pending returns the bills awaiting review, oldest first.
func (s *Service) Pending(ctx context.Context) ([]listing.DisplayBill, error) {
	if err := s.requireAdmin(ctx); err != nil {
		return nil, err
	}

	bills, err := s.listing.GetBills(ctx)
	if err != nil {
		return nil, err
	}

	return slices.DeleteFunc(bills, func(b listing.DisplayBill) bool {
		return b.Status != bill.StatusPending
	}), nil
}

func (s *Service) Accept(ctx context.Context, id, comment string) (*bill.Bill, error) {
	return s.decide(ctx, id, bill.StatusAccepted, comment)
}

func (s *Service) Refuse(ctx context.Context, id, comment string) (*bill.Bill, error) {
	return s.decide(ctx, id, bill.StatusRefused, comment)
}

func (s *Service) decide(ctx context.Context, id string, next bill.Status, comment string) (*bill.Bill, error) {
	if err := s.requireAdmin(ctx); err != nil {
		return nil, err
	}

	b, err := s.gateway.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("loading bill %s: %w", id, err)
	}

	if !b.Status.CanTransitionTo(next) {
		return nil, fmt.Errorf("%w: %s to %s", bill.ErrInvalidTransition, b.Status, next)
	}

	b.Status = next
	b.CommentAdmin = comment

	updated, err := s.gateway.Update(ctx, gateway.UpdatePayload{Bill: *b, Selector: id})
	if err != nil {
		slog.Error("failed to review bill", "id", id, "status", next, "error", err)
		return nil, fmt.Errorf("saving review of bill %s: %w", id, err)
	}

	s.navigate(route.Dashboard)

	return updated, nil
}

func (s *Service) requireAdmin(ctx context.Context) error {
	u, err := s.session.User(ctx)
	if err != nil {
		return err
	}

	if u.Type != session.Admin {
		return bill.ErrForbidden
	}

	return nil
}
