package gateway

import (
	"context"

	"github.com/MrJamesThe3rd/billed/internal/bill"
)

// None is the Gateway used when no remote store is configured. Listing yields
// nothing and writes report ErrNoStore so callers can skip them.
type None struct{}

func (None) List(context.Context) ([]bill.Bill, error) {
	return []bill.Bill{}, nil
}

func (None) Get(context.Context, string) (*bill.Bill, error) {
	return nil, bill.ErrNotFound
}

func (None) Create(context.Context, CreatePayload) (*CreateResult, error) {
	return nil, ErrNoStore
}

func (None) Update(context.Context, UpdatePayload) (*bill.Bill, error) {
	return nil, ErrNoStore
}

// Login fails with ErrNoStore; there is nobody to authenticate against.
func (None) Login(context.Context, string, string) (*LoginResult, error) {
	return nil, ErrNoStore
}
