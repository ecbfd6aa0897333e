// Package gateway is the client side of the remote bill store. Services talk
// to the store only through Gateway.
package gateway

import (
	"context"

	"github.com/MrJamesThe3rd/billed/internal/bill"
)

//go:generate mockgen -source=gateway.go -destination=gateway_mock.go -package=gateway
type Gateway interface {
	List(ctx context.Context) ([]bill.Bill, error)
	Get(ctx context.Context, id string) (*bill.Bill, error)
	Create(ctx context.Context, payload CreatePayload) (*CreateResult, error)
	Update(ctx context.Context, payload UpdatePayload) (*bill.Bill, error)
}
