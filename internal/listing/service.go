// Package listing turns the raw bills of the remote store into display rows.
package listing

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"time"

	"github.com/MrJamesThe3rd/billed/internal/bill"
	"github.com/MrJamesThe3rd/billed/internal/gateway"
)

// DisplayBill is a bill with its date, status and amount ready to print.
// When a field could not be formatted its raw value is used and FormatErr
// holds the failures.
type DisplayBill struct {
	bill.Bill
	DisplayDate   string
	DisplayStatus string
	DisplayAmount string
	FormatErr     error

	date time.Time
}

// Dated reports whether the bill carries a parseable date.
func (d DisplayBill) Dated() bool {
	return !d.date.IsZero()
}

type Service struct {
	gateway gateway.Gateway
}

// NewService returns a listing service. A nil gateway behaves like gateway.None.
func NewService(g gateway.Gateway) *Service {
	if g == nil {
		g = gateway.None{}
	}

	return &Service{gateway: g}
}

// GetBills returns every bill visible to the session sorted by ascending
// date. A record that fails to format is kept with its raw values; bills
// without a valid date come last in their original order.
func (s *Service) GetBills(ctx context.Context) ([]DisplayBill, error) {
	raw, err := s.gateway.List(ctx)
	if err != nil {
		return nil, &FetchError{Err: err}
	}

	out := make([]DisplayBill, 0, len(raw))
	for _, b := range raw {
		out = append(out, Display(b))
	}

	slices.SortStableFunc(out, compareByDate)

	return out, nil
}

// Display formats a single bill. Failures are logged and recorded on the
// result, never returned.
func Display(b bill.Bill) DisplayBill {
	d := DisplayBill{
		Bill:          b,
		DisplayDate:   b.Date,
		DisplayStatus: string(b.Status),
		DisplayAmount: FormatAmount(b.Amount),
	}

	var errs []error

	if t, err := ParseDate(b.Date); err != nil {
		errs = append(errs, &FormatError{BillID: b.ID, Field: "date", Value: b.Date, Err: err})
	} else {
		d.date = t
		d.DisplayDate = formatTime(t)
	}

	if label, err := FormatStatus(b.Status); err != nil {
		errs = append(errs, &FormatError{BillID: b.ID, Field: "status", Value: string(b.Status), Err: err})
	} else {
		d.DisplayStatus = label
	}

	if len(errs) > 0 {
		d.FormatErr = errors.Join(errs...)
		slog.Warn("failed to format bill", "id", b.ID, "error", d.FormatErr)
	}

	return d
}

func compareByDate(a, b DisplayBill) int {
	switch {
	case a.Dated() && b.Dated():
		return a.date.Compare(b.date)
	case a.Dated():
		return -1
	case b.Dated():
		return 1
	}

	return 0
}
