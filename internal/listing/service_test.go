package listing_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/billed/internal/bill"
	"github.com/MrJamesThe3rd/billed/internal/gateway"
	"github.com/MrJamesThe3rd/billed/internal/listing"
)

func dates(bills []listing.DisplayBill) []string {
	out := make([]string, 0, len(bills))
	for _, b := range bills {
		out = append(out, b.Date)
	}

	return out
}

func TestService_GetBills(t *testing.T) {
	remoteErr := &gateway.RemoteError{Op: "list", StatusCode: 500, Err: errors.New("Erreur 500")}

	tests := []struct {
		name      string
		bills     []bill.Bill
		listErr   error
		wantDates []string
		wantErr   bool
	}{
		{
			name: "Sorted by ascending date",
			bills: []bill.Bill{
				{ID: "a", Date: "2004-04-04", Status: bill.StatusPending},
				{ID: "b", Date: "2002-02-02", Status: bill.StatusRefused},
				{ID: "c", Date: "2003-03-03", Status: bill.StatusAccepted},
			},
			wantDates: []string{"2002-02-02", "2003-03-03", "2004-04-04"},
		},
		{
			name: "Day before month does not sort lexically",
			bills: []bill.Bill{
				{ID: "a", Date: "2001-12-01", Status: bill.StatusPending},
				{ID: "b", Date: "2001-02-28", Status: bill.StatusPending},
			},
			wantDates: []string{"2001-02-28", "2001-12-01"},
		},
		{
			name: "Malformed date kept after dated records",
			bills: []bill.Bill{
				{ID: "a", Date: "not a date", Status: bill.StatusPending},
				{ID: "b", Date: "2003-03-03", Status: bill.StatusPending},
				{ID: "c", Date: "", Status: bill.StatusPending},
				{ID: "d", Date: "2001-01-01", Status: bill.StatusPending},
			},
			wantDates: []string{"2001-01-01", "2003-03-03", "not a date", ""},
		},
		{
			name:      "Empty store",
			bills:     []bill.Bill{},
			wantDates: []string{},
		},
		{
			name:    "Remote failure",
			listErr: remoteErr,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			g := gateway.NewMockGateway(ctrl)
			g.EXPECT().List(gomock.Any()).Return(tt.bills, tt.listErr)

			got, err := listing.NewService(g).GetBills(context.Background())

			if tt.wantErr {
				require.Error(t, err)
				assert.Nil(t, got)

				var fetchErr *listing.FetchError
				require.ErrorAs(t, err, &fetchErr)
				assert.ErrorIs(t, err, remoteErr)

				return
			}

			require.NoError(t, err)
			assert.Len(t, got, len(tt.bills))
			assert.Equal(t, tt.wantDates, dates(got))
		})
	}
}

func TestService_GetBillsStableForEqualDates(t *testing.T) {
	ctrl := gomock.NewController(t)
	g := gateway.NewMockGateway(ctrl)
	g.EXPECT().List(gomock.Any()).Return([]bill.Bill{
		{ID: "first", Date: "2002-02-02"},
		{ID: "early", Date: "2001-01-01"},
		{ID: "second", Date: "2002-02-02"},
	}, nil)

	got, err := listing.NewService(g).GetBills(context.Background())
	require.NoError(t, err)

	ids := []string{got[0].ID, got[1].ID, got[2].ID}
	assert.Equal(t, []string{"early", "first", "second"}, ids)
}

func TestService_GetBillsMalformedRecord(t *testing.T) {
	ctrl := gomock.NewController(t)
	g := gateway.NewMockGateway(ctrl)
	g.EXPECT().List(gomock.Any()).Return([]bill.Bill{
		{ID: "ok", Date: "2004-04-04", Status: bill.StatusPending, Amount: 400},
		{ID: "bad", Name: "encore", Date: "04/04/2004", Status: "lost", Amount: 100, VAT: "80"},
	}, nil)

	got, err := listing.NewService(g).GetBills(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)

	ok, bad := got[0], got[1]

	assert.NoError(t, ok.FormatErr)
	assert.Equal(t, "4 Avr. 04", ok.DisplayDate)
	assert.Equal(t, "En attente", ok.DisplayStatus)

	assert.Equal(t, "bad", bad.ID)
	assert.Equal(t, "encore", bad.Name)
	assert.Equal(t, bill.VAT("80"), bad.VAT)
	assert.Equal(t, "04/04/2004", bad.DisplayDate)
	assert.Equal(t, "lost", bad.DisplayStatus)

	var formatErr *listing.FormatError
	require.ErrorAs(t, bad.FormatErr, &formatErr)
	assert.Equal(t, "bad", formatErr.BillID)
	assert.Contains(t, bad.FormatErr.Error(), "status")
}

func TestService_GetBillsWithoutStore(t *testing.T) {
	for name, svc := range map[string]*listing.Service{
		"None": listing.NewService(gateway.None{}),
		"Nil":  listing.NewService(nil),
	} {
		t.Run(name, func(t *testing.T) {
			got, err := svc.GetBills(context.Background())
			require.NoError(t, err)
			assert.Empty(t, got)
		})
	}
}
