package listing_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/billed/internal/bill"
	"github.com/MrJamesThe3rd/billed/internal/listing"
)

func TestFormatDate(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "2004-04-04", want: "4 Avr. 04"},
		{in: "2002-02-02", want: "2 Fév. 02"},
		{in: "2021-12-25", want: "25 Déc. 21"},
		{in: "2020-08-01", want: "1 Aoû. 20"},
		{in: "2010-05-09", want: "9 Mai. 10"},
		{in: "2004-13-01", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := listing.FormatDate(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormatStatus(t *testing.T) {
	tests := map[bill.Status]string{
		bill.StatusPending:  "En attente",
		bill.StatusAccepted: "Accepté",
		bill.StatusRefused:  "Refusé",
	}

	for status, want := range tests {
		got, err := listing.FormatStatus(status)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := listing.FormatStatus("archived")
	assert.Error(t, err)
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "400 €", listing.FormatAmount(400))
	assert.NotEqual(t, "1234 €", listing.FormatAmount(1234))
}
