package store

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/MrJamesThe3rd/billed/internal/bill"
)

func TestStore_NonUUIDIsNotFound(t *testing.T) {
	// No database: malformed ids are answered before any query.
	s := New(nil)
	ctx := context.Background()

	for _, id := range []string{"abc", "47qAXb6fIm2zOKkLzMro", ""} {
		_, err := s.GetBill(ctx, id)
		assert.ErrorIs(t, err, bill.ErrNotFound, id)

		err = s.UpdateBill(ctx, &bill.Bill{ID: id, Status: bill.StatusPending})
		assert.ErrorIs(t, err, bill.ErrNotFound, id)
	}
}

func TestTranslateError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{name: "Foreign key", err: &pgconn.PgError{Code: pgerrcode.ForeignKeyViolation}, want: bill.ErrUnknownEmployee},
		{name: "Invalid text", err: &pgconn.PgError{Code: pgerrcode.InvalidTextRepresentation}, want: bill.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := translateError(tt.err)
			assert.ErrorIs(t, got, tt.want)
			assert.ErrorIs(t, got, tt.err)
		})
	}

	other := errors.New("connection reset")
	assert.Same(t, other, translateError(other))

	unique := &pgconn.PgError{Code: pgerrcode.UniqueViolation}
	assert.Same(t, unique, translateError(unique))
}
