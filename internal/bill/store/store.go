package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/MrJamesThe3rd/billed/internal/bill"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// scanBill reads a bill row from the scanner.
// Expected column order: id, email, type, name, date, amount, vat, pct, commentary,
// file_url, file_name, status, comment_admin
func scanBill(s scanner) (*bill.Bill, error) {
	var b bill.Bill

	var date sql.NullTime

	var vat, statusStr string

	if err := s.Scan(
		&b.ID, &b.Email, &b.Type, &b.Name, &date, &b.Amount, &vat, &b.Pct, &b.Commentary,
		&b.FileURL, &b.FileName, &statusStr, &b.CommentAdmin,
	); err != nil {
		return nil, err
	}

	if date.Valid {
		b.Date = date.Time.Format(time.DateOnly)
	}

	b.VAT = bill.VAT(vat)
	b.Status = bill.Status(statusStr)

	return &b, nil
}

const selectBillColumns = `
	id, email, type, name, date, amount, vat, pct, commentary,
	file_url, file_name, status, comment_admin
`

// nullDate converts a YYYY-MM-DD string into a nullable date parameter.
func nullDate(s string) (sql.NullTime, error) {
	if s == "" {
		return sql.NullTime{}, nil
	}

	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return sql.NullTime{}, fmt.Errorf("parsing date %q: %w", s, err)
	}

	return sql.NullTime{Time: t, Valid: true}, nil
}

func translateError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	switch pgErr.Code {
	case pgerrcode.ForeignKeyViolation:
		return fmt.Errorf("%w: %w", bill.ErrUnknownEmployee, err)
	case pgerrcode.InvalidTextRepresentation:
		return fmt.Errorf("%w: %w", bill.ErrNotFound, err)
	}

	return err
}

// validID reports whether id can name a row; ids are UUIDs.
func validID(id string) bool {
	return uuid.Validate(id) == nil
}

func (s *Store) CreateBill(ctx context.Context, b *bill.Bill) error {
	date, err := nullDate(b.Date)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO bills (id, email, type, name, date, amount, vat, pct, commentary,
			file_url, file_name, status, comment_admin, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, NOW(), NOW())
	`

	_, err = s.db.ExecContext(ctx, query,
		b.ID, b.Email, b.Type, b.Name, date, b.Amount, string(b.VAT), b.Pct, b.Commentary,
		b.FileURL, b.FileName, b.Status, b.CommentAdmin,
	)
	if err != nil {
		return fmt.Errorf("creating bill: %w", translateError(err))
	}

	return nil
}

func (s *Store) GetBill(ctx context.Context, id string) (*bill.Bill, error) {
	if !validID(id) {
		return nil, bill.ErrNotFound
	}

	query := `SELECT ` + selectBillColumns + ` FROM bills WHERE id = $1`

	b, err := scanBill(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, bill.ErrNotFound
		}

		return nil, fmt.Errorf("getting bill: %w", translateError(err))
	}

	return b, nil
}

func (s *Store) ListBills(ctx context.Context, filter bill.ListFilter) ([]*bill.Bill, error) {
	query := `SELECT ` + selectBillColumns + ` FROM bills WHERE TRUE`

	var args []any

	argIdx := 1

	if filter.Email != nil {
		query += fmt.Sprintf(" AND email = $%d", argIdx)

		args = append(args, *filter.Email)
		argIdx++
	}

	if filter.Status != nil {
		query += fmt.Sprintf(" AND status = $%d", argIdx)

		args = append(args, *filter.Status)
		argIdx++
	}

	query += " ORDER BY date ASC NULLS LAST, created_at ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing bills: %w", err)
	}
	defer rows.Close()

	var bills []*bill.Bill

	for rows.Next() {
		b, err := scanBill(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning bill: %w", err)
		}

		bills = append(bills, b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating bill rows: %w", err)
	}

	return bills, nil
}

// UpdateBill rewrites every mutable column. id and email are only used to
// select the row.
func (s *Store) UpdateBill(ctx context.Context, b *bill.Bill) error {
	if !validID(b.ID) {
		return bill.ErrNotFound
	}

	date, err := nullDate(b.Date)
	if err != nil {
		return err
	}

	query := `
		UPDATE bills
		SET type = $1, name = $2, date = $3, amount = $4, vat = $5, pct = $6, commentary = $7,
			file_url = $8, file_name = $9, status = $10, comment_admin = $11, updated_at = NOW()
		WHERE id = $12 AND email = $13
	`

	res, err := s.db.ExecContext(ctx, query,
		b.Type, b.Name, date, b.Amount, string(b.VAT), b.Pct, b.Commentary,
		b.FileURL, b.FileName, b.Status, b.CommentAdmin,
		b.ID, b.Email,
	)
	if err != nil {
		return fmt.Errorf("updating bill: %w", translateError(err))
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("updating bill: %w", err)
	}

	if n == 0 {
		return bill.ErrNotFound
	}

	return nil
}
