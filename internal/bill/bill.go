package bill

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	ErrNotFound          = errors.New("bill not found")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrImmutableField    = errors.New("field cannot be changed")
	ErrInvalidField      = errors.New("invalid field")
	ErrForbidden         = errors.New("forbidden")
	ErrUnknownEmployee   = errors.New("unknown employee")
)

// Status represents the review state of a bill.
type Status string

const (
	StatusPending  Status = "pending"
	StatusAccepted Status = "accepted"
	StatusRefused  Status = "refused"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusAccepted, StatusRefused:
		return true
	}

	return false
}

// Terminal reports whether no further transition is allowed from s.
func (s Status) Terminal() bool {
	return s == StatusAccepted || s == StatusRefused
}

// CanTransitionTo reports whether a bill in status s may move to next.
// pending -> pending is allowed so an employee can re-save a pending bill.
func (s Status) CanTransitionTo(next Status) bool {
	if !s.Valid() || !next.Valid() {
		return false
	}

	return !s.Terminal()
}

// Categories is the fixed set of expense types.
var Categories = []string{
	"Transports",
	"Restaurants et bars",
	"Hôtel et logement",
	"Services en ligne",
	"IT et électronique",
	"Equipement et matériel",
	"Fournitures de bureau",
}

func IsCategory(s string) bool {
	return slices.Contains(Categories, s)
}

// Proof file types accepted for upload, by extension and by MIME type.
var (
	AllowedProofExtensions = []string{"jpg", "jpeg", "png"}
	AllowedProofMIMETypes  = []string{"image/jpeg", "image/png"}
)

func IsAllowedProofExtension(ext string) bool {
	return slices.Contains(AllowedProofExtensions, strings.ToLower(strings.TrimPrefix(ext, ".")))
}

func IsAllowedProofMIMEType(mimeType string) bool {
	// Drop parameters such as "; charset=binary".
	base, _, _ := strings.Cut(mimeType, ";")
	return slices.Contains(AllowedProofMIMETypes, strings.ToLower(strings.TrimSpace(base)))
}

// Bill is an employee expense record. Field names follow the wire format.
type Bill struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	Type         string `json:"type"`
	Name         string `json:"name"`
	Date         string `json:"date"`
	Amount       int64  `json:"amount"`
	VAT          VAT    `json:"vat"`
	Pct          int    `json:"pct"`
	Commentary   string `json:"commentary"`
	FileURL      string `json:"fileUrl"`
	FileName     string `json:"fileName"`
	Status       Status `json:"status"`
	CommentAdmin string `json:"commentAdmin,omitempty"`
}

// VAT is a VAT amount kept as decimal text. It decodes from either a JSON
// string or a JSON number and always encodes as a string.
type VAT string

func ParseVAT(s string) (VAT, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", nil
	}

	d, err := decimal.NewFromString(strings.ReplaceAll(s, ",", "."))
	if err != nil {
		return "", fmt.Errorf("parsing vat %q: %w", s, err)
	}

	if d.IsNegative() {
		return "", fmt.Errorf("vat %q is negative", s)
	}

	return VAT(d.String()), nil
}

func (v *VAT) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*v = ""
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}

		*v = VAT(s)

		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("vat must be a string or a number: %w", err)
	}

	*v = VAT(n.String())

	return nil
}

// Decimal returns the numeric value of v; an empty VAT is zero.
func (v VAT) Decimal() (decimal.Decimal, error) {
	if v == "" {
		return decimal.Zero, nil
	}

	return decimal.NewFromString(string(v))
}
