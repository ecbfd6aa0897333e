package submission

import (
	"errors"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/MrJamesThe3rd/billed/internal/bill"
)

// Field identifiers of the new-bill form.
const (
	FieldType       = "expense-type"
	FieldName       = "expense-name"
	FieldDate       = "datepicker"
	FieldAmount     = "amount"
	FieldVAT        = "vat"
	FieldPct        = "pct"
	FieldCommentary = "commentary"
	FieldFile       = "file"
)

const defaultPct = 20

type Form struct {
	Type       string `form:"expense-type" validate:"required,expensetype"`
	Name       string `form:"expense-name" validate:"max=255"`
	Date       string `form:"datepicker" validate:"required,datetime=2006-01-02"`
	Amount     string `form:"amount" validate:"required,number"`
	VAT        string `form:"vat" validate:"omitempty,vat"`
	Pct        string `form:"pct" validate:"omitempty,number,max=3"`
	Commentary string `form:"commentary"`
}

// ParseForm reads the form values keyed by field identifier.
func ParseForm(values map[string]string) Form {
	get := func(k string) string { return strings.TrimSpace(values[k]) }

	return Form{
		Type:       get(FieldType),
		Name:       get(FieldName),
		Date:       get(FieldDate),
		Amount:     get(FieldAmount),
		VAT:        get(FieldVAT),
		Pct:        get(FieldPct),
		Commentary: values[FieldCommentary],
	}
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		return f.Tag.Get("form")
	})

	_ = v.RegisterValidation("expensetype", func(fl validator.FieldLevel) bool {
		return bill.IsCategory(fl.Field().String())
	})
	_ = v.RegisterValidation("vat", func(fl validator.FieldLevel) bool {
		_, err := bill.ParseVAT(fl.Field().String())
		return err == nil
	})

	return v
}

// Validate reports the first invalid field as a *ValidationError.
func (f Form) Validate() error {
	err := validate.Struct(f)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return &ValidationError{Field: fe.Field(), Value: fe.Value().(string), Reason: reason(fe)}
	}

	return err
}

func reason(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "required"
	case "expensetype":
		return "unknown expense type"
	case "datetime":
		return "date must be YYYY-MM-DD"
	case "number":
		return "must be a whole number"
	case "vat":
		return "must be a positive decimal"
	}

	return "failed " + fe.Tag()
}

// Bill builds the bill described by the form. The form must be valid.
func (f Form) Bill() (bill.Bill, error) {
	amount, err := strconv.ParseInt(f.Amount, 10, 64)
	if err != nil {
		return bill.Bill{}, &ValidationError{Field: FieldAmount, Value: f.Amount, Reason: err.Error()}
	}

	pct := defaultPct
	if f.Pct != "" {
		if pct, err = strconv.Atoi(f.Pct); err != nil {
			return bill.Bill{}, &ValidationError{Field: FieldPct, Value: f.Pct, Reason: err.Error()}
		}
	}

	vat, err := bill.ParseVAT(f.VAT)
	if err != nil {
		return bill.Bill{}, &ValidationError{Field: FieldVAT, Value: f.VAT, Reason: err.Error()}
	}

	return bill.Bill{
		Type:       f.Type,
		Name:       f.Name,
		Date:       f.Date,
		Amount:     amount,
		VAT:        vat,
		Pct:        pct,
		Commentary: f.Commentary,
	}, nil
}
