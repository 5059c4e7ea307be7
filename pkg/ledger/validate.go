package ledger

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-playground/validator/v10"
)

// validate is a singleton validator instance
var validate *validator.Validate

func init() {
	validate = validator.New()
}

// CheckTransaction validates a ledger transaction. A failed check returns a
// *ValidationError; callers count and skip the row.
func CheckTransaction(txn *Transaction) error {
	if txn == nil {
		return errors.New("transaction cannot be nil")
	}

	if err := validate.Struct(txn); err != nil {
		return rejection("transaction", txn.ID, err)
	}

	// Struct tags cannot express finiteness for float64
	if math.IsNaN(txn.Amount) || math.IsInf(txn.Amount, 0) {
		return &ValidationError{Entity: "transaction", ID: txn.ID, Field: "Amount", Cause: ErrBadAmount}
	}

	return nil
}

// CheckVendor validates a vendor registry row.
func CheckVendor(v *Vendor) error {
	if v == nil {
		return errors.New("vendor cannot be nil")
	}

	if err := validate.Struct(v); err != nil {
		return rejection("vendor", v.ID, err)
	}

	return nil
}

// rejection converts a validator error into a *ValidationError for the
// first failing field.
func rejection(entity, id string, err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return &ValidationError{Entity: entity, ID: id, Cause: err}
	}

	first := verrs[0]
	cause := fmt.Errorf("validation failed (%s)", first.Tag())
	if first.Tag() == "required" {
		cause = ErrMissingField
	}

	return &ValidationError{Entity: entity, ID: id, Field: first.Field(), Cause: cause}
}
