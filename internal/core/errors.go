package core

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

// Validation failures. All are detected before a transaction is opened, so
// a rejected request never leaves partial state behind.
var (
	ErrEmptyLineItems     = errors.New("order must have at least one line item")
	ErrInvalidQuantity    = errors.New("quantity must be > 0")
	ErrInvalidPrice       = errors.New("price per unit must be > 0")
	ErrInvalidDiscount    = errors.New("discount cannot be negative")
	ErrInvalidReceived    = errors.New("amount received cannot be negative")
	ErrMissingCustomer    = errors.New("customer is required")
	ErrInvalidStockAmount = errors.New("stock addition quantity must be > 0")
	ErrMissingName        = errors.New("name is required")
	ErrInvalidAmount      = errors.New("amount must be > 0")
)

// State-transition guards for return/un-return.
var (
	ErrAlreadyReturned = errors.New("order is already returned")
	ErrNotReturned     = errors.New("order is not returned")
)

// NotFoundError reports an unknown entity reference.
type NotFoundError struct {
	Entity string
	ID     int
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Entity, e.ID)
}

// IsNotFound reports whether err carries a NotFoundError anywhere in its chain.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// IsValidation reports whether err stems from input validation.
func IsValidation(err error) bool {
	for _, sentinel := range []error{
		ErrEmptyLineItems, ErrInvalidQuantity, ErrInvalidPrice,
		ErrInvalidDiscount, ErrInvalidReceived, ErrMissingCustomer,
		ErrInvalidStockAmount, ErrMissingName, ErrInvalidAmount,
	} {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}

// IsStateConflict reports whether err is a return/un-return guard failure.
func IsStateConflict(err error) bool {
	return errors.Is(err, ErrAlreadyReturned) || errors.Is(err, ErrNotReturned)
}

// IsSerializationFailure classifies Postgres serialization and deadlock
// errors (40001, 40P01). Callers should retry the whole operation; the
// transaction has already been rolled back in full.
func IsSerializationFailure(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "40001" || pgErr.Code == "40P01"
	}
	return false
}

// isForeignKeyViolation matches pg error 23503, raised when an order or line
// item references a customer/product row that does not exist.
func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23503"
	}
	return false
}
