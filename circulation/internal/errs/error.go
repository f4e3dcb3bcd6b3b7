package errs

import (
	"errors"
)

// Validation and not-found errors: rejected before or at the first read.
var (
	ErrInvalidBorrower     = errors.New("borrower identity is required")
	ErrInvalidTarget       = errors.New("bookUid or copyUid is required")
	ErrInvalidDueDate      = errors.New("due date is in the past")
	ErrAmbiguousIdentifier = errors.New("identifier matches more than one open loan")
	ErrBookNotFound        = errors.New("book not found")
	ErrCopyNotFound        = errors.New("copy not found")
	ErrLoanNotFound        = errors.New("no open loan matches the identifier")
	ErrHoldNotFound        = errors.New("hold not found")
)

// Policy errors: the request is well-formed but the rules forbid it.
var (
	ErrNoCopyAvailable     = errors.New("no copy available")
	ErrAlreadyOnLoan       = errors.New("copy is not available")
	ErrAlreadyReturned     = errors.New("loan already returned")
	ErrDuplicateHold       = errors.New("patron already holds this book")
	ErrCopyFreelyAvailable = errors.New("copy is freely available, check out directly")
	ErrInvalidHoldState    = errors.New("hold is not cancelable")
	ErrInvalidCopyStatus   = errors.New("copy status transition not allowed")
	ErrRenewalNotAllowed   = errors.New("loan cannot be renewed")
	ErrForbidden           = errors.New("operation not permitted for this user")
)

// State-conflict errors: a concurrent operation won the conditional update;
// the caller may refetch and retry.
var (
	ErrConflict            = errors.New("conflicting update, refetch and retry")
	ErrHoldAlreadyResolved = errors.New("hold was resolved concurrently")
)

type ValidationErrorResponse struct {
	Message string `json:"message"`
	Errors  struct {
		AdditionalProperties string `json:"additionalProperties"`
	} `json:"errors"`
}
