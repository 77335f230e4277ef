package errs

import "errors"

// Domain-specific sentinel errors for the circulation usecase layers.
// These are expected business-rule rejections, never retried.
var (
	// Lookup errors
	ErrSubscriberNotFound = errors.New("subscriber not found")
	ErrTitleNotFound      = errors.New("title not found")
	ErrCopyNotFound       = errors.New("copy not found")
	ErrBorrowNotFound     = errors.New("no active borrow for copy")

	// Borrow errors
	ErrSubscriberFrozen = errors.New("subscriber is frozen")
	ErrTitleBorrowed    = errors.New("title already borrowed by subscriber")
	ErrCopyBorrowed     = errors.New("copy is already borrowed")
	ErrOrderedByOther   = errors.New("copy is ordered by another subscriber")

	// Extend errors
	ErrExtensionWindowClosed = errors.New("extension window not yet open")
	ErrBorrowOverdue         = errors.New("extension not available after due date")
	ErrTitleOrdered          = errors.New("title has outstanding orders")

	// Order errors
	ErrTitleAlreadyOrdered = errors.New("title already ordered by subscriber")
	ErrCopiesAvailable     = errors.New("copies of the title are still available")
	ErrOrderBacklogFull    = errors.New("too many active orders for the title")

	// Account errors
	ErrSubscriberExists   = errors.New("subscriber already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")

	// Operation errors
	ErrDatabaseOperationFailed = errors.New("database operation failed")
)
