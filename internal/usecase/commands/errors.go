package commands

import "parkspot/internal/pkg/errs"

var (
	ErrInvalidInterval  = errs.New("invalid interval")
	ErrSlotNotFound     = errs.New("slot not found")
	ErrSlotUnavailable  = errs.New("slot is not physically available")
	ErrSlotNumberTaken  = errs.New("slot number already taken on this floor")
	ErrBookingNotFound  = errs.New("booking not found")
	ErrBookingConflict  = errs.New("booking conflict")
	ErrRuleNotFound     = errs.New("pricing rule not found")
	ErrRuleOverlap      = errs.New("pricing rule overlaps an existing rule")
	ErrDomainValidation = errs.New("domain validation error")

	ErrDuplicateRequest       = errs.New("duplicate request")
	ErrRequestInProgress      = errs.New("request in progress")
	ErrIdempotencyCheckFailed = errs.New("idempotency check failed")

	ErrDatabaseOperationFailed = errs.New("database operation failed")
)
