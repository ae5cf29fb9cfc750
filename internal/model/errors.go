package model

import "errors"

var (
	ErrMissingLineReference = errors.New("missing line reference")
	ErrCycleDetected        = errors.New("cycle detected")
	ErrDuplicateLineRef     = errors.New("duplicate line reference")
	ErrInvalidLine          = errors.New("invalid line definition")
	ErrInvalidAccountCode   = errors.New("invalid account code")
	ErrNegativeAmount       = errors.New("amount must not be negative")
	ErrDuplicateAccount     = errors.New("duplicate account")
	ErrAuxiliaryLoad        = errors.New("auxiliary corpus load failed")
	ErrUnknownStatement     = errors.New("unknown statement")
	ErrUnknownSystem        = errors.New("unknown accounting system")
)
