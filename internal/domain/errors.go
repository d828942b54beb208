package domain

import "errors"

var (
	ErrNotFound           = errors.New("not found")
	ErrNotPayable         = errors.New("campaign not payable")
	ErrAmountTooLow       = errors.New("amount too low")
	ErrMissingDonorInfo   = errors.New("missing donor info")
	ErrInvalidSignature   = errors.New("invalid signature")
	ErrQuotaExceeded      = errors.New("quota exceeded")
	ErrDuplicateOperation = errors.New("duplicate operation")
	ErrProviderFailure    = errors.New("provider failure")
)
