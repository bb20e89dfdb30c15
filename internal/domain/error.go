package domain

import "errors"

var (
	// Common domain errors
	ErrNotFound           = errors.New("entity not found")
	ErrInvalidArgument    = errors.New("invalid argument")
	ErrNoPlanSelected     = errors.New("no plan selected")
	ErrCouponNotFound     = errors.New("coupon code not recognized")
	ErrSubmitInFlight     = errors.New("a submission is already in flight")
	ErrValidationFailed   = errors.New("validation failed")
	ErrTokenizationFailed = errors.New("payment tokenization failed")
	ErrBackendRejected    = errors.New("subscription rejected by backend")
	ErrBackendUnreachable = errors.New("subscription service unreachable")
)
