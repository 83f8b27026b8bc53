package services

import "errors"

var (
	ErrNotFound          = errors.New("not found")
	ErrForbidden         = errors.New("forbidden")
	ErrInvalidInput      = errors.New("invalid input")
	ErrInvalidStatus     = errors.New("invalid order status")
	ErrInvalidTransition = errors.New("invalid order transition")
	ErrApprovalPending   = errors.New("order has a pending cancellation request")
	ErrNoPendingApproval = errors.New("order has no pending cancellation request")
	ErrEmptyOrder        = errors.New("order has no items")
	ErrInsufficientStock = errors.New("insufficient stock")

	ErrOTPNotFound         = errors.New("no active code for this email")
	ErrOTPExpired          = errors.New("code has expired")
	ErrOTPInvalid          = errors.New("incorrect code")
	ErrOTPAttemptsExceeded = errors.New("too many incorrect attempts, request a new code")
	ErrOTPRateLimited      = errors.New("a code was sent recently, try again later")
)
