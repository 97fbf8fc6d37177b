package service

import "errors"

var (
	ErrNotFound             = errors.New("not found")
	ErrJobNotEligible       = errors.New("no job for pay")
	ErrInsufficientFunds    = errors.New("insufficient funds")
	ErrDepositLimitExceeded = errors.New("deposit limit exceeded")
	ErrInvalidRange         = errors.New("start date and end date must be set")
	ErrNoData               = errors.New("no paid jobs in selected period")
	ErrInvalidInput         = errors.New("invalid input")
	ErrTransferFailed       = errors.New("transfer failed")
)
