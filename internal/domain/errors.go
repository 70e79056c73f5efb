package domain

import "errors"

var (
	ErrNotFound          = errors.New("not found")
	ErrUserNotFound      = errors.New("user not found")
	ErrAccountNotFound   = errors.New("account not found")
	ErrRecipientNotFound = errors.New("recipient account not found")
	ErrAccountMismatch   = errors.New("account does not belong to this user")
	ErrAccountSuspended  = errors.New("account suspended")
	ErrAccountClosed     = errors.New("account closed")
	ErrSelfTransfer      = errors.New("cannot transfer to the same account")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrInvalidAmount     = errors.New("amount must be greater than zero")
	ErrLoanAmountTooLow  = errors.New("loan amount below minimum")
	ErrInvalidTerm       = errors.New("term out of range")
	ErrMissingField      = errors.New("required field missing")
	ErrVersionConflict   = errors.New("optimistic lock conflict")
)
