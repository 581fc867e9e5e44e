package engine

import "errors"

// Code identifies a rejection reason as a stable machine-readable value.
// Codes are part of the API contract and never change meaning.
type Code string

// Rejection codes
const (
	CodeTooManyOwners              Code = "TOO_MANY_OWNERS"
	CodeTooFewOwners               Code = "TOO_FEW_OWNERS"
	CodeThresholdTooLow            Code = "THRESHOLD_TOO_LOW"
	CodeThresholdExceedsOwners     Code = "THRESHOLD_EXCEEDS_OWNERS"
	CodeNotAnOwner                 Code = "NOT_AN_OWNER"
	CodeInsufficientBalance        Code = "INSUFFICIENT_BALANCE"
	CodeOwnerAlreadyExists         Code = "OWNER_ALREADY_EXISTS"
	CodeTransactionAlreadyExecuted Code = "TRANSACTION_ALREADY_EXECUTED"
	CodeAlreadyApproved            Code = "ALREADY_APPROVED"
	CodeTransactionNotFound        Code = "TRANSACTION_NOT_FOUND"
	CodeThresholdNotMet            Code = "THRESHOLD_NOT_MET"
	CodeInvalidAmount              Code = "INVALID_AMOUNT"
	CodeUnknownCategory            Code = "UNKNOWN_CATEGORY"
	CodeWalletNotFound             Code = "WALLET_NOT_FOUND"
	CodeWalletAlreadyExists        Code = "WALLET_ALREADY_EXISTS"
)

// Error is a typed engine rejection carrying its code
type Error struct {
	Code Code   // Stable rejection code
	Msg  string // Human-readable message
}

// Error implements the error interface
func (e *Error) Error() string { return e.Msg }

// Is makes errors.Is match two engine errors by code
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e.Code == t.Code
}

// Sentinel errors, one per code
var (
	ErrTooManyOwners              = &Error{CodeTooManyOwners, "number of owners exceeds the limit for this category"}
	ErrTooFewOwners               = &Error{CodeTooFewOwners, "number of owners not enough for multisig"}
	ErrThresholdTooLow            = &Error{CodeThresholdTooLow, "threshold must be at least 2 to ensure collaboration"}
	ErrThresholdExceedsOwners     = &Error{CodeThresholdExceedsOwners, "threshold cannot exceed the number of owners"}
	ErrNotAnOwner                 = &Error{CodeNotAnOwner, "caller is not an owner of the multisig wallet"}
	ErrInsufficientBalance        = &Error{CodeInsufficientBalance, "insufficient balance in the multisig wallet"}
	ErrOwnerAlreadyExists         = &Error{CodeOwnerAlreadyExists, "owner already exists in the multisig wallet"}
	ErrTransactionAlreadyExecuted = &Error{CodeTransactionAlreadyExecuted, "transaction already executed"}
	ErrAlreadyApproved            = &Error{CodeAlreadyApproved, "caller has already approved this transaction"}
	ErrTransactionNotFound        = &Error{CodeTransactionNotFound, "transaction not found"}
	ErrThresholdNotMet            = &Error{CodeThresholdNotMet, "threshold not met for execution"}
	ErrInvalidAmount              = &Error{CodeInvalidAmount, "amount must be greater than zero"}
	ErrUnknownCategory            = &Error{CodeUnknownCategory, "unknown wallet category"}
	ErrWalletNotFound             = &Error{CodeWalletNotFound, "wallet not found"}
	ErrWalletAlreadyExists        = &Error{CodeWalletAlreadyExists, "wallet already exists"}
)

// CodeOf extracts the rejection code from an error, or "" if the error
// did not originate in the engine
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}
