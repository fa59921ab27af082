package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError is a structured error that maps to HTTP responses.
type AppError struct {
	Code       string `json:"error_code"`
	Message    string `json:"message"`
	HTTPStatus int    `json:"-"`
	Err        error  `json:"-"` // Wrapped internal error (not exposed to client)
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError.
func New(code string, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
	}
}

// Wrap wraps an internal error with an AppError.
func Wrap(code string, message string, httpStatus int, err error) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Err:        err,
	}
}

// HasCode reports whether err is (or wraps) an AppError with the given code.
func HasCode(err error, code string) bool {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		return false
	}
	return appErr.Code == code
}

// Error codes.
const (
	CodeNotFound            = "NFT_001"
	CodeStakedLockViolation = "NFT_002"
	CodeAlreadyStaked       = "NFT_003"
	CodeNotStaked           = "NFT_004"
	CodeDuplicateIdentifier = "NFT_005"
	CodeNoOpTransfer        = "NFT_006"

	CodeCommitmentMismatch = "IBC_001"
	CodeInvalidPacket      = "IBC_002"

	CodeAccessDenied     = "SEC_001"
	CodeInvalidSignature = "SEC_002"
	CodeTimestampExpired = "SEC_003"
	CodeNonceUsed        = "SEC_004"
	CodeMissingAuth      = "SEC_005"
	CodeInvalidToken     = "SEC_006"

	CodeInvalidInput = "VAL_001"

	CodeRateLimitExceeded = "RATE_001"

	CodeInternal    = "SYS_001"
	CodeLockTimeout = "SYS_002"
	CodeSealFailure = "SYS_003"
)

// ---- NFT lifecycle (NFT) ----

func ErrNotFound(entity string) *AppError {
	return New(CodeNotFound, fmt.Sprintf("%s not found", entity), http.StatusNotFound)
}

func ErrStakedLockViolation() *AppError {
	return New(CodeStakedLockViolation, "NFT is staked and cannot be transferred", http.StatusConflict)
}

func ErrAlreadyStaked() *AppError {
	return New(CodeAlreadyStaked, "NFT is already staked", http.StatusConflict)
}

func ErrNotStaked() *AppError {
	return New(CodeNotStaked, "NFT is not staked", http.StatusConflict)
}

func ErrDuplicateIdentifier() *AppError {
	return New(CodeDuplicateIdentifier, "NFT identifier already exists", http.StatusConflict)
}

func ErrNoOpTransfer() *AppError {
	return New(CodeNoOpTransfer, "Recipient already owns this NFT", http.StatusUnprocessableEntity)
}

// ---- Cross-chain portability (IBC) ----

func ErrCommitmentMismatch() *AppError {
	return New(CodeCommitmentMismatch, "Packet commitment does not match its content", http.StatusUnprocessableEntity)
}

func ErrInvalidPacket(reason string) *AppError {
	return New(CodeInvalidPacket, fmt.Sprintf("Invalid packet: %s", reason), http.StatusBadRequest)
}

// ---- Security (SEC) ----

func ErrAccessDenied() *AppError {
	return New(CodeAccessDenied, "Access denied", http.StatusForbidden)
}

func ErrInvalidSignature() *AppError {
	return New(CodeInvalidSignature, "Invalid signature", http.StatusUnauthorized)
}

func ErrTimestampExpired() *AppError {
	return New(CodeTimestampExpired, "Request timestamp expired", http.StatusForbidden)
}

func ErrNonceUsed() *AppError {
	return New(CodeNonceUsed, "Nonce has already been used", http.StatusForbidden)
}

func ErrMissingAuth() *AppError {
	return New(CodeMissingAuth, "Missing authentication headers", http.StatusUnauthorized)
}

func ErrInvalidToken() *AppError {
	return New(CodeInvalidToken, "Invalid or expired account token", http.StatusUnauthorized)
}

// ---- Rate Limiting (RATE) ----

func ErrRateLimitExceeded() *AppError {
	return New(CodeRateLimitExceeded, "Rate limit exceeded", http.StatusTooManyRequests)
}

// ---- System & Infrastructure (SYS) ----

func ErrDatabaseError(err error) *AppError {
	return Wrap(CodeInternal, "Internal database error", http.StatusInternalServerError, err)
}

func ErrLockTimeout(err error) *AppError {
	return Wrap(CodeLockTimeout, "Lock acquisition timeout", http.StatusServiceUnavailable, err)
}

func ErrSealFailure(err error) *AppError {
	return Wrap(CodeSealFailure, "Metadata sealing failure", http.StatusInternalServerError, err)
}

// InternalError wraps an internal error as a SYS_001 error.
func InternalError(err error) *AppError {
	return Wrap(CodeInternal, "Internal server error", http.StatusInternalServerError, err)
}

// Validation returns a VAL_001 input validation error.
func Validation(message string) *AppError {
	return New(CodeInvalidInput, message, http.StatusBadRequest)
}
