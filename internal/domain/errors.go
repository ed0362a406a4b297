package domain

import "errors"

// Domain errors (no external dependencies).
var (
	ErrNotFound       = errors.New("resource not found")
	ErrInvalidInput   = errors.New("invalid input")
	ErrDuplicate      = errors.New("duplicate resource")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrForbidden      = errors.New("access denied")
	ErrConflict       = errors.New("conflict with current state")
	ErrColumnMissing  = errors.New("required column not found")
	ErrEmptyInvoice   = errors.New("invoice has no header or lines")
	ErrGatewayFailure = errors.New("gateway request failed")
)
