// Package domain provides shared domain-level sentinel errors.
package domain

import "errors"

// ErrNotFound indicates the requested entity does not exist.
var ErrNotFound = errors.New("not found")

// ErrConflict indicates a uniqueness or concurrent modification conflict.
var ErrConflict = errors.New("conflict")

// ErrUnauthenticated indicates the request carried no usable credential.
// Token verification failures deliberately collapse into this single error
// so callers cannot probe why a credential was rejected.
var ErrUnauthenticated = errors.New("unauthenticated")

// ErrInvalidToken indicates a token failed signature, structure, or expiry
// checks. Surfaced to clients only as ErrUnauthenticated.
var ErrInvalidToken = errors.New("invalid token")

// ErrInvalidCredentials indicates a login failed. Deliberately generic:
// an unknown email, a wrong password, and a deactivated account all map
// here so login cannot be used to enumerate accounts.
var ErrInvalidCredentials = errors.New("invalid credentials")

// ErrValidation indicates malformed or unacceptable input. Wrapped with
// field detail at the call site.
var ErrValidation = errors.New("validation failed")

// ErrQuotaExceeded indicates a tenant has reached a subscription limit.
// Distinct from authorization failures so clients can render an upgrade
// prompt instead of a generic error.
var ErrQuotaExceeded = errors.New("quota exceeded")

// ErrTenantNotFound indicates a quota or lookup operation referenced an
// unknown tenant.
var ErrTenantNotFound = errors.New("tenant not found")

// ErrTenantInactive indicates the tenant exists but is suspended; all
// creations are refused regardless of remaining capacity.
var ErrTenantInactive = errors.New("tenant inactive")

// ForbiddenError is an authorization denial with a coarse machine-readable
// reason code. Reasons never leak whether a target resource exists.
type ForbiddenError struct {
	Reason string
}

func (e *ForbiddenError) Error() string {
	return "forbidden: " + e.Reason
}

// Forbidden builds a ForbiddenError with the given reason code.
func Forbidden(reason string) *ForbiddenError {
	return &ForbiddenError{Reason: reason}
}
