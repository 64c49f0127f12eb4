package establishment

import (
	stderrors "errors"
	"fmt"

	"academos/internal/shared/errors"
)

// UnknownTenantError indicates the establishment ID is not in the registry.
// Not retryable; the caller sent a bad ID.
type UnknownTenantError struct {
	*errors.AppError
	EstablishmentID uint
}

// NewUnknownTenantError creates a new unknown tenant error
func NewUnknownTenantError(id uint) *UnknownTenantError {
	return &UnknownTenantError{
		AppError:        errors.NewNotFoundError("unknown establishment", fmt.Sprintf("id=%d", id)),
		EstablishmentID: id,
	}
}

func (e *UnknownTenantError) Unwrap() error { return e.AppError }

// InactiveTenantError indicates the establishment exists but has been
// deactivated. Routing to it is refused, not silently served.
type InactiveTenantError struct {
	*errors.AppError
	EstablishmentID uint
}

// NewInactiveTenantError creates a new inactive tenant error
func NewInactiveTenantError(id uint) *InactiveTenantError {
	return &InactiveTenantError{
		AppError:        errors.NewForbiddenError("establishment is deactivated", fmt.Sprintf("id=%d", id)),
		EstablishmentID: id,
	}
}

func (e *InactiveTenantError) Unwrap() error { return e.AppError }

// DuplicateSlugError indicates a create-time slug collision with an active
// establishment. The caller must choose a new slug.
type DuplicateSlugError struct {
	*errors.AppError
	Slug string
}

// NewDuplicateSlugError creates a new duplicate slug error
func NewDuplicateSlugError(slug string) *DuplicateSlugError {
	return &DuplicateSlugError{
		AppError: errors.NewConflictError("slug is already in use", slug),
		Slug:     slug,
	}
}

func (e *DuplicateSlugError) Unwrap() error { return e.AppError }

// ProvisioningFailedError indicates a transient infrastructure failure while
// creating or seeding a tenant database. A subsequent call may safely retry.
type ProvisioningFailedError struct {
	*errors.AppError
	EstablishmentID uint
	Cause           error
}

// NewProvisioningFailedError creates a new provisioning failed error
func NewProvisioningFailedError(id uint, cause error) *ProvisioningFailedError {
	detail := fmt.Sprintf("id=%d", id)
	if cause != nil {
		detail = fmt.Sprintf("id=%d: %v", id, cause)
	}
	return &ProvisioningFailedError{
		AppError:        errors.NewRetryableError("tenant provisioning failed", detail),
		EstablishmentID: id,
		Cause:           cause,
	}
}

func (e *ProvisioningFailedError) Unwrap() []error {
	if e.Cause != nil {
		return []error{e.AppError, e.Cause}
	}
	return []error{e.AppError}
}

// ShuttingDownError indicates the connection cache is draining; the caller
// should abort or retry against a new process.
type ShuttingDownError struct {
	*errors.AppError
}

// NewShuttingDownError creates a new shutting down error
func NewShuttingDownError() *ShuttingDownError {
	return &ShuttingDownError{
		AppError: errors.NewUnavailableError("tenant router is shutting down"),
	}
}

func (e *ShuttingDownError) Unwrap() error { return e.AppError }

// IsUnknownTenant reports whether err is an UnknownTenantError
func IsUnknownTenant(err error) bool {
	var e *UnknownTenantError
	return stderrors.As(err, &e)
}

// IsInactiveTenant reports whether err is an InactiveTenantError
func IsInactiveTenant(err error) bool {
	var e *InactiveTenantError
	return stderrors.As(err, &e)
}

// IsDuplicateSlug reports whether err is a DuplicateSlugError
func IsDuplicateSlug(err error) bool {
	var e *DuplicateSlugError
	return stderrors.As(err, &e)
}

// IsProvisioningFailed reports whether err is a ProvisioningFailedError
func IsProvisioningFailed(err error) bool {
	var e *ProvisioningFailedError
	return stderrors.As(err, &e)
}

// IsShuttingDown reports whether err is a ShuttingDownError
func IsShuttingDown(err error) bool {
	var e *ShuttingDownError
	return stderrors.As(err, &e)
}
