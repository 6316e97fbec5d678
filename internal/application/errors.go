package application

import "errors"

var (
	// ErrUnauthorized is returned when the acting user lacks the role an
	// operation requires.
	ErrUnauthorized = errors.New("application: unauthorized")
	// ErrDuplicateUsername is returned when a sign-up reuses an existing
	// username. The stored account is left untouched.
	ErrDuplicateUsername = errors.New("application: username already taken")
	// ErrUserNotFound is returned when a login names an unknown username.
	ErrUserNotFound = errors.New("application: user not found")
	// ErrInvalidCredential is returned when the supplied secret does not
	// exactly match the stored one.
	ErrInvalidCredential = errors.New("application: invalid credential")
	// ErrRoomUnavailable is returned when a reservation overlaps an existing
	// one on the same room.
	ErrRoomUnavailable = errors.New("application: room unavailable for the requested window")
	// ErrReservationNotOwned is returned when a cancellation targets a
	// reservation the caller does not own, including one that does not exist.
	ErrReservationNotOwned = errors.New("application: reservation not owned by caller")
	// ErrRoomNotRegistered is returned when an operation names a room absent
	// from the registry.
	ErrRoomNotRegistered = errors.New("application: room not registered")
	// ErrRoomExists is returned when a room number is already registered.
	ErrRoomExists = errors.New("application: room already registered")
	// ErrInvalidTimeRange is returned when a window does not end strictly
	// after it starts.
	ErrInvalidTimeRange = errors.New("application: invalid time range")
)

// ValidationError captures field level validation issues that callers can
// surface to users.
type ValidationError struct {
	FieldErrors map[string]string
}

// Error implements the error interface.
func (v *ValidationError) Error() string {
	if v == nil {
		return ""
	}
	return "validation failed"
}

// HasErrors reports whether any field level issues were recorded.
func (v *ValidationError) HasErrors() bool {
	return v != nil && len(v.FieldErrors) > 0
}

// add records a field level validation error.
func (v *ValidationError) add(field, message string) {
	if v.FieldErrors == nil {
		v.FieldErrors = make(map[string]string)
	}
	v.FieldErrors[field] = message
}
