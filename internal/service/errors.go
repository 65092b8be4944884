package service

import (
	"errors"
	"strings"
)

var (
	// ErrValidation marks malformed or missing input. Match it with errors.Is;
	// the concrete error is a *ValidationError.
	ErrValidation = errors.New("validation failed")
	// ErrDuplicateUser is returned when registering an email that is already taken.
	ErrDuplicateUser = errors.New("user already exists")
	// ErrInvalidCredentials indicates that provided login credentials are incorrect.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUnauthenticated is returned for a missing, invalid or expired token.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrProfileNotFound is returned when the user has no profile yet.
	ErrProfileNotFound = errors.New("profile not found")
	// ErrEntryNotFound is returned when no experience or education entry has the given id.
	ErrEntryNotFound = errors.New("entry not found")
	// ErrNotFound is the generic record-not-found outcome.
	ErrNotFound = errors.New("not found")
	// ErrStorageUnavailable is returned when object storage is not configured.
	ErrStorageUnavailable = errors.New("storage not configured")
)

// FieldError describes one rejected input field.
type FieldError struct {
	Field   string `json:"field,omitempty"`
	Message string `json:"msg"`
}

// ValidationError collects every rejected field of one request.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		msgs[i] = f.Field + ": " + f.Message
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

type validator struct {
	fields []FieldError
}

func (v *validator) check(ok bool, field, msg string) {
	if !ok {
		v.fields = append(v.fields, FieldError{Field: field, Message: msg})
	}
}

func (v *validator) err() error {
	if len(v.fields) == 0 {
		return nil
	}
	return &ValidationError{Fields: v.fields}
}
