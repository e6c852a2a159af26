package store

import (
	"errors"
	"fmt"

	"app-planner/internal/integrity"
)

type NotFoundError struct {
	Kind string
	ID   string
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Kind, e.ID)
}

// ValidationError rejects a request before anything is written.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	if e.Field == "" {
		return "invalid: " + e.Message
	}
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// PersistenceError means the backing store rejected a write. Nothing from the
// failed operation was kept.
type PersistenceError struct {
	Op  string
	Key string
	Err error
}

func (e PersistenceError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("%s: persist: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s: persist %s: %v", e.Op, e.Key, e.Err)
}

func (e PersistenceError) Unwrap() error { return e.Err }

// IntegrityError is returned by a strict import whose result would be inconsistent.
type IntegrityError struct {
	Report integrity.Report
}

func (e IntegrityError) Error() string {
	return "snapshot failed integrity check: " + e.Report.Summary()
}

func IsNotFound(err error) bool {
	var nf NotFoundError
	return errors.As(err, &nf)
}

func IsValidation(err error) bool {
	var ve ValidationError
	return errors.As(err, &ve)
}

func IsPersistence(err error) bool {
	var pe PersistenceError
	return errors.As(err, &pe)
}
