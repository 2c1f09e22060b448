package db

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// Custom database errors
var (
	ErrNotFound   = errors.New("record not found")
	ErrDuplicate  = errors.New("duplicate record")
	ErrForeignKey = errors.New("foreign key constraint violation")
	ErrCheck      = errors.New("check constraint violation")
)

// IsNotFound checks if error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, gorm.ErrRecordNotFound)
}

// IsDuplicate checks if error is a duplicate error
func IsDuplicate(err error) bool {
	return errors.Is(err, ErrDuplicate)
}

// IsForeignKey checks if error is a foreign key constraint violation
func IsForeignKey(err error) bool {
	return errors.Is(err, ErrForeignKey)
}

// IsTransient reports whether a store error carries none of the mapped
// sentinel meanings, i.e. the store itself misbehaved and the caller should
// surface the failure rather than interpret it
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	return !IsNotFound(err) && !IsDuplicate(err) && !IsForeignKey(err) && !errors.Is(err, ErrCheck)
}

// MapGormError maps GORM errors to custom domain errors
func MapGormError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}

	// SQLite reports constraint violations as plain error strings
	msg := err.Error()
	switch {
	case containsFold(msg, "unique constraint"):
		return ErrDuplicate
	case containsFold(msg, "foreign key constraint"):
		return ErrForeignKey
	case containsFold(msg, "check constraint"):
		return ErrCheck
	}

	return err
}

// containsFold checks for a substring match ignoring case
func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
