// Package domain holds cross-cutting domain errors.
package domain

import "errors"

var (
	// ErrClassNotFound signals an unknown entity class.
	ErrClassNotFound = errors.New("entity class not found")
	// ErrRecordNotFound signals a missing record.
	ErrRecordNotFound = errors.New("record not found")
)
