// Package repository declares the persistence interfaces for document records and
// browser sessions. Implementations live in the postgres, memory and redis subpackages.
package repository

import "errors"

var (
	ErrNotFound        = errors.New("record not found")
	ErrSessionNotFound = errors.New("session not found")
)
