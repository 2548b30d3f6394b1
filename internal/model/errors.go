package model

import "errors"

// Common errors used across the application
var (
	// Point mutation errors
	ErrInvalidAmount = errors.New("point amount must be positive")
	ErrNoActor       = errors.New("no active actor")

	// Backend errors
	ErrStorageUnavailable = errors.New("local storage unavailable")
	ErrRemoteUnavailable  = errors.New("remote backend unavailable")
	ErrRemoteRejected     = errors.New("remote backend rejected the operation")

	// Account errors
	ErrAccountNotFound = errors.New("account not found")

	// Content errors
	ErrBrandNotFound = errors.New("brand not found")
)
