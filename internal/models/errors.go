package models

import "errors"

// Common errors
var (
	// ErrNotFound is returned when a resource is not found
	ErrNotFound = errors.New("resource not found")

	// ErrAlreadyExists is returned when a resource already exists
	ErrAlreadyExists = errors.New("resource already exists")

	// ErrInvalidDomain is returned when a submitted domain name fails validation
	ErrInvalidDomain = errors.New("invalid domain format")

	// ErrNoWhoisRecord is returned when a WHOIS query succeeds but the
	// response carries no parseable registration record
	ErrNoWhoisRecord = errors.New("no information found")

	// ErrInvalidUUID is returned when a batch UUID is malformed
	ErrInvalidUUID = errors.New("invalid UUID")
)
