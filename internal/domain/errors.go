package domain

import "errors"

var (
	ErrPermissionDenied = errors.New("permission denied")
	ErrInvalidParameter = errors.New("invalid parameter format")
	ErrCommandFailed    = errors.New("command failed")
	ErrSaveChanges      = errors.New("failed to save changes")

	// ErrExternalAction is returned when the platform rejected or timed out an
	// enforcement call (timeout, ban). No points are awarded in that case.
	ErrExternalAction = errors.New("platform action failed")

	// ErrDeliveryFailed marks a direct message that could not be delivered. It is
	// logged and absorbed by notification paths, never escalated.
	ErrDeliveryFailed = errors.New("message delivery failed")

	ErrReadConfig   = errors.New("failed to read config file")
	ErrFormatConfig = errors.New("config file format invalid")
)
