package model

import "errors"

var (
	// ErrNotFound is returned by stores when the requested row does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists is returned by stores when an insert hits a unique
	// constraint.
	ErrAlreadyExists = errors.New("already exists")

	// ErrDeviceUnreachable is returned by the device client when the signal
	// device cannot be reached or answers with a non-2xx status.
	ErrDeviceUnreachable = errors.New("device unreachable")
)
