package usecase

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrDependencyUnavailable = errors.New("dependency unavailable")

	// ErrUnknownProvider is returned when a provider name matches no
	// registered connector.
	ErrUnknownProvider = fmt.Errorf("unknown provider: %w", ErrNotFound)
	ErrRoomUnresolved  = errors.New("poker room not found")
)
