package domain

import "errors"

// Domain errors are checked with errors.Is.
var (
	// ErrConnectionLost is returned by a provider when the link to the
	// simulation itself is gone. It is the only mid-run fatal error.
	ErrConnectionLost = errors.New("rsp: provider connection lost")

	// ErrEntityNotFound is returned when an entity no longer exists in the provider.
	ErrEntityNotFound = errors.New("rsp: entity not found")

	// ErrFairingAttached is returned when a payload action is refused
	// because the fairing has not separated.
	ErrFairingAttached = errors.New("rsp: fairing still attached")

	// ErrUnknownCommand is returned when no handler exists for a command kind.
	ErrUnknownCommand = errors.New("rsp: unknown command")

	// ErrInvalidPayload is returned when a command payload cannot be decoded.
	ErrInvalidPayload = errors.New("rsp: invalid command payload")

	// ErrQueueFull is returned when a bounded queue rejects a message.
	ErrQueueFull = errors.New("rsp: queue full")

	// ErrAlreadyRunning is returned when Start() is called on a running instance.
	ErrAlreadyRunning = errors.New("rsp: already running")

	// ErrNotRunning is returned when Stop() is called on a stopped instance.
	ErrNotRunning = errors.New("rsp: not running")

	// ErrShutdownTimeout is returned when graceful shutdown times out.
	ErrShutdownTimeout = errors.New("rsp: shutdown timeout")

	// ErrInvalidConfig is returned when configuration validation fails.
	ErrInvalidConfig = errors.New("rsp: invalid configuration")

	// ErrInvalidTransition is returned for an automation state change that
	// skips or re-enters a state.
	ErrInvalidTransition = errors.New("rsp: invalid automation transition")
)
