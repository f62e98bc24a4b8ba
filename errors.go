package goCSRF

import (
	"errors"
	"fmt"
)

var (
	// ErrConfiguration is returned (wrapped in a [*ConfigError]) when construction options are invalid.
	ErrConfiguration = errors.New("invalid configuration")
	// ErrInvalidArgument reports a missing or unusable call argument.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrRandomnessUnavailable is returned when the secure random source fails.
	// There is no fallback for secret material; callers decide whether to retry.
	ErrRandomnessUnavailable = errors.New("secure randomness unavailable")
	// ErrBuilderUsed is returned when Build is called again after it succeeded.
	ErrBuilderUsed = errors.New("builder already used")
)

// ConfigError names the construction option that failed validation.
type ConfigError struct {
	Option string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("goCSRF: option %s %s", e.Option, e.Reason)
}

// Unwrap lets errors.Is(err, ErrConfiguration) match.
func (e *ConfigError) Unwrap() error {
	return ErrConfiguration
}

func configError(option, reason string) error {
	return &ConfigError{Option: option, Reason: reason}
}

func argumentError(name string) error {
	return fmt.Errorf("%w: argument %s is required", ErrInvalidArgument, name)
}

func randomnessError(err error) error {
	return fmt.Errorf("%w: %v", ErrRandomnessUnavailable, err)
}
