package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrValidation          = errors.New("validation failed")
	ErrUnknownCommand      = errors.New("unknown command")
	ErrMissingCredentials  = errors.New("missing credentials")
	ErrInvalidParameters   = errors.New("invalid parameters")
	ErrDispatchRejected    = errors.New("dispatch rejected")
	ErrFetch               = errors.New("fetch failed")
	ErrTimedOut            = errors.New("command timed out")
	ErrUnknownStatus       = errors.New("unknown command status")
	ErrCredentialsNotFound = errors.New("credentials not found")
	ErrVehicleIDRequired   = errors.New("vehicle ID is required")
	ErrTrackingIDRequired  = errors.New("tracking ID is required")
	ErrCommandNotFound     = errors.New("command not found")
	ErrNoVehicleSelected   = errors.New("no vehicle selected")
)

// ValidationError lists every field that failed validation.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: empty fields [%s]", strings.Join(e.Fields, ", "))
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// InvalidParametersError names the parameters that are not accepted by a command.
type InvalidParametersError struct {
	CommandID CommandID
	Keys      []string
	Reason    string
}

func (e *InvalidParametersError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("invalid parameters for %s [%s]: %s", e.CommandID, strings.Join(e.Keys, ", "), e.Reason)
	}
	return fmt.Sprintf("invalid parameters for %s [%s]", e.CommandID, strings.Join(e.Keys, ", "))
}

func (e *InvalidParametersError) Is(target error) bool {
	return target == ErrInvalidParameters
}

// DispatchError is returned when the backend refuses a command or cannot be reached.
type DispatchError struct {
	Reason         string
	BackendMessage string
	StatusCode     int
	Err            error
}

func (e *DispatchError) Error() string {
	msg := "dispatch rejected: " + e.Reason
	if e.BackendMessage != "" {
		msg += ": " + e.BackendMessage
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *DispatchError) Is(target error) bool {
	return target == ErrDispatchRejected
}

func (e *DispatchError) Unwrap() error {
	return e.Err
}

// FetchError is returned when a vehicle state read fails.
type FetchError struct {
	VehicleID  VehicleID
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetching state of %s: status %d: %v", e.VehicleID, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("fetching state of %s: %v", e.VehicleID, e.Err)
}

func (e *FetchError) Is(target error) bool {
	return target == ErrFetch
}

func (e *FetchError) Unwrap() error {
	return e.Err
}
