// Package faults defines coded error values for failures that cross the
// service boundary. A Fault pairs a numeric code with a short descriptive
// message, mirroring the [code, message] shape consumers of the notification
// stream receive.
//
// Faults are plain error values and compose with the standard errors package:
//
//	if f, ok := faults.From(err); ok {
//	    // f.Code, f.Message
//	}
package faults

import (
	"errors"
	"fmt"
)

// Fault is an error carrying a numeric code alongside its message.
// Codes follow HTTP conventions: 400 for rejected input, 500 for
// internal protocol violations.
type Fault struct {
	Code    int    // numeric fault code (e.g., 400, 500)
	Message string // short, stable description of the failure
}

// Error implements the error interface, rendering the fault as "[code] message".
func (f *Fault) Error() string {
	return fmt.Sprintf("[%d] %s", f.Code, f.Message)
}

// New creates a Fault with the given code and message.
func New(code int, message string) *Fault {
	return &Fault{
		Code:    code,
		Message: message,
	}
}

// From extracts a *Fault from err's chain. It returns the fault and true when
// one is present, or nil and false otherwise.
func From(err error) (*Fault, bool) {
	var f *Fault
	if errors.As(err, &f) {
		return f, true
	}
	return nil, false
}
