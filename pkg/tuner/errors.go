package tuner

import (
	"fmt"
	"strings"
)

// ErrorKind classifies why microphone acquisition failed.
type ErrorKind int

const (
	ErrUnknown ErrorKind = iota
	ErrPermissionDenied
	ErrDeviceUnavailable
)

func (k ErrorKind) String() string {
	switch k {
	case ErrPermissionDenied:
		return "permission denied"
	case ErrDeviceUnavailable:
		return "device unavailable"
	default:
		return "unknown"
	}
}

// AcquisitionError is returned once from Session.Start when the input
// device cannot be acquired. The session stays stopped; there is no
// automatic retry.
type AcquisitionError struct {
	Kind ErrorKind
	Err  error
}

func (e *AcquisitionError) Error() string {
	return fmt.Sprintf("acquisition failed (%s): %v", e.Kind, e.Err)
}

func (e *AcquisitionError) Unwrap() error {
	return e.Err
}

// classifyAcquisitionError wraps a device-init failure with a kind derived
// from the backend's message. miniaudio reports both conditions as plain
// strings, so matching on the text is all we have.
func classifyAcquisitionError(err error) *AcquisitionError {
	msg := strings.ToLower(err.Error())
	kind := ErrUnknown
	switch {
	case strings.Contains(msg, "access denied") || strings.Contains(msg, "permission"):
		kind = ErrPermissionDenied
	case strings.Contains(msg, "no device") || strings.Contains(msg, "not found") ||
		strings.Contains(msg, "unavailable") || strings.Contains(msg, "no backend"):
		kind = ErrDeviceUnavailable
	}
	return &AcquisitionError{Kind: kind, Err: err}
}
