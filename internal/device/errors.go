package device

import "errors"

// Domain errors for the device package.
//
// These errors can be checked using errors.Is() for error handling:
//
//	if errors.Is(err, device.ErrValueReadOnly) {
//	    // refuse the write
//	}
var (
	// ErrDeviceNotFound is returned when no device matches the type and id.
	ErrDeviceNotFound = errors.New("device: not found")

	// ErrValueNotFound is returned when a device has no entity with the given name and tag.
	ErrValueNotFound = errors.New("device: value not found")

	// ErrValueReadOnly is returned when writing an entity that cannot be written.
	ErrValueReadOnly = errors.New("device: value is read-only")

	// ErrInvalidValue is returned when a new value cannot be parsed or is out of range.
	ErrInvalidValue = errors.New("device: invalid value")

	// ErrInvalidFixture is returned when a device fixture file fails validation.
	ErrInvalidFixture = errors.New("device: invalid fixture")
)
