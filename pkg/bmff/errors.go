package bmff

import (
	"errors"
	"fmt"
)

// Sentinel errors surfaced by the bmff package, matching the error taxonomy
// in the box format design. Callers distinguish kinds with errors.Is rather
// than string matching; detail is attached with fmt.Errorf's %w verb.
var (
	// ErrUnknownBoxType is returned when a box type has no schema entry.
	ErrUnknownBoxType = errors.New("bmff: unknown box type")

	// ErrUnknownField is returned by Get/Set/Offset for a non-existent field.
	ErrUnknownField = errors.New("bmff: unknown field")

	// ErrDuplicateField is returned when Add or construction sees a name collision.
	ErrDuplicateField = errors.New("bmff: duplicate field")

	// ErrInsufficientBytes is returned when a read would extend past the buffer end.
	ErrInsufficientBytes = errors.New("bmff: insufficient bytes")

	// ErrValueOutOfRange is returned when a scalar value doesn't fit its declared width.
	ErrValueOutOfRange = errors.New("bmff: value out of range")

	// ErrMalformedSize is returned when a parsed box size is smaller than its header.
	ErrMalformedSize = errors.New("bmff: malformed box size")

	// ErrNotSupported is returned when an encoder-only element is asked to read.
	ErrNotSupported = errors.New("bmff: operation not supported")
)

func unknownBoxTypeErr(t string) error {
	return fmt.Errorf("%w: %q", ErrUnknownBoxType, t)
}

func unknownFieldErr(name string) error {
	return fmt.Errorf("%w: %q", ErrUnknownField, name)
}

func duplicateFieldErr(name string) error {
	return fmt.Errorf("%w: %q", ErrDuplicateField, name)
}

func insufficientBytesErr(need, have int) error {
	return fmt.Errorf("%w: need %d bytes, have %d", ErrInsufficientBytes, need, have)
}

func valueOutOfRangeErr(width int, v uint64) error {
	return fmt.Errorf("%w: %d does not fit in %d bytes", ErrValueOutOfRange, v, width)
}

func malformedSizeErr(size, min int) error {
	return fmt.Errorf("%w: size %d below minimum header %d", ErrMalformedSize, size, min)
}
