package ringbuf

import (
	"errors"
	"fmt"
)

// ErrUnsupportedFormat is generated when a bulk save targets a format
// other than FITS.  Saving ring buffers to other formats is not
// implemented.
var ErrUnsupportedFormat = errors.New("ring buffers can only be bulk-saved to .fits or .fits.gz")

// StorageError indicates the backing container could not complete an
// operation.  The buffer remains usable unless the container itself is
// unusable.
type StorageError struct {
	// Op is the operation that failed, e.g. "insert"
	Op string

	// Path is the container or slot path involved
	Path string

	// Err is the underlying cause
	Err error
}

// Error satisfies the error interface
func (e *StorageError) Error() string {
	return fmt.Sprintf("ring buffer storage: %s %s: %v", e.Op, e.Path, e.Err)
}

// Unwrap returns the underlying cause
func (e *StorageError) Unwrap() error { return e.Err }

// NotFoundError is generated when a slot index inside the capacity holds
// no image
type NotFoundError struct {
	// Index is the slot that was empty
	Index int
}

// Error satisfies the error interface
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no image stored at index %d", e.Index)
}

// RangeError is generated when a slot index falls outside [0, N)
type RangeError struct {
	// Index is the offending index
	Index int

	// N is the buffer capacity
	N int
}

// Error satisfies the error interface
func (e *RangeError) Error() string {
	return fmt.Sprintf("index %d outside the ring buffer bounds [0, %d)", e.Index, e.N)
}

// ClosedError is generated by any operation on a buffer after Close
type ClosedError struct {
	// Op is the operation that was attempted
	Op string
}

// Error satisfies the error interface
func (e *ClosedError) Error() string {
	return fmt.Sprintf("%s: ring buffer is closed", e.Op)
}
