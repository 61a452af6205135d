/*Package ringbuf provides automatic rolling storage of images to disk.

A Buffer holds the last N acquired frames in a fixed set of slots under a
container directory, one FITS file per slot with the acquisition
timestamp and region of interest carried as header cards.  When the
buffer is full the oldest slot is overwritten in place, so disk use is
bounded by the capacity and never by the total number of frames seen.

A utility ToList method is included for exporting to other arbitrary
formats; SaveBulk writes a metadata-free FITS archive.  See the relevant
docstrings for details.

*/
package ringbuf

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.jpl.nasa.gov/bdube/qcam/camera"
)

// maxSlots is the largest capacity representable by the 4-digit slot
// naming scheme
const maxSlots = 10000

// Config holds the initialization parameters for a Buffer
type Config struct {
	// N is the number of images to store in the ring buffer
	N int `json:"n" yaml:"n" koanf:"n"`

	// Directory is the directory to buffer images to
	Directory string `json:"directory" yaml:"directory" koanf:"directory"`

	// Name is the name of the container created inside Directory
	Name string `json:"name" yaml:"name" koanf:"name"`

	// Recording activates recording when true, disables it when false
	Recording bool `json:"recording" yaml:"recording" koanf:"recording"`

	// ROI is the currently selected region of interest.  It is attached
	// to writes that do not carry their own
	ROI camera.AOI `json:"roi" yaml:"roi" koanf:"roi"`
}

// Buffer is a rolling store of the last N frames.  One writer and any
// number of readers may use it concurrently; all operations serialize on
// an internal lock, so readers never observe a half-written slot.
type Buffer struct {
	mu sync.Mutex

	cfg       Config
	root      string
	cursor    int
	recording bool
	roi       camera.AOI
	occupied  map[int]struct{}
	closed    bool
	events    EventSink
}

// Open creates (or truncates) the backing container and returns a ready
// Buffer.  sink may be nil, in which case transition events are
// discarded.  The caller owns the buffer and must Close it.
func Open(cfg Config, sink EventSink) (*Buffer, error) {
	if cfg.N < 1 {
		return nil, fmt.Errorf("ring buffer capacity must be at least 1, got %d", cfg.N)
	}
	if cfg.N > maxSlots {
		return nil, fmt.Errorf("ring buffer capacity %d exceeds the %d supported by the slot naming scheme", cfg.N, maxSlots)
	}
	if cfg.Directory == "" {
		cfg.Directory = "."
	}
	if cfg.Name == "" {
		cfg.Name = "rbuffer"
	}
	if sink == nil {
		sink = NullSink{}
	}
	root := filepath.Join(cfg.Directory, cfg.Name)
	// the buffer always starts empty; a prior container at the same
	// path is discarded
	if err := os.RemoveAll(root); err != nil {
		return nil, &StorageError{Op: "truncate", Path: root, Err: err}
	}
	if err := os.MkdirAll(root, 0777); err != nil {
		return nil, &StorageError{Op: "create", Path: root, Err: err}
	}
	return &Buffer{
		cfg:       cfg,
		root:      root,
		recording: cfg.Recording,
		roi:       cfg.ROI,
		occupied:  make(map[int]struct{}),
		events:    sink}, nil
}

func (b *Buffer) slotPath(idx int) string {
	return filepath.Join(b.root, slotName(idx))
}

// Write adds a frame to the slot under the cursor and advances the
// cursor.  If recording is paused it returns immediately with no side
// effect.  roi may be nil to record the buffer's default region.
//
// The occupant of the slot, if any, is deleted before the new frame is
// inserted, so metadata from a prior frame can never leak into the new
// one.  The slot file is synced before the cursor advances; a failure
// leaves the cursor where it was and is not retried.
func (b *Buffer) Write(f camera.Frame, roi *camera.AOI) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return &ClosedError{Op: "Write"}
	}
	if !b.recording {
		return nil
	}
	r := b.roi
	if roi != nil {
		r = *roi
	}
	path := b.slotPath(b.cursor)
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return &StorageError{Op: "delete", Path: path, Err: err}
	}
	delete(b.occupied, b.cursor)
	if err := writeSlot(path, f, time.Now(), r); err != nil {
		return &StorageError{Op: "insert", Path: path, Err: err}
	}
	b.occupied[b.cursor] = struct{}{}
	b.cursor = (b.cursor + 1) % b.cfg.N
	return nil
}

// slot validates index and loads its contents.  The caller must hold mu.
func (b *Buffer) slot(op string, index int) (camera.Frame, slotMeta, error) {
	if b.closed {
		return camera.Frame{}, slotMeta{}, &ClosedError{Op: op}
	}
	if index < 0 || index >= b.cfg.N {
		return camera.Frame{}, slotMeta{}, &RangeError{Index: index, N: b.cfg.N}
	}
	if _, ok := b.occupied[index]; !ok {
		return camera.Frame{}, slotMeta{}, &NotFoundError{Index: index}
	}
	path := b.slotPath(index)
	f, meta, err := readSlot(path)
	if err != nil {
		if os.IsNotExist(err) {
			return camera.Frame{}, slotMeta{}, &NotFoundError{Index: index}
		}
		return camera.Frame{}, slotMeta{}, &StorageError{Op: "read", Path: path, Err: err}
	}
	return f, meta, nil
}

// Read returns the frame stored at the given absolute slot index
func (b *Buffer) Read(index int) (camera.Frame, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	f, _, err := b.slot("Read", index)
	return f, err
}

// Timestamp returns the wall-clock instant the frame at index was
// written, at microsecond precision
func (b *Buffer) Timestamp(index int) (time.Time, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, meta, err := b.slot("Timestamp", index)
	return meta.ts, err
}

// ROI returns the region of interest recorded with the frame at index
func (b *Buffer) ROI(index int) (camera.AOI, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, meta, err := b.slot("ROI", index)
	return meta.roi, err
}

// Len returns the number of images actually stored in the ring buffer
func (b *Buffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.occupied)
}

// Cap returns the buffer capacity
func (b *Buffer) Cap() int {
	return b.cfg.N
}

// Cursor returns the index the next write will land on
func (b *Buffer) Cursor() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.cursor
}

// Recording reports whether writes are currently being persisted
func (b *Buffer) Recording() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.recording
}

// SetRecording explicitly sets the recording state
func (b *Buffer) SetRecording(state bool) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return &ClosedError{Op: "SetRecording"}
	}
	b.recording = state
	return nil
}

// Toggle flips the recording state and emits a pausing or resuming
// transition event
func (b *Buffer) Toggle() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return &ClosedError{Op: "Toggle"}
	}
	name := "resuming"
	if b.recording {
		name = "pausing"
	}
	b.events.Event(Event{Name: name, Time: time.Now()})
	b.recording = !b.recording
	return nil
}

// Close releases the backing container.  Slot files are synced at write
// time, so there is nothing left to flush; any operation after Close
// fails with *ClosedError.  Close is safe to defer alongside error
// returns from Write.
func (b *Buffer) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return &ClosedError{Op: "Close"}
	}
	b.closed = true
	return nil
}
