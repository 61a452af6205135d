package ringbuf

import (
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/astrogo/fitsio"

	"github.jpl.nasa.gov/bdube/qcam/camera"
)

// ToList converts the buffer's contents to a flat list of frames.  This
// is useful for examining and exporting images to other formats.
//
// Slots are visited in index order, stopping at the first unoccupied
// index.  Before the buffer first wraps this yields exactly the frames
// written so far, in write order.  After it wraps, index 0 holds
// whatever frame last overwrote it, not the oldest frame; callers
// needing temporal order post-wrap must sort by the timestamp metadata,
// not by index.  This is a deliberate, documented limitation.
func (b *Buffer) ToList() ([]camera.Frame, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil, &ClosedError{Op: "ToList"}
	}
	frames := []camera.Frame{}
	for i := 0; i < b.cfg.N; i++ {
		if _, ok := b.occupied[i]; !ok {
			break
		}
		path := b.slotPath(i)
		f, _, err := readSlot(path)
		if err != nil {
			return nil, &StorageError{Op: "read", Path: path, Err: err}
		}
		frames = append(frames, f)
	}
	return frames, nil
}

// SaveBulk serializes ToList to a FITS archive at path, one image HDU
// per occupied slot.  Timestamp and ROI metadata are not preserved;
// callers needing metadata must use the native container directly.
//
// compressed wraps the stream in gzip, the .fits.gz convention; a path
// ending in .fits.gz implies compression regardless of the flag.  Any
// other extension fails with ErrUnsupportedFormat.
func (b *Buffer) SaveBulk(path string, compressed bool) error {
	switch {
	case strings.HasSuffix(path, ".fits.gz"):
		compressed = true
	case strings.HasSuffix(path, ".fits"):
	default:
		return ErrUnsupportedFormat
	}
	frames, err := b.ToList()
	if err != nil {
		return err
	}
	fid, err := os.Create(path)
	if err != nil {
		return &StorageError{Op: "create", Path: path, Err: err}
	}
	var w io.Writer = fid
	var gz *gzip.Writer
	if compressed {
		gz = gzip.NewWriter(fid)
		w = gz
	}
	err = writeArchive(w, frames)
	if err == nil && gz != nil {
		err = gz.Close()
	}
	if err != nil {
		fid.Close()
		return &StorageError{Op: "write", Path: path, Err: err}
	}
	if err := fid.Sync(); err != nil {
		fid.Close()
		return &StorageError{Op: "flush", Path: path, Err: err}
	}
	if err := fid.Close(); err != nil {
		return &StorageError{Op: "close", Path: path, Err: err}
	}
	return nil
}

// writeArchive streams frames to w as a FITS file with one image HDU
// per frame
func writeArchive(w io.Writer, frames []camera.Frame) error {
	fits, err := fitsio.Create(w)
	if err != nil {
		return err
	}
	for _, f := range frames {
		im := fitsio.NewImage(16, []int{f.Width, f.Height})
		err = im.Header().Append(
			fitsio.Card{Name: "BZERO", Value: 32768},
			fitsio.Card{Name: "BSCALE", Value: 1.0})
		if err != nil {
			im.Close()
			fits.Close()
			return err
		}
		err = im.Write(unsignedToFITS(f.Pix))
		if err != nil {
			im.Close()
			fits.Close()
			return err
		}
		err = fits.Write(im)
		im.Close()
		if err != nil {
			fits.Close()
			return err
		}
	}
	return fits.Close()
}

// Load attaches an existing container directory for offline export.
// The buffer is returned with recording off and the capacity inferred
// from the entries present; it is intended for reading and bulk export,
// not for resuming acquisition.
func Load(directory, name string) (*Buffer, error) {
	root := filepath.Join(directory, name)
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, &StorageError{Op: "open", Path: root, Err: err}
	}
	occupied := make(map[int]struct{})
	max := -1
	for _, e := range entries {
		var idx int
		n, err := fmt.Sscanf(e.Name(), "img%d.fits", &idx)
		if n != 1 || err != nil {
			continue
		}
		occupied[idx] = struct{}{}
		if idx > max {
			max = idx
		}
	}
	if max < 0 {
		return nil, &StorageError{Op: "open", Path: root, Err: errors.New("container holds no images")}
	}
	return &Buffer{
		cfg:      Config{N: max + 1, Directory: directory, Name: name},
		root:     root,
		occupied: occupied,
		events:   NullSink{}}, nil
}
