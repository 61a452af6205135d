package ringbuf_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/astrogo/fitsio"
	"github.com/stretchr/testify/require"

	"github.jpl.nasa.gov/bdube/qcam/camera"
	"github.jpl.nasa.gov/bdube/qcam/ringbuf"
)

func TestToListEmpty(t *testing.T) {
	b := openBuffer(t, 3, nil)
	list, err := b.ToList()
	require.NoError(t, err)
	require.Empty(t, list)
}

func TestSaveBulkRoundTrip(t *testing.T) {
	b := openBuffer(t, 4, nil)
	frames := []camera.Frame{mkFrame(3, 2, 10), mkFrame(3, 2, 20), mkFrame(3, 2, 30)}
	for _, f := range frames {
		require.NoError(t, b.Write(f, nil))
	}

	out := filepath.Join(t.TempDir(), "dump.fits")
	require.NoError(t, b.SaveBulk(out, false))

	fid, err := os.Open(out)
	require.NoError(t, err)
	defer fid.Close()
	fits, err := fitsio.Open(fid)
	require.NoError(t, err)
	defer fits.Close()

	hdus := fits.HDUs()
	require.Len(t, hdus, len(frames))
	for i, want := range frames {
		img, ok := hdus[i].(fitsio.Image)
		require.True(t, ok, "HDU %d is not an image", i)
		axes := img.Header().Axes()
		require.Equal(t, []int{want.Width, want.Height}, axes)
		raw := make([]int16, 0, want.Size())
		require.NoError(t, img.Read(&raw))
		got := make([]uint16, len(raw))
		for j, v := range raw {
			got[j] = uint16(v) + 32768
		}
		require.Equal(t, want.Pix, got, "frame %d pixel data", i)
	}
}

func TestSaveBulkCompressed(t *testing.T) {
	b := openBuffer(t, 2, nil)
	require.NoError(t, b.Write(mkFrame(2, 2, 5), nil))

	out := filepath.Join(t.TempDir(), "dump.fits.gz")
	require.NoError(t, b.SaveBulk(out, false), ".fits.gz must imply compression")

	raw, err := os.ReadFile(out)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(raw), 2)
	require.Equal(t, []byte{0x1f, 0x8b}, raw[:2], "missing gzip magic")
}

func TestSaveBulkUnsupportedFormat(t *testing.T) {
	b := openBuffer(t, 2, nil)
	err := b.SaveBulk(filepath.Join(t.TempDir(), "dump.npz"), false)
	require.ErrorIs(t, err, ringbuf.ErrUnsupportedFormat)
}

func TestSaveBulkUnwritablePath(t *testing.T) {
	b := openBuffer(t, 2, nil)
	require.NoError(t, b.Write(mkFrame(2, 2, 5), nil))
	var se *ringbuf.StorageError
	err := b.SaveBulk(filepath.Join(t.TempDir(), "missing", "dump.fits"), false)
	require.ErrorAs(t, err, &se)
}

func TestLoadAttachesExistingContainer(t *testing.T) {
	dir := t.TempDir()
	cfg := ringbuf.Config{N: 4, Directory: dir, Name: "rbuffer", Recording: true}
	b, err := ringbuf.Open(cfg, nil)
	require.NoError(t, err)
	frames := []camera.Frame{mkFrame(2, 2, 1), mkFrame(2, 2, 2)}
	for _, f := range frames {
		require.NoError(t, b.Write(f, nil))
	}
	require.NoError(t, b.Close())

	loaded, err := ringbuf.Load(dir, "rbuffer")
	require.NoError(t, err)
	defer loaded.Close()
	require.Equal(t, 2, loaded.Len())
	require.False(t, loaded.Recording(), "loaded containers are read-only")

	list, err := loaded.ToList()
	require.NoError(t, err)
	require.Equal(t, frames, list)

	// writes are gated off, so the container is not disturbed
	require.NoError(t, loaded.Write(mkFrame(2, 2, 9), nil))
	require.Equal(t, 2, loaded.Len())
}

func TestLoadMissingContainer(t *testing.T) {
	var se *ringbuf.StorageError
	_, err := ringbuf.Load(t.TempDir(), "nonesuch")
	require.ErrorAs(t, err, &se)
}
