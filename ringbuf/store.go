package ringbuf

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/astrogo/fitsio"

	"github.jpl.nasa.gov/bdube/qcam/camera"
)

// TimestampLayout is the wall-clock format stored with each slot,
// microsecond precision
const TimestampLayout = "2006-01-02 15:04:05.000000"

// slotName returns the deterministic entry name for a slot index.
// four digits supports capacities up to 10,000 slots
func slotName(idx int) string {
	return fmt.Sprintf("img%04d.fits", idx)
}

// slotMeta is the per-slot metadata carried alongside the pixel data
type slotMeta struct {
	ts  time.Time
	roi camera.AOI
}

// encodeSlot streams a single frame and its metadata to w as a FITS file
func encodeSlot(w io.Writer, f camera.Frame, ts time.Time, roi camera.AOI) error {
	fits, err := fitsio.Create(w)
	if err != nil {
		return err
	}
	im := fitsio.NewImage(16, []int{f.Width, f.Height})
	cards := []fitsio.Card{
		{Name: "TIMESTMP", Value: ts.Format(TimestampLayout), Comment: "acquisition wall-clock time"},
		{Name: "ROIX", Value: roi.Left, Comment: "region of interest, left"},
		{Name: "ROIY", Value: roi.Top, Comment: "region of interest, top"},
		{Name: "ROIW", Value: roi.Width, Comment: "region of interest, width"},
		{Name: "ROIH", Value: roi.Height, Comment: "region of interest, height"},
		{Name: "BZERO", Value: 32768},
		{Name: "BSCALE", Value: 1.0},
	}
	err = im.Header().Append(cards...)
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
	return fits.Close()
}

// writeSlot persists one frame to path and syncs it, so the write is
// durable before the cursor may advance
func writeSlot(path string, f camera.Frame, ts time.Time, roi camera.AOI) error {
	fid, err := os.Create(path)
	if err != nil {
		return err
	}
	err = encodeSlot(fid, f, ts, roi)
	if err != nil {
		fid.Close()
		return err
	}
	err = fid.Sync()
	if err != nil {
		fid.Close()
		return err
	}
	return fid.Close()
}

// readSlot loads one frame and its metadata back from path
func readSlot(path string) (camera.Frame, slotMeta, error) {
	var meta slotMeta
	fid, err := os.Open(path)
	if err != nil {
		return camera.Frame{}, meta, err
	}
	defer fid.Close()
	fits, err := fitsio.Open(fid)
	if err != nil {
		return camera.Frame{}, meta, err
	}
	defer fits.Close()
	img, ok := fits.HDU(0).(fitsio.Image)
	if !ok {
		return camera.Frame{}, meta, fmt.Errorf("%s: primary HDU is not an image", path)
	}
	hdr := img.Header()
	axes := hdr.Axes()
	if len(axes) != 2 {
		return camera.Frame{}, meta, fmt.Errorf("%s: expected a 2-D image, got %d axes", path, len(axes))
	}
	w, h := axes[0], axes[1]
	raw := make([]int16, 0, w*h)
	err = img.Read(&raw)
	if err != nil {
		return camera.Frame{}, meta, err
	}
	f := camera.Frame{Pix: fitsToUnsigned(raw), Width: w, Height: h}

	tsCard := hdr.Get("TIMESTMP")
	if tsCard == nil {
		return camera.Frame{}, meta, fmt.Errorf("%s: missing TIMESTMP card", path)
	}
	meta.ts, err = time.ParseInLocation(TimestampLayout, fmt.Sprint(tsCard.Value), time.Local)
	if err != nil {
		return camera.Frame{}, meta, err
	}
	for _, pair := range []struct {
		name string
		dst  *int
	}{
		{"ROIX", &meta.roi.Left},
		{"ROIY", &meta.roi.Top},
		{"ROIW", &meta.roi.Width},
		{"ROIH", &meta.roi.Height},
	} {
		card := hdr.Get(pair.name)
		if card == nil {
			return camera.Frame{}, meta, fmt.Errorf("%s: missing %s card", path, pair.name)
		}
		*pair.dst, err = cardInt(card.Value)
		if err != nil {
			return camera.Frame{}, meta, fmt.Errorf("%s: card %s: %v", path, pair.name, err)
		}
	}
	return f, meta, nil
}

// unsignedToFITS offsets u16 samples into the signed range for BITPIX 16
// storage with BZERO 32768, the usual convention for unsigned data
func unsignedToFITS(pix []uint16) []int16 {
	out := make([]int16, len(pix))
	for idx := 0; idx < len(pix); idx++ {
		out[idx] = int16(pix[idx] - 32768)
	}
	return out
}

// fitsToUnsigned inverts unsignedToFITS
func fitsToUnsigned(raw []int16) []uint16 {
	out := make([]uint16, len(raw))
	for idx := 0; idx < len(raw); idx++ {
		out[idx] = uint16(raw[idx]) + 32768
	}
	return out
}

// cardInt coerces the dynamically typed FITS card values to int
func cardInt(v interface{}) (int, error) {
	switch c := v.(type) {
	case int:
		return c, nil
	case int64:
		return int(c), nil
	case float64:
		return int(c), nil
	default:
		return 0, fmt.Errorf("value %v is not numeric", v)
	}
}
