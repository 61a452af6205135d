package ringbuf

import (
	"compress/gzip"
	"encoding/json"
	"go/types"
	"image/png"
	"net/http"
	"strconv"

	"goji.io/pat"

	"github.jpl.nasa.gov/bdube/qcam/camera"
	"github.jpl.nasa.gov/bdube/qcam/server"
)

// HTTPWrapper provides an HTTP interface to a ring buffer
type HTTPWrapper struct {
	// Buffer is the buffer being wrapped
	*Buffer

	RouteTable server.RouteTable
}

// NewHTTPWrapper returns a new wrapper with the route table populated
func NewHTTPWrapper(b *Buffer) HTTPWrapper {
	w := HTTPWrapper{Buffer: b}
	w.RouteTable = server.RouteTable{
		// recording gate
		pat.Get("/recording"):  w.GetRecording,
		pat.Post("/recording"): w.PostRecording,
		pat.Post("/toggle"):    w.PostToggle,

		// slot access
		pat.Get("/frame/:index"):    w.GetFrame,
		pat.Get("/metadata/:index"): w.GetMetadata,

		// whole-buffer queries
		pat.Get("/length"): w.GetLength,
		pat.Get("/cursor"): w.GetCursor,
		pat.Get("/dump"):   w.GetDump,
	}
	return w
}

// httpError maps the buffer error taxonomy onto HTTP status codes
func httpError(w http.ResponseWriter, err error) {
	var code int
	switch err.(type) {
	case *RangeError:
		code = http.StatusBadRequest
	case *NotFoundError:
		code = http.StatusNotFound
	case *ClosedError:
		code = http.StatusGone
	default:
		code = http.StatusInternalServerError
	}
	http.Error(w, err.Error(), code)
}

// GetRecording returns the recording state as JSON on a GET request
func (h HTTPWrapper) GetRecording(w http.ResponseWriter, r *http.Request) {
	hp := server.HumanPayload{T: types.Bool, Bool: h.Buffer.Recording()}
	hp.EncodeAndRespond(w, r)
}

// PostRecording sets the recording state from a JSON payload {"bool": b}
func (h HTTPWrapper) PostRecording(w http.ResponseWriter, r *http.Request) {
	bT := server.BoolT{}
	err := json.NewDecoder(r.Body).Decode(&bT)
	defer r.Body.Close()
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.Buffer.SetRecording(bT.Bool); err != nil {
		httpError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// PostToggle flips the recording state
func (h HTTPWrapper) PostToggle(w http.ResponseWriter, r *http.Request) {
	if err := h.Buffer.Toggle(); err != nil {
		httpError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// GetLength returns the number of occupied slots
func (h HTTPWrapper) GetLength(w http.ResponseWriter, r *http.Request) {
	hp := server.HumanPayload{T: types.Int, Int: h.Buffer.Len()}
	hp.EncodeAndRespond(w, r)
}

// GetCursor returns the index the next write will land on
func (h HTTPWrapper) GetCursor(w http.ResponseWriter, r *http.Request) {
	hp := server.HumanPayload{T: types.Int, Int: h.Buffer.Cursor()}
	hp.EncodeAndRespond(w, r)
}

// GetFrame returns the frame at :index on a GET request.
//
// the image format may be specified in the fmt query parameter;
// png (16-bit grayscale, the default) or fits (carries the slot's
// timestamp and ROI header cards)
func (h HTTPWrapper) GetFrame(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(pat.Param(r, "index"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	h.Buffer.mu.Lock()
	f, meta, err := h.Buffer.slot("Read", index)
	h.Buffer.mu.Unlock()
	if err != nil {
		httpError(w, err)
		return
	}
	format := r.URL.Query().Get("fmt")
	if format == "" {
		format = "png"
	}
	switch format {
	case "png":
		w.Header().Set("Content-Type", "image/png")
		w.WriteHeader(http.StatusOK)
		png.Encode(w, camera.Gray16Image(f))
	case "fits":
		hdr := w.Header()
		hdr.Set("Content-Type", "image/fits")
		hdr.Set("Content-Disposition", "attachment; filename=image.fits")
		w.WriteHeader(http.StatusOK)
		encodeSlot(w, f, meta.ts, meta.roi)
	default:
		http.Error(w, "fmt must be png or fits", http.StatusBadRequest)
	}
}

// GetMetadata returns the timestamp and ROI of the slot at :index as
// JSON
func (h HTTPWrapper) GetMetadata(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(pat.Param(r, "index"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	h.Buffer.mu.Lock()
	_, meta, err := h.Buffer.slot("Metadata", index)
	h.Buffer.mu.Unlock()
	if err != nil {
		httpError(w, err)
		return
	}
	t := struct {
		Timestamp string     `json:"timestamp"`
		ROI       camera.AOI `json:"roi"`
	}{Timestamp: meta.ts.Format(TimestampLayout), ROI: meta.roi}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(t)
}

// GetDump streams the whole buffer as a FITS archive, one HDU per
// occupied slot in index order.  The compressed query parameter wraps
// the stream in gzip.
func (h HTTPWrapper) GetDump(w http.ResponseWriter, r *http.Request) {
	frames, err := h.Buffer.ToList()
	if err != nil {
		httpError(w, err)
		return
	}
	compressed, _ := strconv.ParseBool(r.URL.Query().Get("compressed"))
	hdr := w.Header()
	if compressed {
		hdr.Set("Content-Type", "application/gzip")
		hdr.Set("Content-Disposition", "attachment; filename=rbuffer.fits.gz")
	} else {
		hdr.Set("Content-Type", "image/fits")
		hdr.Set("Content-Disposition", "attachment; filename=rbuffer.fits")
	}
	w.WriteHeader(http.StatusOK)
	if compressed {
		gz := gzip.NewWriter(w)
		writeArchive(gz, frames)
		gz.Close()
		return
	}
	writeArchive(w, frames)
}
