// Package acquire contains the loop that pumps frames from a camera
// into the ring buffer.  The loop owns timing and rate control; the
// buffer owns storage and the recording gate.
package acquire

import (
	"context"
	"sync"
	"time"

	"github.com/brandondube/ringo"
	"github.com/cenkalti/backoff"
	"golang.org/x/time/rate"

	"github.jpl.nasa.gov/bdube/qcam/camera"
	"github.jpl.nasa.gov/bdube/qcam/ringbuf"
)

// fpsWindow is how many recent acquisitions the measured frame rate is
// computed over
const fpsWindow = 32

// Loop pulls frames from a source at a bounded rate and writes them to
// a ring buffer
type Loop struct {
	// Source produces the frames
	Source camera.FrameSource

	// Buf receives them
	Buf *ringbuf.Buffer

	limiter *rate.Limiter

	mu    sync.Mutex
	times ringo.CircleTime
}

// New returns a loop which will acquire at most fps frames per second
func New(src camera.FrameSource, buf *ringbuf.Buffer, fps float64) *Loop {
	l := &Loop{
		Source:  src,
		Buf:     buf,
		limiter: rate.NewLimiter(rate.Limit(fps), 1)}
	l.times.Init(fpsWindow)
	return l
}

// Run acquires until ctx is canceled, which returns nil, or a failure
// occurs.  Device errors from the source and storage errors from the
// buffer abort the run and propagate untranslated; there are no retries
// on the write path, since retrying after a partial flush could skip or
// duplicate a logical frame.
func (l *Loop) Run(ctx context.Context) error {
	for {
		if err := l.limiter.Wait(ctx); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
		f, err := l.Source.AcquireFrame()
		if err != nil {
			acquireErrors.Inc()
			return err
		}
		recording := l.Buf.Recording()
		if err := l.Buf.Write(f, nil); err != nil {
			acquireErrors.Inc()
			return err
		}
		if recording {
			framesWritten.Inc()
		} else {
			framesSkipped.Inc()
		}
		l.mu.Lock()
		l.times.Append(time.Now())
		l.mu.Unlock()
	}
}

// MeasuredFPS returns the frame rate achieved over the last few
// acquisitions, or zero if too few frames have been taken to measure
func (l *Loop) MeasuredFPS() float64 {
	l.mu.Lock()
	times := l.times.Contiguous()
	l.mu.Unlock()
	if len(times) < 2 {
		return 0
	}
	elapsed := times[len(times)-1].Sub(times[0]).Seconds()
	if elapsed <= 0 {
		return 0
	}
	return float64(len(times)-1) / elapsed
}

// OpenWithRetry runs open with an exponential backoff.  Camera drivers
// do not like being connection thrashed while they enumerate hardware,
// so the first open gets a few patient attempts.  This is only for
// device bring-up, never the write path.
func OpenWithRetry(open func() error) error {
	return backoff.Retry(open, &backoff.ExponentialBackOff{
		InitialInterval:     25 * time.Millisecond,
		RandomizationFactor: 0.,
		Multiplier:          2.,
		MaxInterval:         1 * time.Second,
		MaxElapsedTime:      3 * time.Second,
		Clock:               backoff.SystemClock})
}
