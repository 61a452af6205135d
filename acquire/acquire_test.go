package acquire_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.jpl.nasa.gov/bdube/qcam/acquire"
	"github.jpl.nasa.gov/bdube/qcam/camera"
	"github.jpl.nasa.gov/bdube/qcam/ringbuf"
)

func testBuffer(t *testing.T, recording bool) *ringbuf.Buffer {
	t.Helper()
	b, err := ringbuf.Open(ringbuf.Config{
		N:         4,
		Directory: t.TempDir(),
		Name:      "rbuffer",
		Recording: recording,
		ROI:       camera.AOI{Width: 8, Height: 8}}, nil)
	if err != nil {
		t.Fatalf("opening buffer: %v", err)
	}
	t.Cleanup(func() { b.Close() })
	return b
}

func TestLoopWritesFrames(t *testing.T) {
	buf := testBuffer(t, true)
	cam := camera.NewSim(camera.AOI{Width: 8, Height: 8}, 1)
	loop := acquire.New(cam, buf, 500)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- loop.Run(ctx) }()

	deadline := time.After(5 * time.Second)
	for buf.Len() < 2 {
		select {
		case <-deadline:
			t.Fatal("loop did not write 2 frames in time")
		case <-time.After(5 * time.Millisecond):
		}
	}
	cancel()
	if err := <-done; err != nil {
		t.Errorf("cancellation should stop the loop cleanly, got %v", err)
	}
	if fps := loop.MeasuredFPS(); fps <= 0 {
		t.Errorf("expected a positive measured frame rate, got %v", fps)
	}
}

func TestLoopPropagatesDeviceError(t *testing.T) {
	buf := testBuffer(t, true)
	cam := camera.NewSim(camera.AOI{Width: 8, Height: 8}, 1)
	cam.Close()
	loop := acquire.New(cam, buf, 500)

	err := loop.Run(context.Background())
	var de *camera.DeviceError
	if !errors.As(err, &de) {
		t.Fatalf("expected the device error untranslated, got %v", err)
	}
}

func TestLoopPropagatesStorageTaxonomy(t *testing.T) {
	buf := testBuffer(t, true)
	buf.Close()
	cam := camera.NewSim(camera.AOI{Width: 8, Height: 8}, 1)
	loop := acquire.New(cam, buf, 500)

	err := loop.Run(context.Background())
	var ce *ringbuf.ClosedError
	if !errors.As(err, &ce) {
		t.Fatalf("expected the buffer error untranslated, got %v", err)
	}
}

func TestLoopHonorsPause(t *testing.T) {
	buf := testBuffer(t, false)
	cam := camera.NewSim(camera.AOI{Width: 8, Height: 8}, 1)
	loop := acquire.New(cam, buf, 500)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	if err := loop.Run(ctx); err != nil {
		t.Fatalf("run: %v", err)
	}
	if buf.Len() != 0 {
		t.Errorf("paused buffer should stay empty, holds %d frames", buf.Len())
	}
}

func TestOpenWithRetry(t *testing.T) {
	attempts := 0
	err := acquire.OpenWithRetry(func() error {
		attempts++
		if attempts < 3 {
			return errors.New("device busy")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("expected eventual success, got %v", err)
	}
	if attempts != 3 {
		t.Errorf("expected 3 attempts, got %d", attempts)
	}
}
