package camera_test

import (
	"fmt"
	"image/color"
	"reflect"
	"testing"

	"github.jpl.nasa.gov/bdube/qcam/camera"
)

// the test frame is
//	1 2 3
//	4 5 6
func testFrame() camera.Frame {
	return camera.Frame{Pix: []uint16{1, 2, 3, 4, 5, 6}, Width: 3, Height: 2}
}

func ExampleRot90() {
	out := camera.Rot90(testFrame())
	fmt.Println(out.Pix)
	// Output: [4 1 5 2 6 3]
}

func TestRot90(t *testing.T) {
	out := camera.Rot90(testFrame())
	if out.Width != 2 || out.Height != 3 {
		t.Errorf("expected 2x3 output, got %dx%d", out.Width, out.Height)
	}
	expected := []uint16{4, 1, 5, 2, 6, 3}
	if !reflect.DeepEqual(out.Pix, expected) {
		t.Errorf("expected %v got %v", expected, out.Pix)
	}
}

func TestRot180(t *testing.T) {
	out := camera.Rot180(testFrame())
	expected := []uint16{6, 5, 4, 3, 2, 1}
	if !reflect.DeepEqual(out.Pix, expected) {
		t.Errorf("expected %v got %v", expected, out.Pix)
	}
}

func TestRot270(t *testing.T) {
	out := camera.Rot270(testFrame())
	if out.Width != 2 || out.Height != 3 {
		t.Errorf("expected 2x3 output, got %dx%d", out.Width, out.Height)
	}
	expected := []uint16{3, 6, 2, 5, 1, 4}
	if !reflect.DeepEqual(out.Pix, expected) {
		t.Errorf("expected %v got %v", expected, out.Pix)
	}
}

func TestRotationsCompose(t *testing.T) {
	f := testFrame()
	out := camera.Rot90(camera.Rot90(f))
	if !reflect.DeepEqual(out, camera.Rot180(f)) {
		t.Error("two quarter turns should equal a half turn")
	}
}

func TestFlipH(t *testing.T) {
	out := camera.FlipH(testFrame())
	expected := []uint16{3, 2, 1, 6, 5, 4}
	if !reflect.DeepEqual(out.Pix, expected) {
		t.Errorf("expected %v got %v", expected, out.Pix)
	}
}

func TestFlipV(t *testing.T) {
	out := camera.FlipV(testFrame())
	expected := []uint16{4, 5, 6, 1, 2, 3}
	if !reflect.DeepEqual(out.Pix, expected) {
		t.Errorf("expected %v got %v", expected, out.Pix)
	}
}

func TestGray16ImageLossless(t *testing.T) {
	f := camera.Frame{Pix: []uint16{0, 1000, 65535, 32768}, Width: 2, Height: 2}
	img := camera.Gray16Image(f)
	for i, want := range f.Pix {
		x, y := i%2, i/2
		got := img.Gray16At(x, y).Y
		if got != want {
			t.Errorf("pixel (%d,%d): expected %d got %d", x, y, got, want)
		}
	}
}

func TestGray8ImageScales(t *testing.T) {
	f := camera.Frame{Pix: []uint16{0, 256, 65535, 32768}, Width: 2, Height: 2}
	img := camera.Gray8Image(f)
	expected := []uint8{0, 1, 255, 128}
	for i, want := range expected {
		x, y := i%2, i/2
		got := img.At(x, y).(color.Gray).Y
		if got != want {
			t.Errorf("pixel (%d,%d): expected %d got %d", x, y, got, want)
		}
	}
}
