package util_test

import (
	"fmt"
	"testing"

	"github.jpl.nasa.gov/bdube/qcam/util"
)

func ExampleClamp() {
	fmt.Println(util.Clamp(11., 0., 10.))
	// Output: 10
}

func TestClampHigh(t *testing.T) {
	var (
		low   = 0.
		high  = 10.
		input = 20.
	)
	clamped := util.Clamp(input, low, high)
	if clamped == input {
		t.Errorf("expected out of range value %f to be clipped to %f < x < %f, got %f", input, low, high, clamped)
	}
}

func TestClampLow(t *testing.T) {
	var (
		low   = 0.
		high  = 10.
		input = -1.
	)
	clamped := util.Clamp(input, low, high)
	if clamped == input {
		t.Errorf("expected out of range value %f to be clipped to %f < x < %f, got %f", input, low, high, clamped)
	}
}

func TestClampPassthrough(t *testing.T) {
	if out := util.Clamp(5., 0., 10.); out != 5. {
		t.Errorf("expected in-range value to pass through, got %f", out)
	}
}
