/*Package camera describes a standard set of interfaces for control of
scientific cameras, and the frame and region types shared by the rest of
the toolkit.

Concrete drivers (vendor SDK bindings) satisfy FrameSource; the Sim type
in this package is a software stand-in with the same contract.

*/
package camera

// AOI describes an area of interest on the camera
type AOI struct {
	// Left is the left pixel index.  1-based
	Left int `json:"left"`

	// Top is the top pixel index.  1-based
	Top int `json:"top"`

	// Width is the width in pixels
	Width int `json:"width"`

	// Height is the height in pixels
	Height int `json:"height"`
}

// Values returns the AOI as a 4-element sequence, (left, top, width, height)
func (a AOI) Values() [4]int {
	return [4]int{a.Left, a.Top, a.Width, a.Height}
}

// Frame is a single camera readout.  The data is a 1D slice which is
// strided by the frame width, row-major.
type Frame struct {
	// Pix holds the pixel samples
	Pix []uint16

	// Width is the row length in pixels
	Width int

	// Height is the number of rows
	Height int
}

// Size returns the number of samples in the frame
func (f Frame) Size() int {
	return f.Width * f.Height
}

// FrameSource describes a minimal interface to a device which can
// produce frames on demand.
type FrameSource interface {
	// AcquireFrame triggers capture of a frame and returns it.
	// failures surface as *DeviceError
	AcquireFrame() (Frame, error)

	// ConfigureROI sets the active region of the sensor.  Rectangles the
	// sensor cannot honor produce *DeviceError
	ConfigureROI(AOI) error

	// Close shuts down the device.  This may have myriad side effects,
	// for example the finalization of a camera driver in C and the
	// release of buffer(s) holding camera frames
	Close() error
}
