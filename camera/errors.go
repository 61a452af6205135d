package camera

import "fmt"

var (
	// ErrMap maps uc480 SDK status codes to friendly strings.
	// codes not present here are reported verbatim, see the
	// DCx_User_and_SDK_Manual for the full listing
	ErrMap = map[int]string{
		-1:  "general error; the camera was likely disconnected",
		1:   "invalid camera handle",
		125: "invalid parameter: outside the valid range, or not supported for this sensor, or not available in this mode",
		127: "out of memory",
		140: "invalid color mode",
		159: "invalid buffer size: the image memory has an inappropriate size to store the image in the desired format",
		178: "transfer error",
	}
)

// DeviceError encapsulates a status (error) code from a camera SDK
// and its logic
type DeviceError struct {
	code int
}

// DCxErr converts an error code to something that implements the error interface
func DCxErr(code int) error {
	if code == 0 {
		return nil
	}
	return &DeviceError{code}
}

// Error satisfies the error interface
func (e *DeviceError) Error() string {
	if s, ok := ErrMap[e.code]; ok {
		return fmt.Sprintf("%d - %s", e.code, s)
	}
	return fmt.Sprintf("%d - UNKNOWN ERROR CODE", e.code)
}

// Code returns the raw SDK status code
func (e *DeviceError) Code() int {
	return e.code
}
