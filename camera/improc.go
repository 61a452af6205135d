// this file contains a few small image processing utilities
package camera

import "image"

// Rot90 rotates a frame 90 degrees clockwise
func Rot90(f Frame) Frame {
	w, h := f.Width, f.Height
	out := Frame{Pix: make([]uint16, len(f.Pix)), Width: h, Height: w}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			// (x, y) lands at (h-1-y, x) in the rotated frame
			out.Pix[x*h+(h-1-y)] = f.Pix[y*w+x]
		}
	}
	return out
}

// Rot180 rotates a frame 180 degrees
func Rot180(f Frame) Frame {
	l := len(f.Pix)
	out := Frame{Pix: make([]uint16, l), Width: f.Width, Height: f.Height}
	for i := 0; i < l; i++ {
		out.Pix[i] = f.Pix[l-1-i]
	}
	return out
}

// Rot270 rotates a frame 90 degrees counterclockwise
func Rot270(f Frame) Frame {
	w, h := f.Width, f.Height
	out := Frame{Pix: make([]uint16, len(f.Pix)), Width: h, Height: w}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			out.Pix[(w-1-x)*h+y] = f.Pix[y*w+x]
		}
	}
	return out
}

// FlipH mirrors a frame about its vertical axis (left-right)
func FlipH(f Frame) Frame {
	w, h := f.Width, f.Height
	out := Frame{Pix: make([]uint16, len(f.Pix)), Width: w, Height: h}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			out.Pix[y*w+(w-1-x)] = f.Pix[y*w+x]
		}
	}
	return out
}

// FlipV mirrors a frame about its horizontal axis (top-bottom)
func FlipV(f Frame) Frame {
	w, h := f.Width, f.Height
	out := Frame{Pix: make([]uint16, len(f.Pix)), Width: w, Height: h}
	for y := 0; y < h; y++ {
		copy(out.Pix[(h-1-y)*w:(h-y)*w], f.Pix[y*w:(y+1)*w])
	}
	return out
}

// Gray8Image converts a frame to an 8-bit grayscale image for display,
// scaling 16 to 8 bits
func Gray8Image(f Frame) *image.Gray {
	buf := make([]byte, len(f.Pix))
	for idx := 0; idx < len(f.Pix); idx++ {
		buf[idx] = byte(f.Pix[idx] / 256)
	}
	return &image.Gray{Pix: buf, Stride: f.Width, Rect: image.Rect(0, 0, f.Width, f.Height)}
}

// Gray16Image converts a frame to a 16-bit grayscale image without loss
func Gray16Image(f Frame) *image.Gray16 {
	buf := make([]byte, 2*len(f.Pix))
	for idx, v := range f.Pix {
		// image.Gray16 is big-endian
		buf[2*idx] = byte(v >> 8)
		buf[2*idx+1] = byte(v)
	}
	return &image.Gray16{Pix: buf, Stride: 2 * f.Width, Rect: image.Rect(0, 0, f.Width, f.Height)}
}
