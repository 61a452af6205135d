package camera

import (
	"math"
	"math/rand"
	"sync"

	"github.jpl.nasa.gov/bdube/qcam/util"
)

const (
	simFullWell   = 60000 // ADU at the peak of the spot
	simBias       = 500   // detector bias level, ADU
	simReadNoise  = 15    // 1-sigma readout noise, ADU
	simSpotSigmaX = 0.15  // spot width as a fraction of the AOI
)

// Sim is a simulated camera.  It produces frames containing a Gaussian
// spot centered in the active region with additive readout noise, and
// honors the same error contract as a hardware FrameSource.
type Sim struct {
	sync.Mutex
	aoi    AOI
	rng    *rand.Rand
	closed bool
}

// NewSim returns a simulated camera with the given initial region and
// a fixed seed, so the noise sequence is reproducible between runs
func NewSim(aoi AOI, seed int64) *Sim {
	return &Sim{
		aoi: aoi,
		rng: rand.New(rand.NewSource(seed))}
}

// AcquireFrame produces a synthetic frame on demand
func (s *Sim) AcquireFrame() (Frame, error) {
	s.Lock()
	defer s.Unlock()
	if s.closed {
		return Frame{}, DCxErr(1)
	}
	w, h := s.aoi.Width, s.aoi.Height
	f := Frame{Pix: make([]uint16, w*h), Width: w, Height: h}
	cx, cy := float64(w)/2, float64(h)/2
	sigma := simSpotSigmaX * float64(w)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			dx, dy := float64(x)-cx, float64(y)-cy
			sig := simFullWell * math.Exp(-(dx*dx+dy*dy)/(2*sigma*sigma))
			v := simBias + sig + s.rng.NormFloat64()*simReadNoise
			f.Pix[y*w+x] = uint16(util.Clamp(v, 0, 65535))
		}
	}
	return f, nil
}

// ConfigureROI sets the active region of the simulated sensor
func (s *Sim) ConfigureROI(aoi AOI) error {
	s.Lock()
	defer s.Unlock()
	if s.closed {
		return DCxErr(1)
	}
	if aoi.Width < 1 || aoi.Height < 1 {
		return DCxErr(125)
	}
	s.aoi = aoi
	return nil
}

// ROI returns the active region of the simulated sensor
func (s *Sim) ROI() AOI {
	s.Lock()
	defer s.Unlock()
	return s.aoi
}

// Close shuts down the simulated camera; subsequent acquisitions error
func (s *Sim) Close() error {
	s.Lock()
	defer s.Unlock()
	if s.closed {
		return DCxErr(1)
	}
	s.closed = true
	return nil
}
