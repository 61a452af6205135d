// Command rbexport converts a ring buffer container on disk to a flat
// FITS archive, one image HDU per occupied slot in index order.  Note
// that after the buffer has wrapped, index order is not temporal order;
// consult the per-slot metadata in the container for timestamps.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/theckman/yacspin"

	"github.jpl.nasa.gov/bdube/qcam/ringbuf"
)

func main() {
	var (
		dir        = flag.String("dir", ".", "directory holding the ring buffer container")
		name       = flag.String("name", "rbuffer", "name of the container inside dir")
		out        = flag.String("o", "rbuffer.fits", "output path, .fits or .fits.gz")
		compressed = flag.Bool("z", false, "gzip the archive")
	)
	flag.Parse()

	cfg := yacspin.Config{
		Frequency:         100 * time.Millisecond,
		CharSet:           yacspin.CharSets[59],
		Suffix:            " exporting ring buffer",
		SuffixAutoColon:   true,
		StopCharacter:     "✓",
		StopFailCharacter: "✗",
		StopColors:        []string{"fgGreen"},
		StopFailColors:    []string{"fgRed"},
	}
	spinner, err := yacspin.New(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	spinner.Start()

	buf, err := ringbuf.Load(*dir, *name)
	if err != nil {
		spinner.StopFailMessage(err.Error())
		spinner.StopFail()
		os.Exit(1)
	}
	spinner.Message(fmt.Sprintf("%d frames", buf.Len()))
	if err := buf.SaveBulk(*out, *compressed); err != nil {
		spinner.StopFailMessage(err.Error())
		spinner.StopFail()
		os.Exit(1)
	}
	spinner.StopMessage(*out)
	spinner.Stop()
}
