package acquire

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	framesWritten = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "qcam",
		Subsystem: "acquire",
		Name:      "frames_written_total",
		Help:      "Frames acquired and written to the ring buffer.",
	})
	framesSkipped = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "qcam",
		Subsystem: "acquire",
		Name:      "frames_skipped_total",
		Help:      "Frames acquired while recording was paused.",
	})
	acquireErrors = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "qcam",
		Subsystem: "acquire",
		Name:      "errors_total",
		Help:      "Device or storage failures that aborted acquisition.",
	})
)
