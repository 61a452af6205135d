package main

import (
	"context"
	"fmt"
	"go/types"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"goji.io"
	"goji.io/pat"

	yml "gopkg.in/yaml.v2"

	"github.jpl.nasa.gov/bdube/qcam/acquire"
	"github.jpl.nasa.gov/bdube/qcam/camera"
	"github.jpl.nasa.gov/bdube/qcam/ringbuf"
	"github.jpl.nasa.gov/bdube/qcam/server"
)

var (
	// Version is the version number.  Typically injected via ldflags with git build
	Version = "1"

	// ConfigFileName is what it sounds like
	ConfigFileName = "camsrv.yml"
	k              = koanf.New(".")
)

// Config holds the initialization parameters for the server
type Config struct {
	// Addr is the interface and port to listen on
	Addr string `koanf:"addr" yaml:"addr"`

	// FPS is the acquisition rate ceiling in frames per second
	FPS float64 `koanf:"fps" yaml:"fps"`

	// Buffer configures the ring buffer backing store
	Buffer ringbuf.Config `koanf:"buffer" yaml:"buffer"`
}

func defaults() Config {
	return Config{
		Addr: ":8000",
		FPS:  10,
		Buffer: ringbuf.Config{
			N:         100,
			Directory: ".",
			Name:      "rbuffer",
			Recording: true,
			ROI:       camera.AOI{Left: 10, Top: 10, Width: 100, Height: 100}}}
}

func setupconfig() {
	k.Load(structs.Provider(defaults(), "koanf"), nil)
	if err := k.Load(file.Provider(ConfigFileName), yaml.Parser()); err != nil {
		errtxt := err.Error()
		if !strings.Contains(errtxt, "no such") { // file missing, who cares
			fmt.Fprintf(os.Stderr, "error loading config: %v\n", err)
			os.Exit(1)
		}
	}
}

func root() {
	str := `camsrv buffers frames from a camera into a rolling on-disk store and
exposes an HTTP interface to it.  Clients can pause and resume recording,
read back any buffered frame with its metadata, and download the whole
buffer as a FITS archive.

Usage:
	camsrv <command>

Commands:
	run
	help
	mkconf
	conf
	version`
	fmt.Println(str)
}

func help() {
	str := `camsrv is amenable to configuration via its .yaml file.  For a primer on YAML, see
https://yaml.org/start.html

Without a configuration, the server buffers a simulated camera into
./rbuffer with a capacity of 100 frames.

Routes of note, all under the listen address:
	GET  /recording         recording state
	POST /recording         set recording state, {"bool": b}
	POST /toggle            flip recording state
	GET  /frame/:index      buffered frame, ?fmt=png|fits
	GET  /metadata/:index   timestamp and ROI for a slot
	GET  /length            occupied slot count
	GET  /cursor            next slot to be written
	GET  /dump              whole buffer as FITS, ?compressed=true
	GET  /fps               measured acquisition rate
	GET  /metrics           prometheus metrics`
	fmt.Println(str)
}

func mkconf() {
	c := Config{}
	err := k.Unmarshal("", &c)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	f, err := os.Create(ConfigFileName)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer f.Close()
	err = yml.NewEncoder(f).Encode(c)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func printconf() {
	c := Config{}
	k.Unmarshal("", &c)
	err := yml.NewEncoder(os.Stdout).Encode(c)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func pversion() {
	fmt.Printf("camsrv version %v\n", Version)
}

func run() {
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	c := Config{}
	err := k.Unmarshal("", &c)
	if err != nil {
		logger.Fatal().Err(err).Msg("unmarshaling config")
	}

	cam := camera.NewSim(c.Buffer.ROI, time.Now().UnixNano())
	if err := acquire.OpenWithRetry(func() error {
		return cam.ConfigureROI(c.Buffer.ROI)
	}); err != nil {
		logger.Fatal().Err(err).Msg("bringing up camera")
	}

	buf, err := ringbuf.Open(c.Buffer, ringbuf.ZerologSink{Log: logger})
	if err != nil {
		logger.Fatal().Err(err).Msg("opening ring buffer")
	}
	defer buf.Close()

	loop := acquire.New(cam, buf, c.FPS)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		if err := loop.Run(ctx); err != nil {
			logger.Error().Err(err).Msg("acquisition stopped")
		}
	}()

	mux := goji.NewMux()
	ringbuf.NewHTTPWrapper(buf).RouteTable.Bind(mux)
	mux.Handle(pat.Get("/metrics"), promhttp.Handler())
	mux.HandleFunc(pat.Get("/fps"), func(w http.ResponseWriter, r *http.Request) {
		hp := server.HumanPayload{T: types.Float64, Float: loop.MeasuredFPS()}
		hp.EncodeAndRespond(w, r)
	})

	logger.Info().Str("addr", c.Addr).Msg("now listening for requests")
	logger.Fatal().Err(http.ListenAndServe(c.Addr, mux)).Msg("server stopped")
}

func main() {
	var cmd string
	args := os.Args
	if len(args) == 1 {
		root()
		return
	}
	setupconfig()
	cmd = args[1]
	cmd = strings.ToLower(cmd)
	switch cmd {
	case "help":
		help()
		return
	case "mkconf":
		mkconf()
		return
	case "conf":
		printconf()
		return
	case "run":
		run()
		return
	case "version":
		pversion()
		return
	default:
		fmt.Fprintln(os.Stderr, "unknown command")
		os.Exit(1)
	}
}
