package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/micdrop/micdrop/internal/audio"
	"github.com/micdrop/micdrop/internal/capture"
	"github.com/micdrop/micdrop/internal/config"
	"github.com/micdrop/micdrop/internal/logging"
	"github.com/micdrop/micdrop/internal/state"
	"github.com/micdrop/micdrop/internal/wav"
	"github.com/rs/zerolog"
)

var (
	// Version is set via ldflags at build time
	Version = "dev"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log := logging.New()
		log.Fatal().Err(err).Msg("Failed to load config")
	}

	log := logging.NewWithLevel(cfg.LogLevel)

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	switch os.Args[1] {
	case "record":
		runRecord(cfg, log, os.Args[2:])
	case "toggle":
		runToggle(cfg, log, os.Args[2:])
	case "devices":
		runDevices(cfg, log)
	case "version":
		fmt.Println(Version)
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: micdrop <record|toggle|devices|version> [flags]")
}

func newSource(cfg *config.Config) (audio.Source, error) {
	switch cfg.Backend {
	case "", "malgo":
		return audio.NewMalgo()
	case "portaudio":
		return audio.NewPortAudio()
	default:
		return nil, fmt.Errorf("unknown audio backend: %s", cfg.Backend)
	}
}

func newEngine(cfg *config.Config, log zerolog.Logger, source audio.Source) *capture.Engine {
	return capture.New(capture.Config{
		Source:       source,
		Logger:       log,
		DeviceID:     cfg.Audio.DeviceID,
		TargetRate:   cfg.Capture.TargetRate,
		GracePeriod:  time.Duration(cfg.Capture.GracePeriodMS) * time.Millisecond,
		TickInterval: time.Duration(cfg.Capture.TickIntervalMS) * time.Millisecond,
	})
}

func runRecord(cfg *config.Config, log zerolog.Logger, args []string) {
	fs := flag.NewFlagSet("record", flag.ExitOnError)
	duration := fs.Duration("duration", 10*time.Second, "how long to record")
	out := fs.String("out", "capture.wav", "output WAV file")
	fs.Parse(args)

	source, err := newSource(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize audio")
	}
	defer source.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	engine := newEngine(cfg, log, source)
	samples, err := engine.Capture(ctx, *duration)
	if err != nil {
		log.Fatal().Err(err).Msg("Capture failed")
	}

	writeCapture(cfg, log, *out, samples)
}

func runToggle(cfg *config.Config, log zerolog.Logger, args []string) {
	fs := flag.NewFlagSet("toggle", flag.ExitOnError)
	out := fs.String("out", "capture.wav", "output WAV file")
	fs.Parse(args)

	// A second toggle invocation stops the session the first one started.
	if sess, err := state.CurrentSession(); err != nil {
		log.Fatal().Err(err).Msg("Failed to check recording state")
	} else if sess != nil {
		log.Info().Int("pid", sess.PID).Time("started_at", sess.StartedAt).Msg("Stopping running session")
		if err := state.RequestStop(sess.PID); err != nil {
			log.Fatal().Err(err).Msg("Failed to signal session")
		}
		return
	}

	source, err := newSource(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize audio")
	}
	defer source.Close()

	state.Arm()
	if err := state.BeginSession(); err != nil {
		log.Fatal().Err(err).Msg("Failed to register session")
	}
	defer state.EndSession()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	engine := newEngine(cfg, log, source)
	maxDuration := time.Duration(cfg.Capture.MaxToggleSecs) * time.Second
	samples, err := engine.CaptureToggle(ctx, maxDuration, state.ShouldStop)
	if err != nil {
		log.Fatal().Err(err).Msg("Capture failed")
	}

	writeCapture(cfg, log, *out, samples)
}

func runDevices(cfg *config.Config, log zerolog.Logger) {
	source, err := newSource(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize audio")
	}
	defer source.Close()

	devices, err := source.ListDevices()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to list devices")
	}
	for _, d := range devices {
		marker := " "
		if d.Default {
			marker = "*"
		}
		fmt.Printf("%s %s\n", marker, d.Name)
	}
}

func writeCapture(cfg *config.Config, log zerolog.Logger, out string, samples []float32) {
	if len(samples) == 0 {
		log.Warn().Msg("Nothing captured, no file written")
		return
	}

	path := out
	if !filepath.IsAbs(path) {
		path = filepath.Join(cfg.OutputDir, path)
	}
	if err := wav.Write(path, samples, cfg.Capture.TargetRate); err != nil {
		log.Fatal().Err(err).Msg("Failed to write output")
	}
	log.Info().Str("path", path).Int("samples", len(samples)).Msg("Capture written")
}
