// Command filter-wav filters a WAV file through a block filter driven by a
// simulated audio device.
//
// The whole input is loaded into memory. A device then pulls fixed-size
// buffers from the filter stream, exactly as a sound card callback would,
// while the main goroutine reports progress until the stream completes.
//
// Usage:
//
//	filter-wav -coef lowpass.yaml input.wav output.wav
//	filter-wav -coef lowpass.yaml -block 256 -realtime input.wav out.wav  # pace like a sound card
//	filter-wav -coef lowpass.yaml -fast input.wav out.wav                 # float32 precision
//	filter-wav -coef lowpass.yaml -verify input.wav out.wav               # compare against one-pass filtering
//
// Defaults come from BLOCKFILTER_* environment variables, optionally loaded
// from a .env file in the working directory.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"runtime/pprof"
	"time"

	blockfilter "github.com/tphakala/go-audio-blockfilter"
	"github.com/tphakala/go-audio-blockfilter/internal/config"
)

const (
	// Tolerances for -verify, as absolute error on normalized samples.
	verifyToleranceFloat64 = 1e-9
	verifyToleranceFloat32 = 1e-4

	minRequiredArgs = 2
)

var errVerifyFailed = errors.New("verification failed")

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := config.LoadEnv(); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to load .env file: %w", err)
	}
	envCfg, err := config.NewFilterConfigFromEnv(ctx)
	if err != nil {
		return fmt.Errorf("failed to load environment config: %w", err)
	}

	// Parse command line flags
	coefPath := flag.String("coef", envCfg.CoefFile, "YAML coefficient file (b, a, fir_only)")
	blockLen := flag.Int("block", envCfg.BlockLen, "Frames per device callback")
	fast := flag.Bool("fast", envCfg.Float32, "Use float32 precision")
	realTime := flag.Bool("realtime", envCfg.RealTime, "Pace callbacks at the input sample rate")
	poll := flag.Duration("poll", envCfg.PollInterval, "Progress report interval")
	printCoefs := flag.Bool("print", false, "Print the filter coefficients before processing")
	verify := flag.Bool("verify", false, "Check the streamed output against one-pass filtering")
	verbose := flag.Bool("v", false, "Verbose output")
	cpuprofile := flag.String("cpuprofile", "", "Write CPU profile to file (for PGO)")
	flag.Parse()

	args := flag.Args()
	if len(args) < minRequiredArgs || *coefPath == "" {
		fmt.Fprintf(os.Stderr, "Usage: %s -coef file.yaml [options] input.wav output.wav\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s -coef lowpass.yaml in.wav out.wav            # Filter as fast as possible\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -coef lowpass.yaml -realtime in.wav out.wav  # Pace like a sound card\n", os.Args[0])
		return fmt.Errorf("insufficient arguments")
	}
	if *blockLen < 1 {
		return fmt.Errorf("block length must be positive, got %d", *blockLen)
	}
	if *poll <= 0 {
		return fmt.Errorf("poll interval must be positive, got %s", *poll)
	}

	if *verbose {
		slog.SetLogLoggerLevel(slog.LevelDebug)
	}

	// Start CPU profiling if requested (for PGO)
	if *cpuprofile != "" {
		f, err := os.Create(*cpuprofile)
		if err != nil {
			return fmt.Errorf("could not create CPU profile: %w", err)
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			_ = f.Close()
			return fmt.Errorf("could not start CPU profile: %w", err)
		}
		defer func() {
			pprof.StopCPUProfile()
			_ = f.Close()
		}()
	}

	spec, err := blockfilter.LoadFilterSpecFile(*coefPath)
	if err != nil {
		return err
	}
	if *printCoefs {
		if _, err := spec.WriteTo(os.Stdout); err != nil {
			return err
		}
	}

	inputPath := args[0]
	outputPath := args[1]

	info := blockfilter.GetInfo(spec)
	slog.Debug("filter loaded",
		"coef", *coefPath,
		"algorithm", info.Algorithm,
		"numB", info.NumB,
		"numA", info.NumA,
		"feedback", info.Feedback,
		"dcGain", info.DCGain,
		"simd", info.SIMDType)

	opts := filterOptions{
		blockLen:     *blockLen,
		realTime:     *realTime,
		pollInterval: *poll,
		verify:       *verify,
	}

	// Process the file
	start := time.Now()
	var stats *filterStats
	if *fast {
		opts.tolerance = verifyToleranceFloat32
		stats, err = filterWAV[float32](ctx, spec, inputPath, outputPath, opts)
	} else {
		opts.tolerance = verifyToleranceFloat64
		stats, err = filterWAV[float64](ctx, spec, inputPath, outputPath, opts)
	}
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	// Print summary
	fmt.Printf("Filtered %s -> %s\n", filepath.Base(inputPath), filepath.Base(outputPath))
	fmt.Printf("  %d Hz, %d channels, %d-bit, %d frames\n",
		stats.sampleRate, stats.channels, stats.bitDepth, stats.frames)
	fmt.Printf("  %d callbacks of %d frames (%d silent)\n",
		stats.callbacks, *blockLen, stats.silentCallbacks)
	if *verify {
		fmt.Printf("  Max deviation from one-pass filtering: %.3g\n", stats.maxError)
	}
	if elapsed > 0 && stats.sampleRate > 0 {
		fmt.Printf("  Duration: %.2fs, Speed: %.1fx realtime\n",
			elapsed.Seconds(),
			float64(stats.frames)/float64(stats.sampleRate)/elapsed.Seconds())
	}

	return nil
}
