// Command analyze-filter prints the coefficients and frequency response of a
// filter coefficient file.
//
// Usage:
//
//	analyze-filter -coef lowpass.yaml
//	analyze-filter -coef lowpass.yaml -points 32 -fft 1024
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	blockfilter "github.com/tphakala/go-audio-blockfilter"
	"github.com/tphakala/go-audio-blockfilter/internal/config"
	"github.com/tphakala/go-audio-blockfilter/internal/filter"
)

const (
	// Display defaults
	defaultResponsePoints = 17  // DC to Nyquist in sixteenths
	defaultFFTSize        = 512 // FFT size for the FIR cross-check
	maxFFTBinsToShow      = 9   // Bins shown from the FFT cross-check
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	if err := config.LoadEnv(); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to load .env file: %w", err)
	}
	envCfg, err := config.NewFilterConfigFromEnv(context.Background())
	if err != nil {
		return fmt.Errorf("failed to load environment config: %w", err)
	}

	coefPath := flag.String("coef", envCfg.CoefFile, "YAML coefficient file")
	points := flag.Int("points", defaultResponsePoints, "Number of response points from DC to Nyquist")
	fftSize := flag.Int("fft", defaultFFTSize, "FFT size for the FIR magnitude cross-check (0 to skip)")
	flag.Parse()

	if *coefPath == "" {
		fmt.Fprintf(os.Stderr, "Usage: %s -coef file.yaml [options]\n\n", os.Args[0])
		flag.PrintDefaults()
		return fmt.Errorf("missing coefficient file")
	}

	spec, err := blockfilter.LoadFilterSpecFile(*coefPath)
	if err != nil {
		return err
	}

	fmt.Println("=== Coefficients ===")
	if _, err := spec.WriteTo(os.Stdout); err != nil {
		return err
	}

	info := blockfilter.GetInfo(spec)
	b := spec.B()
	var a []float64
	if spec.FeedbackEnabled() {
		a = spec.A()
	}

	fmt.Println("\n=== Filter ===")
	fmt.Printf("  Algorithm: %s\n", info.Algorithm)
	fmt.Printf("  Taps: %d feed-forward, %d feedback", info.NumB, info.NumA)
	if spec.FIROnly() && info.NumA > 0 {
		fmt.Printf(" (not applied)")
	}
	fmt.Println()
	fmt.Printf("  Latency: %d samples\n", info.Latency)
	fmt.Printf("  DC gain: %.10f (%.2f dB)\n", filter.DCGain(b, a), filter.MagnitudeDB(filter.DCGain(b, a)))
	fmt.Printf("  Nyquist gain: %.10f (%.2f dB)\n", filter.NyquistGain(b, a), filter.MagnitudeDB(filter.NyquistGain(b, a)))
	fmt.Printf("  SIMD: %s\n", info.SIMDType)

	resp := spec.Response(*points)
	fmt.Println("\n=== Frequency Response ===")
	fmt.Println("  freq (x fs)   magnitude      dB     phase (rad)")
	for i, f := range resp.Frequencies {
		fmt.Printf("  %10.5f  %10.6f  %8.2f  %10.5f\n",
			f, resp.Magnitude[i], filter.MagnitudeDB(resp.Magnitude[i]), resp.Phase[i])
	}

	// The FFT of b is the FIR part only; it matches the response above when
	// no feedback is applied.
	if *fftSize > 0 && len(b) > 0 {
		mags := filter.FFTMagnitude(b, *fftSize)
		n := len(mags)
		if n < 2 {
			return nil
		}
		step := max(1, (n-1)/(maxFFTBinsToShow-1))

		fmt.Printf("\n=== FIR Magnitude (FFT, %d points) ===\n", (n-1)*2)
		for i := 0; i < n; i += step {
			freq := float64(i) / float64((n-1)*2)
			fmt.Printf("  %10.5f  %10.6f  %8.2f\n", freq, mags[i], filter.MagnitudeDB(mags[i]))
		}
	}

	return nil
}
