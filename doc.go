// Package blockfilter provides streaming FIR and IIR filtering of audio in
// pure Go.
//
// A filter is described by feed-forward coefficients b and feedback
// coefficients a:
//
//	a[0]·y[n] = Σ b[k]·x[n-k] − Σ_{k≥1} a[k]·y[n-k]
//
// Audio arrives in blocks of arbitrary size. Each channel keeps the last
// len(b)-1 inputs (and len(a)-1 outputs for IIR filters) between blocks, so
// the output never depends on how the signal was cut into blocks: filtering
// in blocks of 1024, 1 or 37 samples gives the same result as filtering the
// whole signal at once.
//
// # Features
//
//   - FIR filters up to [MaxCoefficients] taps, with optional IIR feedback
//   - Block-size invariant streaming with per-channel history
//   - No allocation on the processing path, safe for real-time callbacks
//   - SIMD acceleration (AVX2/SSE/NEON) via github.com/tphakala/simd
//   - float64 and float32 processing paths
//   - YAML coefficient files
//   - Pure Go implementation with no CGO dependencies
//
// # Quick Start
//
// For one-shot filtering of a mono signal:
//
//	spec, err := blockfilter.NewFilterSpec([]float64{0.25, 0.5, 0.25}, nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	output, err := blockfilter.FilterMono(spec, input)
//
// For streaming, keep one [ChannelFilter] per channel:
//
//	f, err := blockfilter.NewChannelFilter(spec, 1024)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for block := range blocks {
//	    if err := f.Process(block, block); err != nil {
//	        log.Fatal(err)
//	    }
//	    writeOutput(block)
//	}
//
// # Callback Streams
//
// A [Stream] owns a fully buffered interleaved signal and filters it one
// audio callback at a time, the way a sound card would pull it:
//
//	s, err := blockfilter.NewStream(spec, interleaved, &blockfilter.Config{
//	    Channels: 2,
//	    BlockLen: 1024,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// From the audio callback:
//	s.Process(deviceBuffer)
//
//	// Elsewhere:
//	if err := s.Wait(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	filtered := s.Output()
//
// [Stream.Play] runs the stream against a simulated output device,
// optionally paced in real time.
//
// # Coefficient Files
//
// [LoadFilterSpecFile] reads coefficients from YAML:
//
//	b: [0.2, 0.2, 0.2, 0.2, 0.2]
//	a: [1.0, -0.5]
//	fir_only: false
//
// With fir_only set, or [WithFIROnly] passed to [NewFilterSpec], the a
// coefficients are kept for reference but not applied.
//
// # Thread Safety
//
// A [FilterSpec] is immutable and may be shared freely. A [ChannelFilter]
// must be used by one goroutine at a time. [Stream.Process] must be called
// from one goroutine at a time, but progress may be observed from any number
// of goroutines while it runs.
package blockfilter
