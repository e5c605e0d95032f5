package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os"
	"time"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	blockfilter "github.com/tphakala/go-audio-blockfilter"
	"github.com/tphakala/go-audio-blockfilter/internal/engine"
	"github.com/tphakala/go-audio-blockfilter/internal/scheduler"
	"github.com/tphakala/go-audio-blockfilter/internal/transport"
)

const (
	// Sample format constants
	bitsPerSample16 = 16
	bitsPerSample24 = 24
	bitsPerSample32 = 32

	// Conversion constants
	maxInt16 = 32767.0
	maxInt24 = 8388607.0
	maxInt32 = 2147483647.0

	wavFormatPCM = 1
	percentScale = 100
)

// Float constraint for generic filtering.
type Float interface {
	float32 | float64
}

// filterOptions holds the processing settings shared by both precisions.
type filterOptions struct {
	blockLen     int
	realTime     bool
	pollInterval time.Duration
	verify       bool
	tolerance    float64
}

type filterStats struct {
	sampleRate      int
	channels        int
	bitDepth        int
	frames          int64
	callbacks       int64
	silentCallbacks int64
	maxError        float64
}

// wavInputInfo holds a fully decoded input file.
type wavInputInfo struct {
	rate     int
	channels int
	bitDepth int
	data     []int
}

// readWAVInput opens, validates and decodes a whole WAV file.
func readWAVInput(path string) (*wavInputInfo, error) {
	inputFile, err := os.Open(path) //nolint:gosec // G304: path comes from the command line
	if err != nil {
		return nil, fmt.Errorf("failed to open input file: %w", err)
	}
	defer func() { _ = inputFile.Close() }()

	decoder := wav.NewDecoder(inputFile)
	if !decoder.IsValidFile() {
		return nil, fmt.Errorf("invalid WAV file: %s", path)
	}

	buf, err := decoder.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to read audio data: %w", err)
	}

	info := &wavInputInfo{
		rate:     int(decoder.SampleRate),
		channels: int(decoder.NumChans),
		bitDepth: int(decoder.BitDepth),
		data:     buf.Data,
	}
	if _, err := maxValue(info.bitDepth); err != nil {
		return nil, err
	}
	if info.channels < 1 || info.channels > blockfilter.MaxChannels {
		return nil, fmt.Errorf("unsupported channel count %d", info.channels)
	}

	slog.Debug("input format",
		"path", path,
		"rate", info.rate,
		"channels", info.channels,
		"bitDepth", info.bitDepth,
		"frames", len(info.data)/info.channels)

	return info, nil
}

// maxValue returns the full-scale sample value for the given bit depth.
func maxValue(bitDepth int) (float64, error) {
	switch bitDepth {
	case bitsPerSample16:
		return maxInt16, nil
	case bitsPerSample24:
		return maxInt24, nil
	case bitsPerSample32:
		return maxInt32, nil
	default:
		return 0, fmt.Errorf("unsupported bit depth %d", bitDepth)
	}
}

// normalize converts PCM integers to floats in [-1, 1].
func normalize[F Float](data []int, bitDepth int) ([]F, error) {
	maxVal, err := maxValue(bitDepth)
	if err != nil {
		return nil, err
	}
	invMaxVal := 1.0 / maxVal

	out := make([]F, len(data))
	for i, v := range data {
		out[i] = F(float64(v) * invMaxVal)
	}
	return out, nil
}

// quantize converts floats back to PCM integers, clamping to full scale.
func quantize[F Float](samples []F, bitDepth int) ([]int, error) {
	maxVal, err := maxValue(bitDepth)
	if err != nil {
		return nil, err
	}

	out := make([]int, len(samples))
	for i, s := range samples {
		sample := float64(s)
		if sample > 1.0 {
			sample = 1.0
		} else if sample < -1.0 {
			sample = -1.0
		}
		out[i] = int(math.Round(sample * maxVal))
	}
	return out, nil
}

// writeWAVOutput writes interleaved PCM data in the given format.
func writeWAVOutput(path string, sampleRate, bitDepth, channels int, data []int) (err error) {
	outputFile, err := os.Create(path) //nolint:gosec // G304: path comes from the command line
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() {
		if closeErr := outputFile.Close(); err == nil {
			err = closeErr
		}
	}()

	enc := wav.NewEncoder(outputFile, sampleRate, bitDepth, channels, wavFormatPCM)
	buf := &audio.IntBuffer{
		Format: &audio.Format{
			NumChannels: channels,
			SampleRate:  sampleRate,
		},
		Data:           data,
		SourceBitDepth: bitDepth,
	}
	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("failed to write audio data: %w", err)
	}
	// Close patches the RIFF header sizes
	if err := enc.Close(); err != nil {
		return fmt.Errorf("failed to finalize WAV file: %w", err)
	}
	return nil
}

// playResult is what a device run produced.
type playResult[F Float] struct {
	// output is the filtered signal, one entry per source sample.
	output []F
	// played is everything the device emitted, including the silent tail
	// of the final buffer.
	played    []F
	callbacks int64
	stats     scheduler.Stats
}

// playStream runs src through the filter on a simulated device and reports
// progress every pollInterval until the stream completes.
func playStream[F Float](
	ctx context.Context,
	spec *engine.Spec[F],
	src []F,
	channels, sampleRate int,
	opts filterOptions,
) (*playResult[F], error) {
	sched, err := scheduler.New(src, channels, spec, opts.blockLen)
	if err != nil {
		return nil, err
	}

	dev, err := transport.NewDevice[F](transport.Config{
		Channels:        channels,
		FramesPerBuffer: opts.blockLen,
		SampleRate:      sampleRate,
		RealTime:        opts.realTime,
	})
	if err != nil {
		return nil, err
	}
	rec := transport.NewRecorder[F](len(src) + channels*opts.blockLen)
	dev.SetRecorder(rec)

	if err := dev.Start(ctx, sched.Callback()); err != nil {
		return nil, err
	}
	defer dev.Stop()

	err = sched.Poll(ctx, opts.pollInterval, func(next, total int64) {
		percent := 0
		if total > 0 {
			percent = int(next * percentScale / total)
		}
		slog.Info("progress", "nextFrame", next, "totalFrames", total, "percent", percent)
	})
	if err != nil {
		return nil, err
	}

	// Wait for the device to hand the final buffer to the recorder.
	select {
	case <-dev.Done():
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	return &playResult[F]{
		output:    sched.Output(),
		played:    rec.ReadAll(),
		callbacks: dev.Callbacks(),
		stats:     sched.Stats(),
	}, nil
}

// maxDeviation filters each channel of src in one pass and returns the
// largest absolute difference from the streamed output.
func maxDeviation[F Float](spec *engine.Spec[F], src, streamed []F, channels int) float64 {
	frames := len(src) / channels
	ch := make([]F, frames)
	var maxErr float64
	for c := range channels {
		for i := range frames {
			ch[i] = src[i*channels+c]
		}
		want := engine.FilterWhole(spec, ch)
		for i, v := range want {
			maxErr = max(maxErr, math.Abs(float64(streamed[i*channels+c]-v)))
		}
	}
	return maxErr
}

func filterWAV[F Float](
	ctx context.Context,
	spec *blockfilter.FilterSpec,
	inputPath, outputPath string,
	opts filterOptions,
) (*filterStats, error) {
	// 1. Load input
	input, err := readWAVInput(inputPath)
	if err != nil {
		return nil, err
	}
	src, err := normalize[F](input.data, input.bitDepth)
	if err != nil {
		return nil, err
	}

	if opts.realTime && input.rate <= 0 {
		return nil, fmt.Errorf("real-time playback needs a sample rate, file reports %d", input.rate)
	}

	// 2. Build the engine spec at the working precision
	espec, err := engine.NewSpec[F](spec.B(), spec.A(), !spec.FIROnly())
	if err != nil {
		return nil, err
	}

	// 3. Play through the device
	result, err := playStream(ctx, espec, src, input.channels, input.rate, opts)
	if err != nil {
		return nil, err
	}

	stats := &filterStats{
		sampleRate:      input.rate,
		channels:        input.channels,
		bitDepth:        input.bitDepth,
		frames:          int64(len(src) / input.channels),
		callbacks:       result.callbacks,
		silentCallbacks: result.stats.SilentCallbacks,
	}

	// 4. Optional checks
	if opts.verify {
		if len(result.played) < len(result.output) {
			return nil, fmt.Errorf("%w: device emitted %d samples, stream produced %d",
				errVerifyFailed, len(result.played), len(result.output))
		}
		for i, v := range result.output {
			if result.played[i] != v {
				return nil, fmt.Errorf("%w: device output differs from stream output at sample %d",
					errVerifyFailed, i)
			}
		}

		stats.maxError = maxDeviation(espec, src, result.output, input.channels)
		if stats.maxError > opts.tolerance {
			return nil, fmt.Errorf("%w: max deviation %.3g exceeds %.3g",
				errVerifyFailed, stats.maxError, opts.tolerance)
		}
		slog.Debug("verification passed", "maxError", stats.maxError)
	}

	// 5. Write output in the input format
	pcm, err := quantize(result.output, input.bitDepth)
	if err != nil {
		return nil, err
	}
	if err := writeWAVOutput(outputPath, input.rate, input.bitDepth, input.channels, pcm); err != nil {
		if removeErr := os.Remove(outputPath); removeErr != nil && !errors.Is(removeErr, os.ErrNotExist) {
			slog.Warn("failed to remove partial output", "path", outputPath, "error", removeErr)
		}
		return nil, err
	}

	return stats, nil
}
