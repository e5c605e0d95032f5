// Package transport provides a simulated audio output device that drives a
// block callback the way a real-time audio API does: a fixed-size interleaved
// buffer handed to the callback over and over until it reports completion.
package transport

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/tphakala/go-audio-blockfilter/internal/simdops"
)

// DefaultFramesPerBuffer is the block length requested from the callback
// when Config.FramesPerBuffer is zero.
const DefaultFramesPerBuffer = 1024

// Errors returned by the device.
var (
	// ErrInvalidConfig indicates an unusable device configuration.
	ErrInvalidConfig = errors.New("invalid device configuration")

	// ErrAlreadyStarted indicates Start was called on a running device.
	ErrAlreadyStarted = errors.New("device already started")
)

// Status is returned by a Callback to tell the device whether to keep going.
type Status int

const (
	// Continue asks for another buffer.
	Continue Status = iota

	// Complete plays the current buffer and stops the stream.
	Complete
)

// String returns the status name.
func (s Status) String() string {
	switch s {
	case Continue:
		return "continue"
	case Complete:
		return "complete"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// Callback fills out with len(out)/channels interleaved frames.
// It runs on the device goroutine and must not block.
type Callback[F simdops.Float] func(out []F) Status

// Config configures a Device.
type Config struct {
	// Channels is the number of interleaved channels per frame.
	Channels int

	// FramesPerBuffer is the number of frames requested per callback.
	// Zero selects DefaultFramesPerBuffer.
	FramesPerBuffer int

	// SampleRate in Hz. Only used for pacing.
	SampleRate int

	// RealTime paces callbacks at FramesPerBuffer/SampleRate like a sound card.
	// When false the callback runs back to back.
	RealTime bool
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.Channels < 1 {
		return fmt.Errorf("%w: channels must be positive, got %d", ErrInvalidConfig, c.Channels)
	}
	if c.FramesPerBuffer < 0 {
		return fmt.Errorf("%w: frames per buffer must not be negative, got %d", ErrInvalidConfig, c.FramesPerBuffer)
	}
	if c.RealTime && c.SampleRate <= 0 {
		return fmt.Errorf("%w: real-time pacing needs a positive sample rate, got %d", ErrInvalidConfig, c.SampleRate)
	}
	return nil
}

// Device repeatedly invokes a callback with its own output buffer.
type Device[F simdops.Float] struct {
	cfg      Config
	buf      []F
	recorder *Recorder[F]

	mu      sync.Mutex
	cancel  context.CancelFunc
	done    chan struct{}
	started bool

	callbacks atomic.Int64
	completed atomic.Bool
}

// NewDevice creates a stopped device. The output buffer is allocated here,
// once, and reused for every callback.
func NewDevice[F simdops.Float](cfg Config) (*Device[F], error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.FramesPerBuffer == 0 {
		cfg.FramesPerBuffer = DefaultFramesPerBuffer
	}

	return &Device[F]{
		cfg:  cfg,
		buf:  make([]F, cfg.FramesPerBuffer*cfg.Channels),
		done: make(chan struct{}),
	}, nil
}

// SetRecorder attaches a recorder that receives every buffer after the
// callback fills it. Call before Start.
func (d *Device[F]) SetRecorder(r *Recorder[F]) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.recorder = r
}

// Config returns the effective configuration.
func (d *Device[F]) Config() Config {
	return d.cfg
}

// Period returns the wall-clock duration of one buffer at the configured
// sample rate, or zero when the rate is unknown.
func (d *Device[F]) Period() time.Duration {
	if d.cfg.SampleRate <= 0 {
		return 0
	}
	return time.Duration(d.cfg.FramesPerBuffer) * time.Second / time.Duration(d.cfg.SampleRate)
}

// Start launches the callback loop on its own goroutine. The loop ends when
// the callback returns Complete, when Stop is called, or when ctx is done.
// A device can be started only once.
func (d *Device[F]) Start(ctx context.Context, cb Callback[F]) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.started {
		return ErrAlreadyStarted
	}
	d.started = true

	ctx, d.cancel = context.WithCancel(ctx)
	go d.run(ctx, cb, d.recorder)
	return nil
}

func (d *Device[F]) run(ctx context.Context, cb Callback[F], rec *Recorder[F]) {
	defer close(d.done)

	var tick <-chan time.Time
	if d.cfg.RealTime {
		ticker := time.NewTicker(d.Period())
		defer ticker.Stop()
		tick = ticker.C
	}

	for {
		if tick != nil {
			select {
			case <-ctx.Done():
				return
			case <-tick:
			}
		} else if ctx.Err() != nil {
			return
		}

		status := cb(d.buf)
		d.callbacks.Add(1)
		if rec != nil {
			rec.Write(d.buf)
		}
		if status == Complete {
			d.completed.Store(true)
			return
		}
	}
}

// Stop ends the stream and blocks until the callback loop has exited. After
// Stop returns the callback is never invoked again. Stop on a device that
// was never started returns immediately.
func (d *Device[F]) Stop() {
	d.mu.Lock()
	cancel := d.cancel
	d.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-d.done
}

// Done is closed when the callback loop exits.
func (d *Device[F]) Done() <-chan struct{} {
	return d.done
}

// Callbacks returns the number of callbacks made so far.
func (d *Device[F]) Callbacks() int64 {
	return d.callbacks.Load()
}

// Completed reports whether the loop ended because the callback returned Complete.
func (d *Device[F]) Completed() bool {
	return d.completed.Load()
}
