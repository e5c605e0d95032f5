package blockfilter

import (
	"context"
	"fmt"
	"time"

	"github.com/faiface/beep"

	"github.com/tphakala/go-audio-blockfilter/internal/engine"
	"github.com/tphakala/go-audio-blockfilter/internal/scheduler"
	"github.com/tphakala/go-audio-blockfilter/internal/simdops"
	"github.com/tphakala/go-audio-blockfilter/internal/transport"
)

// StreamStats counts callback activity of a stream.
type StreamStats = scheduler.Stats

// Stream filters a fully buffered interleaved signal one callback at a time.
//
// Process is meant to be called from an audio callback: it never allocates,
// blocks or fails. Other goroutines may watch progress with NextFrame,
// IsDone, Done and Wait while it runs. The filtered signal accumulates in
// Output, which has exactly as many frames as the source.
type Stream struct {
	*stream[float64]
}

// StreamFloat32 is the float32 counterpart of Stream.
type StreamFloat32 struct {
	*stream[float32]
}

// NewStream creates a stream over source, an interleaved signal with
// cfg.Channels channels. The source must hold a whole number of frames and
// must not be modified while the stream runs.
func NewStream(spec *FilterSpec, source []float64, cfg *Config) (*Stream, error) {
	s, err := newStream(spec, source, cfg)
	if err != nil {
		return nil, err
	}
	return &Stream{s}, nil
}

// NewStreamFloat32 creates a float32 stream. See NewStream.
func NewStreamFloat32(spec *FilterSpec, source []float32, cfg *Config) (*StreamFloat32, error) {
	s, err := newStream(spec, source, cfg)
	if err != nil {
		return nil, err
	}
	return &StreamFloat32{s}, nil
}

// BeepStreamer returns the stream as a beep.Streamer, ready for
// speaker.Play or any other beep sink. It pulls BlockLen frames per
// callback and ends with the last frame of the signal. Only mono and stereo
// streams can be played this way.
func (s *Stream) BeepStreamer() (beep.Streamer, error) {
	bs, err := transport.NewBeepStreamer(s.sched.Process, s.cfg.Channels, s.cfg.blockLen())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return bs, nil
}

type stream[F simdops.Float] struct {
	cfg   Config
	sched *scheduler.Scheduler[F]
}

func newStream[F simdops.Float](spec *FilterSpec, source []F, cfg *Config) (*stream[F], error) {
	if spec == nil {
		return nil, fmt.Errorf("%w: nil filter spec", ErrInvalidConfig)
	}
	if cfg == nil {
		return nil, fmt.Errorf("%w: nil config", ErrInvalidConfig)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	sched, err := scheduler.New(source, cfg.Channels, engineSpec[F](spec), cfg.blockLen())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return &stream[F]{cfg: *cfg, sched: sched}, nil
}

// Process fills out with the next len(out)/Channels frames of filtered
// signal and returns how many frames it produced. Frames past the end of the
// signal, and every frame once the stream is done, are silence.
func (s *stream[F]) Process(out []F) int {
	return s.sched.Process(out)
}

// IsDone reports whether the whole signal has been filtered.
func (s *stream[F]) IsDone() bool {
	return s.sched.IsDone()
}

// Done is closed when the whole signal has been filtered.
func (s *stream[F]) Done() <-chan struct{} {
	return s.sched.Done()
}

// Wait blocks until the stream is done or ctx ends.
func (s *stream[F]) Wait(ctx context.Context) error {
	return s.sched.Wait(ctx)
}

// Poll calls report with the current progress every interval until the
// stream is done or ctx ends.
func (s *stream[F]) Poll(ctx context.Context, interval time.Duration, report func(next, total int64)) error {
	return s.sched.Poll(ctx, interval, report)
}

// NextFrame returns the index of the next frame to be filtered.
func (s *stream[F]) NextFrame() int64 {
	return s.sched.NextFrame()
}

// TotalFrames returns the number of frames in the source.
func (s *stream[F]) TotalFrames() int64 {
	return s.sched.TotalFrames()
}

// Output returns the interleaved filtered signal. Read it after Done.
func (s *stream[F]) Output() []F {
	return s.sched.Output()
}

// Stats returns callback counters.
func (s *stream[F]) Stats() StreamStats {
	return s.sched.Stats()
}

// Play runs the stream to completion on a simulated output device that
// requests BlockLen frames per callback, optionally paced in real time.
// It returns ctx.Err() if ctx ends first; the device is stopped either way.
func (s *stream[F]) Play(ctx context.Context) error {
	dev, err := transport.NewDevice[F](transport.Config{
		Channels:        s.cfg.Channels,
		FramesPerBuffer: s.cfg.blockLen(),
		SampleRate:      s.cfg.SampleRate,
		RealTime:        s.cfg.RealTime,
	})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	if err := dev.Start(ctx, s.sched.Callback()); err != nil {
		return err
	}
	defer dev.Stop()

	return s.sched.Wait(ctx)
}

// engineSpec returns the precompiled spec for F.
func engineSpec[F simdops.Float](spec *FilterSpec) *engine.Spec[F] {
	var zero F
	switch any(zero).(type) {
	case float32:
		s, _ := any(spec.spec32).(*engine.Spec[F])
		return s
	default:
		s, _ := any(spec.spec64).(*engine.Spec[F])
		return s
	}
}
