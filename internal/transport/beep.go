package transport

import (
	"fmt"

	"github.com/faiface/beep"
)

const stereoChannels = 2

// Producer fills out with interleaved frames and returns how many frames it
// produced. Anything past the produced frames is silence.
type Producer func(out []float64) int

// BeepStreamer pulls fixed-size buffers from a Producer and hands them to a
// beep sink as stereo frames. Mono sources are duplicated to both sides.
//
// The stream ends after the first buffer that comes back short, so the sink
// never plays the silent tail of the final buffer.
type BeepStreamer struct {
	produce  Producer
	channels int

	buf      []float64
	buffered int // frames in buf not yet handed out
	offset   int // first unread frame in buf
	drained  bool
}

var _ beep.Streamer = (*BeepStreamer)(nil)

// NewBeepStreamer creates a streamer that requests framesPerBuffer frames
// per Producer call. Only mono and stereo sources can be played.
func NewBeepStreamer(produce Producer, channels, framesPerBuffer int) (*BeepStreamer, error) {
	if channels != 1 && channels != stereoChannels {
		return nil, fmt.Errorf("%w: beep plays mono or stereo, got %d channels", ErrInvalidConfig, channels)
	}
	if framesPerBuffer < 1 {
		framesPerBuffer = DefaultFramesPerBuffer
	}
	return &BeepStreamer{
		produce:  produce,
		channels: channels,
		buf:      make([]float64, channels*framesPerBuffer),
	}, nil
}

// Stream implements beep.Streamer.
func (s *BeepStreamer) Stream(samples [][2]float64) (n int, ok bool) {
	for n < len(samples) {
		if s.buffered == 0 {
			if s.drained {
				break
			}
			s.buffered = s.produce(s.buf)
			s.offset = 0
			if s.buffered < len(s.buf)/s.channels {
				s.drained = true
			}
			if s.buffered == 0 {
				break
			}
		}

		k := min(s.buffered, len(samples)-n)
		for i := range k {
			frame := s.buf[(s.offset+i)*s.channels:]
			if s.channels == 1 {
				samples[n+i] = [2]float64{frame[0], frame[0]}
			} else {
				samples[n+i] = [2]float64{frame[0], frame[1]}
			}
		}
		n += k
		s.offset += k
		s.buffered -= k
	}
	return n, n > 0
}

// Err implements beep.Streamer. Producers cannot fail, so it is always nil.
func (s *BeepStreamer) Err() error {
	return nil
}
