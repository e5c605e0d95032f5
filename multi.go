package blockfilter

import (
	"fmt"
	"sync"

	"github.com/tphakala/go-audio-blockfilter/internal/engine"
)

// MultiFilter filters several planar channels with one shared spec, keeping
// separate history per channel.
type MultiFilter struct {
	config   Config
	channels []*engine.ChannelFilter[float64]
}

// NewMultiFilter creates a filter bank for config.Channels channels.
func NewMultiFilter(spec *FilterSpec, config *Config) (*MultiFilter, error) {
	if spec == nil {
		return nil, fmt.Errorf("%w: nil filter spec", ErrInvalidConfig)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	m := &MultiFilter{
		config:   *config,
		channels: make([]*engine.ChannelFilter[float64], config.Channels),
	}
	for ch := range m.channels {
		m.channels[ch] = engine.NewChannelFilter(spec.spec64, config.blockLen())
	}
	return m, nil
}

// ProcessMulti filters one block per channel and returns new output slices.
// When EnableParallel is true in config, channels are processed concurrently.
// Otherwise, channels are processed sequentially.
func (m *MultiFilter) ProcessMulti(input [][]float64) ([][]float64, error) {
	if len(input) != m.config.Channels {
		return nil, fmt.Errorf("%w: expected %d channels, got %d", ErrInvalidConfig, m.config.Channels, len(input))
	}

	output := make([][]float64, len(input))
	for ch := range input {
		output[ch] = make([]float64, len(input[ch]))
	}

	// Sequential processing (default or when parallel disabled)
	if !m.config.EnableParallel || len(input) <= monoChannels {
		for ch := range input {
			m.channels[ch].Process(output[ch], input[ch])
		}
		return output, nil
	}

	// Each goroutine owns exactly one channel's state.
	var wg sync.WaitGroup
	for ch := range input {
		wg.Add(1)
		go func(channel int) {
			defer wg.Done()
			m.channels[channel].Process(output[channel], input[channel])
		}(ch)
	}
	wg.Wait()

	return output, nil
}

// Reset clears the history of every channel.
func (m *MultiFilter) Reset() {
	for _, c := range m.channels {
		c.Reset()
	}
}

// NumChannels returns the number of channels.
func (m *MultiFilter) NumChannels() int {
	return len(m.channels)
}
