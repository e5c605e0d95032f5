package transport

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"mono", Config{Channels: 1}, false},
		{"stereo real-time", Config{Channels: 2, SampleRate: 48000, RealTime: true}, false},
		{"no channels", Config{Channels: 0}, true},
		{"negative buffer", Config{Channels: 1, FramesPerBuffer: -1}, true},
		{"real-time without rate", Config{Channels: 1, RealTime: true}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidConfig)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestDevice_RunsUntilComplete(t *testing.T) {
	dev, err := NewDevice[float32](Config{Channels: 2, FramesPerBuffer: 4})
	require.NoError(t, err)

	rec := NewRecorder[float32](64)
	dev.SetRecorder(rec)

	calls := 0
	require.NoError(t, dev.Start(context.Background(), func(out []float32) Status {
		assert.Len(t, out, 8)
		calls++
		for i := range out {
			out[i] = float32(calls)
		}
		if calls == 3 {
			return Complete
		}
		return Continue
	}))

	select {
	case <-dev.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("device did not stop after Complete")
	}

	assert.True(t, dev.Completed())
	assert.Equal(t, int64(3), dev.Callbacks())

	played := rec.ReadAll()
	require.Len(t, played, 24, "the completing buffer is still played")
	assert.InDelta(t, float32(1), played[0], 0)
	assert.InDelta(t, float32(3), played[23], 0)

	dev.Stop()
}

func TestDevice_StopBlocksUntilLoopExits(t *testing.T) {
	dev, err := NewDevice[float64](Config{Channels: 1, FramesPerBuffer: 16})
	require.NoError(t, err)

	require.NoError(t, dev.Start(context.Background(), func(out []float64) Status {
		return Continue
	}))
	require.Eventually(t, func() bool { return dev.Callbacks() > 10 }, 5*time.Second, time.Millisecond)

	dev.Stop()
	after := dev.Callbacks()

	select {
	case <-dev.Done():
	default:
		t.Fatal("Stop returned before the loop exited")
	}
	assert.False(t, dev.Completed())
	assert.Equal(t, after, dev.Callbacks(), "no callbacks after Stop")
}

func TestDevice_ContextCancel(t *testing.T) {
	dev, err := NewDevice[float64](Config{Channels: 1, SampleRate: 1000, FramesPerBuffer: 1, RealTime: true})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, dev.Start(ctx, func(out []float64) Status { return Continue }))
	cancel()

	select {
	case <-dev.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("device ignored context cancellation")
	}
}

func TestDevice_StartTwice(t *testing.T) {
	dev, err := NewDevice[float64](Config{Channels: 1})
	require.NoError(t, err)

	cb := func(out []float64) Status { return Complete }
	require.NoError(t, dev.Start(context.Background(), cb))
	require.ErrorIs(t, dev.Start(context.Background(), cb), ErrAlreadyStarted)
	dev.Stop()
}

func TestDevice_Defaults(t *testing.T) {
	dev, err := NewDevice[float32](Config{Channels: 2, SampleRate: 48000})
	require.NoError(t, err)

	assert.Equal(t, DefaultFramesPerBuffer, dev.Config().FramesPerBuffer)
	assert.Equal(t, 21333333*time.Nanosecond, dev.Period())

	dev.Stop() // never started
}

func TestDevice_RealTimePacing(t *testing.T) {
	// 100 frames at 10 kHz = 10 ms per buffer.
	dev, err := NewDevice[float64](Config{Channels: 1, FramesPerBuffer: 100, SampleRate: 10000, RealTime: true})
	require.NoError(t, err)

	calls := 0
	start := time.Now()
	require.NoError(t, dev.Start(context.Background(), func(out []float64) Status {
		calls++
		if calls == 5 {
			return Complete
		}
		return Continue
	}))
	<-dev.Done()

	assert.GreaterOrEqual(t, time.Since(start), 40*time.Millisecond)
}

func TestStatus_String(t *testing.T) {
	assert.Equal(t, "continue", Continue.String())
	assert.Equal(t, "complete", Complete.String())
	assert.Equal(t, "Status(7)", Status(7).String())
}
