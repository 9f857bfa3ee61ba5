package main

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coreman2200/ledpwm5947/internal/config"
	"github.com/coreman2200/ledpwm5947/internal/fade"
	"github.com/coreman2200/ledpwm5947/internal/preview"
	"github.com/coreman2200/ledpwm5947/internal/sim"
	"github.com/coreman2200/ledpwm5947/pwm"
	"github.com/coreman2200/ledpwm5947/tlc5947"
)

func newRunner(t *testing.T, log zerolog.Logger) (*runner, *sim.Chip) {
	chip := sim.New()
	dev := tlc5947.New(chip.Lines())
	require.NoError(t, dev.Begin())
	f, err := fade.New(fade.Options{Step: pwm.NewStep(1000), Channels: []tlc5947.Channel{tlc5947.Channel1}}, zerolog.Nop())
	require.NoError(t, err)
	return &runner{dev: dev, fader: f, mirror: preview.NewMirror(), log: log}, chip
}

func TestTick(t *testing.T) {
	r, chip := newRunner(t, zerolog.Nop())
	require.NoError(t, r.tick())
	require.NoError(t, r.tick())
	assert.Equal(t, uint16(2000), chip.Outputs()[0])
	assert.Equal(t, 2, chip.Latches())
}

func TestTickRecoversAfterFailedFlush(t *testing.T) {
	var buf bytes.Buffer
	r, chip := newRunner(t, zerolog.New(&buf))

	require.NoError(t, r.tick())
	chip.FailOn(tlc5947.Data, 3)
	err := r.tick()
	require.Error(t, err)
	assert.True(t, r.broken)
	assert.Contains(t, buf.String(), `"pin":"data"`)
	assert.Contains(t, buf.String(), `"message":"flush failed"`)
	assert.Equal(t, uint16(1000), chip.Outputs()[0], "outputs keep the last latched frame")

	chip.FailOn(tlc5947.Data, -1)
	require.NoError(t, r.tick())
	assert.False(t, r.broken)
	assert.Contains(t, buf.String(), "device reset")
	assert.Equal(t, uint16(3000), chip.Outputs()[0])
}

func TestTickBeginStillFailing(t *testing.T) {
	r, chip := newRunner(t, zerolog.Nop())
	r.broken = true
	chip.FailOn(tlc5947.OE, 0)
	assert.Error(t, r.tick())
	assert.True(t, r.broken)
	assert.Equal(t, 0, chip.Latches())
}

func TestShutdownBlanks(t *testing.T) {
	r, chip := newRunner(t, zerolog.Nop())
	require.NoError(t, r.tick())
	require.NoError(t, r.shutdown())
	assert.Equal(t, [tlc5947.NumChannels]uint16{}, chip.Outputs())
}

func TestLoopStopsOnCancel(t *testing.T) {
	r, chip := newRunner(t, zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		r.loop(ctx, time.Millisecond)
		close(done)
	}()

	assert.Eventually(t, func() bool { return chip.Latches() >= 3 }, 2*time.Second, time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("loop did not stop")
	}
}

func TestOpenBackend(t *testing.T) {
	lines, err := openBackend(config.Default())
	require.NoError(t, err)
	assert.NotNil(t, lines.Latch)
	assert.NoError(t, lines.Close())

	c := config.Default()
	c.Backend = "serial"
	_, err = openBackend(c)
	assert.EqualError(t, err, `unknown backend "serial"`)
}
