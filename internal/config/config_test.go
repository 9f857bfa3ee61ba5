package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coreman2200/ledpwm5947/pwm"
	"github.com/coreman2200/ledpwm5947/tlc5947"
)

func write(t *testing.T, body string) string {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	c, err := Load(write(t, "mode: ramp\n"))
	require.NoError(t, err)
	assert.Equal(t, BackendSim, c.Backend)
	assert.Equal(t, "ramp", c.Mode)
	assert.Equal(t, 20*time.Millisecond, c.Interval)
	assert.Equal(t, 32, c.Step)
	assert.Empty(t, c.ChannelList())
}

func TestLoadFull(t *testing.T) {
	c, err := Load(write(t, `
backend: cdev
cdev:
  chip: gpiochip4
  offsets: {latch: 5, data: 6, oe: 13, clock: 19}
interval: 5ms
step: -100
channels: [1, 13, 24]
preview:
  console: true
  addr: ":8080"
mirror:
  enabled: true
  speed_khz: 3000
`))
	require.NoError(t, err)
	assert.Equal(t, "gpiochip4", c.Cdev.Chip)
	assert.Equal(t, Offsets{Latch: 5, Data: 6, OE: 13, Clock: 19}, c.Cdev.Offsets)
	assert.Equal(t, 5*time.Millisecond, c.Interval)
	assert.Equal(t, -100, c.Step)
	assert.True(t, c.Preview.Console)
	assert.Equal(t, ":8080", c.Preview.Addr)
	assert.True(t, c.Mirror.Enabled)
	assert.Equal(t, 3000, c.Mirror.SpeedKHz)
	assert.Equal(t, []tlc5947.Channel{tlc5947.Channel1, tlc5947.Channel13, tlc5947.Channel24}, c.ChannelList())
}

var TestLoadRejectsCases = []struct {
	name string
	body string
	err  string
}{
	{"backend", "backend: serial\n", `config: unknown backend "serial"`},
	{"pins", "backend: periph\npins: {latch: GPIO1, data: GPIO2, oe: '', clock: GPIO4}\n", `config: pins.oe is required for backend "periph"`},
	{"chip", "backend: cdev\ncdev: {chip: ''}\n", `config: cdev.chip is required for backend "cdev"`},
	{"mode", "mode: sparkle\n", `config: unknown mode "sparkle"`},
	{"interval", "interval: 0s\n", "config: interval must be positive, got 0s"},
	{"zero step", "step: 0\n", "config: step must not be zero"},
	{"channel low", "channels: [0]\n", "config: channel 0 out of range 1..24"},
	{"channel high", "channels: [25]\n", "config: channel 25 out of range 1..24"},
}

func TestLoadRejects(t *testing.T) {
	for _, tc := range TestLoadRejectsCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(write(t, tc.body))
			assert.EqualError(t, err, tc.err)
		})
	}
}

func TestLoadStepOutOfRange(t *testing.T) {
	_, err := Load(write(t, "step: 5000\n"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, pwm.Overflow))

	_, err = Load(write(t, "step: -5000\n"))
	assert.ErrorIs(t, err, pwm.Underflow)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadBadYAML(t *testing.T) {
	_, err := Load(write(t, "step: [\n"))
	assert.Error(t, err)
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.yaml")
	c := Default()
	c.Channels = []int{2, 3}
	c.Interval = time.Second
	require.NoError(t, Save(path, c))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, c, got)
}
