package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/coreman2200/ledpwm5947/pwm"
	"github.com/coreman2200/ledpwm5947/tlc5947"
)

const (
	BackendSim    = "sim"
	BackendPeriph = "periph"
	BackendCdev   = "cdev"
)

// Pins are periph line names, e.g. "GPIO17".
type Pins struct {
	Latch string `yaml:"latch"`
	Data  string `yaml:"data"`
	OE    string `yaml:"oe"`
	Clock string `yaml:"clock"`
}

type Offsets struct {
	Latch int `yaml:"latch"`
	Data  int `yaml:"data"`
	OE    int `yaml:"oe"`
	Clock int `yaml:"clock"`
}

type Cdev struct {
	Chip    string  `yaml:"chip"` // e.g. gpiochip0
	Offsets Offsets `yaml:"offsets"`
}

type Preview struct {
	Console bool   `yaml:"console"`
	Addr    string `yaml:"addr,omitempty"` // websocket listen address, empty disables
}

type Mirror struct {
	SPI      string `yaml:"spi,omitempty"` // "" is the first port when Enabled
	SpeedKHz int    `yaml:"speed_khz,omitempty"`
	Enabled  bool   `yaml:"enabled"`
}

type Config struct {
	Backend  string        `yaml:"backend"` // "sim" | "periph" | "cdev"
	Pins     Pins          `yaml:"pins"`
	Cdev     Cdev          `yaml:"cdev,omitempty"`
	Interval time.Duration `yaml:"interval"`
	Mode     string        `yaml:"mode"` // "breathe" | "ramp"
	Step     int           `yaml:"step"`
	Spread   bool          `yaml:"spread"`
	Channels []int         `yaml:"channels,omitempty"` // 1-based, empty is all

	Preview Preview `yaml:"preview"`
	Mirror  Mirror  `yaml:"mirror,omitempty"`
}

// Default runs the simulated chip, breathing every channel.
func Default() *Config {
	return &Config{
		Backend:  BackendSim,
		Pins:     Pins{Latch: "GPIO22", Data: "GPIO10", OE: "GPIO27", Clock: "GPIO11"},
		Cdev:     Cdev{Chip: "gpiochip0", Offsets: Offsets{Latch: 22, Data: 10, OE: 27, Clock: 11}},
		Interval: 20 * time.Millisecond,
		Mode:     "breathe",
		Step:     32,
	}
}

// Load reads path over the defaults and validates the result.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	c := Default()
	if err := yaml.Unmarshal(b, c); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func Save(path string, c *Config) error {
	b, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0644)
}

func (c *Config) Validate() error {
	switch c.Backend {
	case BackendSim, BackendCdev:
	case BackendPeriph:
		for role, name := range map[string]string{"latch": c.Pins.Latch, "data": c.Pins.Data, "oe": c.Pins.OE, "clock": c.Pins.Clock} {
			if name == "" {
				return fmt.Errorf("config: pins.%s is required for backend %q", role, c.Backend)
			}
		}
	default:
		return fmt.Errorf("config: unknown backend %q", c.Backend)
	}
	if c.Backend == BackendCdev && c.Cdev.Chip == "" {
		return fmt.Errorf("config: cdev.chip is required for backend %q", c.Backend)
	}
	switch c.Mode {
	case "breathe", "ramp":
	default:
		return fmt.Errorf("config: unknown mode %q", c.Mode)
	}
	if c.Interval <= 0 {
		return fmt.Errorf("config: interval must be positive, got %s", c.Interval)
	}
	if _, err := pwm.CheckedStep(c.Step); err != nil {
		return fmt.Errorf("config: step %d: %w", c.Step, err)
	}
	if c.Step == 0 {
		return fmt.Errorf("config: step must not be zero")
	}
	for _, n := range c.Channels {
		if n < 1 || n > tlc5947.NumChannels {
			return fmt.Errorf("config: channel %d out of range 1..%d", n, tlc5947.NumChannels)
		}
	}
	return nil
}

// ChannelList maps the configured channel numbers to channels. Call after
// Validate.
func (c *Config) ChannelList() []tlc5947.Channel {
	all := tlc5947.Channels()
	out := make([]tlc5947.Channel, 0, len(c.Channels))
	for _, n := range c.Channels {
		out = append(out, all[n-1])
	}
	return out
}
