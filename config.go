package deferblock

import (
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Config holds the runtime tunables spec.md leaves as implementation
// details: how wide the idle-coalescing window is, a viewport poll
// interval, and whether illegal-transition diagnostics are logged. Apply
// installs the idle window and the dev-mode flag; ViewportPollInterval is
// parsed and kept on the Config, but nothing in the runtime reads it.
//
//	[deferblock]
//	idle_window = "50ms"
//	viewport_poll_interval = "250ms"
//	dev_mode = false
type Config struct {
	Deferblock struct {
		IdleWindow           duration `toml:"idle_window"`
		ViewportPollInterval duration `toml:"viewport_poll_interval"`
		DevMode              bool     `toml:"dev_mode"`
	} `toml:"deferblock"`
}

// duration round-trips through TOML as a Go duration string ("50ms").
type duration time.Duration

func (d *duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = duration(parsed)
	return nil
}

func (d duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// DefaultConfig returns the tunables used when no config file is loaded.
func DefaultConfig() *Config {
	c := &Config{}
	c.Deferblock.IdleWindow = duration(defaultIdleWindow)
	c.Deferblock.ViewportPollInterval = duration(250 * time.Millisecond)
	return c
}

// LoadConfig reads a TOML config file. Missing fields keep DefaultConfig's
// values.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Apply installs cfg's dev-mode flag and resets the process-wide idle
// queue to use cfg's window. Call once at startup after LoadConfig.
func (c *Config) Apply() {
	DevMode = c.Deferblock.DevMode
	globalIdleQueue = newIdleQueue(RealClock, time.Duration(c.Deferblock.IdleWindow))
}
