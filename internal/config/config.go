// SPDX-License-Identifier: MIT
package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"

	applog "rowwarp/internal/log"
	"rowwarp/pkg/bitint"

	"gopkg.in/yaml.v3"
)

// Defaults for the renderer and the companion feed.
const (
	DefaultLogLevel     = "info"
	DefaultSettingsFile = "settings.yaml"

	DefaultIngestURL        = "ws://127.0.0.1:3000/"
	DefaultHandshakeTimeout = 5 * time.Second
	DefaultReadLimit        = 4 << 20 // 4 MiB, ~half a million numbers in JSON

	DefaultImage  = "assets/source.png"
	DefaultWidth  = 1200
	DefaultHeight = 1800
	DefaultTitle  = "rowwarp"
	DefaultFPS    = 60

	DefaultFeedAddr       = ":3000"
	DefaultFeedPath       = "/"
	DefaultFeedDevice     = -1 // -1 selects the system default input
	DefaultFeedSampleRate = 44100
	DefaultFeedFFTSize    = 1024
	DefaultFeedWindow     = "Hann"
	DefaultFeedInterval   = 33 * time.Millisecond // ~30Hz
	DefaultFeedGate       = 0.001

	MaxDimension = 8192
)

// Config is the application configuration, loaded from YAML.
type Config struct {
	LogLevel string        `yaml:"log_level"`     // debug, info, warn, error.
	Settings string        `yaml:"settings_file"` // Path of the persisted tunables document.
	Ingest   IngestConfig  `yaml:"ingest"`        // Inbound data stream.
	Display  DisplayConfig `yaml:"display"`       // Rendering surface.
	Feed     FeedConfig    `yaml:"feed"`          // Companion feed server.
}

// IngestConfig describes the websocket the renderer reads vectors from.
type IngestConfig struct {
	URL              string        `yaml:"url"`               // ws:// or wss:// endpoint.
	HandshakeTimeout time.Duration `yaml:"handshake_timeout"` // Dial handshake timeout.
	ReadLimit        int64         `yaml:"read_limit"`        // Maximum message size in bytes.
}

// DisplayConfig describes the rendering surface. Width and Height are fixed
// at startup; the source image is scaled to exactly that size.
type DisplayConfig struct {
	Image         string `yaml:"image"`          // Source image path (png, jpeg, webp).
	Width         int    `yaml:"width"`          // Surface width in pixels.
	Height        int    `yaml:"height"`         // Surface height in pixels.
	Title         string `yaml:"title"`          // Window title.
	FPS           int    `yaml:"fps"`            // Frame rate of the tick.
	Rotate        bool   `yaml:"rotate"`         // Rotate the quad 90 degrees counterclockwise.
	Headless      bool   `yaml:"headless"`       // Run without a window.
	Frames        uint64 `yaml:"frames"`         // Headless: stop after N frames (0 = forever).
	SnapshotDir   string `yaml:"snapshot_dir"`   // Headless: directory for PNG snapshots.
	SnapshotEvery int    `yaml:"snapshot_every"` // Headless: write every Nth frame (0 = never).
}

// FeedConfig describes the companion server that streams vectors to renderers.
type FeedConfig struct {
	Addr       string        `yaml:"addr"`        // Listen address.
	Path       string        `yaml:"path"`        // Websocket path.
	WAVFile    string        `yaml:"wav_file"`    // Analyse this file instead of a live device.
	Device     int           `yaml:"device"`      // PortAudio input device index.
	SampleRate float64       `yaml:"sample_rate"` // Capture sample rate in Hz.
	FFTSize    int           `yaml:"fft_size"`    // FFT frame size (power of 2).
	Window     string        `yaml:"window"`      // FFT window function name.
	Interval   time.Duration `yaml:"interval"`    // Interval between published vectors.
	Bins       int           `yaml:"bins"`        // Number of leading bins to publish (0 = all).
	Gate       float64       `yaml:"gate"`        // Capture: peak level below which frames are silenced (0-1).
	Record     string        `yaml:"record"`      // Capture: also write the input to this WAV file.
}

// NewConfig returns the built-in defaults.
func NewConfig() *Config {
	return &Config{
		LogLevel: DefaultLogLevel,
		Settings: DefaultSettingsFile,
		Ingest: IngestConfig{
			URL:              DefaultIngestURL,
			HandshakeTimeout: DefaultHandshakeTimeout,
			ReadLimit:        DefaultReadLimit,
		},
		Display: DisplayConfig{
			Image:  DefaultImage,
			Width:  DefaultWidth,
			Height: DefaultHeight,
			Title:  DefaultTitle,
			FPS:    DefaultFPS,
		},
		Feed: FeedConfig{
			Addr:       DefaultFeedAddr,
			Path:       DefaultFeedPath,
			Device:     DefaultFeedDevice,
			SampleRate: DefaultFeedSampleRate,
			FFTSize:    DefaultFeedFFTSize,
			Window:     DefaultFeedWindow,
			Interval:   DefaultFeedInterval,
			Gate:       DefaultFeedGate,
		},
	}
}

// LoadConfig loads configuration from a YAML file specified by path. If path
// is empty, it searches default locations ("rowwarp.yaml", "config.yaml"). If
// no file is found, it uses built-in defaults. Environment overrides are
// applied after the file and the result is validated.
func LoadConfig(path string) (*Config, error) {
	cfg := NewConfig()

	if path == "" {
		for _, candidate := range []string{"rowwarp.yaml", "config.yaml"} {
			if _, err := os.Stat(candidate); err == nil {
				path = candidate
				break
			}
		}
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks the values that cannot be clamped into something sensible.
func (c *Config) Validate() error {
	if _, ok := applog.ParseLevel(c.LogLevel); !ok {
		return fmt.Errorf("log_level %q is not one of debug, info, warn, error", c.LogLevel)
	}

	u, err := url.Parse(c.Ingest.URL)
	if err != nil {
		return fmt.Errorf("ingest.url: %w", err)
	}
	if u.Scheme != "ws" && u.Scheme != "wss" {
		return fmt.Errorf("ingest.url %q must use ws:// or wss://", c.Ingest.URL)
	}
	if c.Ingest.ReadLimit <= 0 {
		return fmt.Errorf("ingest.read_limit must be positive, got %d", c.Ingest.ReadLimit)
	}

	if c.Display.Width <= 0 || c.Display.Width > MaxDimension ||
		c.Display.Height <= 0 || c.Display.Height > MaxDimension {
		return fmt.Errorf("display size %dx%d outside 1..%d", c.Display.Width, c.Display.Height, MaxDimension)
	}
	if c.Display.FPS <= 0 {
		return fmt.Errorf("display.fps must be positive, got %d", c.Display.FPS)
	}
	if c.Display.SnapshotEvery < 0 {
		return fmt.Errorf("display.snapshot_every must not be negative, got %d", c.Display.SnapshotEvery)
	}

	if !bitint.IsPowerOfTwo(c.Feed.FFTSize) {
		return fmt.Errorf("feed.fft_size must be a power of 2, got %d (try %d)",
			c.Feed.FFTSize, bitint.NextPowerOfTwo(c.Feed.FFTSize))
	}
	if c.Feed.SampleRate <= 0 {
		return fmt.Errorf("feed.sample_rate must be positive, got %f", c.Feed.SampleRate)
	}
	if c.Feed.Interval <= 0 {
		return fmt.Errorf("feed.interval must be positive, got %s", c.Feed.Interval)
	}
	if c.Feed.Bins < 0 {
		return fmt.Errorf("feed.bins must not be negative, got %d", c.Feed.Bins)
	}
	if c.Feed.Gate < 0 || c.Feed.Gate > 1 {
		return fmt.Errorf("feed.gate must be within 0-1, got %f", c.Feed.Gate)
	}

	return nil
}

// applyEnvOverrides lets a deployment change the endpoints and log level
// without editing the file. Unparseable values are ignored.
func (c *Config) applyEnvOverrides() {
	// ENV_LOG_LEVEL
	if val, ok := os.LookupEnv("ENV_LOG_LEVEL"); ok {
		c.LogLevel = val
		applog.Infof("configuration: Overriding log_level from env: %s", val)
	}
	// ENV_INGEST_URL
	if val, ok := os.LookupEnv("ENV_INGEST_URL"); ok {
		c.Ingest.URL = val
		applog.Infof("configuration: Overriding ingest.url from env: %s", val)
	}
	// ENV_DISPLAY_HEADLESS
	if val, ok := os.LookupEnv("ENV_DISPLAY_HEADLESS"); ok {
		if b, err := strconv.ParseBool(val); err == nil {
			c.Display.Headless = b
			applog.Infof("configuration: Overriding display.headless from env: %v", b)
		}
	}
	// ENV_FEED_ADDR
	if val, ok := os.LookupEnv("ENV_FEED_ADDR"); ok {
		c.Feed.Addr = val
		applog.Infof("configuration: Overriding feed.addr from env: %s", val)
	}
	// ENV_FEED_INTERVAL
	if val, ok := os.LookupEnv("ENV_FEED_INTERVAL"); ok {
		if d, err := time.ParseDuration(val); err == nil {
			c.Feed.Interval = d
			applog.Infof("configuration: Overriding feed.interval from env: %s", d)
		}
	}
}
