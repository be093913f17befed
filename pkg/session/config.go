package session

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/websocket"
	"github.com/pelletier/go-toml/v2"

	"nova/pkg/protocol"
)

// Default cadences of the connectivity session. The reconnect delay bounds
// how long the dashboard shows stale status after a drop; the poll interval
// bounds reminder staleness even while the stream is down.
const (
	DefaultReconnectDelay = 3 * time.Second
	DefaultPollInterval   = 10 * time.Second
)

// Config is the explicit configuration of one Session. The zero value is
// usable: every field has a documented default. Configuration is read once
// at construction; a running session is never reconfigured.
type Config struct {
	// BaseURL is the backend HTTP origin (default protocol.DefaultBaseURL).
	BaseURL string

	// StatusURL is the live-status WebSocket endpoint
	// (default protocol.DefaultStatusURL).
	StatusURL string

	// ReconnectDelay is the fixed wait between a connection drop and the
	// single pending reconnect attempt (default 3s).
	ReconnectDelay time.Duration

	// PollInterval is the reminder polling cadence (default 10s).
	PollInterval time.Duration

	// HTTPClient issues all request/response exchanges. Defaults to
	// http.DefaultClient, which carries no timeout; inject a client with
	// one if hung requests matter to the caller.
	HTTPClient *http.Client

	// Dialer opens the status WebSocket. Defaults to
	// websocket.DefaultDialer.
	Dialer *websocket.Dialer

	// OnFailure receives every swallowed failure. The session never lets a
	// failure escape its boundary; this hook is the only place they become
	// observable. Nil means discard.
	OnFailure func(Failure)

	// OnEvent receives session lifecycle events (connect/disconnect edges,
	// status transitions). Nil means discard.
	OnEvent func(Event)
}

// withDefaults returns a copy of c with zero fields replaced by defaults.
func (c Config) withDefaults() Config {
	if c.BaseURL == "" {
		c.BaseURL = protocol.DefaultBaseURL
	}
	if c.StatusURL == "" {
		c.StatusURL = protocol.DefaultStatusURL
	}
	if c.ReconnectDelay <= 0 {
		c.ReconnectDelay = DefaultReconnectDelay
	}
	if c.PollInterval <= 0 {
		c.PollInterval = DefaultPollInterval
	}
	if c.HTTPClient == nil {
		c.HTTPClient = http.DefaultClient
	}
	if c.Dialer == nil {
		c.Dialer = websocket.DefaultDialer
	}
	return c
}

// fileConfig mirrors the on-disk TOML layout of ~/.nova/config.toml.
type fileConfig struct {
	BaseURL          string `toml:"base_url"`
	StatusURL        string `toml:"status_url"`
	ReconnectSeconds int    `toml:"reconnect_seconds"`
	PollSeconds      int    `toml:"poll_seconds"`
}

// LoadConfig builds a Config from the TOML file at path, then applies the
// NOVA_BASE_URL and NOVA_STATUS_URL environment overrides. A missing file
// is not an error; a present-but-malformed file is.
func LoadConfig(path string) (Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// Defaults only.
	case err != nil:
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	default:
		var fc fileConfig
		if err := toml.Unmarshal(data, &fc); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
		cfg.BaseURL = fc.BaseURL
		cfg.StatusURL = fc.StatusURL
		cfg.ReconnectDelay = time.Duration(fc.ReconnectSeconds) * time.Second
		cfg.PollInterval = time.Duration(fc.PollSeconds) * time.Second
	}

	if v := os.Getenv("NOVA_BASE_URL"); v != "" {
		cfg.BaseURL = v
	}
	if v := os.Getenv("NOVA_STATUS_URL"); v != "" {
		cfg.StatusURL = v
	}

	return cfg, nil
}
