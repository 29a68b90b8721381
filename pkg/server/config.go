package server

import (
	"log/slog"
	"net/http"
	"net/url"
	"slices"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/vango-dev/vtree/pkg/metrics"
	"github.com/vango-dev/vtree/pkg/modules"
	"github.com/vango-dev/vtree/pkg/snapshot"
	"github.com/vango-dev/vtree/pkg/tracing"
)

// Config holds server configuration.
type Config struct {
	// Address is the listen address.
	// Default: "localhost:7070".
	Address string

	// Modules lists the patch modules of each session, in order.
	// Default: modules.DefaultNames.
	Modules []string

	// MaxBodyBytes bounds a posted tree document.
	// Default: 1MB.
	MaxBodyBytes int64

	// ReadBufferSize and WriteBufferSize size the websocket buffers.
	// Default: 1024.
	ReadBufferSize  int
	WriteBufferSize int

	// CheckOrigin validates websocket origins.
	// Default: SameOriginCheck.
	CheckOrigin func(r *http.Request) bool

	// WriteTimeout bounds one websocket frame write.
	// Default: 10 seconds.
	WriteTimeout time.Duration

	// ShutdownTimeout bounds graceful shutdown.
	// Default: 30 seconds.
	ShutdownTimeout time.Duration

	// Store persists session trees. Nil disables snapshots.
	Store snapshot.Store

	// Metrics records patch and session metrics. Nil disables them.
	Metrics *metrics.Collector

	// Gatherer serves /metrics. Nil leaves the route unregistered.
	Gatherer prometheus.Gatherer

	// Tracer traces renders and patch passes. Nil disables tracing.
	Tracer *tracing.Tracer

	// Logger is the base logger. Default: slog.Default().
	Logger *slog.Logger
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Address:         "localhost:7070",
		Modules:         slices.Clone(modules.DefaultNames),
		MaxBodyBytes:    1 << 20,
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     SameOriginCheck,
		WriteTimeout:    10 * time.Second,
		ShutdownTimeout: 30 * time.Second,
	}
}

// withDefaults returns a copy of c with unset fields filled in.
func (c *Config) withDefaults() *Config {
	defaults := DefaultConfig()
	if c == nil {
		return defaults
	}
	out := *c
	if out.Address == "" {
		out.Address = defaults.Address
	}
	if out.Modules == nil {
		out.Modules = defaults.Modules
	}
	if out.MaxBodyBytes == 0 {
		out.MaxBodyBytes = defaults.MaxBodyBytes
	}
	if out.ReadBufferSize == 0 {
		out.ReadBufferSize = defaults.ReadBufferSize
	}
	if out.WriteBufferSize == 0 {
		out.WriteBufferSize = defaults.WriteBufferSize
	}
	if out.CheckOrigin == nil {
		out.CheckOrigin = defaults.CheckOrigin
	}
	if out.WriteTimeout == 0 {
		out.WriteTimeout = defaults.WriteTimeout
	}
	if out.ShutdownTimeout == 0 {
		out.ShutdownTimeout = defaults.ShutdownTimeout
	}
	if out.Logger == nil {
		out.Logger = slog.Default()
	}
	return &out
}

// SameOriginCheck validates that the WebSocket request origin matches the host.
func SameOriginCheck(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		// No Origin header (e.g., same-origin request or curl)
		return true
	}

	originURL, err := url.Parse(origin)
	if err != nil {
		return false
	}

	host := r.Host
	if host == "" {
		return false
	}
	return originURL.Host == host
}

// AllowOrigins returns a CheckOrigin that accepts same-origin requests
// plus the listed origins. "*" accepts any origin.
func AllowOrigins(origins []string) func(r *http.Request) bool {
	if len(origins) == 0 {
		return SameOriginCheck
	}
	if slices.Contains(origins, "*") {
		return func(*http.Request) bool { return true }
	}
	return func(r *http.Request) bool {
		if SameOriginCheck(r) {
			return true
		}
		return slices.Contains(origins, r.Header.Get("Origin"))
	}
}
