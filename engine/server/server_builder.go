package server

import (
	"time"

	"github.com/Carmen-Shannon/oxy-anim/engine/profiler"
)

// ServerBuilderOption is a functional option for configuring a Server during construction.
type ServerBuilderOption func(*server)

// WithAddr sets the listen address, e.g. "127.0.0.1:8000" or ":0" for any free port.
//
// Parameters:
//   - addr: the TCP address
//
// Returns:
//   - ServerBuilderOption: option function to apply
func WithAddr(addr string) ServerBuilderOption {
	return func(s *server) {
		if addr != "" {
			s.addr = addr
		}
	}
}

// WithProfiler exposes the profiler's latest measurement on /json/stats.
//
// Parameters:
//   - p: the engine profiler
//
// Returns:
//   - ServerBuilderOption: option function to apply
func WithProfiler(p *profiler.Profiler) ServerBuilderOption {
	return func(s *server) {
		s.profiler = p
	}
}

// WithBroadcastRate sets how many frames per second are pushed to websocket clients.
// Values <= 0 are ignored.
//
// Parameters:
//   - fps: frames per second
//
// Returns:
//   - ServerBuilderOption: option function to apply
func WithBroadcastRate(fps float64) ServerBuilderOption {
	return func(s *server) {
		if fps > 0 {
			s.broadcastInterval = time.Duration(float64(time.Second) / fps)
		}
	}
}

// WithClientQueue sets how many frames may be pending for one client before it is dropped.
// Values < 1 are ignored.
//
// Parameters:
//   - n: the queue length
//
// Returns:
//   - ServerBuilderOption: option function to apply
func WithClientQueue(n int) ServerBuilderOption {
	return func(s *server) {
		if n >= 1 {
			s.clientQueue = n
		}
	}
}

// WithPingInterval sets the websocket keepalive interval. Clients that do not answer
// within two intervals are disconnected. Values <= 0 are ignored.
//
// Parameters:
//   - d: the ping interval
//
// Returns:
//   - ServerBuilderOption: option function to apply
func WithPingInterval(d time.Duration) ServerBuilderOption {
	return func(s *server) {
		if d > 0 {
			s.pingInterval = d
		}
	}
}

// WithAllowedOrigins enables CORS for the given origins and lets websocket clients
// from them connect. "*" allows any origin.
//
// Parameters:
//   - origins: the allowed origins
//
// Returns:
//   - ServerBuilderOption: option function to apply
func WithAllowedOrigins(origins ...string) ServerBuilderOption {
	return func(s *server) {
		s.allowedOrigins = append(s.allowedOrigins, origins...)
	}
}

// WithAccessLog toggles the per-request access log on stdout. On by default.
//
// Parameters:
//   - enabled: true to log requests
//
// Returns:
//   - ServerBuilderOption: option function to apply
func WithAccessLog(enabled bool) ServerBuilderOption {
	return func(s *server) {
		s.accessLog = enabled
	}
}
