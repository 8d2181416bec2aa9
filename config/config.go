// Package config defines the runtime configuration for logsend and
// provides helpers for parsing gateway specifications.
package config

import (
	"fmt"
	"regexp"
	"strconv"
	"time"

	lserr "logsend/internal/errors"
	"logsend/internal/replay"
	"logsend/internal/transport"
)

// Config holds every tuneable for a single logsend run.
type Config struct {
	// ── Receiver ─────────────────────────────────────────────────────
	Server  string
	Port    int
	UDP     bool
	NoDNS   bool
	Timeout time.Duration // dial timeout; 0 = none

	// ── Payload ──────────────────────────────────────────────────────
	Message     string // -m: single message
	File        string // -f: newline-delimited replay file
	DelayMillis int    // -d: pause after each replayed line

	// ── Behaviour ────────────────────────────────────────────────────
	Strict bool // surface send failures instead of skipping
	Stats  bool // print the metrics snapshot at the end
	DryRun bool

	// ── SSH gateway ──────────────────────────────────────────────────
	GatewaySpec    string // raw [user@]host[:port] from -T
	GatewayEnabled bool
	GatewayUser    string
	GatewayHost    string
	GatewayPort    int
	SSHKeyPath     string
	SSHPassword    bool // true → prompt interactively
	UseSSHAgent    bool
	StrictHostKey  bool
	KnownHostsPath string

	// ── Output ───────────────────────────────────────────────────────
	Verbose int
}

// Default returns a Config pre-populated from defaults.go.
func Default() *Config {
	return &Config{
		Server: DefaultServer,
		Port:   DefaultPort,
	}
}

// Kind returns the transport kind selected by -u.
func (c *Config) Kind() transport.Kind {
	if c.UDP {
		return transport.Datagram
	}
	return transport.Stream
}

// ReplayMode reports whether a file is to be replayed.
func (c *Config) ReplayMode() bool { return c.File != "" }

// ── Gateway-spec parser ──────────────────────────────────────────────

// gatewayRe matches [user@]host[:port].
var gatewayRe = regexp.MustCompile(`^(?:([^@]+)@)?([^:@]+)(?::(\d+))?$`)

// ParseGatewaySpec extracts user, host, and port from a string such as
// "admin@bastion.example.com:2222".  Port defaults to 22.
func ParseGatewaySpec(spec string) (user, host string, port int, err error) {
	m := gatewayRe.FindStringSubmatch(spec)
	if m == nil {
		return "", "", 0, fmt.Errorf("invalid gateway spec %q – expected [user@]host[:port]", spec)
	}
	user, host, port = m[1], m[2], DefaultSSHPort
	if m[3] != "" {
		port, err = strconv.Atoi(m[3])
		if err != nil || port < 1 || port > 65535 {
			return "", "", 0, fmt.Errorf("invalid gateway port %q", m[3])
		}
	}
	return user, host, port, nil
}

// ── Validation ───────────────────────────────────────────────────────

// Validate checks that the configuration is internally consistent.
// Every failure is a *errors.ConfigError.
func (c *Config) Validate() error {
	if c.Server == "" {
		return &lserr.ConfigError{Field: "server", Message: "required"}
	}
	if c.Port < 1 || c.Port > 65535 {
		return &lserr.ConfigError{
			Field:   "port",
			Value:   c.Port,
			Message: "out of range 1-65535",
			Hint:    fmt.Sprintf("syslog receivers usually listen on %d", DefaultPort),
		}
	}

	if c.Message != "" && c.File != "" {
		return &lserr.ConfigError{
			Field:   "message",
			Message: "-m and -f are mutually exclusive",
			Hint:    "send one message with -m, or replay a file with -f",
		}
	}
	if c.Message == "" && c.File == "" {
		return &lserr.ConfigError{
			Field:   "message",
			Message: "nothing to send",
			Hint:    "provide either -m <message> or -f <file>",
		}
	}

	if err := replay.ValidateDelay(c.DelayMillis); err != nil {
		return err
	}

	if c.NoDNS && c.GatewayEnabled {
		return &lserr.ConfigError{
			Field:   "no-dns",
			Message: "cannot be combined with -T",
			Hint:    "the gateway resolves the server name",
		}
	}

	if c.GatewayEnabled {
		if c.UDP {
			return &lserr.ConfigError{
				Field:   "udp",
				Message: "UDP cannot be carried through an SSH gateway",
			}
		}
		if c.GatewayHost == "" {
			return &lserr.ConfigError{Field: "tunnel", Message: "gateway host is required"}
		}
	}
	return nil
}
