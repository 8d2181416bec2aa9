package config

import "time"

// ── Default values ───────────────────────────────────────────────────
//
// All tuneable defaults live here so they are easy to audit and reuse
// across CLI flags and environment variable loading.

const (
	// DefaultServer is the receiver host when -s is not given.
	DefaultServer = "localhost"

	// DefaultPort is the standard syslog port.
	DefaultPort = 514

	// DefaultSSHPort is the standard SSH port for -T.
	DefaultSSHPort = 22

	// DefaultGatewayTimeout bounds the SSH handshake with a gateway.
	DefaultGatewayTimeout = 30 * time.Second

	// EnvPrefix prefixes every supported environment variable.
	EnvPrefix = "LOGSEND_"
)
