package config

// loader.go - configuration loading from environment variables.
//
// Precedence order (highest wins):
//   1. CLI flags  (handled by cmd/root.go)
//   2. Environment variables  (this file)
//   3. Defaults   (defaults.go)

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// LoadFromEnv overlays LOGSEND_* environment variables onto cfg.  Only
// non-empty, well-formed values override.  Call it before flag parsing
// and use the result as flag defaults so that flags take precedence.
func LoadFromEnv(cfg *Config) {
	if v := env("SERVER"); v != "" {
		cfg.Server = v
	}
	if v := envInt("PORT"); v > 0 {
		cfg.Port = v
	}
	if envBool("UDP") {
		cfg.UDP = true
	}
	if envBool("NO_DNS") {
		cfg.NoDNS = true
	}
	if v := envInt("TIMEOUT"); v > 0 {
		cfg.Timeout = time.Duration(v) * time.Second
	}
	if v, ok := envIntSet("DELAY"); ok {
		cfg.DelayMillis = v
	}
	if envBool("STRICT") {
		cfg.Strict = true
	}

	// SSH gateway
	if v := env("TUNNEL"); v != "" {
		cfg.GatewaySpec = v
	}
	if v := env("SSH_KEY"); v != "" {
		cfg.SSHKeyPath = v
	}
	if envBool("SSH_AGENT") {
		cfg.UseSSHAgent = true
	}
	if envBool("STRICT_HOSTKEY") {
		cfg.StrictHostKey = true
	}
	if v := env("KNOWN_HOSTS"); v != "" {
		cfg.KnownHostsPath = v
	}

	if v := envInt("VERBOSE"); v > 0 {
		cfg.Verbose = v
	}
}

// ── helpers ──────────────────────────────────────────────────────────

func env(key string) string { return os.Getenv(EnvPrefix + key) }

func envInt(key string) int {
	n, _ := envIntSet(key)
	return n
}

// envIntSet distinguishes "unset or malformed" from an explicit 0.
func envIntSet(key string) (int, bool) {
	v := env(key)
	if v == "" {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return n, true
}

func envBool(key string) bool {
	v := strings.ToLower(env(key))
	return v == "1" || v == "true" || v == "yes"
}
