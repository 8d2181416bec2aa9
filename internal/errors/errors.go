// Package errors provides domain-specific error types for logsend.
//
// Network failures are reported as values rather than panics or silent
// drops, so each caller decides whether a lost message matters.  The
// default callers (single-message mode and the replay sequencer) log and
// continue.
package errors

import (
	"errors"
	"fmt"
)

// ── Sentinel errors ──────────────────────────────────────────────────

var (
	ErrNoCandidates    = errors.New("name resolution returned no usable addresses")
	ErrNotConnected    = errors.New("not connected")
	ErrGatewayClosed   = errors.New("ssh gateway is closed")
	ErrAuthFailed      = errors.New("authentication failed")
	ErrHostKeyMismatch = errors.New("host key mismatch")
)

// ── Structured error types ───────────────────────────────────────────

// NetworkError is a failure against one candidate address.
type NetworkError struct {
	Op   string // "resolve", "dial", "write"
	Addr string // network address involved
	Err  error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Addr, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// SendError is what a Sender returns when a message was not delivered
// to the transport.  Op is "frame" when the record could not be built,
// "connect" when no connection could be established and "write" when an
// established connection failed.
type SendError struct {
	Op        string
	Endpoint  string // host:port/kind
	Candidate string // network/address of the failed connection; write only
	Err       error
}

func (e *SendError) Error() string {
	if e.Candidate != "" {
		return fmt.Sprintf("send %s via %s: %s: %v", e.Endpoint, e.Candidate, e.Op, e.Err)
	}
	return fmt.Sprintf("send %s: %s: %v", e.Endpoint, e.Op, e.Err)
}

func (e *SendError) Unwrap() error { return e.Err }

// SSHError represents a gateway failure with host context.
type SSHError struct {
	Op   string // "handshake", "auth", "hostkey", "channel"
	Host string
	Port int
	Err  error
}

func (e *SSHError) Error() string {
	return fmt.Sprintf("ssh %s %s:%d: %v", e.Op, e.Host, e.Port, e.Err)
}

func (e *SSHError) Unwrap() error { return e.Err }

// ConfigError represents an invalid configuration value.
type ConfigError struct {
	Field   string      // flag name without dashes
	Value   interface{} // the invalid value (nil if missing)
	Message string
	Hint    string // optional
}

func (e *ConfigError) Error() string {
	msg := fmt.Sprintf("config: --%s", e.Field)
	if e.Value != nil {
		msg += fmt.Sprintf("=%v", e.Value)
	}
	msg += ": " + e.Message
	if e.Hint != "" {
		msg += "\n  hint: " + e.Hint
	}
	return msg
}

// ── Constructors ─────────────────────────────────────────────────────

// Wrap creates a NetworkError.
func Wrap(op, addr string, err error) *NetworkError {
	return &NetworkError{Op: op, Addr: addr, Err: err}
}

// WrapSSH creates an SSHError.
func WrapSSH(op, host string, port int, err error) *SSHError {
	return &SSHError{Op: op, Host: host, Port: port, Err: err}
}

// ── Classification helpers ───────────────────────────────────────────

// IsConfig reports whether err is (or wraps) a ConfigError.
func IsConfig(err error) bool {
	var ce *ConfigError
	return errors.As(err, &ce)
}

// IsSendOp reports whether err is a SendError for the given op.
func IsSendOp(err error, op string) bool {
	var se *SendError
	return errors.As(err, &se) && se.Op == op
}

// ── Re-exports for convenience ───────────────────────────────────────

// As is [errors.As].
func As(err error, target interface{}) bool { return errors.As(err, target) }

// Is is [errors.Is].
func Is(err, target error) bool { return errors.Is(err, target) }

// New is [errors.New].
func New(text string) error { return errors.New(text) }

// Join is [errors.Join].
func Join(errs ...error) error { return errors.Join(errs...) }
