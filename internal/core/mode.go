// Package core is the orchestration layer.  It composes a resolver, a
// dialer and a sender into a complete run and provides a builder that
// selects the right mode from a Config.
//
// Architecture layers (bottom → top):
//
//	transport  →  sender  →  replay  →  core  →  cmd (CLI)
package core

import (
	"context"

	"logsend/internal/transport"
)

// Mode represents a complete run of logsend: one message, or a replayed
// file.  Each mode owns its lifecycle from the first connection attempt
// to teardown.
type Mode interface {
	Run(ctx context.Context) error
}

// closeDialer releases dialer-held resources such as a gateway session.
func closeDialer(d transport.Dialer) {
	if d != nil {
		d.Close() //nolint:errcheck
	}
}
