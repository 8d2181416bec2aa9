package core

import (
	"context"

	"logsend/internal/replay"
	"logsend/internal/transport"
	"logsend/util"
)

// SendMode delivers a single message.  A failed send is reported and,
// unless Strict is set, does not fail the run.
type SendMode struct {
	Sender  replay.Transmitter
	Dialer  transport.Dialer
	Message string
	Strict  bool
	Logger  *util.Logger
}

// Run sends the message and closes the connection.
func (m *SendMode) Run(ctx context.Context) error {
	defer closeDialer(m.Dialer)
	defer m.Sender.Close() //nolint:errcheck

	if err := m.Sender.Send(ctx, m.Message); err != nil {
		if m.Strict {
			return err
		}
		m.Logger.Error("could not send: %v", err)
		return nil
	}
	m.Logger.Verbose("message sent")
	return nil
}
