package transport

import (
	"context"
	"fmt"
	"net"
	"sync"

	"logsend/gateway"
	"logsend/util"
)

// SSHDialer forwards stream connections through an SSH gateway.  The
// gateway is connected lazily on the first Dial and torn down on Close.
type SSHDialer struct {
	gw        *gateway.Gateway
	config    *gateway.Config
	logger    *util.Logger
	mu        sync.Mutex
	connected bool
}

// NewSSHDialer creates a dialer that forwards connections through the
// gateway described by cfg.  Nothing is dialed until the first Dial.
func NewSSHDialer(cfg *gateway.Config, logger *util.Logger) *SSHDialer {
	return &SSHDialer{
		gw:     gateway.New(cfg, logger),
		config: cfg,
		logger: logger,
	}
}

// connect establishes the gateway session if not already up.  A session
// that died since the last call is replaced.
func (d *SSHDialer) connect(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.connected && d.gw.IsAlive() {
		return nil
	}

	d.logger.Verbose("connecting to SSH gateway %s@%s", d.config.User, d.config.Addr())
	if err := d.gw.Connect(ctx); err != nil {
		return fmt.Errorf("gateway: %w", err)
	}

	d.connected = true
	d.logger.Verbose("SSH gateway established")
	return nil
}

// Dial connects to address through the gateway.
func (d *SSHDialer) Dial(ctx context.Context, network, address string) (net.Conn, error) {
	if err := d.connect(ctx); err != nil {
		return nil, err
	}
	return d.gw.Dial(ctx, network, address)
}

// Close tears down the gateway session.
func (d *SSHDialer) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.connected {
		d.connected = false
		return d.gw.Close()
	}
	return nil
}
