package transport

import (
	"context"
	"fmt"
	"net"
	"time"
)

// UDPDialer returns connected UDP sockets.  "Connecting" a datagram
// socket only fixes the peer address; it succeeds without any traffic
// unless the kernel already knows the route is unusable.
type UDPDialer struct {
	Timeout   time.Duration
	LocalPort int
}

// Dial connects to address over UDP.  network may be "udp", "udp4" or
// "udp6".
func (d *UDPDialer) Dial(ctx context.Context, network, address string) (net.Conn, error) {
	dialer := net.Dialer{Timeout: d.Timeout}

	if d.LocalPort > 0 {
		a, err := net.ResolveUDPAddr(network, fmt.Sprintf(":%d", d.LocalPort))
		if err != nil {
			return nil, fmt.Errorf("resolve local addr: %w", err)
		}
		dialer.LocalAddr = a
	}

	return dialer.DialContext(ctx, network, address)
}

// Close is a no-op.
func (d *UDPDialer) Close() error { return nil }
