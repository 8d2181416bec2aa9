// Package gateway lets logsend reach a log receiver that is only
// routable from an SSH bastion.  Stream connections are forwarded with
// direct-tcpip channels from golang.org/x/crypto/ssh; datagrams cannot
// be carried.
package gateway

import (
	"context"
	"fmt"
	"net"
	"strings"
	"sync"
	"time"

	"golang.org/x/crypto/ssh"

	lserr "logsend/internal/errors"
	"logsend/util"
)

// Config holds everything needed to dial an SSH gateway.
type Config struct {
	User          string
	Host          string
	Port          int
	KeyPath       string
	PromptPass    bool
	UseAgent      bool
	StrictHostKey bool
	KnownHosts    string
	ConnTimeout   time.Duration
}

// Addr returns host:port of the gateway itself.
func (c *Config) Addr() string { return util.FormatAddr(c.Host, c.Port) }

// Gateway is a lazily shared SSH client used to forward connections.
type Gateway struct {
	config *Config
	client *ssh.Client
	logger *util.Logger
	mu     sync.RWMutex
	alive  bool
}

// New creates a gateway that is ready to [Gateway.Connect].
func New(cfg *Config, logger *util.Logger) *Gateway {
	if cfg.Port == 0 {
		cfg.Port = 22
	}
	if cfg.ConnTimeout == 0 {
		cfg.ConnTimeout = 30 * time.Second
	}
	return &Gateway{config: cfg, logger: logger.Named("gateway")}
}

// Connect dials the gateway and completes the SSH handshake.
func (g *Gateway) Connect(ctx context.Context) error {
	authMethods, err := BuildAuthMethods(g.config)
	if err != nil {
		return lserr.WrapSSH("auth", g.config.Host, g.config.Port, err)
	}

	hkCallback, err := hostKeyCallback(g.config)
	if err != nil {
		return lserr.WrapSSH("hostkey", g.config.Host, g.config.Port, err)
	}

	sshCfg := &ssh.ClientConfig{
		User:            g.config.User,
		Auth:            authMethods,
		HostKeyCallback: hkCallback,
		Timeout:         g.config.ConnTimeout,
	}

	addr := g.config.Addr()
	g.logger.Debug("dialing %s as %s", addr, g.config.User)

	var dialer net.Dialer
	tcpConn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return lserr.Wrap("dial", addr, err)
	}

	// NewClientConn ignores ClientConfig.Timeout; bound the handshake here.
	tcpConn.SetDeadline(time.Now().Add(g.config.ConnTimeout)) //nolint:errcheck
	sshConn, chans, reqs, err := ssh.NewClientConn(tcpConn, addr, sshCfg)
	if err != nil {
		tcpConn.Close()
		return lserr.WrapSSH("handshake", g.config.Host, g.config.Port, classifyHandshake(err))
	}
	tcpConn.SetDeadline(time.Time{}) //nolint:errcheck

	client := ssh.NewClient(sshConn, chans, reqs)

	g.mu.Lock()
	stale := g.client
	g.client = client
	g.alive = true
	g.mu.Unlock()

	// A reconnect after the session died replaces the old client; release
	// its socket and monitor.
	if stale != nil {
		stale.Close() //nolint:errcheck
	}

	go g.monitor(client)
	return nil
}

// Dial opens a stream to address through the gateway.  Only "tcp"
// networks are accepted.
func (g *Gateway) Dial(_ context.Context, network, address string) (net.Conn, error) {
	if !strings.HasPrefix(network, "tcp") {
		return nil, fmt.Errorf("gateway cannot carry %s traffic", network)
	}

	g.mu.RLock()
	client, alive := g.client, g.alive
	g.mu.RUnlock()

	if !alive || client == nil {
		return nil, lserr.ErrGatewayClosed
	}

	g.logger.Debug("forwarding %s %s", network, address)
	conn, err := client.Dial(network, address)
	if err != nil {
		return nil, lserr.WrapSSH("channel", g.config.Host, g.config.Port,
			fmt.Errorf("forward to %s: %w", address, err))
	}
	return conn, nil
}

// Close shuts down the SSH connection.
func (g *Gateway) Close() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.alive = false
	if g.client != nil {
		err := g.client.Close()
		g.client = nil
		return err
	}
	return nil
}

// IsAlive reports whether the SSH connection is still up.
func (g *Gateway) IsAlive() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.alive
}

// monitor blocks until the SSH connection closes and flips the alive flag.
func (g *Gateway) monitor(client *ssh.Client) {
	err := client.Wait()

	g.mu.Lock()
	if g.client == client {
		g.alive = false
	}
	g.mu.Unlock()

	if err != nil {
		g.logger.Debug("connection closed: %v", err)
	} else {
		g.logger.Debug("connection closed")
	}
}

// classifyHandshake maps x/crypto/ssh handshake failures onto the
// sentinels callers can test for.
func classifyHandshake(err error) error {
	msg := err.Error()
	switch {
	case strings.Contains(msg, "unable to authenticate"):
		return fmt.Errorf("%w: %v", lserr.ErrAuthFailed, err)
	case strings.Contains(msg, "key mismatch"):
		return fmt.Errorf("%w: %v", lserr.ErrHostKeyMismatch, err)
	default:
		return err
	}
}
