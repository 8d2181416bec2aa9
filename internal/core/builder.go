package core

import (
	"logsend/config"
	"logsend/gateway"
	"logsend/internal/metrics"
	"logsend/internal/replay"
	"logsend/internal/sender"
	"logsend/internal/transport"
	"logsend/util"
)

// Build constructs the appropriate Mode from the given configuration.
// The configuration is expected to have passed Validate.
func Build(cfg *config.Config, logger *util.Logger, m *metrics.Collector) (Mode, error) {
	resolver, dialer := buildTransport(cfg, logger)

	ep := sender.Endpoint{Host: cfg.Server, Port: cfg.Port, Kind: cfg.Kind()}
	s := sender.New(ep, resolver, dialer, logger, m)

	if cfg.ReplayMode() {
		return &ReplayMode{
			Sequencer: &replay.Sequencer{
				Sender:      s,
				DelayMillis: cfg.DelayMillis,
				Strict:      cfg.Strict,
				Logger:      logger,
			},
			Dialer: dialer,
			File:   cfg.File,
			Logger: logger,
		}, nil
	}

	return &SendMode{
		Sender:  s,
		Dialer:  dialer,
		Message: cfg.Message,
		Strict:  cfg.Strict,
		Logger:  logger,
	}, nil
}

// ── shared helpers ───────────────────────────────────────────────────

// buildTransport picks how the server name becomes connections.  Through
// a gateway the name is resolved on the far side, so the only candidate
// is the name itself.
func buildTransport(cfg *config.Config, logger *util.Logger) (transport.Resolver, transport.Dialer) {
	if cfg.GatewayEnabled {
		timeout := cfg.Timeout
		if timeout == 0 {
			timeout = config.DefaultGatewayTimeout
		}
		return transport.PassthroughResolver{}, transport.NewSSHDialer(&gateway.Config{
			User:          cfg.GatewayUser,
			Host:          cfg.GatewayHost,
			Port:          cfg.GatewayPort,
			KeyPath:       cfg.SSHKeyPath,
			PromptPass:    cfg.SSHPassword,
			UseAgent:      cfg.UseSSHAgent,
			StrictHostKey: cfg.StrictHostKey,
			KnownHosts:    cfg.KnownHostsPath,
			ConnTimeout:   timeout,
		}, logger)
	}

	resolver := &transport.NetResolver{NoDNS: cfg.NoDNS}
	if cfg.UDP {
		return resolver, &transport.UDPDialer{Timeout: cfg.Timeout}
	}
	return resolver, &transport.TCPDialer{Timeout: cfg.Timeout}
}
