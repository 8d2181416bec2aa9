package config

import (
	"testing"

	"logsend/internal/transport"
)

// ── ParseGatewaySpec ─────────────────────────────────────────────────

func TestParseGatewaySpec(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantUser string
		wantHost string
		wantPort int
		wantErr  bool
	}{
		{"full", "admin@bastion.example.com:2222", "admin", "bastion.example.com", 2222, false},
		{"no port", "root@gateway", "root", "gateway", 22, false},
		{"no user", "jump-host:2200", "", "jump-host", 2200, false},
		{"host only", "gateway.local", "", "gateway.local", 22, false},
		{"bad port", "user@host:999999", "", "", 0, true},
		{"zero port", "host:0", "", "", 0, true},
		{"empty", "", "", "", 0, true},
		{"colon only", ":", "", "", 0, true},
		{"user only", "user@", "", "", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user, host, port, err := ParseGatewaySpec(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("error = %v, wantErr = %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if user != tt.wantUser || host != tt.wantHost || port != tt.wantPort {
				t.Errorf("got (%q, %q, %d), want (%q, %q, %d)",
					user, host, port, tt.wantUser, tt.wantHost, tt.wantPort)
			}
		})
	}
}

// ── Config.Validate ──────────────────────────────────────────────────

func TestValidate(t *testing.T) {
	gw := func(c Config) Config {
		c.GatewayEnabled, c.GatewayHost, c.GatewayUser = true, "bastion", "ops"
		return c
	}

	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"single message", Config{Server: "localhost", Port: 514, Message: "hi"}, false},
		{"file replay", Config{Server: "localhost", Port: 514, File: "x.log", DelayMillis: 100}, false},
		{"delay upper bound", Config{Server: "x", Port: 514, File: "x.log", DelayMillis: 1000}, false},
		{"udp", Config{Server: "x", Port: 514, Message: "hi", UDP: true}, false},
		{"via gateway", gw(Config{Server: "logs.internal", Port: 514, Message: "hi"}), false},

		{"no server", Config{Port: 514, Message: "hi"}, true},
		{"port zero", Config{Server: "x", Port: 0, Message: "hi"}, true},
		{"port too high", Config{Server: "x", Port: 65536, Message: "hi"}, true},
		{"message and file", Config{Server: "x", Port: 514, Message: "hi", File: "f"}, true},
		{"nothing to send", Config{Server: "x", Port: 514}, true},
		{"negative delay", Config{Server: "x", Port: 514, File: "f", DelayMillis: -1}, true},
		{"delay too long", Config{Server: "x", Port: 514, File: "f", DelayMillis: 1001}, true},
		{"udp via gateway", gw(Config{Server: "x", Port: 514, Message: "hi", UDP: true}), true},
		{"no-dns via gateway", gw(Config{Server: "x", Port: 514, Message: "hi", NoDNS: true}), true},
		{"gateway without host", Config{Server: "x", Port: 514, Message: "hi", GatewayEnabled: true}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr = %v", err, tt.wantErr)
			}
		})
	}
}

func TestDefault(t *testing.T) {
	c := Default()
	if c.Server != "localhost" || c.Port != 514 {
		t.Errorf("Default() = %s:%d", c.Server, c.Port)
	}
	if c.Kind() != transport.Stream {
		t.Errorf("default kind = %v, want tcp", c.Kind())
	}
	c.UDP = true
	if c.Kind() != transport.Datagram {
		t.Errorf("-u kind = %v, want udp", c.Kind())
	}
}

func TestReplayMode(t *testing.T) {
	if (&Config{Message: "x"}).ReplayMode() {
		t.Error("message config is not replay mode")
	}
	if !(&Config{File: "x"}).ReplayMode() {
		t.Error("file config is replay mode")
	}
}
