// internal/rpc/modbus/dialer_test.go
package modbus

import (
	"testing"
	"time"

	cfg "github.com/tamzrod/gbt-tool/internal/config"
)

func TestDialer_ResolveRegisteredCard(t *testing.T) {
	d := NewDialer([]cfg.CardConfig{
		{Alias: "bench", Transport: "rtu", Endpoint: "/dev/ttyUSB0", UnitID: 4, TimeoutMs: 500, BaudRate: 9600},
	}, nil)

	c := d.resolve("bench")
	if c.Transport != TransportRTU || c.Endpoint != "/dev/ttyUSB0" || c.UnitID != 4 || c.BaudRate != 9600 {
		t.Fatalf("unexpected config %+v", c)
	}
	if c.Timeout != 500*time.Millisecond {
		t.Fatalf("unexpected timeout %v", c.Timeout)
	}
}

func TestDialer_ResolveUnknownAlias(t *testing.T) {
	d := NewDialer(nil, nil)

	c := d.resolve("amc-s2e01-23-03")
	if c.Transport != TransportTCP || c.Endpoint != "amc-s2e01-23-03:502" {
		t.Fatalf("unexpected config %+v", c)
	}
	if c.UnitID != cfg.DefaultUnitID {
		t.Fatalf("unexpected unit id %d", c.UnitID)
	}

	c = d.resolve("10.0.0.5:1502")
	if c.Endpoint != "10.0.0.5:1502" {
		t.Fatalf("explicit port should be kept, got %s", c.Endpoint)
	}
}

func TestOpen_RequiresEndpoint(t *testing.T) {
	if _, err := Open(Config{}); err == nil {
		t.Fatalf("expected endpoint error")
	}
	if _, err := Open(Config{Transport: "udp", Endpoint: "x"}); err == nil {
		t.Fatalf("expected transport error")
	}
}
