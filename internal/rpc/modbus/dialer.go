// internal/rpc/modbus/dialer.go
package modbus

import (
	"log"
	"net"
	"strings"
	"time"

	cfg "github.com/tamzrod/gbt-tool/internal/config"
	"github.com/tamzrod/gbt-tool/internal/rpc"
)

// DefaultPort is used when an alias is not in the card registry.
const DefaultPort = "502"

// Dialer resolves board aliases through the card registry.
// Unknown aliases are dialled as host names over Modbus TCP.
type Dialer struct {
	cards  map[string]cfg.CardConfig
	logger *log.Logger
}

var _ rpc.Dialer = (*Dialer)(nil)

// NewDialer builds a Dialer from validated card configs.
// logger may be nil.
func NewDialer(cards []cfg.CardConfig, logger *log.Logger) *Dialer {
	m := make(map[string]cfg.CardConfig, len(cards))
	for _, c := range cards {
		m[c.Alias] = c
	}
	return &Dialer{cards: m, logger: logger}
}

// Connect opens one session. The mailbox identity is checked here and only here.
func (d *Dialer) Connect(alias string) (rpc.Session, error) {
	s, err := Open(d.resolve(alias))
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (d *Dialer) resolve(alias string) Config {
	if c, ok := d.cards[alias]; ok {
		return Config{
			Transport: c.Transport,
			Endpoint:  c.Endpoint,
			UnitID:    c.UnitID,
			Timeout:   time.Duration(c.TimeoutMs) * time.Millisecond,
			BaudRate:  c.BaudRate,
			Logger:    d.logger,
		}
	}

	endpoint := alias
	if !strings.Contains(alias, ":") {
		endpoint = net.JoinHostPort(alias, DefaultPort)
	}
	return Config{
		Transport: TransportTCP,
		Endpoint:  endpoint,
		UnitID:    cfg.DefaultUnitID,
		Timeout:   cfg.DefaultTimeoutMs * time.Millisecond,
		Logger:    d.logger,
	}
}
