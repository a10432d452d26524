package probe

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"time"

	"github.com/mittwald/smoketest/internal/config"
	"github.com/mittwald/smoketest/internal/helper"
	log "github.com/sirupsen/logrus"
	"github.com/streadway/amqp"
)

const defaultVirtualHost = "/"

type amqpProbe struct {
	user        string
	password    string
	addr        string
	virtualHost string
}

func NewAmqpProbe(cfg *config.Amqp) *amqpProbe {
	return &amqpProbe{
		user:     helper.ResolveEnv(cfg.User),
		password: helper.ResolveEnv(cfg.Password),
		addr: net.JoinHostPort(
			helper.ResolveEnv(cfg.Hostname),
			helper.SetDefaultStringIfEmpty(helper.ResolveEnv(cfg.Port), "5672", "port", "amqp"),
		),
		virtualHost: helper.SetDefaultStringIfEmpty(helper.ResolveEnv(cfg.VirtualHost), defaultVirtualHost),
	}
}

func (a *amqpProbe) url() string {
	u := url.URL{
		Scheme: "amqp",
		Host:   a.addr,
		Path:   a.virtualHost,
	}

	if a.user != "" && a.password != "" {
		u.User = url.UserPassword(a.user, a.password)
	}
	return u.String()
}

func (a *amqpProbe) Exec(ctx context.Context) error {
	timeout := 5 * time.Second
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline)
	}

	conn, err := amqp.DialConfig(a.url(), amqp.Config{Dial: amqp.DefaultDial(timeout)})
	if err != nil {
		return fmt.Errorf("failed to dial amqp at %s: %w", a.addr, err)
	}
	defer conn.Close()

	log.WithFields(log.Fields{"kind": "probe", "name": "amqp", "status": "alive", "host": a.addr}).Debug()
	return nil
}
