package probe

import (
	"context"
	"net"
	"net/smtp"

	"github.com/mittwald/smoketest/internal/config"
	"github.com/mittwald/smoketest/internal/helper"
	log "github.com/sirupsen/logrus"
)

type smtpProbe struct {
	addr string
}

func NewSmtpProbe(cfg *config.SMTP) *smtpProbe {
	return &smtpProbe{
		addr: net.JoinHostPort(
			helper.ResolveEnv(cfg.Hostname),
			helper.SetDefaultStringIfEmpty(helper.ResolveEnv(cfg.Port), "25", "port", "smtp"),
		),
	}
}

func (s *smtpProbe) Exec(ctx context.Context) error {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", s.addr)
	if err != nil {
		return err
	}
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	host, _, _ := net.SplitHostPort(s.addr)
	client, err := smtp.NewClient(conn, host)
	if err != nil {
		_ = conn.Close()
		return err
	}
	defer client.Close()

	if err := client.Noop(); err != nil {
		return err
	}

	if err := client.Quit(); err != nil {
		return err
	}

	log.WithFields(log.Fields{"kind": "probe", "name": "smtp", "status": "alive", "host": s.addr}).Debug()
	return nil
}
