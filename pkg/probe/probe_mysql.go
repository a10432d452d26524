package probe

import (
	"context"
	"database/sql"
	"net"

	"github.com/go-sql-driver/mysql"
	"github.com/mittwald/smoketest/internal/config"
	"github.com/mittwald/smoketest/internal/helper"
	log "github.com/sirupsen/logrus"
)

type mySQLProbe struct {
	dsn  string
	addr string
}

func NewMySQLProbe(cfg *config.MySQL) *mySQLProbe {
	hostname := helper.ResolveEnv(cfg.Hostname)
	port := helper.SetDefaultStringIfEmpty(helper.ResolveEnv(cfg.Port), "3306", "port", "mysql")
	addr := net.JoinHostPort(hostname, port)

	connCfg := mysql.NewConfig()
	connCfg.User = helper.ResolveEnv(cfg.User)
	connCfg.Passwd = helper.ResolveEnv(cfg.Password)
	connCfg.Net = "tcp"
	connCfg.Addr = addr
	connCfg.DBName = helper.ResolveEnv(cfg.Database)

	return &mySQLProbe{
		dsn:  connCfg.FormatDSN(),
		addr: addr,
	}
}

func (m *mySQLProbe) Exec(ctx context.Context) error {
	db, err := sql.Open("mysql", m.dsn)
	if err != nil {
		return err
	}
	defer db.Close()

	r, err := db.QueryContext(ctx, "SELECT 1")
	if err != nil {
		return err
	}
	_ = r.Close()

	log.WithFields(log.Fields{"kind": "probe", "name": "mysql", "status": "alive", "host": m.addr}).Debug()
	return nil
}
