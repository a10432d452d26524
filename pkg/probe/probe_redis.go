package probe

import (
	"context"
	"net"
	"time"

	"github.com/go-redis/redis"
	"github.com/mittwald/smoketest/internal/config"
	"github.com/mittwald/smoketest/internal/helper"
	log "github.com/sirupsen/logrus"
)

type redisProbe struct {
	addr     string
	password string
}

func NewRedisProbe(cfg *config.Redis) *redisProbe {
	hostname := helper.ResolveEnv(cfg.Hostname)
	port := helper.SetDefaultStringIfEmpty(helper.ResolveEnv(cfg.Port), "6379", "port", "redis")

	return &redisProbe{
		addr:     net.JoinHostPort(hostname, port),
		password: helper.ResolveEnv(cfg.Password),
	}
}

func (r *redisProbe) Exec(ctx context.Context) error {
	timeout := 5 * time.Second
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline)
	}

	client := redis.NewClient(&redis.Options{
		Addr:        r.addr,
		Password:    r.password,
		DialTimeout: timeout,
		ReadTimeout: timeout,
		MaxRetries:  0,
	}).WithContext(ctx)
	defer client.Close()

	if _, err := client.Ping().Result(); err != nil {
		return err
	}

	log.WithFields(log.Fields{"kind": "probe", "name": "redis", "status": "alive", "host": r.addr}).Debug()
	return nil
}
