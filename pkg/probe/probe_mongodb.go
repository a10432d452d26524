package probe

import (
	"context"
	"net"
	"net/url"

	"github.com/mittwald/smoketest/internal/config"
	"github.com/mittwald/smoketest/internal/helper"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

type mongoDBProbe struct {
	uri string
}

func NewMongoDBProbe(cfg *config.MongoDB) *mongoDBProbe {
	if u := helper.ResolveEnv(cfg.URL); u != "" {
		return &mongoDBProbe{uri: u}
	}

	u := url.URL{
		Scheme: "mongodb",
		Host: net.JoinHostPort(
			helper.ResolveEnv(cfg.Hostname),
			helper.SetDefaultStringIfEmpty(helper.ResolveEnv(cfg.Port), "27017", "port", "mongodb"),
		),
		Path: "/" + helper.ResolveEnv(cfg.Database),
	}

	user := helper.ResolveEnv(cfg.User)
	password := helper.ResolveEnv(cfg.Password)
	if user != "" {
		u.User = url.UserPassword(user, password)
	}

	return &mongoDBProbe{uri: u.String()}
}

func (m *mongoDBProbe) Exec(ctx context.Context) error {
	client, err := mongo.NewClient(options.Client().ApplyURI(m.uri))
	if err != nil {
		return err
	}

	if err := client.Connect(ctx); err != nil {
		return err
	}
	defer func() { _ = client.Disconnect(context.Background()) }()

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return err
	}

	log.WithFields(log.Fields{"kind": "probe", "name": "mongodb", "status": "alive"}).Debug()
	return nil
}
