// Composition root. Owns infrastructure (Postgres, Redis, mail) and
// composes the IAM module on top of it.
package main

import (
	"context"

	"github.com/Abraxas-365/cauth/migrations"
	"github.com/Abraxas-365/cauth/pkg/asyncx"
	"github.com/Abraxas-365/cauth/pkg/config"
	"github.com/Abraxas-365/cauth/pkg/dbx"
	"github.com/Abraxas-365/cauth/pkg/iam/iamcontainer"
	"github.com/Abraxas-365/cauth/pkg/logx"
	"github.com/Abraxas-365/cauth/pkg/notifx"
	"github.com/Abraxas-365/cauth/pkg/notifx/notifxconsole"
	"github.com/Abraxas-365/cauth/pkg/notifx/notifxses"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
)

type Container struct {
	Config *config.Config
	Logger *logx.Logger

	DB     *sqlx.DB
	Redis  *redis.Client
	Mailer *notifx.Client

	IAM *iamcontainer.Container
}

func NewContainer(ctx context.Context, cfg *config.Config, logger *logx.Logger) (*Container, error) {
	logger.Info("initializing application container")
	c := &Container{Config: cfg, Logger: logger}

	if err := c.initInfrastructure(ctx); err != nil {
		c.Cleanup()
		return nil, err
	}
	if err := c.initModules(); err != nil {
		c.Cleanup()
		return nil, err
	}

	logger.Info("application container initialized")
	return c, nil
}

func (c *Container) initInfrastructure(ctx context.Context) error {
	if c.Config.Auth.StoreMode == config.StoreModePostgres {
		db, err := dbx.Connect(ctx, c.Config.Database)
		if err != nil {
			return err
		}
		c.DB = db
		c.Logger.WithField("host", c.Config.Database.Host).Info("database connected")

		if c.Config.Database.Migrate {
			if err := migrations.Apply(ctx, db); err != nil {
				return err
			}
			c.Logger.Info("database migrations applied")
		}
	}

	if c.Config.Auth.CodeStoreMode == config.StoreModeRedis {
		c.Redis = redis.NewClient(&redis.Options{
			Addr:     c.Config.Redis.Address(),
			Password: c.Config.Redis.Password,
			DB:       c.Config.Redis.DB,
		})
		if err := c.Redis.Ping(ctx).Err(); err != nil {
			return err
		}
		c.Logger.WithField("addr", c.Config.Redis.Address()).Info("redis connected")
	}

	return c.initMailer(ctx)
}

func (c *Container) initMailer(ctx context.Context) error {
	nc := c.Config.Notifx
	switch nc.Provider {
	case "ses":
		awsCfg, err := awsConfig.LoadDefaultConfig(ctx, awsConfig.WithRegion(nc.AWSRegion))
		if err != nil {
			return err
		}
		c.Mailer = notifx.NewClient(notifxses.NewSESProvider(ses.NewFromConfig(awsCfg), nc.FromAddress), nc.FromAddress, nc.FromName)
		c.Logger.WithField("region", nc.AWSRegion).Info("SES mail provider configured")
	default:
		c.Mailer = notifx.NewClient(notifxconsole.NewConsoleProvider(c.Logger), nc.FromAddress, nc.FromName)
		c.Logger.Warn("console mail provider configured, reset codes are only logged")
	}
	return nil
}

func (c *Container) initModules() error {
	deps := iamcontainer.Deps{
		DB:     c.DB,
		Cfg:    c.Config,
		Mailer: c.Mailer,
		Logger: c.Logger,
	}
	if c.Redis != nil {
		deps.Redis = c.Redis
	}

	iamC, err := iamcontainer.New(deps)
	if err != nil {
		return err
	}
	c.IAM = iamC
	return nil
}

// Ping probes every configured backing store concurrently.
func (c *Container) Ping(ctx context.Context) map[string]error {
	checks := map[string]func(context.Context) error{}
	if c.DB != nil {
		checks["db"] = c.DB.PingContext
	}
	if c.Redis != nil {
		checks["redis"] = func(ctx context.Context) error { return c.Redis.Ping(ctx).Err() }
	}
	return asyncx.Checks(ctx, checks)
}

func (c *Container) Cleanup() {
	if c.DB != nil {
		if err := c.DB.Close(); err != nil {
			c.Logger.WithError(err).Error("error closing database")
		}
	}
	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			c.Logger.WithError(err).Error("error closing redis")
		}
	}
	c.Logger.Info("cleanup complete")
}
