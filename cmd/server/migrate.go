package main

import (
	"github.com/fekuna/omnipos-retail-service/config"
	"github.com/fekuna/omnipos-retail-service/internal/database"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
)

func migrateUp(c *cli.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return errors.Wrap(err, "load config")
	}
	return errors.Wrap(database.MigrateUp(dbConfig(cfg)), "migrate up")
}

func migrateDown(c *cli.Context) error {
	steps := c.Int("steps")
	if steps < 1 {
		return errors.New("steps must be at least 1")
	}
	cfg, err := config.Load()
	if err != nil {
		return errors.Wrap(err, "load config")
	}
	return errors.Wrap(database.MigrateDown(dbConfig(cfg), steps), "migrate down")
}

func dbConfig(cfg *config.Config) *database.Config {
	return &database.Config{
		Host:            cfg.Postgres.Host,
		Port:            cfg.Postgres.Port,
		User:            cfg.Postgres.User,
		Password:        cfg.Postgres.Password,
		DBName:          cfg.Postgres.DBName,
		SSLMode:         cfg.Postgres.SSLMode,
		MaxOpenConns:    cfg.Postgres.MaxOpenConns,
		MaxIdleConns:    cfg.Postgres.MaxIdleConns,
		ConnMaxLifetime: cfg.Postgres.ConnMaxLifetime,
		ConnMaxIdleTime: cfg.Postgres.ConnMaxIdleTime,
	}
}
