package main

import (
	"context"
	"flag"
	"log"

	"github.com/DevByte-Community/Community-API-Backend-sub000/internal/app"
	"github.com/DevByte-Community/Community-API-Backend-sub000/internal/config"
	"github.com/DevByte-Community/Community-API-Backend-sub000/internal/infrastructure/database"
)

// migrate creates the schema, seeds the default casbin policies and, with
// -seed-root, the ROOT account. It is safe to run repeatedly.
func main() {
	seedRoot := flag.Bool("seed-root", true, "create the configured ROOT account if missing")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger := app.NewLogger(cfg)

	db, err := database.Open(cfg.Database.Driver, cfg.Database.DSN, cfg.Database.Debug)
	if err != nil {
		logger.WithError(err).Fatal("failed to open database")
	}
	if err := database.AutoMigrate(db); err != nil {
		logger.WithError(err).Fatal("failed to migrate schema")
	}
	logger.WithField("driver", cfg.Database.Driver).Info("schema migrated")

	// policies and the ROOT account live in the database; redis is not needed
	c, err := app.NewContainerWith(cfg, logger, db, nil)
	if err != nil {
		logger.WithError(err).Fatal("failed to seed casbin policies")
	}
	defer c.Close()
	logger.Info("casbin policies seeded")

	if *seedRoot {
		if err := c.SeedRoot(context.Background()); err != nil {
			logger.WithError(err).Fatal("failed to seed root account")
		}
	}
}
