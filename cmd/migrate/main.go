package main

import (
	"context"
	"flag"
	"sort"
	"time"

	mongoMigration "bondvoyage/internal/migrations/mongo"
	"bondvoyage/pkg/config"
)

const JobName = "mongo-migration"

func main() {
	timeout := flag.Duration("timeout", 2*time.Minute, "upper bound for the whole migration")
	dryRun := flag.Bool("dry-run", false, "log the collections and index counts without connecting")
	flag.Parse()

	cfg := config.Load(JobName)

	if *dryRun {
		defs := mongoMigration.Collections()
		names := make([]string, 0, len(defs))
		for name := range defs {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			cfg.Log.Info("Planned collection",
				"database", cfg.MongoDatabaseName,
				"collection", name,
				"indexes", len(defs[name].Indexes),
				"has_validator", defs[name].Validator != nil,
			)
		}
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	cfg.SetMongo()
	defer cfg.GracefulShutdown()

	cfg.Log.Info("Starting Mongo migration job", "database", cfg.MongoDatabaseName, "timeout", *timeout)
	started := time.Now()
	if err := mongoMigration.RunMigration(ctx, cfg.Client.Mongo.Database(cfg.MongoDatabaseName), cfg.Log); err != nil {
		cfg.GracefulShutdown()
		cfg.Log.Fatal("Migration failed", "error", err)
	}
	cfg.Log.Info("Migration completed successfully", "duration", time.Since(started))
}
