package main

import (
	"context"
	"fmt"
	"time"

	mongoMigration "sarpras/internal/migrations/mongo"
	"sarpras/pkg/client"
	"sarpras/pkg/config"
)

const JobName = "mongo-migration"

func main() {
	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
	defer cancel()

	cfg := config.Load(JobName)
	cfg.Log.Info("Starting Mongo migration job", "database", cfg.MongoDatabaseName)

	infra := client.NewClient()
	infra.SetMongo(cfg.Log, cfg.MongoURI, cfg.MongoConnTimeout)
	defer infra.GracefulShutdown(context.Background(), cfg.Log)

	if err := mongoMigration.RunMigration(ctx, infra.Mongo, cfg.MongoDatabaseName); err != nil {
		cfg.Log.Fatal("Migration failed", "error", err)
	}
	fmt.Println("Migration completed successfully.")
}
