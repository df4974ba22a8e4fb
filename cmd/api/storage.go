package main

import (
	"context"
	"fmt"
	"os"

	"storefront/internal/backup"
	"storefront/internal/config"
	"storefront/internal/database"
	"storefront/internal/repository"
)

func newBackupManager(cfg *config.Config) *backup.Manager {
	return backup.NewManager(cfg.Storage.BackupDir, cfg.Storage.BackupRetention)
}

// openStores abre el almacenamiento configurado; close libera la conexión.
func openStores(ctx context.Context, cfg *config.Config, snapshots repository.Snapshotter) (*repository.Stores, func(), error) {
	switch cfg.Storage.Driver {
	case "mongo":
		return openMongoStores(ctx, cfg)
	case "json", "":
		if err := os.MkdirAll(cfg.Storage.DataDir, 0o755); err != nil {
			return nil, nil, err
		}
		return repository.NewFileStores(cfg.Storage.DataDir, snapshots), func() {}, nil
	}
	return nil, nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
}

func openMongoStores(ctx context.Context, cfg *config.Config) (*repository.Stores, func(), error) {
	client, err := database.Connect(ctx, cfg.Mongo)
	if err != nil {
		return nil, nil, err
	}
	db := client.Database(cfg.Mongo.Database)
	if err := database.EnsureIndexes(ctx, db); err != nil {
		database.Disconnect(client)
		return nil, nil, err
	}
	return repository.NewMongoStores(db), func() { database.Disconnect(client) }, nil
}
