// Package storage builds the contact.Repository selected by configuration.
package storage

import (
	"contactbook/contact"
	"contactbook/dynamodb"
	"contactbook/filestore"
	"contactbook/pkg/config"
	"contactbook/postgres"
	"context"
	"fmt"
	"log/slog"
	"strconv"

	_ "github.com/lib/pq"
)

// CloseFunc releases resources held by a repository.
type CloseFunc func() error

func noopClose() error { return nil }

// Open returns the repository for cfg.Storage.Driver.
func Open(ctx context.Context, cfg *config.Config, logger *slog.Logger) (contact.Repository, CloseFunc, error) {
	switch cfg.Storage.Driver {
	case config.StorageFile, "":
		return filestore.NewContactRepository(cfg.Storage.DataFile, logger), noopClose, nil

	case config.StoragePostgres:
		db, err := postgres.NewConnection(postgres.Options{
			DBName:   cfg.DB.Name,
			DBUser:   cfg.DB.User,
			Password: cfg.DB.Pass,
			Host:     cfg.DB.Host,
			Port:     strconv.Itoa(cfg.DB.Port),
			SSLMode:  cfg.DB.EnableSSL,
		})
		if err != nil {
			return nil, nil, err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, nil, fmt.Errorf("storage: get db instance: %w", err)
		}
		return postgres.NewContactRepository(db), sqlDB.Close, nil

	case config.StorageDynamoDB:
		client, err := dynamodb.NewClient(ctx, dynamodb.Options{
			Region:       cfg.DynamoDB.Region,
			Endpoint:     cfg.DynamoDB.Endpoint,
			AccessKey:    cfg.DynamoDB.AccessKey,
			SecretKey:    cfg.DynamoDB.SecretKey,
			SessionToken: cfg.DynamoDB.SessionToken,
		})
		if err != nil {
			return nil, nil, err
		}
		return dynamodb.NewContactRepository(client, cfg.DynamoDB.ContactsTable), noopClose, nil

	default:
		return nil, nil, fmt.Errorf("storage: unknown driver %q", cfg.Storage.Driver)
	}
}

// NewService opens the configured repository and loads the contacts into a
// new Usecase. A load failure is returned together with a usable, empty
// service so callers can report it and carry on.
func NewService(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*contact.Usecase, CloseFunc, error) {
	repo, closeFn, err := Open(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	uc := contact.NewUsecase(repo, contact.WithLogger(logger))
	if err := uc.Load(ctx); err != nil {
		return uc, closeFn, err
	}
	return uc, closeFn, nil
}
