package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/niksmo/storefront/internal/adapter/catalog"
	"github.com/niksmo/storefront/internal/adapter/storage"
	"github.com/niksmo/storefront/pkg/retry"
	"github.com/niksmo/storefront/pkg/sigctx"
	"github.com/spf13/pflag"
)

const (
	storagePathFlag   = "storage-path"
	migrationPathFlag = "migrations-path"
	seedFlag          = "seed"
)

func main() {
	storagePath, migrationsPath, seed := getFlagsValues()
	validateFlags(storagePath, migrationsPath)
	makeMigrations(storagePath, migrationsPath)
	if seed {
		seedCatalog(storagePath)
	}
}

type MigrationLogger struct {
	logger  *slog.Logger
	verbose bool
}

func NewMigrationLogger() *MigrationLogger {
	return &MigrationLogger{
		logger:  slog.Default(),
		verbose: true,
	}
}

func (ml *MigrationLogger) Printf(format string, v ...any) {
	ml.logger.Info(fmt.Sprintf(format, v...))
}

func (ml *MigrationLogger) Verbose() bool {
	return ml.verbose
}

func getFlagsValues() (storage, migrations string, seed bool) {
	storagePath := pflag.StringP(storagePathFlag, "s", "", "user:pass@host:port/db")
	migrationsPath := pflag.StringP(migrationPathFlag, "m", "", "migrations directory")
	seedCatalog := pflag.Bool(seedFlag, false, "upsert the built-in catalog")
	pflag.Parse()
	return *storagePath, *migrationsPath, *seedCatalog
}

func validateFlags(storagePath, migrationsPath string) {
	var errs []error

	if storagePath == "" {
		errs = append(errs, fmt.Errorf("--%s flag: required", storagePathFlag))
	}

	if migrationsPath == "" {
		errs = append(errs, fmt.Errorf("--%s flag: required", migrationPathFlag))
	}

	if len(errs) != 0 {
		slog.Error("too few args", "err", errors.Join(errs...))
		fallDown()
	}
}

func makeMigrations(storagePath, migrationsPath string) {
	m, err := migrate.New(
		fmt.Sprintf("file://%s", migrationsPath),
		fmt.Sprintf("pgx5://%s", storagePath),
	)
	if err != nil {
		slog.Error("failed to migrate", "err", err)
		fallDown()
	}

	m.Log = NewMigrationLogger()

	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			m.Log.Printf("no migrations to apply")
			return
		}
		slog.Error("failed to migrate", "err", err)
		fallDown()
	}
	m.Log.Printf("migration applied\n")
}

func seedCatalog(storagePath string) {
	ctx, cancel := sigctx.NotifyContext(context.Background())
	defer cancel()

	sqldb, err := storage.NewSQLDB(
		ctx,
		fmt.Sprintf("postgres://%s", storagePath),
		retry.RetryConfig{
			MaxAttempts: 3,
			Backoff:     retry.LinearBackoff(time.Second),
		},
	)
	if err != nil {
		slog.Error("failed to seed", "err", err)
		fallDown()
	}
	defer sqldb.Close()

	src := catalog.NewStatic()
	products, err := src.ReadProducts(ctx)
	if err != nil {
		slog.Error("failed to seed", "err", err)
		fallDown()
	}
	news, err := src.ReadNews(ctx)
	if err != nil {
		slog.Error("failed to seed", "err", err)
		fallDown()
	}

	repo := storage.NewCatalogRepository(sqldb)
	if err := repo.StoreCatalog(ctx, products, news); err != nil {
		slog.Error("failed to seed", "err", err)
		fallDown()
	}
}

func fallDown() {
	os.Exit(2)
}
