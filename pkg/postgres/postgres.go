package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/DRSN-tech/film-indexer/db/migrations"
	"github.com/DRSN-tech/film-indexer/internal/cfg"
	"github.com/DRSN-tech/film-indexer/pkg/e"
	"github.com/DRSN-tech/film-indexer/pkg/logger"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
)

// PgDatabase инкапсулирует подключение к PostgreSQL и управление миграциями.
type PgDatabase struct {
	Pool    *pgxpool.Pool
	poolCfg *pgxpool.Config
	cfg     *cfg.PGDBCfg
}

func NewPgDatabase(pool *pgxpool.Pool, poolCfg *pgxpool.Config, cfg *cfg.PGDBCfg) *PgDatabase {
	return &PgDatabase{Pool: pool, poolCfg: poolCfg, cfg: cfg}
}

// ParseConfig разбирает DATASTORE_URL; ключ сервиса используется как пароль, если он задан.
func ParseConfig(cfg *cfg.PGDBCfg) (*pgxpool.Config, error) {
	const op = "postgres.ParseConfig"

	poolCfg, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	if cfg.Password != "" {
		poolCfg.ConnConfig.Password = cfg.Password
	}

	return poolCfg, nil
}

// Connect устанавливает соединение с PostgreSQL.
func Connect(cfg *cfg.PGDBCfg) (*PgDatabase, error) {
	const op = "PgDatabase.Connect"

	poolCfg, err := ParseConfig(cfg)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	pool, err := pgxpool.NewWithConfig(context.Background(), poolCfg)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, e.Wrap(op, err)
	}

	return NewPgDatabase(pool, poolCfg, cfg), nil
}

func (db *PgDatabase) Ping() error {
	const op = "PgDatabase.Ping"
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	if err := db.Pool.Ping(ctx); err != nil {
		return e.Wrap(op, err)
	}

	return nil
}

// Close корректно закрывает пул соединений к базе данных.
func (db *PgDatabase) Close() error {
	if db.Pool != nil {
		db.Pool.Close()
	}
	return nil
}

// RunMigrations применяет встроенные миграции из db/migrations/postgres.
func (db *PgDatabase) RunMigrations(logger logger.Logger) error {
	const (
		op                 = "PgDatabase.RunMigrations"
		sourceName         = "iofs"
		databaseDriverName = "postgres"
	)

	if !db.cfg.RunMigrations {
		logger.Infof("migrations disabled, skipping")
		return nil
	}

	sqlDb := stdlib.OpenDB(*db.poolCfg.ConnConfig)
	defer sqlDb.Close()

	driver, err := postgres.WithInstance(sqlDb, &postgres.Config{})
	if err != nil {
		return e.Wrap(op, err)
	}

	source, err := iofs.New(migrations.Postgres, "postgres")
	if err != nil {
		return e.Wrap(op, err)
	}

	m, err := migrate.NewWithInstance(sourceName, source, databaseDriverName, driver)
	if err != nil {
		return e.Wrap(op, err)
	}

	err = m.Up()
	if err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			logger.Debugf("migrations are up to date")
			return nil
		}
		return e.Wrap(op, err)
	}

	logger.Infof("migrations applied successfully")
	return nil
}
