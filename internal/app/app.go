package app

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	config "github.com/DRSN-tech/film-indexer/internal/cfg"
	v1Grpc "github.com/DRSN-tech/film-indexer/internal/delivery/v1/grpc"
	v1Http "github.com/DRSN-tech/film-indexer/internal/delivery/v1/http"
	"github.com/DRSN-tech/film-indexer/internal/infrastructure/kafka"
	"github.com/DRSN-tech/film-indexer/internal/infrastructure/openai"
	"github.com/DRSN-tech/film-indexer/internal/infrastructure/tmdb"
	s3Repo "github.com/DRSN-tech/film-indexer/internal/repository/minio"
	"github.com/DRSN-tech/film-indexer/internal/repository/pgdb"
	pgdbConv "github.com/DRSN-tech/film-indexer/internal/repository/pgdb/converter"
	qdrantRepo "github.com/DRSN-tech/film-indexer/internal/repository/qdrant"
	"github.com/DRSN-tech/film-indexer/internal/repository/redis"
	redisConv "github.com/DRSN-tech/film-indexer/internal/repository/redis/converter"
	"github.com/DRSN-tech/film-indexer/internal/usecase"
	"github.com/DRSN-tech/film-indexer/pkg/clients"
	"github.com/DRSN-tech/film-indexer/pkg/closer"
	"github.com/DRSN-tech/film-indexer/pkg/e"
	"github.com/DRSN-tech/film-indexer/pkg/logger"
	"github.com/DRSN-tech/film-indexer/pkg/postgres"
	"github.com/DRSN-tech/film-indexer/pkg/tr"
	"github.com/go-chi/chi/v5"
	"github.com/jimlawless/whereami"
)

const (
	initTimeout     = 10 * time.Second
	shutdownTimeout = 10 * time.Second
)

// App собирает зависимости сервиса и управляет их жизненным циклом.
type App struct {
	cfg    *config.Config
	logger logger.Logger
	closer *closer.Closer
	filmUC *usecase.FilmUseCase
}

// NewApp подключает хранилище и необязательные компоненты. При ошибке уже открытые ресурсы закрываются.
func NewApp(cfg *config.Config, logger logger.Logger) (_ *App, err error) {
	a := &App{
		cfg:    cfg,
		logger: logger,
		closer: closer.NewCloser(0),
	}
	defer func() {
		if err != nil {
			ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if cerr := a.closer.Close(ctx); cerr != nil {
				logger.Warnf("cleanup after failed start: %v", cerr)
			}
		}
	}()

	filmRepo, transactor, err := a.initDatastore()
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	var statuses usecase.IngestionStatusRepository
	if cfg.Redis != nil {
		statuses, err = a.initRedis()
		if err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}
	}

	var snapshots usecase.SnapshotRepository
	if cfg.Minio != nil {
		snapshots, err = a.initMinio()
		if err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}
	}

	var events usecase.EventPublisher
	if cfg.Kafka != nil {
		events = a.initKafka()
	}

	catalog := tmdb.NewCatalog(nil, cfg.Catalog, logger)
	embedder := openai.NewEmbedder(nil, cfg.Embedding, logger)

	a.filmUC = usecase.NewFilmUC(
		catalog,
		embedder,
		filmRepo,
		transactor,
		statuses,
		snapshots,
		events,
		cfg.Datastore.Table,
		logger,
	)

	return a, nil
}

// Ingest выполняет одну загрузку за год без HTTP-сервера.
func (a *App) Ingest(ctx context.Context, year string) (*usecase.IngestRes, error) {
	return a.filmUC.IngestYear(ctx, usecase.NewIngestReq(year))
}

// Close закрывает все ресурсы в обратном порядке.
func (a *App) Close(ctx context.Context) error {
	return a.closer.Close(ctx)
}

// Run запускает HTTP и gRPC серверы и блокируется до сигнала остановки или фатальной ошибки.
func (a *App) Run() error {
	grpcSrv := v1Grpc.NewGRPCServer(a.cfg.Grpc, a.logger)
	grpcSrv.RegisterServices()

	r := chi.NewRouter()
	router := v1Http.NewRouter(r, a.logger)
	router.Init(a.filmUC)

	httpSrv := v1Http.NewServer(r, a.cfg.Http)

	grpcErrCh := make(chan error, 1)
	go func() {
		a.logger.Infof("gRPC server starting on %s:%s", a.cfg.Grpc.NetworkMode, a.cfg.Grpc.Port)
		if err := grpcSrv.Start(); err != nil {
			grpcErrCh <- err
		}
	}()

	errCh := make(chan error, 1)
	go func() {
		a.logger.Infof("HTTP server started on port %s", a.cfg.Http.Port)
		if err := httpSrv.Run(); err != nil {
			errCh <- err
		}
	}()

	// Серверы закрываются первыми (LIFO)
	a.closer.Add("grpc server", grpcSrv.Stop)
	a.closer.Add("http server", httpSrv.Stop)

	// === Ожидание сигнала или ошибки ===
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(shutdown)

	var appErr error
	select {
	case appErr = <-errCh:
		a.logger.Errorf(appErr, "HTTP server fatal error")
	case appErr = <-grpcErrCh:
		a.logger.Errorf(appErr, "gRPC server fatal error")
	case <-shutdown:
		a.logger.Infof("Received shutdown signal, stopping gracefully...")
	}

	// === Graceful shutdown ===
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := a.Close(shutdownCtx); err != nil {
		a.logger.Errorf(err, "shutdown finished with errors")
	}

	a.logger.Infof("Application shutdown complete")
	return appErr
}

func (a *App) initDatastore() (usecase.FilmRepository, usecase.Transactor, error) {
	switch a.cfg.Datastore.Driver {
	case config.DriverQdrant:
		return a.initQdrant()
	default:
		return a.initPGDB()
	}
}

func (a *App) initPGDB() (usecase.FilmRepository, usecase.Transactor, error) {
	db, err := postgres.Connect(a.cfg.Db)
	if err != nil {
		a.logger.Errorf(err, "failed to connect to database")
		return nil, nil, e.Wrap(whereami.WhereAmI(), err)
	}
	a.closer.AddSimple("postgres", db.Close)

	if err := db.RunMigrations(a.logger); err != nil {
		a.logger.Errorf(err, "failed to run migrations")
		return nil, nil, e.Wrap(whereami.WhereAmI(), err)
	}

	if err := db.Ping(); err != nil {
		a.logger.Errorf(err, "failed to ping database")
		return nil, nil, e.Wrap(whereami.WhereAmI(), err)
	}

	repo := pgdb.NewFilmRepo(db.Pool, pgdbConv.NewFilmConverterImpl(), a.cfg.Db.Table)
	return repo, tr.NewManager(db.Pool), nil
}

func (a *App) initQdrant() (usecase.FilmRepository, usecase.Transactor, error) {
	qdrantClient, err := clients.NewQdrantClient(a.cfg.Qdrant)
	if err != nil {
		a.logger.Errorf(err, "failed to initialize qdrant")
		return nil, nil, e.Wrap(whereami.WhereAmI(), err)
	}
	a.closer.Add("qdrant", qdrantClient.Close)

	ctx, cancel := context.WithTimeout(context.Background(), initTimeout)
	defer cancel()

	if err := qdrantClient.EnsureCollection(ctx, a.logger); err != nil {
		a.logger.Errorf(err, "failed to initialize qdrant collection")
		return nil, nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return qdrantRepo.NewFilmRepo(qdrantClient.Client, a.cfg.Qdrant), tr.Noop{}, nil
}

func (a *App) initRedis() (*redis.StatusRepo, error) {
	redisClient := clients.NewRedisClient(a.cfg.Redis)
	a.closer.Add("redis", redisClient.Close)

	ctx, cancel := context.WithTimeout(context.Background(), initTimeout)
	defer cancel()

	if err := redisClient.Ping(ctx); err != nil {
		a.logger.Errorf(err, "failed to connect to redis")
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return redis.NewStatusRepo(redisClient, redisConv.NewIngestionRunConverterImpl(), a.cfg.Redis, a.logger), nil
}

func (a *App) initMinio() (*s3Repo.SnapshotRepo, error) {
	minioClient, err := clients.NewMinIOClient(a.cfg.Minio)
	if err != nil {
		a.logger.Errorf(err, "failed to initialize minio client")
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), initTimeout)
	defer cancel()

	if err := clients.EnsureBucket(ctx, minioClient, a.cfg.Minio.BucketName); err != nil {
		a.logger.Errorf(err, "failed to initialize MinIO bucket")
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return s3Repo.NewSnapshotRepo(minioClient, a.cfg.Minio), nil
}

func (a *App) initKafka() *kafka.Producer {
	producer := kafka.NewProducer(a.logger, a.cfg.Kafka)
	a.closer.AddSimple("kafka producer", producer.Close)

	// Отсутствие топика не мешает загрузке: публикация событий best-effort
	if err := producer.EnsureTopic(initTimeout); err != nil {
		a.logger.Warnf("failed to ensure kafka topic %s: %v", a.cfg.Kafka.Topic, err)
	}

	return producer
}
