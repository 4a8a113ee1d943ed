package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	config "github.com/DRSN-tech/catalog-backend/internal/cfg"
	v1Http "github.com/DRSN-tech/catalog-backend/internal/delivery/v1/http"
	"github.com/DRSN-tech/catalog-backend/internal/infrastructure/photostore"
	"github.com/DRSN-tech/catalog-backend/internal/repository/catalog"
	"github.com/DRSN-tech/catalog-backend/internal/repository/jsonfile"
	"github.com/DRSN-tech/catalog-backend/internal/repository/pgdb"
	pgdbConv "github.com/DRSN-tech/catalog-backend/internal/repository/pgdb/converter"
	redisRepo "github.com/DRSN-tech/catalog-backend/internal/repository/redis"
	redisConv "github.com/DRSN-tech/catalog-backend/internal/repository/redis/converter"
	"github.com/DRSN-tech/catalog-backend/internal/usecase"
	"github.com/DRSN-tech/catalog-backend/pkg/clients"
	"github.com/DRSN-tech/catalog-backend/pkg/closer"
	"github.com/DRSN-tech/catalog-backend/pkg/e"
	"github.com/DRSN-tech/catalog-backend/pkg/logger"
	"github.com/DRSN-tech/catalog-backend/pkg/postgres"
	"github.com/go-chi/chi/v5"
	"github.com/jimlawless/whereami"
)

// App собирает зависимости приложения и управляет их жизненным циклом.
type App struct {
	cfg     *config.Config
	logger  logger.Logger
	httpSrv *v1Http.Server
	closer  *closer.Closer
}

func NewApp(cfg *config.Config, log logger.Logger) (*App, error) {
	cl := closer.New()

	storage, err := initStorage(cfg, log, cl)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	productRepo := catalog.NewProductRepo(storage)

	redisClient := clients.NewRedisClient(cfg.Redis)
	redisCtx, redisCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer redisCancel()
	if err := redisClient.Ping(redisCtx); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	cl.Add("redis", func(context.Context) error {
		return redisClient.Client.Close()
	})

	cacheRepo := redisRepo.NewCacheRepo(redisClient, redisConv.NewProductConverterImpl(), cfg.Redis, log)

	photoStore := photostore.NewPhotoStore(cfg.PhotoStore, log)

	productUC := usecase.NewProductUC(
		productRepo,
		photoStore,
		cacheRepo,
		log,
		cfg.PhotoStore.SearchLimit,
	)

	r := chi.NewRouter()
	router := v1Http.NewRouter(r, log)
	router.Init(productUC)

	httpSrv := v1Http.NewServer(r, cfg.Http)
	cl.Add("http server", httpSrv.Stop)

	return &App{
		cfg:     cfg,
		logger:  log,
		httpSrv: httpSrv,
		closer:  cl,
	}, nil
}

// Run запускает HTTP-сервер и блокируется до сигнала завершения или фатальной ошибки.
func (a *App) Run() error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Infof("HTTP server started on port %s", a.cfg.Http.Port)
		if err := a.httpSrv.Run(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Errorf(err, "HTTP server failed")
			errCh <- err
		}
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	var appErr error
	select {
	case appErr = <-errCh:
		a.logger.Errorf(appErr, "HTTP server fatal error")
	case <-shutdown:
		a.logger.Infof("Received shutdown signal, stopping gracefully...")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := a.closer.Close(shutdownCtx); err != nil {
		a.logger.Errorf(err, "shutdown finished with errors")
	} else {
		a.logger.Infof("Application shutdown complete")
	}

	return appErr
}

// initStorage создаёт хранилище каталога в соответствии с конфигурацией.
func initStorage(cfg *config.Config, log logger.Logger, cl *closer.Closer) (catalog.Storage, error) {
	switch cfg.Catalog.Driver {
	case config.CatalogDriverFile:
		log.Infof("catalog storage: json file at %s", cfg.Catalog.FilePath)
		return jsonfile.NewStorage(cfg.Catalog.FilePath), nil

	case config.CatalogDriverPostgres:
		db, err := initPGDB(log, cfg)
		if err != nil {
			return nil, err
		}
		cl.Add("postgres", func(context.Context) error {
			db.Close()
			return nil
		})

		return pgdb.NewStorage(db.Pool, pgdbConv.NewProductConverterImpl()), nil

	default:
		return nil, fmt.Errorf("unknown catalog driver: %s", cfg.Catalog.Driver)
	}
}

func initPGDB(logger logger.Logger, cfg *config.Config) (*postgres.PgDatabase, error) {
	db, err := postgres.Connect(cfg.Db)
	if err != nil {
		logger.Errorf(err, "failed to connect to database")
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	if err := db.RunMigrations(logger); err != nil {
		logger.Errorf(err, "failed to run migrations")
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	if err := db.Ping(); err != nil {
		logger.Errorf(err, "failed to ping database")
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return db, nil
}
