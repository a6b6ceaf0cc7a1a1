package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	server "coffee_finder/internal/adapters/http_server"
	"coffee_finder/internal/adapters/nominatim"
	"coffee_finder/internal/adapters/observability"
	redisad "coffee_finder/internal/adapters/redis"
	"coffee_finder/internal/adapters/yelp"
	"coffee_finder/internal/app"
	"coffee_finder/internal/domain"
	"coffee_finder/internal/geo"
	"coffee_finder/internal/shared"
	mysqlrepo "coffee_finder/internal/storage/mysql"
)

func main() {
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	reg := observability.InitRegistry()
	observability.Serve(cfg.MetricsAddr, observability.MetricsHandler(reg))

	// record store: MySQL when configured, otherwise the bundled demo data
	var store domain.RecordStore
	if cfg.MySQLDSN != "" {
		db, err := sql.Open("mysql", cfg.MySQLDSN)
		if err != nil {
			log.Fatal().Err(err).Msg("sql.Open failed")
		}
		if err := db.Ping(); err != nil {
			log.Fatal().Err(err).Msg("db.Ping failed")
		}
		defer db.Close()
		log.Info().Msg("database connection ok")
		store = mysqlrepo.New(db)
	} else {
		store = app.NewMemoryStore(shared.DemoVenues()...)
		log.Info().Msg("MYSQL_DSN is empty; using in-memory demo store")
	}

	resolver := geo.NewResolver(nominatim.New(cfg.GeocoderBase, cfg.GeocoderUA), cfg.FetchTimeout)

	// detail cache: Redis when configured, otherwise in-process
	var detailCache domain.DetailCache = app.NewMemoryDetailCache(0)
	if cfg.RedisAddr != "" {
		rc := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		if err := rc.Ping(ctx); err != nil {
			log.Warn().Err(err).Msg("redis unavailable; using in-process detail cache")
			_ = rc.Close()
		} else {
			defer rc.Close()
			detailCache = redisad.NewDetailCache(rc, int(cfg.CacheTTL.Seconds()))
			resolver.WithCache(rc, int(cfg.CacheTTL.Seconds()))
		}
		cancel()
	}

	var directory *app.DirectoryService
	var classifier *app.OfferingClassifier
	if client, err := yelp.New(cfg.YelpBase, cfg.YelpKey, cfg.DirectoryRPS); err == nil {
		directory = app.NewDirectoryService(client)
		classifier = app.NewOfferingClassifier(directory, directory,
			app.WithDetailCache(detailCache), app.WithFetchTimeout(cfg.FetchTimeout))
	} else {
		classifier = app.NewOfferingClassifier(nil, nil, app.WithDetailCache(detailCache))
	}

	filter := domain.DefaultFilterConfig().
		WithMinRating(cfg.MinRating).
		WithMinReviewCount(cfg.MinReviews).
		WithResultCap(cfg.ResultCap)

	p := app.NewPipeline(app.PipelineDeps{
		Resolver:   resolver,
		Directory:  directory,
		Store:      store,
		Classifier: classifier,
		Filter:     filter,
		Workers:    cfg.Workers,
		Timeout:    cfg.FetchTimeout,
	})

	// http
	srv := server.New(3 * cfg.FetchTimeout)
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{P: p})

	log.Info().Str("addr", cfg.HTTPAddr).Bool("directory", directory != nil).Msg("API listening")
	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux(), ReadHeaderTimeout: 5 * time.Second}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("http server failed")
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("http shutdown")
	}
	log.Info().Msg("API stopped")
}
