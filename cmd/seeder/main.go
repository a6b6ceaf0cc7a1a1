package main

import (
	"context"
	"database/sql"
	"sync"
	"sync/atomic"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"coffee_finder/internal/adapters/observability"
	"coffee_finder/internal/app"
	"coffee_finder/internal/domain"
	"coffee_finder/internal/shared"
	mysqlrepo "coffee_finder/internal/storage/mysql"
)

func main() {
	ctx := context.Background()
	cfg := shared.Load()

	// 1) initialize global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	if cfg.MySQLDSN == "" {
		log.Fatal().Msg("MYSQL_DSN is required to seed")
	}

	venues := shared.DemoVenues()
	log.Info().
		Int("workers", cfg.Workers).
		Int("venues", len(venues)).
		Msg("seeder starting")

	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	log.Info().Msg("db ping ok")

	repo := mysqlrepo.New(db)

	// rows without a curated signature get one from the offline cascade
	classifier := app.NewOfferingClassifier(nil, nil)

	sem := semaphore.NewWeighted(int64(cfg.Workers))
	var wg sync.WaitGroup
	var failed int32

	for _, v := range venues {
		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, 1); err != nil {
			log.Fatal().Err(err).Msg("semaphore acquire failed")
		}

		wg.Add(1)
		go func(v domain.Venue) {
			defer wg.Done()
			defer sem.Release(1)

			if v.SignatureOffering == "" {
				v.SignatureOffering = classifier.Classify(ctx, v.ID, v.Name, &v)
			}
			if err := repo.Insert(ctx, v); err != nil {
				atomic.AddInt32(&failed, 1)
				log.Warn().Str("id", v.ID).Err(err).Msg("seed failed")
				return
			}
			log.Info().Str("id", v.ID).Msg("seed ok")
		}(v)
	}

	wg.Wait()
	log.Info().Int32("failed", atomic.LoadInt32(&failed)).Msg("seeding completed")
}
