package main

import (
	"context"
	"database/sql"
	"log"
	"time"

	_ "github.com/lib/pq"
	"github.com/spf13/pflag"

	"github.com/vncsmyrnk/kupolls/internal/adapters/repository/postgres"
	"github.com/vncsmyrnk/kupolls/internal/config"
	"github.com/vncsmyrnk/kupolls/internal/core/services"
	"github.com/vncsmyrnk/kupolls/internal/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	var timeout time.Duration
	pflag.StringVar(&cfg.DB.Host, "db-host", cfg.DB.Host, "Database host")
	pflag.StringVar(&cfg.DB.Port, "db-port", cfg.DB.Port, "Database port")
	pflag.StringVar(&cfg.DB.User, "db-user", cfg.DB.User, "Database user")
	pflag.StringVar(&cfg.DB.Password, "db-pass", cfg.DB.Password, "Database password")
	pflag.StringVar(&cfg.DB.Name, "db-name", cfg.DB.Name, "Database name")
	pflag.DurationVar(&timeout, "timeout", 5*time.Minute, "Maximum job duration")
	pflag.Parse()

	sugar, err := logger.New(cfg.Logger, cfg.App.IsDevEnvironment())
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = sugar.Sync() }()

	db, err := sql.Open("postgres", cfg.DB.ConnString())
	if err != nil {
		sugar.Fatalw("failed to open database", "error", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		sugar.Fatalw("failed to reach database", "error", err)
	}

	tallyService := services.NewTallyService(postgres.NewQuestionRepository(db), postgres.NewTallyRepository(db))

	sugar.Info("Starting tally recompute job...")
	start := time.Now()

	if err := tallyService.RecomputeAll(ctx); err != nil {
		sugar.Fatalw("Error recomputing tallies", "error", err)
	}

	sugar.Infow("Tally recompute completed successfully.", "duration", time.Since(start))
}
