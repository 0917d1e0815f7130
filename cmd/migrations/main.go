package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"

	_ "github.com/lib/pq"
	"github.com/spf13/pflag"

	"github.com/vncsmyrnk/kupolls/internal/adapters/repository/postgres"
	"github.com/vncsmyrnk/kupolls/internal/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	fs := pflag.NewFlagSet("migrations", pflag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: migrations [flags] up|down|<migration name>\n")
		fs.PrintDefaults()
	}
	fs.StringVar(&cfg.DB.Host, "db-host", cfg.DB.Host, "Database host")
	fs.StringVar(&cfg.DB.Port, "db-port", cfg.DB.Port, "Database port")
	fs.StringVar(&cfg.DB.User, "db-user", cfg.DB.User, "Database user")
	fs.StringVar(&cfg.DB.Password, "db-pass", cfg.DB.Password, "Database password")
	fs.StringVar(&cfg.DB.Name, "db-name", cfg.DB.Name, "Database name")
	if err := fs.Parse(os.Args[1:]); err != nil {
		log.Fatal(err)
	}

	if fs.NArg() < 1 {
		fs.Usage()
		log.Fatal("a migration name is required.")
	}
	target := fs.Arg(0)

	db, err := sql.Open("postgres", cfg.DB.ConnString())
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	ctx := context.Background()

	switch target {
	case postgres.DirectionUp, postgres.DirectionDown:
		applied, err := postgres.Migrate(ctx, db, target)
		if err != nil {
			log.Fatal(err)
		}
		for _, name := range applied {
			fmt.Println("applied", name)
		}
	default:
		name, err := postgres.RunMigration(ctx, db, target)
		if err != nil {
			log.Fatal(err)
		}
		fmt.Println("applied", name)
	}

	fmt.Println("Migration file executed successfully.")
}
