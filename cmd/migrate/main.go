// Command migrate applies or rolls back the schema in ./migrations.
//
//	migrate up | down | steps N | version
package main

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"ms-events/internal/config"
	"ms-events/internal/database"
	"ms-events/internal/database/migrations"
	"ms-events/internal/logger"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	log := logger.NewWithWriter(os.Stdout)

	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: migrate up | down | steps N | version")
		os.Exit(2)
	}

	bunDB, err := database.Connect(context.Background(), cfg.Database, log)
	if err != nil {
		log.Fatal("DATABASE", err.Error())
	}
	defer bunDB.Close()

	runner := migrations.NewRunner(bunDB.DB, cfg.Database.MigrationsDir, log)
	defer runner.Close()

	switch os.Args[1] {
	case "up":
		err = runner.Up()
	case "down":
		err = runner.Down()
	case "steps":
		if len(os.Args) < 3 {
			log.Fatal("MIGRATE", "steps needs a count")
		}
		n, convErr := strconv.Atoi(os.Args[2])
		if convErr != nil {
			log.Fatal("MIGRATE", fmt.Sprintf("invalid step count %q", os.Args[2]))
		}
		err = runner.Steps(n)
	case "version":
		v, dirty, verr := runner.Version()
		if verr == nil {
			log.Info("MIGRATE", fmt.Sprintf("version %d (dirty: %v)", v, dirty))
		}
		err = verr
	default:
		log.Fatal("MIGRATE", fmt.Sprintf("unknown command %q", os.Args[1]))
	}
	if err != nil {
		log.Fatal("MIGRATE", err.Error())
	}
	log.Info("MIGRATE", "Done")
}
