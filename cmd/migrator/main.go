package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

func main() {
	var migrationPath, databaseURL string
	var down bool
	flag.StringVar(&databaseURL, "database_url", "", "Database URL without scheme (user:pass@host:port/db), defaults to $DATABASE_URL")
	flag.StringVar(&migrationPath, "migration-path", "./migrations", "Path to the migrations directory")
	flag.BoolVar(&down, "down", false, "Roll back every migration")
	flag.Parse()

	source := fmt.Sprintf("postgres://%s", databaseURL)
	if databaseURL == "" {
		source = os.Getenv("DATABASE_URL")
	}
	if source == "" {
		panic("database URL is required")
	}
	if migrationPath == "" {
		panic("migrationPath is required")
	}

	m, err := migrate.New("file://"+migrationPath, source)
	if err != nil {
		panic(err)
	}
	defer m.Close()

	apply := m.Up
	if down {
		apply = m.Down
	}
	if err := apply(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			fmt.Println("no migrations to apply")
			return
		}
		panic(err)
	}

	fmt.Println("Migrations applied")
}
