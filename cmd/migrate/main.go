// Package main provides the schema migration CLI.
// Usage: migrate up
//        migrate down
//        migrate version
package main

import (
	"context"
	"fmt"
	"os"

	"centrebooks/internal/config"
	"centrebooks/internal/infrastructure/storage/postgres"
	"centrebooks/migrations"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cfg, err := config.Load(".env")
	if err != nil {
		fail("load config", err)
	}

	m, err := postgres.NewMigrator(migrations.FS, cfg.Database.URL)
	if err != nil {
		fail("open migrator", err)
	}
	defer m.Close()

	ctx := context.Background()

	switch os.Args[1] {
	case "up":
		if err := m.Up(ctx); err != nil {
			fail("migrate up", err)
		}
		printVersion(m)
	case "down":
		if err := m.Down(ctx); err != nil {
			fail("migrate down", err)
		}
		fmt.Println("all migrations rolled back")
	case "version":
		printVersion(m)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printVersion(m *postgres.Migrator) {
	v, dirty, err := m.Version()
	if err != nil {
		fail("read version", err)
	}
	if v == 0 {
		fmt.Println("no migration applied")
		return
	}
	fmt.Printf("schema version %d (dirty: %t)\n", v, dirty)
}

func fail(step string, err error) {
	fmt.Printf("%s: %v\n", step, err)
	os.Exit(1)
}

func printUsage() {
	fmt.Println(`centrebooks schema migrations

Usage:
  migrate <command>

Commands:
  up       Apply every pending migration
  down     Roll back every migration
  version  Print the current schema version
  help     Show this help

DATABASE_URL is read from the environment or .env.`)
}
