// Command migrate manages the creditpipe database schema. Migrations are
// plain SQL files under db/migrations and the target database comes from the
// same CREDITPIPE_ environment the server reads.
package main

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"creditpipe/internal/config"
)

const defaultSource = "file://db/migrations"

const usage = `usage: migrate <command>

commands:
  up        apply all pending migrations
  down      revert all migrations
  steps N   apply N migrations (negative N reverts)
  version   print the current schema version
  force N   mark version N as applied without running it (dirty-state recovery)`

func main() {
	if err := run(os.Args[1:]); err != nil {
		log.Fatalf("migrate: %v", err)
	}
}

func run(args []string) error {
	if len(args) == 0 {
		return errors.New(usage)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	source := defaultSource
	if s := os.Getenv("CREDITPIPE_MIGRATIONS_SOURCE"); s != "" {
		source = s
	}

	m, err := migrate.New(source, cfg.DB.DSN())
	if err != nil {
		return fmt.Errorf("opening migrations: %w", err)
	}
	defer m.Close()

	switch args[0] {
	case "up":
		if err := m.Up(); err != nil {
			if errors.Is(err, migrate.ErrNoChange) {
				log.Printf("migrate: schema already up to date")
				return nil
			}
			return fmt.Errorf("up: %w", err)
		}
		log.Printf("migrate: schema is up to date")
		return nil

	case "down":
		if err := m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return fmt.Errorf("down: %w", err)
		}
		log.Printf("migrate: schema reverted")
		return nil

	case "steps":
		n, err := intArg(args, "steps")
		if err != nil {
			return err
		}
		if err := m.Steps(n); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return fmt.Errorf("steps %d: %w", n, err)
		}
		log.Printf("migrate: applied %d step(s)", n)
		return nil

	case "version":
		version, dirty, err := m.Version()
		if err != nil {
			if errors.Is(err, migrate.ErrNilVersion) {
				log.Printf("migrate: no migrations applied yet")
				return nil
			}
			return fmt.Errorf("version: %w", err)
		}
		log.Printf("migrate: version %d (dirty=%v)", version, dirty)
		return nil

	case "force":
		n, err := intArg(args, "force")
		if err != nil {
			return err
		}
		if err := m.Force(n); err != nil {
			return fmt.Errorf("force %d: %w", n, err)
		}
		log.Printf("migrate: forced version %d", n)
		return nil

	default:
		return fmt.Errorf("unknown command %q\n%s", args[0], usage)
	}
}

func intArg(args []string, cmd string) (int, error) {
	if len(args) < 2 {
		return 0, fmt.Errorf("%s requires a numeric argument", cmd)
	}
	n, err := strconv.Atoi(args[1])
	if err != nil {
		return 0, fmt.Errorf("%s: invalid argument %q", cmd, args[1])
	}
	return n, nil
}
