// Command migrate manages the database schema and demo data.
//
//	migrate up
//	migrate down
//	migrate steps N
//	migrate version
//	migrate force V
//	migrate seed -admin-email admin@example.com -admin-password secret123
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	"staykart/internal/config"
	"staykart/internal/database"
	"staykart/internal/seed"

	"github.com/rs/zerolog"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func usage(fs *flag.FlagSet) {
	fmt.Fprintf(fs.Output(), "usage: migrate [flags] up|down|steps N|version|force V|seed\n")
	fs.PrintDefaults()
}

func run(args []string) error {
	fs := flag.NewFlagSet("migrate", flag.ContinueOnError)
	dbURL := fs.String("database-url", os.Getenv("DATABASE_URL"), "postgres connection URL (defaults to DB_* settings)")
	adminEmail := fs.String("admin-email", envOr("SEED_ADMIN_EMAIL", "admin@staykart.example"), "admin account created by seed")
	adminPassword := fs.String("admin-password", os.Getenv("SEED_ADMIN_PASSWORD"), "admin password used by seed")
	fs.Usage = func() { usage(fs) }
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		usage(fs)
		return fmt.Errorf("missing command")
	}

	cfg, err := config.LoadDatabase()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	logger := config.NewLogger(cfg.Logger)

	connString := *dbURL
	if connString == "" {
		connString = cfg.Database.ConnectionString()
	}

	cmd, rest := fs.Arg(0), fs.Args()[1:]
	if cmd == "seed" {
		return runSeed(connString, seed.Options{AdminEmail: *adminEmail, AdminPassword: *adminPassword}, logger)
	}

	migrator, err := database.NewMigrator(connString, logger)
	if err != nil {
		return err
	}
	defer migrator.Close()

	switch cmd {
	case "up":
		return migrator.Up()
	case "down":
		return migrator.Down()
	case "steps":
		n, err := intArg(rest, "steps")
		if err != nil {
			return err
		}
		return migrator.Steps(n)
	case "force":
		v, err := intArg(rest, "force")
		if err != nil {
			return err
		}
		return migrator.Force(v)
	case "version":
		version, dirty, err := migrator.Version()
		if err != nil {
			return err
		}
		fmt.Printf("version=%d dirty=%t\n", version, dirty)
		return nil
	default:
		usage(fs)
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func runSeed(connString string, opts seed.Options, logger zerolog.Logger) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	pool, err := database.NewPoolFromURL(ctx, connString, database.PoolOptions{MaxConns: 2}, logger)
	if err != nil {
		return err
	}
	defer pool.Close()

	res, err := seed.Run(ctx, pool, opts, logger)
	if err != nil {
		return err
	}
	fmt.Printf("seeded %d rows\n", res.Inserted)
	return nil
}

func intArg(args []string, cmd string) (int, error) {
	if len(args) != 1 {
		return 0, fmt.Errorf("%s takes exactly one integer argument", cmd)
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, fmt.Errorf("%s: invalid integer %q", cmd, args[0])
	}
	return n, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
