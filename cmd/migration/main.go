package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"github.com/riskibarqy/speedrun-browser/internal/config"
	"github.com/riskibarqy/speedrun-browser/internal/platform/logging"
	"github.com/riskibarqy/speedrun-browser/internal/platform/pgdsn"
)

// migrator is the subset of *migrate.Migrate the commands drive.
type migrator interface {
	Up() error
	Steps(n int) error
	Migrate(version uint) error
	Force(version int) error
	Version() (uint, bool, error)
}

type command struct {
	usage string
	run   func(m migrator, args []string, out io.Writer, logger *logging.Logger) error
}

var commands = map[string]command{
	"up": {
		usage: "up",
		run: func(m migrator, _ []string, _ io.Writer, logger *logging.Logger) error {
			if err := ignoreNoChange(m.Up(), logger); err != nil {
				return err
			}
			logger.Info("migrations applied")
			return nil
		},
	},
	"down": {
		usage: "down [steps]",
		run: func(m migrator, args []string, _ io.Writer, logger *logging.Logger) error {
			steps := 1
			if len(args) > 0 {
				n, err := strconv.Atoi(strings.TrimSpace(args[0]))
				if err != nil || n <= 0 {
					return fmt.Errorf("down steps must be a positive integer, got %q", args[0])
				}
				steps = n
			}
			if err := ignoreNoChange(m.Steps(-steps), logger); err != nil {
				return err
			}
			logger.Info("migrations rolled back", "steps", steps)
			return nil
		},
	},
	"version": {
		usage: "version",
		run: func(m migrator, _ []string, out io.Writer, _ *logging.Logger) error {
			version, dirty, err := m.Version()
			switch {
			case errors.Is(err, migrate.ErrNilVersion):
				_, err = fmt.Fprintln(out, "version: none\ndirty: false")
				return err
			case err != nil:
				return fmt.Errorf("read version: %w", err)
			}
			_, err = fmt.Fprintf(out, "version: %d\ndirty: %t\n", version, dirty)
			return err
		},
	},
	"force": {
		usage: "force <version>",
		run: func(m migrator, args []string, _ io.Writer, logger *logging.Logger) error {
			version, err := versionArg(args)
			if err != nil {
				return err
			}
			if err := m.Force(int(version)); err != nil {
				return fmt.Errorf("force version %d: %w", version, err)
			}
			logger.Info("migration version forced", "version", version)
			return nil
		},
	},
	"goto": {
		usage: "goto <version>",
		run: func(m migrator, args []string, _ io.Writer, logger *logging.Logger) error {
			version, err := versionArg(args)
			if err != nil {
				return err
			}
			if err := ignoreNoChange(m.Migrate(version), logger); err != nil {
				return err
			}
			logger.Info("migrated to version", "version", version)
			return nil
		},
	},
}

func main() {
	logger := logging.NewJSON(logging.LevelInfo).Named("migration")

	if len(os.Args) < 2 {
		printUsage(os.Stderr)
		os.Exit(2)
	}
	cmd, ok := commands[strings.ToLower(strings.TrimSpace(os.Args[1]))]
	if !ok {
		printUsage(os.Stderr)
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fatal(logger, "load config", err)
	}
	logger = logging.New(os.Stderr, cfg.LogLevel, cfg.LogFormat).Named("migration")

	dbURL := strings.TrimSpace(cfg.DBURL)
	if !pgdsn.IsURL(dbURL) {
		fatal(logger, "DB_URL must be a postgres:// url for migrations", nil)
	}
	if cfg.DBDisablePreparedBinary {
		dbURL = pgdsn.DisablePreparedBinary(dbURL)
	}

	dir, err := migrationsDir(os.Getenv("MIGRATIONS_DIR"))
	if err != nil {
		fatal(logger, "resolve migrations dir", err)
	}
	logger.Info("migrating", "db", pgdsn.Redact(dbURL), "dir", dir)

	m, err := migrate.New("file://"+filepath.ToSlash(dir), dbURL)
	if err != nil {
		fatal(logger, "create migrator", err)
	}

	runErr := cmd.run(m, os.Args[2:], os.Stdout, logger)
	srcErr, dbErr := m.Close()
	if err := errors.Join(srcErr, dbErr); err != nil {
		logger.Warn("close migrator", "error", err)
	}
	if runErr != nil {
		fatal(logger, "migration failed", runErr)
	}
	_ = logger.Sync()
}

func versionArg(args []string) (uint, error) {
	if len(args) == 0 {
		return 0, errors.New("a version argument is required")
	}
	v, err := strconv.ParseUint(strings.TrimSpace(args[0]), 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid version %q: %w", args[0], err)
	}
	return uint(v), nil
}

func ignoreNoChange(err error, logger *logging.Logger) error {
	if errors.Is(err, migrate.ErrNoChange) {
		logger.Info("no migration changes")
		return nil
	}
	return err
}

// migrationsDir returns the first existing directory among override and the
// local and container defaults.
func migrationsDir(override string) (string, error) {
	candidates := []string{strings.TrimSpace(override), "./db/migrations", "/app/db/migrations"}
	for _, candidate := range candidates {
		if candidate == "" {
			continue
		}
		abs, err := filepath.Abs(candidate)
		if err != nil {
			continue
		}
		if info, err := os.Stat(abs); err == nil && info.IsDir() {
			return abs, nil
		}
	}
	return "", fmt.Errorf("no migrations directory in %s", strings.Join(candidates[1:], ", "))
}

func fatal(logger *logging.Logger, msg string, err error) {
	if err != nil {
		logger.Error(msg, "error", err)
	} else {
		logger.Error(msg)
	}
	_ = logger.Sync()
	os.Exit(1)
}

func printUsage(w io.Writer) {
	name := filepath.Base(os.Args[0])
	names := []string{"up", "down", "version", "force", "goto"}
	fmt.Fprintf(w, "usage: %s <%s> [args]\n", name, strings.Join(names, "|"))
	for _, n := range names {
		fmt.Fprintf(w, "  %s %s\n", name, commands[n].usage)
	}
}
