// CLI tool to run pending database migrations from db/.
// Checks the migrations table to skip already-applied files.
// Wraps each migration + record insert in a single transaction.
// Usage: go run ./cmd/migrate [--dir db]
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/media2net-app/mihaelafitness/internal/config"
)

var migrationPrefixRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}-\d{3}-`)

func main() {
	var dir string
	cmd := &cobra.Command{
		Use:          "migrate",
		Short:        "Apply pending SQL migrations in filename order",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if err := cfg.RequireDatabase(); err != nil {
				return err
			}
			logrus.SetLevel(cfg.LogLevel)

			ctx := cmd.Context()
			conn, err := pgx.Connect(ctx, cfg.DatabaseURL)
			if err != nil {
				return fmt.Errorf("connect to database: %w", err)
			}
			defer conn.Close(ctx)
			return migrate(ctx, conn, dir, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVar(&dir, "dir", "db", "Directory holding the *.sql migration files")

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func migrate(ctx context.Context, conn *pgx.Conn, dir string, out io.Writer) error {
	files, err := migrationFiles(dir)
	if err != nil {
		return err
	}

	// Get already-applied migrations (table may not exist yet)
	applied := make(map[string]bool)
	rows, err := conn.Query(ctx, "SELECT migration FROM migrations")
	if err == nil {
		for rows.Next() {
			var name string
			if err := rows.Scan(&name); err == nil {
				applied[name] = true
			}
		}
		rows.Close()
	}

	ran := 0
	for _, f := range pending(files, applied) {
		filename := filepath.Base(f)
		content, err := os.ReadFile(f)
		if err != nil {
			return fmt.Errorf("read %s: %w", filename, err)
		}

		tx, err := conn.Begin(ctx)
		if err != nil {
			return fmt.Errorf("begin transaction: %w", err)
		}
		if _, err := tx.Exec(ctx, string(content)); err != nil {
			tx.Rollback(ctx)
			return fmt.Errorf("run %s: %w", filename, err)
		}
		if _, err := tx.Exec(ctx, "INSERT INTO migrations (migration, description) VALUES ($1, $2)",
			filename, descriptionFromFilename(filename)); err != nil {
			tx.Rollback(ctx)
			return fmt.Errorf("record %s: %w", filename, err)
		}
		if err := tx.Commit(ctx); err != nil {
			return fmt.Errorf("commit %s: %w", filename, err)
		}

		logrus.WithField("migration", filename).Debug("applied")
		fmt.Fprintf(out, "  applied: %s\n", filename)
		ran++
	}

	if ran == 0 {
		fmt.Fprintln(out, "No pending migrations.")
	} else {
		fmt.Fprintf(out, "\n%d migration(s) applied.\n", ran)
	}
	return nil
}

// migrationFiles lists dir/*.sql in filename order.
func migrationFiles(dir string) ([]string, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*.sql"))
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no migration files found in %s", dir)
	}
	sort.Strings(files)
	return files, nil
}

// pending drops the files whose base name is already recorded.
func pending(files []string, applied map[string]bool) []string {
	var out []string
	for _, f := range files {
		if !applied[filepath.Base(f)] {
			out = append(out, f)
		}
	}
	return out
}

// descriptionFromFilename strips the YYYY-MM-DD-NNN- prefix and .sql suffix.
func descriptionFromFilename(filename string) string {
	name := strings.TrimSuffix(filename, ".sql")
	name = migrationPrefixRe.ReplaceAllString(name, "")
	return strings.ReplaceAll(name, "-", " ")
}
