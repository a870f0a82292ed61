// Command nutritool runs maintenance passes over the ingredient catalog and
// the nutrition plans: audits, unit repairs, bulk imports and backups.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/media2net-app/mihaelafitness/internal/backup"
	"github.com/media2net-app/mihaelafitness/internal/config"
	"github.com/media2net-app/mihaelafitness/internal/nutrition"
	"github.com/media2net-app/mihaelafitness/internal/store"
)

// repo is the part of the store the maintenance commands use.
type repo interface {
	ListIngredients(ctx context.Context, f store.IngredientFilter) ([]nutrition.Ingredient, error)
	ListPlansWithMenus(ctx context.Context) ([]store.NutritionPlan, error)
	UpdateWeekMenu(ctx context.Context, id string, menu nutrition.WeekMenu) error
	BulkImport(ctx context.Context, entries []nutrition.Ingredient, mode store.ImportMode) store.ImportResult
}

type uploader interface {
	Upload(ctx context.Context, path, checksum string) (string, error)
}

// app carries what every subcommand needs. open and upload are swapped out
// in tests.
type app struct {
	open   func(ctx context.Context) (repo, func(), error)
	upload func(ctx context.Context) (uploader, error)
	log    logrus.FieldLogger
	dryRun bool
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "nutritool",
		Short:         "nutritool maintains the ingredient catalog and nutrition plans",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().BoolVar(&a.dryRun, "dry-run", false, "Report what would change without writing")
	root.AddCommand(newAuditCmd(a), newFixUnitsCmd(a), newImportCmd(a), newBackupCmd(a), newVerifyCmd())
	return root
}

// loadCatalog opens the repo and builds a matcher over the current catalog.
func (a *app) loadCatalog(ctx context.Context) (repo, []nutrition.Ingredient, func(), error) {
	r, closeFn, err := a.open(ctx)
	if err != nil {
		return nil, nil, nil, err
	}
	catalog, err := r.ListIngredients(ctx, store.IngredientFilter{})
	if err != nil {
		closeFn()
		return nil, nil, nil, fmt.Errorf("load catalog: %w", err)
	}
	return r, catalog, closeFn, nil
}

func main() {
	log := logrus.New()
	log.Out = os.Stderr

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	log.SetLevel(cfg.LogLevel)

	a := &app{
		log: log,
		open: func(ctx context.Context) (repo, func(), error) {
			if err := cfg.RequireDatabase(); err != nil {
				return nil, nil, err
			}
			st, err := store.Open(ctx, cfg.DatabaseURL, log)
			if err != nil {
				return nil, nil, err
			}
			return st, st.Close, nil
		},
		upload: func(ctx context.Context) (uploader, error) {
			if cfg.BackupBucket == "" {
				return nil, nil
			}
			return backup.NewS3Uploader(ctx, cfg.AWSRegion, cfg.BackupBucket)
		},
	}

	if err := newRootCmd(a).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
