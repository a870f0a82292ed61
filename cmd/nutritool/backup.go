package main

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/media2net-app/mihaelafitness/internal/backup"
	"github.com/media2net-app/mihaelafitness/internal/store"
)

func newBackupCmd(a *app) *cobra.Command {
	var out string
	var overwrite bool
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Snapshot the catalog and plans into a SQLite file, uploading it when a bucket is configured",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if out == "" {
				out = filepath.Join("backups", fmt.Sprintf("nutrition-%s.db", time.Now().Format("20060102-150405")))
			}

			r, closeFn, err := a.open(ctx)
			if err != nil {
				return err
			}
			defer closeFn()

			ingredients, err := r.ListIngredients(ctx, store.IngredientFilter{})
			if err != nil {
				return fmt.Errorf("load catalog: %w", err)
			}
			plans, err := r.ListPlansWithMenus(ctx)
			if err != nil {
				return fmt.Errorf("load plans: %w", err)
			}

			w := cmd.OutOrStdout()
			if a.dryRun {
				fmt.Fprintf(w, "Would write %d ingredient(s) and %d plan(s) to %s\n", len(ingredients), len(plans), out)
				return nil
			}

			info, err := backup.WriteSQLite(ctx, out, ingredients, plans, overwrite)
			if err != nil {
				return err
			}
			fmt.Fprintf(w, "Created backup: %s\n", info.Path)
			fmt.Fprintf(w, "Checksum: %s\n", info.Checksum)
			fmt.Fprintf(w, "Ingredients: %d, plans: %d\n", info.Ingredients, info.Plans)

			up, err := a.upload(ctx)
			if err != nil {
				return err
			}
			if up == nil {
				return nil
			}
			key, err := up.Upload(ctx, info.Path, info.Checksum)
			if err != nil {
				return err
			}
			fmt.Fprintf(w, "Uploaded: %s\n", key)
			return nil
		},
	}
	cmd.Flags().StringVar(&out, "out", "", "Output file (default backups/nutrition-<timestamp>.db)")
	cmd.Flags().BoolVar(&overwrite, "force", false, "Overwrite the output file if present")
	return cmd
}
