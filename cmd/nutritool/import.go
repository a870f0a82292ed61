package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/media2net-app/mihaelafitness/internal/nutrition"
	"github.com/media2net-app/mihaelafitness/internal/store"
)

// readImportFile accepts either a bare array of entries or {"ingredients": [...]}.
func readImportFile(path string) ([]nutrition.Ingredient, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	var entries []nutrition.Ingredient
	if err := json.Unmarshal(data, &entries); err == nil {
		return entries, nil
	}
	var wrapped struct {
		Ingredients []nutrition.Ingredient `json:"ingredients"`
	}
	if err := json.Unmarshal(data, &wrapped); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return wrapped.Ingredients, nil
}

func newImportCmd(a *app) *cobra.Command {
	var mode string
	cmd := &cobra.Command{
		Use:   "import <file.json>",
		Short: "Bulk import catalog entries from a JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m := store.ImportMode(mode)
			if !m.Valid() {
				return fmt.Errorf("--mode must be skip-existing, update-existing or upsert")
			}
			raw, err := readImportFile(args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			entries := make([]nutrition.Ingredient, 0, len(raw))
			for _, e := range raw {
				entries = append(entries, nutrition.PrepareImport(e))
			}
			if a.dryRun {
				for _, e := range entries {
					fmt.Fprintf(out, "%s\t%s\t%.0f kcal\n", e.Name, e.Per, e.Calories)
				}
				fmt.Fprintf(out, "\n%d entries parsed (dry run, nothing written)\n", len(entries))
				return nil
			}

			r, closeFn, err := a.open(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			res := r.BulkImport(cmd.Context(), entries, m)
			fmt.Fprintf(out, "created=%d updated=%d skipped=%d errors=%d\n",
				res.Created, res.Updated, res.Skipped, len(res.Errors))
			for _, e := range res.Errors {
				fmt.Fprintf(out, "  error: %s\n", e)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&mode, "mode", string(store.ImportSkipExisting), "skip-existing, update-existing or upsert")
	return cmd
}
