package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/media2net-app/mihaelafitness/internal/backup"
	"github.com/media2net-app/mihaelafitness/internal/nutrition"
)

// verify reads a snapshot back without touching the database: every menu must
// decode and every plan is audited against the snapshot's own catalog.
func newVerifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "verify <snapshot.db>",
		Short: "Check that a backup snapshot is readable and self-consistent",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ingredients, plans, err := backup.ReadSQLite(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			m := nutrition.NewMatcher(ingredients)
			unresolved := 0
			for _, p := range plans {
				unresolved += len(nutrition.AuditPlan(p.ID, p.Name, p.WeekMenu, m))
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Snapshot %s\n", args[0])
			fmt.Fprintf(out, "Ingredients: %d, plans: %d\n", len(ingredients), len(plans))
			fmt.Fprintf(out, "Plan issues against snapshot catalog: %d\n", unresolved)
			return nil
		},
	}
}
