package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/media2net-app/mihaelafitness/internal/nutrition"
)

// newFixUnitsCmd re-points tokens whose matched entry cannot be measured in
// the token's unit ("150g" against a per-piece egg) to a sibling entry that
// can. Plans are updated one at a time; a failed plan is reported and the
// pass continues.
func newFixUnitsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "fix-units",
		Short: "Rewrite plan tokens whose unit conflicts with the matched entry's basis",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			r, catalog, closeFn, err := a.loadCatalog(ctx)
			if err != nil {
				return err
			}
			defer closeFn()

			plans, err := r.ListPlansWithMenus(ctx)
			if err != nil {
				return fmt.Errorf("load plans: %w", err)
			}

			out := cmd.OutOrStdout()
			m := nutrition.NewMatcher(catalog)
			var total, updated int
			var failed []string
			for _, p := range plans {
				menu, fixes := nutrition.RepairUnits(p.WeekMenu, m)
				if len(fixes) == 0 {
					continue
				}
				total += len(fixes)
				for _, f := range fixes {
					fmt.Fprintf(out, "%s %s/%s #%d: %q %s -> %s\n", p.Name, f.Day, f.Meal, f.Index, f.Token, f.From, f.To)
				}
				if a.dryRun {
					continue
				}
				if err := r.UpdateWeekMenu(ctx, p.ID, menu); err != nil {
					a.log.WithField("plan", p.ID).Errorf("[fix-units] update failed: %v", err)
					failed = append(failed, p.Name)
					continue
				}
				updated++
			}

			switch {
			case a.dryRun:
				fmt.Fprintf(out, "\n%d token(s) would change (dry run, nothing written)\n", total)
			default:
				fmt.Fprintf(out, "\n%d token(s) fixed in %d plan(s)\n", total, updated)
			}
			if len(failed) > 0 {
				return fmt.Errorf("%d plan(s) could not be updated: %v", len(failed), failed)
			}
			return nil
		},
	}
}
