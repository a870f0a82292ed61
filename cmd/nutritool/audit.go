package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/media2net-app/mihaelafitness/internal/nutrition"
)

func newAuditCmd(a *app) *cobra.Command {
	var catalogOnly bool
	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Report catalog inconsistencies and unresolved plan ingredients",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			r, catalog, closeFn, err := a.loadCatalog(ctx)
			if err != nil {
				return err
			}
			defer closeFn()

			out := cmd.OutOrStdout()
			issues := nutrition.AuditCatalog(catalog)
			fmt.Fprintf(out, "Catalog: %d entries, %d issue(s)\n", len(catalog), len(issues))
			if len(issues) > 0 {
				tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "KIND\tID\tNAME\tDETAIL")
				for _, is := range issues {
					fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", is.Kind, is.IngredientID, is.Name, is.Detail)
				}
				tw.Flush()
			}
			if catalogOnly {
				return nil
			}

			plans, err := r.ListPlansWithMenus(ctx)
			if err != nil {
				return fmt.Errorf("load plans: %w", err)
			}
			m := nutrition.NewMatcher(catalog)
			var planIssues []nutrition.PlanIssue
			for _, p := range plans {
				planIssues = append(planIssues, nutrition.AuditPlan(p.ID, p.Name, p.WeekMenu, m)...)
			}
			fmt.Fprintf(out, "\nPlans: %d checked, %d issue(s)\n", len(plans), len(planIssues))
			if len(planIssues) > 0 {
				tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "PLAN\tDAY\tMEAL\tKIND\tINGREDIENT\tSUGGESTIONS")
				for _, is := range planIssues {
					fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
						is.PlanName, is.Day, is.Meal, is.Kind, is.Ingredient, strings.Join(is.Suggestions, ", "))
				}
				tw.Flush()
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&catalogOnly, "catalog-only", false, "Skip the plan report")
	return cmd
}
