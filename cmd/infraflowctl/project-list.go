package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/infraflow-ai/infraflow/pkg/filter"
	"github.com/infraflow-ai/infraflow/pkg/model"
	"github.com/infraflow-ai/infraflow/pkg/portfolio"
	"github.com/infraflow-ai/infraflow/pkg/report"
	"github.com/infraflow-ai/infraflow/pkg/server/store"
	gormstore "github.com/infraflow-ai/infraflow/pkg/server/store/gorm"
)

var projectListCmd = &cobra.Command{
	Use:   "list",
	Short: "List projects",
	Long: `List projects with the same filtering and sorting as the API.

Example:
  infraflowctl project list --status active --sort investment
  infraflowctl project list --search wind --filter 'total_value > 100000000'
  infraflowctl project list --country Kenya -o json`,
	Run: func(cmd *cobra.Command, args []string) {
		var opts listOptions
		opts.Country, _ = cmd.Flags().GetString("country")
		opts.Sector, _ = cmd.Flags().GetString("sector")
		opts.Status, _ = cmd.Flags().GetString("status")
		opts.Search, _ = cmd.Flags().GetString("search")
		opts.Sort, _ = cmd.Flags().GetString("sort")
		opts.Filter, _ = cmd.Flags().GetString("filter")
		output, _ := cmd.Flags().GetString("output")

		database, err := openDatabase()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		projects, err := listProjects(context.Background(), gormstore.NewProjectStore(database), opts)
		if err == nil {
			err = writeProjects(os.Stdout, projects, output)
		}
		if err != nil {
			fmt.Fprintln(os.Stderr, "Failed to list projects:", err)
			os.Exit(1)
		}
	},
}

func init() {
	projectCmd.AddCommand(projectListCmd)
	projectListCmd.Flags().String("country", "", "only projects in this country")
	projectListCmd.Flags().String("sector", "", "only projects in this sector")
	projectListCmd.Flags().String("status", "", `only projects with this status ("all" for every status)`)
	projectListCmd.Flags().String("search", "", "case-insensitive match on name, country or description")
	projectListCmd.Flags().String("sort", string(portfolio.DefaultSort), "sort by name, investment or date")
	projectListCmd.Flags().String("filter", "", "AIP-160 filter expression")
	projectListCmd.Flags().StringP("output", "o", "table", "Output format (table or json)")
}

type listOptions struct {
	Country string
	Sector  string
	Status  string
	Search  string
	Sort    string
	Filter  string
}

func listProjects(ctx context.Context, projects store.ProjectStore, opts listOptions) ([]model.Project, error) {
	key, ok := portfolio.ParseSortKey(opts.Sort)
	if !ok {
		return nil, fmt.Errorf("unknown sort %q", opts.Sort)
	}
	if opts.Status != "" && opts.Status != portfolio.StatusAll {
		if _, err := model.ProjectStatusString(opts.Status); err != nil {
			return nil, err
		}
	}

	q := store.ProjectQuery{Country: opts.Country}
	if opts.Sector != "" {
		sector, err := model.SectorTypeString(opts.Sector)
		if err != nil {
			return nil, err
		}
		q.Sector = &sector
	}
	cond, err := filter.Parse(opts.Filter, filter.ProjectSchema())
	if err != nil {
		return nil, err
	}
	q.Condition = cond

	all, err := projects.ListProjects(ctx, q)
	if err != nil {
		return nil, err
	}
	return portfolio.Apply(all, portfolio.Query{Status: opts.Status, Search: opts.Search}, key), nil
}

func writeProjects(w io.Writer, projects []model.Project, output string) error {
	switch output {
	case "json":
		if projects == nil {
			projects = []model.Project{}
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(projects)
	case "table":
	default:
		return fmt.Errorf("unknown output format %q", output)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tCOUNTRY\tSECTOR\tSTATUS\tVALUE\tRISK")
	for _, p := range projects {
		value := "-"
		if p.TotalValue != nil {
			value = p.Currency + " " + report.Compact(*p.TotalValue)
		}
		risk := "-"
		if p.RiskScore != nil {
			risk = fmt.Sprintf("%.1f", *p.RiskScore)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n", p.ID, p.Name, p.Country, p.Sector, p.Status, value, risk)
	}
	fmt.Fprintf(tw, "\n%d project(s)\n", len(projects))
	return tw.Flush()
}
