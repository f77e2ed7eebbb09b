package cmd

import (
	"context"
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/pgxplain/xplain/internal/dispatch"
	"github.com/pgxplain/xplain/internal/model"
	"github.com/pgxplain/xplain/internal/xplain"
)

var (
	summaryFile  string
	summaryQuery string
)

var (
	mutedFormat    = color.New(color.FgHiBlack).SprintFunc()
	boldFormat     = color.New(color.FgHiWhite, color.Bold).SprintFunc()
	warningFormat  = color.New(color.FgHiYellow).SprintFunc()
	criticalFormat = color.New(color.FgHiRed).SprintFunc()
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Parse an EXPLAIN plan and print a human-readable summary",
	Long: `Reads a PostgreSQL EXPLAIN plan (text or FORMAT JSON, from a file or
stdin), analyzes it, and prints the tree maxima plus every node tagged
costliest, largest, or slowest.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		source, err := readSource(summaryFile)
		if err != nil {
			return err
		}

		ctx := context.Background()
		content, route, err := dispatch.FromSourceContext(ctx, source)
		if err != nil {
			return err
		}

		plan, err := xplain.CreatePlanContext(ctx, "", content, summaryQuery)
		if err != nil {
			return err
		}

		printSummary(plan, route)
		return nil
	},
}

func printSummary(plan *model.Plan, route string) {
	fmt.Printf("%s %s %s\n", boldFormat("Plan"), plan.ID, mutedFormat("("+route+" input)"))
	fmt.Printf("  Nodes:             %s\n", humanize.Comma(int64(countNodes(plan.Content.Plan))))
	fmt.Printf("  Maximum rows:      %s\n", humanize.Commaf(plan.Content.MaximumRows))
	fmt.Printf("  Maximum cost:      %s\n", humanize.Commaf(plan.Content.MaximumCosts))
	fmt.Printf("  Maximum duration:  %s ms\n", humanize.Commaf(plan.Content.MaximumDuration))

	fmt.Println(mutedFormat("\nOutlier nodes:"))
	printOutliers(plan.Content.Plan)
}

func printOutliers(n *model.Node) {
	if n == nil {
		return
	}
	var tags []string
	if n.CostliestNode {
		tags = append(tags, criticalFormat("costliest"))
	}
	if n.LargestNode {
		tags = append(tags, warningFormat("largest"))
	}
	if n.SlowestNode {
		tags = append(tags, criticalFormat("slowest"))
	}
	if len(tags) > 0 {
		fmt.Printf("  %s %s\n", n.NodeType, tags)
	}
	for _, child := range n.Plans {
		printOutliers(child)
	}
}

func init() {
	rootCmd.AddCommand(summaryCmd)
	summaryCmd.Flags().StringVar(&summaryFile, "file", "", "Path to the EXPLAIN output (stdin if omitted)")
	summaryCmd.Flags().StringVar(&summaryQuery, "query", "", "The query text the plan was produced for")
}
