package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/pgxplain/xplain/internal/config"
	"github.com/pgxplain/xplain/internal/dispatch"
	"github.com/pgxplain/xplain/internal/xplain"
)

var (
	parseFile  string
	parseName  string
	parseQuery string
	parseOut   string
)

var parseCmd = &cobra.Command{
	Use:   "parse",
	Short: "Parse an EXPLAIN plan and print the annotated plan as JSON",
	Long: `Reads a PostgreSQL EXPLAIN plan (text or FORMAT JSON, from a file or
stdin), dispatches it to the appropriate parser, builds a Plan envelope,
and prints the analyzed result as JSON.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		source, err := readSource(parseFile)
		if err != nil {
			return err
		}

		ctx := context.Background()
		started := time.Now()

		content, route, err := dispatch.FromSourceContext(ctx, source)
		if err != nil {
			log.WithField("route", route).WithError(err).Error("dispatch failed")
			return err
		}

		plan, err := xplain.CreatePlanContext(ctx, parseName, content, parseQuery)
		if err != nil {
			log.WithField("route", route).WithError(err).Error("create_plan failed")
			return err
		}

		log.WithFields(logrus.Fields{
			"route":     route,
			"plan_id":   plan.ID,
			"nodes":     countNodes(plan.Content.Plan),
			"elapsed_s": time.Since(started).Seconds(),
		}).Info("parsed explain plan")

		return writeJSON(plan, parseOut)
	},
}

func writeJSON(v any, outPath string) error {
	var data []byte
	var err error
	if config.Active().PrettyJSON {
		data, err = json.MarshalIndent(v, "", "  ")
	} else {
		data, err = json.Marshal(v)
	}
	if err != nil {
		return fmt.Errorf("marshal plan: %w", err)
	}
	data = append(data, '\n')

	if outPath == "" {
		_, err = os.Stdout.Write(data)
		return err
	}
	return os.WriteFile(outPath, data, 0o644)
}

func init() {
	rootCmd.AddCommand(parseCmd)
	parseCmd.Flags().StringVar(&parseFile, "file", "", "Path to the EXPLAIN output (stdin if omitted)")
	parseCmd.Flags().StringVar(&parseName, "name", "", "Name recorded on the plan envelope")
	parseCmd.Flags().StringVar(&parseQuery, "query", "", "The query text the plan was produced for")
	parseCmd.Flags().StringVar(&parseOut, "out", "", "Output path (stdout if omitted)")
}
