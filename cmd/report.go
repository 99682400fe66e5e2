package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/levelcast/internal/pace"
	"github.com/abhisek/levelcast/internal/session"
	"github.com/abhisek/levelcast/internal/speedup"
	"github.com/abhisek/levelcast/internal/ui/format"
)

var forecastCmd = &cobra.Command{
	Use:   "forecast",
	Short: "Project when you reach the top level under each pace scenario",
	RunE: func(cmd *cobra.Command, args []string) error {
		scenario, err := pace.ParseScenario(mustString(cmd, "scenario"))
		if err != nil {
			return err
		}
		target, _ := cmd.Flags().GetInt("target")

		r, err := buildReport(cmd)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if jsonOutput(cmd) {
			return writeJSON(out, r)
		}
		return printForecast(out, r, scenario, target)
	},
}

var levelupCmd = &cobra.Command{
	Use:   "levelup",
	Short: "Estimate when the current level will be passed",
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := buildReport(cmd)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if jsonOutput(cmd) {
			return writeJSON(out, r.LevelUp)
		}
		printLevelUp(out, r)
		return nil
	},
}

var speedupCmd = &cobra.Command{
	Use:   "speedup",
	Short: "Show how much time missed windows and mistakes cost",
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := buildReport(cmd)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if r.Speedup == nil {
			return pace.ErrInsufficientHistory
		}
		if jsonOutput(cmd) {
			return writeJSON(out, r.Speedup)
		}
		printSpeedup(out, r)
		return nil
	},
}

func init() {
	forecastCmd.Flags().String("scenario", "", "Scenario for the what-if line: fast, median, average, recent or slow")
	forecastCmd.Flags().Int("target", 0, "What-if target level (default: the ceiling)")
}

func mustString(cmd *cobra.Command, name string) string {
	s, _ := cmd.Flags().GetString(name)
	return s
}

func jsonOutput(cmd *cobra.Command) bool {
	b, _ := cmd.Flags().GetBool("json")
	return b
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printForecast(w io.Writer, r *session.Report, scenario pace.Scenario, target int) error {
	fmt.Fprintf(w, "Level %d of %d, %s policy\n\n", r.CurrentLevel, r.Ceiling, r.Policy)
	if r.InsufficientHistory {
		fmt.Fprintln(w, "Not enough completed levels to forecast a pace yet.")
		return nil
	}

	fmt.Fprintf(w, "%-26s  %12s  %-22s  %8s\n", "Scenario", "Pace", "Reaches top", "Days")
	fmt.Fprintln(w, strings.Repeat("─", 74))
	for _, p := range r.Projections {
		fmt.Fprintf(w, "%-26s  %12s  %-22s  %8.0f\n",
			p.Scenario.Label(), format.Days(p.PaceDays), format.Date(p.FinishAt, r.Location), p.DaysToGo)
	}

	if target == 0 {
		target = r.Ceiling
	}
	p, err := r.WhatIf(target, scenario)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "\nLevel %d at the %s pace: %s (%s)\n",
		target, strings.ToLower(scenario.Label()), format.Date(p.FinishAt, r.Location), format.Until(r.GeneratedAt, p.FinishAt))
	return nil
}

func printLevelUp(w io.Writer, r *session.Report) {
	res := r.LevelUp
	fmt.Fprintf(w, "Level %d passes %s (%s)\n", r.CurrentLevel,
		format.Date(res.LevelUpAt, r.Location), format.Until(r.GeneratedAt, res.LevelUpAt))
	fmt.Fprintf(w, "Gate: %s, %d blocking items\n", res.Gate, res.BlockingCount)
	if c := res.Critical; c != nil {
		fmt.Fprintf(w, "Slowest item: #%d (%s, stage %d) masters %s\n",
			c.ID, c.Type, c.Stage, format.Date(c.MasteredAt, r.Location))
	}
	if res.BlockingCount == 0 {
		return
	}
	fmt.Fprintln(w)
	for stage, n := range res.StageBreakdown {
		fmt.Fprintf(w, "Stage %d  %3d\n", stage, n)
	}
}

func printSpeedup(w io.Writer, r *session.Report) {
	res := r.Speedup
	fmt.Fprintf(w, "%-22s %s per level\n", "Your pace", format.Days(res.ActualPace))
	fmt.Fprintf(w, "%-22s %s per level\n", "Ideal pace", format.Days(res.IdealPace))
	fmt.Fprintf(w, "%-22s %s per level\n\n", "Both fixed", format.Days(res.BothOptimizedPace))

	fmt.Fprintf(w, "%-22s %s per level\n", "Lost to windows", format.Days(res.WindowLostPerLevel))
	fmt.Fprintf(w, "%-22s %s per level\n\n", "Lost to mistakes", format.Days(res.MistakeLostPerLevel))

	fmt.Fprintf(w, "Over the last %d levels:\n", res.LevelsRemaining)
	fmt.Fprintf(w, "  %-20s save %s\n", "Every window", format.Days(res.WindowSaving))
	fmt.Fprintf(w, "  %-20s save %s\n", "No mistakes", format.Days(res.MistakeSaving))
	fmt.Fprintf(w, "  %-20s save %s\n\n", "Both", format.Days(res.CombinedSaving))

	acc := res.Accuracy
	fmt.Fprintf(w, "Accuracy %s over %d answers, %d leeches\n", format.Percent(acc.Percent), acc.TotalAnswers, acc.Leeches)
	if r.Snapshot != nil {
		for i, o := range speedup.Leeches(r.Snapshot.Outcomes, res.LeechThreshold) {
			if i == 5 {
				break
			}
			fmt.Fprintf(w, "  #%-7d %3d wrong\n", o.ItemID, o.Incorrect())
		}
	}
}
