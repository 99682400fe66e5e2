package cmd

import (
	"github.com/spf13/cobra"

	"github.com/abhisek/levelcast/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "levelcast",
	Short: "Forecast level-ups and finish dates for an SRS curriculum",
	Long: "levelcast reads your review history and projects when you will pass the current level, " +
		"when you will reach the top level, and how much faster you could get there.",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("db", "", "Path to SQLite record cache (overrides LEVELCAST_DB env var)")
	pf.Bool("demo", false, "Use a synthetic learner instead of the API")
	pf.Uint64("seed", 1, "Seed for the synthetic learner")
	pf.Bool("offline", false, "Use the last synced records from the cache")
	pf.Bool("json", false, "Print JSON instead of text (report commands)")
	pf.String("policy", "", "Run policy: latest-per-level or start-date (overrides LEVELCAST_RUN_POLICY)")

	rootCmd.MarkFlagsMutuallyExclusive("demo", "offline")

	rootCmd.AddCommand(forecastCmd)
	rootCmd.AddCommand(levelupCmd)
	rootCmd.AddCommand(speedupCmd)
	rootCmd.AddCommand(syncCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then LEVELCAST_DB env var, then the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	return store.DefaultDBPath()
}
