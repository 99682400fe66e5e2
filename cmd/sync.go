package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/levelcast/internal/logger"
	"github.com/abhisek/levelcast/internal/source"
)

// syncTimeout bounds one sync, retries included.
const syncTimeout = 5 * time.Minute

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Download records into the local cache for --offline use",
	RunE: func(cmd *cobra.Command, args []string) error {
		if offline, _ := cmd.Flags().GetBool("offline"); offline {
			return errors.New("sync needs a live source; drop --offline")
		}
		keep, _ := cmd.Flags().GetInt("keep")

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		log, err := logger.New(cfg.LogMode)
		if err != nil {
			return fmt.Errorf("create logger: %w", err)
		}
		defer log.Sync()

		clock := source.SystemClock{}
		src, name, closeSrc, err := openSource(cmd, cfg, clock, log)
		if err != nil {
			return err
		}
		defer closeSrc()

		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		ctx, cancel := context.WithTimeout(cmd.Context(), syncTimeout)
		defer cancel()

		snap, err := source.Collect(ctx, src, clock)
		if err != nil {
			return fmt.Errorf("collect records: %w", err)
		}
		if err := st.Save(ctx, snap); err != nil {
			return err
		}
		if err := st.Prune(ctx, keep); err != nil {
			return err
		}

		log.Info("synced", "source", name, "level", snap.CurrentLevel, "items", len(snap.Items))
		fmt.Fprintf(cmd.OutOrStdout(), "Synced level %d: %d attempts, %d items, %d outcomes\n",
			snap.CurrentLevel, len(snap.Attempts), len(snap.Items), len(snap.Outcomes))
		return nil
	},
}

func init() {
	syncCmd.Flags().Int("keep", 10, "Number of snapshots to keep")
}
