package main

// #region imports
import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/danielpatrickdp/masking-engine/go-engine/internal/persist"
)

// #endregion imports

// #region inspect-command

func newInspectCmd() *cobra.Command {
	var (
		dbPath  string
		last    int
		jsonOut bool
	)
	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "dump persisted session history",
		RunE: func(cmd *cobra.Command, args []string) error {
			if dbPath == "" {
				cfg, err := loadConfig()
				if err != nil {
					return err
				}
				dbPath = cfg.DBPath
			}
			return runInspect(dbPath, last, jsonOut)
		},
	}
	cmd.Flags().StringVar(&dbPath, "db", "", "session database path (default from SENTINEL_DB)")
	cmd.Flags().IntVar(&last, "last", 20, "show N most recent rows per table")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "output as JSON instead of text")
	return cmd
}

func runInspect(dbPath string, last int, jsonOut bool) error {
	store, err := persist.NewStore(dbPath)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer store.Close()

	snapshots, err := store.RecentSnapshots(last)
	if err != nil {
		return err
	}
	transitions, err := store.RecentTransitions(last)
	if err != nil {
		return err
	}
	prompts, err := store.RecentPrompts(last)
	if err != nil {
		return err
	}
	baselines, err := store.LoadBaselines()
	if err != nil {
		return err
	}

	if jsonOut {
		printJSON(map[string]any{
			"snapshots":   snapshots,
			"transitions": transitions,
			"prompts":     prompts,
			"baselines":   baselines,
		})
		return nil
	}

	fmt.Printf("snapshots (%d):\n", len(snapshots))
	for _, row := range snapshots {
		fmt.Printf("  %s  masking=%.3f energy=%.3f safety=%.3f env=%s\n",
			row.CreatedAt.Format("2006-01-02 15:04:05"), row.Masking, row.Energy, row.Safety, row.Environment)
	}

	fmt.Printf("transitions (%d):\n", len(transitions))
	for _, ev := range transitions {
		fmt.Printf("  %s  %-20s confidence=%.2f\n", ev.At.Format("2006-01-02 15:04:05"), ev.Type, ev.Confidence)
	}

	fmt.Printf("prompts (%d):\n", len(prompts))
	for _, rec := range prompts {
		fmt.Printf("  %s  [%s] %s\n", rec.DeliveredAt.Format("2006-01-02 15:04:05"), rec.Category, rec.Text)
	}

	fmt.Printf("baselines (%d):\n", len(baselines))
	for _, row := range baselines {
		fmt.Printf("  %-22s value=%.3f warmup=%d\n", row.Dimension, row.Value, row.WarmupCount)
	}
	return nil
}

// #endregion inspect-command
