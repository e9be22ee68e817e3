package main

// #region imports
import (
	"fmt"

	"github.com/spf13/cobra"

	engine "github.com/danielpatrickdp/masking-engine/go-engine"
	"github.com/danielpatrickdp/masking-engine/go-engine/internal/replay"
)

// #endregion imports

// #region replay-command

func newReplayCmd() *cobra.Command {
	var verify bool
	cmd := &cobra.Command{
		Use:   "replay <fixture.json>",
		Short: "replay a recorded session fixture deterministically",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			return runReplay(args[0], verify, cfg)
		},
	}
	cmd.Flags().BoolVar(&verify, "verify", true, "check the fixture's expectations and fail on mismatch")
	return cmd
}

func runReplay(path string, verify bool, cfg appConfig) error {
	log := newLogger(cfg)

	f, err := replay.LoadFixture(path)
	if err != nil {
		return err
	}

	res, err := replay.Run(f, engine.DefaultConfig(), log)
	if err != nil {
		return err
	}

	fmt.Printf("replayed %q: %d steps\n", f.Description, len(f.Steps))
	fmt.Printf("  masking=%.3f energy=%.3f safety=%.3f env=%s\n",
		res.Snapshot.MaskingLevel, res.Snapshot.EnergyLevel, res.Snapshot.SafetyLevel, res.Snapshot.Environment)
	for _, ev := range res.Transitions {
		fmt.Printf("  transition %s confidence=%.2f at=%s\n", ev.Type, ev.Confidence, ev.At.Format("15:04:05"))
	}
	for _, rec := range res.Prompts {
		fmt.Printf("  prompt [%s] %s\n", rec.Category, rec.Text)
	}

	if verify {
		if bad := replay.Verify(f, res); len(bad) != 0 {
			for _, m := range bad {
				fmt.Printf("  MISMATCH: %s\n", m)
			}
			return fmt.Errorf("%d expectation mismatches", len(bad))
		}
		fmt.Println("  expectations met")
	}
	return nil
}

// #endregion replay-command
