// Command sentinel runs the behavioral-state inference engine: a live
// session with persistence and an optional audio bridge, a deterministic
// fixture replayer, and an inspector for the on-disk session history.
package main

// #region imports
import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// #endregion imports

// #region main

func main() {
	root := &cobra.Command{
		Use:           "sentinel",
		Short:         "behavioral-state inference engine",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newRunCmd(), newReplayCmd(), newInspectCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// #endregion main
