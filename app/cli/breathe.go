package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
)

type breathingPhase struct {
	Name    string
	Seconds int
}

var breathingPhases = []breathingPhase{
	{Name: "Breathe in", Seconds: 4},
	{Name: "Hold", Seconds: 4},
	{Name: "Breathe out", Seconds: 4},
}

var breatheCycles int

func init() {
	cmd := &cobra.Command{
		Use:   "breathe",
		Short: "Guided 4-4-4 breathing exercise",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := signalContext(cmd.Context())
			defer cancel()

			return runBreathing(ctx, cmd.OutOrStdout(), breatheCycles, time.Second)
		},
	}
	cmd.Flags().IntVar(&breatheCycles, "cycles", 3, "Number of breathing cycles")

	RootCmd.AddCommand(cmd)
}

// runBreathing counts down every phase, one tick per second of the phase.
func runBreathing(ctx context.Context, out io.Writer, cycles int, tick time.Duration) error {
	if cycles <= 0 {
		return fmt.Errorf("cycles must be positive, got %d", cycles)
	}

	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	for cycle := 1; cycle <= cycles; cycle++ {
		fmt.Fprintf(out, "Cycle %d/%d\n", cycle, cycles)

		for _, phase := range breathingPhases {
			for left := phase.Seconds; left > 0; left-- {
				fmt.Fprintf(out, "  %s... %d\n", phase.Name, left)

				select {
				case <-ctx.Done():
					fmt.Fprintln(out, "Stopped.")
					return nil
				case <-ticker.C:
				}
			}
		}
	}

	fmt.Fprintln(out, "Well done. Notice how you feel now.")

	return nil
}
