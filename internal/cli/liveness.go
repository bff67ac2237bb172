package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/skyhr/skyhr/internal/liveness"
)

func newLivenessCommand() *cobra.Command {
	var minScore float64
	cmd := &cobra.Command{
		Use:   "liveness <response.json|->",
		Short: "Run the liveness gate on a saved registration response",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var r io.Reader = cmd.InOrStdin()
			if args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return fmt.Errorf("open response: %w", err)
				}
				defer f.Close()
				r = f
			}

			var response map[string]any
			if err := json.NewDecoder(r).Decode(&response); err != nil {
				return fmt.Errorf("decode response: %w", err)
			}

			result := liveness.Extract(response)
			verdict := liveness.NewGate(minScore).Evaluate(result)
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", verdict, result)
			if verdict.Retry() {
				fmt.Fprintln(cmd.OutOrStdout(), verdict.Message())
			}
			return nil
		},
	}
	cmd.Flags().Float64Var(&minScore, "min-score", liveness.DefaultMinScore, "lowest accepted liveness score")
	return cmd
}
