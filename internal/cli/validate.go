package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/skyhr/skyhr/internal/attendance"
	"github.com/skyhr/skyhr/internal/backend"
)

func newValidateQRCommand(opts *rootOptions) *cobra.Command {
	var mode string
	cmd := &cobra.Command{
		Use:   "validate-qr <payload>",
		Short: "Validate a scanned QR payload against the backend",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := attendance.ParseMode(mode)
			if err != nil {
				return err
			}
			cfg, logger, err := opts.load()
			if err != nil {
				return err
			}
			client, err := backend.NewClient(cfg.BackendURL, cfg.BackendToken, cfg.BackendTimeout, logger)
			if err != nil {
				return err
			}
			validator := attendance.NewValidator(attendance.NewClient(client), logger)
			outcome := validator.Validate(cmd.Context(), m, args[0])

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			if err := enc.Encode(outcome); err != nil {
				return err
			}
			if outcome.Failed() {
				return fmt.Errorf("validation failed: %s", outcome.Message)
			}
			fmt.Fprintln(cmd.OutOrStdout(), outcome.Route())
			return nil
		},
	}
	cmd.Flags().StringVar(&mode, "mode", string(attendance.ModeAttendance), "attendance or visitor")
	return cmd
}
