package main

import (
	"context"
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"proformaweb/backend"
	"proformaweb/config"
)

// newPingBackendCmd checks that the configured backend answers by asking it
// for the next quote number.
func newPingBackendCmd(client *backend.Client) *cobra.Command {
	return &cobra.Command{
		Use:          "ping-backend",
		Short:        "Checks that the proformas backend is reachable",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
			defer cancel()

			start := time.Now()
			next, err := client.NextNumber(ctx)
			if err != nil {
				color.Red("✗ %s: %v", client.BaseURL(), err)
				return err
			}
			color.Green("✓ %s answered in %s", client.BaseURL(), time.Since(start).Round(time.Millisecond))
			fmt.Printf("  next quote number: %s\n", next)
			return nil
		},
	}
}

// newWriteConfigCmd writes the effective configuration to a YAML file.
func newWriteConfigCmd(cfg *config.Config) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:          "write-config",
		Short:        "Writes the effective configuration to a YAML file",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.Save(out); err != nil {
				color.Red("✗ %v", err)
				return err
			}
			color.Green("✓ configuration written to %s", out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "proformas.yaml", "destination file")
	return cmd
}
