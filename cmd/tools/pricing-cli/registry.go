package main

import (
	"fmt"

	"mentor-pricing-workers/pkg/registry"

	"github.com/spf13/cobra"
)

func newRegistryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "registry",
		Short: "Inspect the activity registry",
	}

	var path string
	validateCmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate the activity registry file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			reg, err := registry.LoadRegistry(path)
			if err != nil {
				return err
			}
			if err := reg.Validate(); err != nil {
				return fmt.Errorf("registry %s is invalid: %w", path, err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "registry %s (version %s) is valid\n", path, reg.Version)
			for _, a := range reg.Activities {
				fmt.Fprintf(out, "  %-32s %-10s timeout=%s retries=%d\n", a.TaskType, a.ImplementationStatus, a.Timeout, a.Retries)
			}
			return nil
		},
	}
	validateCmd.Flags().StringVarP(&path, "path", "p", "configs/activity-registry.json", "Path to activity-registry.json")

	cmd.AddCommand(validateCmd)
	return cmd
}
