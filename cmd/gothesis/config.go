package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"gothesis/internal/config"
)

func newConfigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect or save the effective configuration",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := yaml.Marshal(a.cfg)
			if err != nil {
				return fmt.Errorf("marshal yaml: %w", err)
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "save [path]",
		Short: "Write the effective configuration to a YAML file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.Save(a.cfg, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "configuration written to %s\n", args[0])
			return nil
		},
	})
	return cmd
}
