package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/talentwire/cvscan/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write a default config file",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := "config.yaml"
		if len(args) == 1 {
			path = args[0]
		}
		if err := config.WriteDefault(path); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", path)
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cm, err := config.NewManager(cfgFile)
		if err != nil {
			return err
		}
		cfg := cm.Get()
		fmt.Printf("provider: %s\n", cfg.Defaults.Provider)
		fmt.Printf("workers: %d\n", cfg.Defaults.MaxWorkers)
		fmt.Printf("specialty: %s\n", cfg.Defaults.Specialty)
		fmt.Printf("format: %s\n", cfg.Defaults.Format)
		for name, p := range cfg.EnabledProviders() {
			fmt.Printf("providers.%s: %s (%s)\n", name, p.Type, p.Model)
		}
		return nil
	},
}

func init() {
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
}
