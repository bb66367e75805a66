// Package cmd implements CLI commands using cobra framework.
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/liulalala/switchyard/internal/config"
	"github.com/liulalala/switchyard/internal/log"
)

var (
	// Global flags
	configFile string
	logLevel   string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "switchyard",
	Short: "Switchyard - build, dissect and byte-serialize packet header stacks",
	Long: `Switchyard constructs and parses layered packet header stacks for
testing and teaching network software. It models a packet as an ordered
sequence of typed headers chained by next-header protocol numbers, with
full support for the IPv6 extension header family and its TLV options.

Examples:
  switchyard decode 0200...86dd6000...   # dissect a hex packet
  switchyard build -f stack.yml          # serialize a YAML stack description
  switchyard protocols                   # list known protocol numbers`,
	Version:       "0.1.0",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configFile)
		if err != nil {
			return err
		}
		if logLevel != "" {
			cfg.Log.Level = logLevel
		}
		if err := log.Init(cfg.Log); err != nil {
			return fmt.Errorf("failed to initialize logging: %w", err)
		}
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "",
		"config file path")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "",
		"override the configured log level")

	rootCmd.AddCommand(decodeCmd)
	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(protocolsCmd)
}
