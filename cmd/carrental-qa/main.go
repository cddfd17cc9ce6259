package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/carrental-io/carrental-qa/internal/config"
	"github.com/carrental-io/carrental-qa/internal/version"
)

var (
	okColor   = color.New(color.FgGreen)
	failColor = color.New(color.FgRed)
	warnColor = color.New(color.FgYellow)
	dimColor  = color.New(color.Faint)
)

var configPathFlag string

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "carrental-qa",
		Short: "Car rental QA CLI - end-to-end suites for the rental app and the demo shop",
		Long: `Car rental QA Command Line Interface

Runs the UI and API end-to-end suites against a configured environment,
checks that the environment is reachable, and prepares suite data.`,
		Version:       version.Full(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if configPathFlag == "" {
				return nil
			}
			// Exported so go test children, which run in their package directories,
			// resolve the same file.
			abs, err := filepath.Abs(configPathFlag)
			if err != nil {
				return fmt.Errorf("resolve --config: %w", err)
			}
			return os.Setenv(config.PathEnv, abs)
		},
	}
	root.PersistentFlags().StringVar(&configPathFlag, "config", "", "Path to config.ini (default: config/config.ini found upwards, or $"+config.PathEnv+")")

	root.AddCommand(newCheckCmd())
	root.AddCommand(newRunCmd())
	root.AddCommand(newConfigCmd())
	root.AddCommand(newSeedDataCmd())
	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "carrental-qa %s\n", version.Full())
		},
	})
	return root
}

// loadConfig resolves and loads the configuration for a command.
func loadConfig() (*config.Config, error) {
	path, err := config.Discover()
	if err != nil {
		return nil, err
	}
	return config.Load(path)
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		failColor.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
