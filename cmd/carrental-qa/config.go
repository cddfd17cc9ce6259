package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect the suite configuration",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the resolved configuration with passwords redacted",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			dimColor.Fprintf(out, "# %s\n", cfg.Path())

			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			section := ""
			for _, s := range cfg.Settings() {
				if s.Section != section {
					if section != "" {
						fmt.Fprintln(w)
					}
					section = s.Section
					fmt.Fprintf(w, "[%s]\n", section)
				}
				fmt.Fprintf(w, "%s\t= %s\n", s.Key, s.Value)
			}
			if err := w.Flush(); err != nil {
				return err
			}

			fmt.Fprintln(out)
			width, height := cfg.WindowSize()
			fmt.Fprintf(out, "engine=%s browser=%s headless=%t window=%dx%d\n",
				cfg.Engine(), cfg.Browser(), cfg.Headless(), width, height)
			if cfg.LoginDataPath() == "" {
				warnColor.Fprintln(out, "login_data not configured: data-driven shop login will be skipped")
			}
			return nil
		},
	})
	return cmd
}
