package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/carrental-io/carrental-qa/internal/logindata"
)

func newSeedDataCmd() *cobra.Command {
	var (
		output string
		sheet  string
		force  bool
	)
	cmd := &cobra.Command{
		Use:   "seed-data",
		Short: "Write the sample data-driven login workbook",
		Long: `Seed-data writes LoginData.xlsx with the default shop login rows
(username, password, expected Pass/Fail). Without --output the configured
login_data path is used.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := output
			if path == "" {
				cfg, err := loadConfig()
				if err != nil {
					return err
				}
				path = cfg.LoginDataPath()
			}
			if path == "" {
				return fmt.Errorf("no --output given and [paths] login_data is not configured")
			}
			if _, err := os.Stat(path); err == nil && !force {
				warnColor.Fprintf(cmd.OutOrStdout(), "%s already exists. Use --force to overwrite.\n", path)
				return nil
			}

			cases := logindata.DefaultLoginCases()
			if err := logindata.WriteLoginCases(path, sheet, cases); err != nil {
				return err
			}
			okColor.Fprintf(cmd.OutOrStdout(), "✓ wrote %d login rows to %s\n", len(cases), path)
			return nil
		},
	}
	cmd.Flags().StringVar(&output, "output", "", "Workbook path (default: [paths] login_data)")
	cmd.Flags().StringVar(&sheet, "sheet", logindata.DefaultSheet, "Sheet name")
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing workbook")
	return cmd
}
