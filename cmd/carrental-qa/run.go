package main

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
)

// Suite packages, relative to the module root.
var suitePackages = map[string][]string{
	"api": {"./tests/e2e/api/..."},
	"ui":  {"./tests/e2e/ui/..."},
	"all": {"./tests/e2e/..."},
}

type runOptions struct {
	suite   string
	run     string
	report  string
	browser string
	engine  string
	headed  bool
	verbose bool
}

// goTestArgs builds the go test command line for opts.
func goTestArgs(opts runOptions) ([]string, error) {
	pkgs, ok := suitePackages[opts.suite]
	if !ok {
		return nil, fmt.Errorf("unknown suite %q (want all, api or ui)", opts.suite)
	}
	args := []string{"test", "-tags", "e2e", "-count=1"}
	if opts.verbose {
		args = append(args, "-v")
	}
	if opts.report != "" {
		args = append(args, "-json")
	}
	if opts.run != "" {
		args = append(args, "-run", opts.run)
	}
	return append(args, pkgs...), nil
}

// suiteEnv returns the environment overrides implied by opts.
func suiteEnv(opts runOptions) []string {
	var env []string
	if opts.headed {
		env = append(env, "HEADLESS=false")
	}
	if opts.browser != "" {
		env = append(env, "BROWSER="+strings.ToLower(opts.browser))
	}
	if opts.engine != "" {
		env = append(env, "DRIVER="+strings.ToLower(opts.engine))
	}
	return env
}

// moduleRoot returns the nearest directory at or above the working directory that
// holds a go.mod.
func moduleRoot() (string, error) {
	wd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	for dir := wd; ; {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("no go.mod found at or above %s", wd)
		}
		dir = parent
	}
}

func newRunCmd() *cobra.Command {
	opts := runOptions{}
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the end-to-end suites with go test",
		Long: `Run executes the e2e-tagged suites with go test from the module root.
--report writes the go test -json event stream to a file for CI consumers.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			goArgs, err := goTestArgs(opts)
			if err != nil {
				return err
			}
			goArgs = append(goArgs, args...)

			root, err := moduleRoot()
			if err != nil {
				return err
			}
			c := exec.CommandContext(cmd.Context(), "go", goArgs...)
			c.Dir = root
			c.Env = append(os.Environ(), suiteEnv(opts)...)
			c.Stdin = os.Stdin
			c.Stderr = cmd.ErrOrStderr()
			c.Stdout = cmd.OutOrStdout()

			if opts.report != "" {
				if err := os.MkdirAll(filepath.Dir(opts.report), 0o755); err != nil {
					return fmt.Errorf("create report directory: %w", err)
				}
				f, err := os.Create(opts.report)
				if err != nil {
					return fmt.Errorf("create report: %w", err)
				}
				defer f.Close()
				c.Stdout = io.MultiWriter(f, cmd.OutOrStdout())
			}

			dimColor.Fprintf(cmd.ErrOrStderr(), "go %s\n", strings.Join(goArgs, " "))
			if err := c.Run(); err != nil {
				failColor.Fprintf(cmd.ErrOrStderr(), "✗ %s suite failed\n", opts.suite)
				return err
			}
			okColor.Fprintf(cmd.ErrOrStderr(), "✓ %s suite passed\n", opts.suite)
			if opts.report != "" {
				dimColor.Fprintf(cmd.ErrOrStderr(), "report written to %s\n", opts.report)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&opts.suite, "suite", "all", "Suite to run: all, api or ui")
	cmd.Flags().StringVar(&opts.run, "run", "", "Only run tests matching this regexp")
	cmd.Flags().StringVar(&opts.report, "report", "", "Write the go test -json stream to this file")
	cmd.Flags().StringVar(&opts.browser, "browser", "", "Override the configured browser")
	cmd.Flags().StringVar(&opts.engine, "engine", "", "Override the automation engine (playwright or rod)")
	cmd.Flags().BoolVar(&opts.headed, "headed", false, "Show the browser window")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "Pass -v to go test")
	return cmd
}
