package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gnolang/assertnarrow/internal/report"
	"github.com/gnolang/assertnarrow/internal/scenario"
)

var (
	checkJSONOutput bool
	outPath         string
)

var checkCmd = &cobra.Command{
	Use:   "check [paths...]",
	Short: "Check scenario files against the narrowing engine",
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 0 {
			fmt.Println("error: Please provide file or directory paths")
			os.Exit(1)
		}

		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		runner, err := newRunner(cfgFile, logger, scenario.WithProgress(os.Stderr))
		if err != nil {
			logger.Fatal("Failed to initialize scenario runner", zap.Error(err))
		}

		found, err := runCheck(ctx, runner, args, checkJSONOutput, outPath, os.Stdout)
		if err != nil {
			logger.Error("Error checking scenarios", zap.Error(err))
			os.Exit(1)
		}
		if found {
			os.Exit(1)
		}
	},
}

func init() {
	checkCmd.Flags().BoolVar(&checkJSONOutput, "json", false, "Output issues in JSON format")
	checkCmd.Flags().StringVarP(&outPath, "output", "o", "", "Output path (when using JSON)")
}

// runCheck reports the issues found under paths and tells whether there
// were any.
func runCheck(ctx context.Context, runner *scenario.Runner, paths []string, isJSON bool, jsonOutput string, stdout io.Writer) (bool, error) {
	issues, err := runner.ProcessPaths(ctx, paths)
	if err != nil {
		return false, err
	}
	if err := printIssues(issues, isJSON, jsonOutput, stdout); err != nil {
		return false, err
	}
	return len(issues) > 0, nil
}

func printIssues(issues []scenario.Issue, isJSON bool, jsonOutput string, stdout io.Writer) error {
	if !isJSON {
		return report.Issues(stdout, issues)
	}
	if jsonOutput == "" {
		return report.IssuesJSON(stdout, issues)
	}

	f, err := os.Create(jsonOutput)
	if err != nil {
		return fmt.Errorf("error creating JSON output file: %w", err)
	}
	defer f.Close()
	if err := report.IssuesJSON(f, issues); err != nil {
		return fmt.Errorf("error writing JSON output file: %w", err)
	}
	return nil
}
