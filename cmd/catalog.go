package cmd

import (
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gnolang/assertnarrow/internal/report"
	"github.com/gnolang/assertnarrow/internal/scenario"
)

var catalogJSONOutput bool

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "List the assertions that narrow types",
	Run: func(cmd *cobra.Command, args []string) {
		runner, err := newRunner(cfgFile, logger)
		if err != nil {
			logger.Fatal("Failed to initialize scenario runner", zap.Error(err))
		}
		if err := printCatalog(runner, catalogJSONOutput, os.Stdout); err != nil {
			logger.Error("Error printing catalog", zap.Error(err))
			os.Exit(1)
		}
	},
}

func init() {
	catalogCmd.Flags().BoolVar(&catalogJSONOutput, "json", false, "Output the catalog in JSON format")
}

func printCatalog(runner *scenario.Runner, isJSON bool, stdout io.Writer) error {
	c := runner.Extension().Catalog()
	if isJSON {
		return report.CatalogJSON(stdout, c)
	}
	return report.Catalog(stdout, c)
}
