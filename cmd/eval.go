package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gnolang/assertnarrow/internal/report"
	"github.com/gnolang/assertnarrow/internal/scenario"
)

var (
	scopeVars      []string
	evalJSONOutput bool
)

var evalCmd = &cobra.Command{
	Use:   "eval <call>",
	Short: "Narrow the arguments of one assertion call",
	Long: `Evaluates one assertion call and prints the variable types before and after it.
Example) assertnarrow eval --scope 'x=string|null' 'Assert::nullOrString($x)'`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runner, err := newRunner(cfgFile, logger)
		if err != nil {
			logger.Fatal("Failed to initialize scenario runner", zap.Error(err))
		}
		if err := runEval(runner, args[0], scopeVars, evalJSONOutput, os.Stdout); err != nil {
			logger.Error("Error evaluating call", zap.Error(err))
			os.Exit(1)
		}
	},
}

func init() {
	evalCmd.Flags().StringArrayVarP(&scopeVars, "scope", "s", nil, "Variable type as name=type, repeatable")
	evalCmd.Flags().BoolVar(&evalJSONOutput, "json", false, "Output the result in JSON format")
}

func runEval(runner *scenario.Runner, call string, vars []string, isJSON bool, stdout io.Writer) error {
	scope, err := parseScopeFlags(vars)
	if err != nil {
		return err
	}
	res, err := runner.Evaluate(scenario.Scenario{Name: call, Scope: scope, Call: call})
	if err != nil {
		return err
	}
	if isJSON {
		return report.ResultJSON(stdout, res)
	}
	return report.Result(stdout, res)
}

// parseScopeFlags reads name=type pairs. The name may carry a dollar sign.
func parseScopeFlags(vars []string) (map[string]string, error) {
	scope := make(map[string]string, len(vars))
	for _, v := range vars {
		name, typ, ok := strings.Cut(v, "=")
		name = strings.TrimPrefix(strings.TrimSpace(name), "$")
		if !ok || name == "" || strings.TrimSpace(typ) == "" {
			return nil, fmt.Errorf("invalid scope %q: expected name=type", v)
		}
		scope[name] = strings.TrimSpace(typ)
	}
	return scope, nil
}
