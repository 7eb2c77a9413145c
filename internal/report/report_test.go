package report

import (
	"bytes"
	"testing"

	"github.com/fatih/color"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnolang/assertnarrow/internal/narrow"
	"github.com/gnolang/assertnarrow/internal/scenario"
)

func init() {
	color.NoColor = true
}

var sampleIssues = []scenario.Issue{
	{
		Rule:     scenario.RuleTypeMismatch,
		Filename: "b.yaml",
		Scenario: "integer",
		Call:     "Assert::integer($x)",
		Variable: "x",
		Message:  "unexpected type of $x",
		Expected: "string",
		Actual:   "int",
	},
	{
		Rule:     scenario.RuleInvalid,
		Filename: "a.yaml",
		Scenario: "broken",
		Call:     "Assert::string(",
		Message:  "invalid call",
	},
}

func TestIssues(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Issues(&buf, sampleIssues))

	expected := "error: invalid-scenario\n" +
		" --> a.yaml: broken\n" +
		"  | Assert::string(\n" +
		"  | invalid call\n\n" +
		"error: type-mismatch\n" +
		" --> b.yaml: integer\n" +
		"  | Assert::integer($x)\n" +
		"  | expected: string\n" +
		"  | actual:   int\n" +
		"  | unexpected type of $x\n\n" +
		"2 issue(s) in 2 file(s)\n"
	assert.Equal(t, expected, buf.String())
}

func TestIssuesEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Issues(&buf, nil))
	assert.Equal(t, "no issues found\n", buf.String())
}

func TestIssuesJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, IssuesJSON(&buf, sampleIssues))

	var decoded map[string][]scenario.Issue
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded, 2)
	assert.Equal(t, sampleIssues[0], decoded["b.yaml"][0])
	assert.Contains(t, buf.String(), `"rule": "invalid-scenario"`)
}

func TestResult(t *testing.T) {
	res := scenario.Result{
		Call:      "Assert::nullOrString($x)",
		Supported: true,
		Variant:   "null-tolerant",
		Condition: "(is_string($x) || ($x === null))",
		Before:    map[string]string{"x": "int|string|null", "long": "int"},
		After:     map[string]string{"x": "string|null", "long": "int"},
	}

	var buf bytes.Buffer
	require.NoError(t, Result(&buf, res))
	expected := "Assert::nullOrString($x)\n" +
		"  | variant:   null-tolerant\n" +
		"  | condition: (is_string($x) || ($x === null))\n" +
		"  $long int -> int\n" +
		"  $x    int|string|null -> string|null\n"
	assert.Equal(t, expected, buf.String())

	buf.Reset()
	require.NoError(t, ResultJSON(&buf, res))
	var decoded scenario.Result
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, res, decoded)
}

func TestResultUnsupported(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Result(&buf, scenario.Result{Call: "Assert::email($x)"}))
	assert.Equal(t, "Assert::email($x)\n  | unsupported: nothing is narrowed\n", buf.String())
}

func TestCatalog(t *testing.T) {
	c := narrow.DefaultCatalog()

	var buf bytes.Buffer
	require.NoError(t, Catalog(&buf, c))
	assert.Contains(t, buf.String(), "string/1  nullOrString allString nullOrAllString\n")
	assert.Contains(t, buf.String(), "notNull/1  nullOrNotNull allNotNull\n")

	buf.Reset()
	require.NoError(t, CatalogJSON(&buf, c))
	var decoded []catalogEntry
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Len(t, decoded, c.Len())
}
