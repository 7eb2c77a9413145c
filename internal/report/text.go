// Package report renders scenario issues, narrowing results and the
// predicate catalog as colored text or JSON.
package report

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/fatih/color"

	"github.com/gnolang/assertnarrow/internal/narrow"
	"github.com/gnolang/assertnarrow/internal/scenario"
)

var (
	errorStyle   = color.New(color.FgRed, color.Bold)
	ruleStyle    = color.New(color.FgYellow, color.Bold)
	fileStyle    = color.New(color.FgCyan, color.Bold)
	lineStyle    = color.New(color.FgBlue, color.Bold)
	messageStyle = color.New(color.FgRed, color.Bold)
	okStyle      = color.New(color.FgGreen, color.Bold)
)

// GroupByFile groups issues by filename and returns the sorted filenames.
func GroupByFile(issues []scenario.Issue) (map[string][]scenario.Issue, []string) {
	byFile := make(map[string][]scenario.Issue)
	for _, issue := range issues {
		byFile[issue.Filename] = append(byFile[issue.Filename], issue)
	}
	files := make([]string, 0, len(byFile))
	for filename := range byFile {
		files = append(files, filename)
	}
	sort.Strings(files)
	return byFile, files
}

// Issues writes issues grouped by file.
func Issues(w io.Writer, issues []scenario.Issue) error {
	byFile, files := GroupByFile(issues)
	var builder strings.Builder
	for _, filename := range files {
		for _, issue := range byFile[filename] {
			builder.WriteString(formatIssue(issue))
		}
	}
	if len(issues) == 0 {
		builder.WriteString(okStyle.Sprint("no issues found") + "\n")
	} else {
		builder.WriteString(errorStyle.Sprintf("%d issue(s) in %d file(s)", len(issues), len(files)) + "\n")
	}
	_, err := io.WriteString(w, builder.String())
	return err
}

func formatIssue(issue scenario.Issue) string {
	var result strings.Builder
	result.WriteString(errorStyle.Sprint("error: ") + ruleStyle.Sprint(issue.Rule) + "\n")
	result.WriteString(lineStyle.Sprint(" --> ") + fileStyle.Sprint(issue.Filename) + ": " + issue.Scenario + "\n")
	result.WriteString(lineStyle.Sprint("  | ") + issue.Call + "\n")
	if issue.Expected != "" || issue.Actual != "" {
		result.WriteString(lineStyle.Sprint("  | ") + "expected: " + issue.Expected + "\n")
		result.WriteString(lineStyle.Sprint("  | ") + "actual:   " + issue.Actual + "\n")
	}
	result.WriteString(lineStyle.Sprint("  | ") + messageStyle.Sprint(issue.Message) + "\n\n")
	return result.String()
}

// Result writes the outcome of one evaluated call.
func Result(w io.Writer, res scenario.Result) error {
	var b strings.Builder
	b.WriteString(fileStyle.Sprint(res.Call) + "\n")
	if !res.Supported {
		b.WriteString(lineStyle.Sprint("  | ") + ruleStyle.Sprint("unsupported") + ": nothing is narrowed\n")
	} else {
		b.WriteString(lineStyle.Sprint("  | ") + "variant:   " + res.Variant + "\n")
		if res.Condition != "" {
			b.WriteString(lineStyle.Sprint("  | ") + "condition: " + res.Condition + "\n")
		}
	}

	names := make([]string, 0, len(res.After))
	width := 0
	for name := range res.After {
		names = append(names, name)
		width = max(width, len(name))
	}
	sort.Strings(names)
	for _, name := range names {
		before, ok := res.Before[name]
		if !ok {
			before = "mixed"
		}
		after := res.After[name]
		style := lineStyle
		if before != after {
			style = okStyle
		}
		fmt.Fprintf(&b, "  $%-*s %s -> %s\n", width, name, before, style.Sprint(after))
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// Catalog writes one line per predicate with its arity and the prefixed
// forms it accepts.
func Catalog(w io.Writer, c *narrow.Catalog) error {
	var b strings.Builder
	for _, entry := range catalogEntries(c) {
		fmt.Fprintf(&b, "%s/%d  %s\n", ruleStyle.Sprint(entry.Name), entry.Arity, strings.Join(entry.Forms, " "))
	}
	_, err := io.WriteString(w, b.String())
	return err
}

type catalogEntry struct {
	Name  string   `json:"name"`
	Arity int      `json:"arity"`
	Forms []string `json:"forms"`
}

func catalogEntries(c *narrow.Catalog) []catalogEntry {
	names := c.Names()
	entries := make([]catalogEntry, 0, len(names))
	for _, name := range names {
		p, _ := c.Lookup(name)
		entries = append(entries, catalogEntry{Name: name, Arity: p.Arity, Forms: forms(c, name, p.Arity)})
	}
	return entries
}

// forms lists the supported spellings of a canonical predicate.
func forms(c *narrow.Catalog, name string, arity int) []string {
	upper := strings.ToUpper(name[:1]) + name[1:]
	var out []string
	for _, form := range []string{"nullOr" + upper, "all" + upper, "nullOrAll" + upper} {
		if c.Supports(form, arity) {
			out = append(out, form)
		}
	}
	return out
}
