package scenario

import (
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/gnolang/assertnarrow/internal/analysis"
	"github.com/gnolang/assertnarrow/internal/narrow"
	"github.com/gnolang/assertnarrow/internal/types"
)

// Result is the outcome of one scenario.
type Result struct {
	Scenario  string `json:"scenario"`
	Call      string `json:"call"`
	Supported bool   `json:"supported"`
	Variant   string `json:"variant"`
	// Condition is the synthesized condition, empty when there is none.
	Condition string            `json:"condition,omitempty"`
	Before    map[string]string `json:"before"`
	After     map[string]string `json:"after"`
}

// Runner evaluates scenarios. It is safe for concurrent use.
type Runner struct {
	c        *types.Combinator
	ext      *narrow.Extension
	logger   *zap.Logger
	progress io.Writer
}

// Option configures a Runner.
type Option func(*runnerOptions)

type runnerOptions struct {
	logger   *zap.Logger
	progress io.Writer
	narrow   []narrow.Option
}

// WithLogger sets the logger of the runner and of its extension.
func WithLogger(logger *zap.Logger) Option {
	return func(o *runnerOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithProgress shows a progress bar on w while processing directories.
func WithProgress(w io.Writer) Option {
	return func(o *runnerOptions) {
		o.progress = w
	}
}

// WithNarrowOptions passes options to the narrowing extension.
func WithNarrowOptions(opts ...narrow.Option) Option {
	return func(o *runnerOptions) {
		o.narrow = append(o.narrow, opts...)
	}
}

// NewRunner creates a runner whose object types resolve against classes.
func NewRunner(classes *types.ClassTable, opts ...Option) *Runner {
	o := runnerOptions{logger: zap.NewNop(), progress: io.Discard}
	for _, opt := range opts {
		opt(&o)
	}

	c := types.NewCombinator(classes)
	extOpts := append([]narrow.Option{narrow.WithLogger(o.logger)}, o.narrow...)
	return &Runner{
		c:        c,
		ext:      narrow.New(analysis.NewSpecifier(c), c, extOpts...),
		logger:   o.logger,
		progress: o.progress,
	}
}

// Extension returns the narrowing extension used by the runner.
func (r *Runner) Extension() *narrow.Extension {
	return r.ext
}

// Scope builds a scope from variable types.
func (r *Runner) Scope(vars map[string]string) (*analysis.Scope, error) {
	scope := analysis.NewScope(r.c)
	for name, typ := range vars {
		t, err := r.c.Parse(typ)
		if err != nil {
			return nil, fmt.Errorf("type of $%s: %w", name, err)
		}
		scope = scope.Assign(name, t)
	}
	return scope, nil
}

// Evaluate runs the call of s against its scope. Errors are malformed
// scenarios or *narrow.InvariantError.
func (r *Runner) Evaluate(s Scenario) (Result, error) {
	call, err := ParseCall(s.Call)
	if err != nil {
		return Result{}, err
	}
	scope, err := r.Scope(s.Scope)
	if err != nil {
		return Result{}, err
	}

	_, variant := narrow.Describe(call.Name)
	res := Result{
		Scenario:  s.Name,
		Call:      call.String(),
		Supported: r.ext.IsSupported(call.Name, len(call.Args)),
		Variant:   variant.String(),
		Before:    describeScope(scope),
	}
	if res.Supported {
		if cond := r.ext.Catalog().Synthesize(scope, call); cond != nil {
			res.Condition = cond.String()
		}
	}

	specified, err := r.ext.SpecifyTypes(scope, call)
	if err != nil {
		return res, err
	}
	res.After = describeScope(scope.Filter(specified))

	r.logger.Debug("evaluated scenario",
		zap.String("scenario", s.Name),
		zap.String("call", res.Call),
		zap.Bool("supported", res.Supported),
		zap.Any("after", res.After),
	)
	return res, nil
}

func describeScope(scope *analysis.Scope) map[string]string {
	out := make(map[string]string)
	for _, name := range scope.Names() {
		out[name] = scope.Var(name).String()
	}
	return out
}

// Check evaluates every scenario of f and returns the mismatches.
func (r *Runner) Check(filename string, f File) []Issue {
	var issues []Issue
	for _, s := range f.Scenarios {
		issues = append(issues, r.checkScenario(filename, s)...)
	}
	return issues
}

func (r *Runner) checkScenario(filename string, s Scenario) []Issue {
	base := Issue{Filename: filename, Scenario: s.Name, Call: s.Call}
	issueOf := func(rule, format string, args ...any) Issue {
		issue := base
		issue.Rule = rule
		issue.Message = fmt.Sprintf(format, args...)
		return issue
	}

	res, err := r.Evaluate(s)
	switch {
	case errors.Is(err, narrow.ErrInvariant):
		r.logger.Error("narrowing invariant violated", zap.String("file", filename), zap.String("scenario", s.Name), zap.Error(err))
		return []Issue{issueOf(RuleInvariant, "%v", err)}
	case err != nil:
		return []Issue{issueOf(RuleInvalid, "%v", err)}
	}

	var issues []Issue
	if s.Supported != nil && *s.Supported != res.Supported {
		issue := issueOf(RuleSupportMismatch, "support decision differs")
		issue.Expected = fmt.Sprint(*s.Supported)
		issue.Actual = fmt.Sprint(res.Supported)
		issues = append(issues, issue)
	}

	for _, name := range sortedKeys(s.Expect) {
		want, err := r.c.Parse(s.Expect[name])
		if err != nil {
			issues = append(issues, issueOf(RuleInvalid, "expected type of $%s: %v", name, err))
			continue
		}
		got, ok := res.After[name]
		if !ok {
			got = types.MixedType{}.String()
		}
		if want.String() != got {
			issue := issueOf(RuleTypeMismatch, "unexpected type of $%s", name)
			issue.Variable = name
			issue.Expected = want.String()
			issue.Actual = got
			issues = append(issues, issue)
		}
	}
	return issues
}
