package scenario

// Issue rule names.
const (
	RuleTypeMismatch    = "type-mismatch"
	RuleSupportMismatch = "support-mismatch"
	RuleInvariant       = "invariant-violation"
	RuleInvalid         = "invalid-scenario"
)

// Issue represents a scenario whose outcome differs from its expectation.
type Issue struct {
	Rule     string `json:"rule"`
	Filename string `json:"filename"`
	Scenario string `json:"scenario"`
	Call     string `json:"call"`
	Variable string `json:"variable,omitempty"`
	Message  string `json:"message"`
	Expected string `json:"expected,omitempty"`
	Actual   string `json:"actual,omitempty"`
}
