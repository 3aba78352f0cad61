package harness

// Outcome records what one case produced.
type Outcome struct {
	Filter   string `json:"filter"`
	Matches  []int  `json:"matches,omitempty"`
	Rejected bool   `json:"rejected,omitempty"`
	Exported bool   `json:"exported,omitempty"`
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass indicates overall success: every case met its expectation.
	Pass bool `json:"pass"`

	// Outcomes has one element per case, in order.
	Outcomes []Outcome `json:"outcomes"`

	// Errors contains validation error messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:     true,
		Outcomes: []Outcome{},
		Errors:   []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}
