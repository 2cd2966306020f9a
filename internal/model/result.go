package model

// ResultKind distinguishes a confident match from a ranked suggestion.
type ResultKind string

// Result kinds.
const (
	ResultMatch      ResultKind = "MATCH"
	ResultSuggestion ResultKind = "SUGGESTION"
	ResultNone       ResultKind = "NONE"
)

// ResultSource indicates which stage of the waterfall produced a result.
type ResultSource string

// Result sources.
const (
	SourceRule            ResultSource = "RULE"
	SourceExactMatch      ResultSource = "EXACT_MATCH"
	SourceMachineLearning ResultSource = "MACHINE_LEARNING"
	SourceManual          ResultSource = "MANUAL"
)

// Result is the only value the engine returns for a transaction. The caller
// decides whether to apply it; the engine never touches transaction records.
type Result struct {
	Kind       ResultKind   `json:"kind"`
	Category   string       `json:"category,omitempty"`
	Source     ResultSource `json:"source,omitempty"`
	Confidence float64      `json:"confidence"`
	RuleID     string       `json:"rule_id,omitempty"`   // set when Source == SourceRule
	RuleName   string       `json:"rule_name,omitempty"` // set when Source == SourceRule
	Payee      string       `json:"payee,omitempty"`     // set when Source == SourceExactMatch
}

// NoResult is the empty outcome: no stage produced a signal.
func NoResult() Result {
	return Result{Kind: ResultNone}
}

// RuleMatch builds a confident match produced by a pattern rule.
func RuleMatch(category, ruleID, ruleName string) Result {
	return Result{
		Kind:       ResultMatch,
		Category:   category,
		Source:     SourceRule,
		Confidence: 1.0,
		RuleID:     ruleID,
		RuleName:   ruleName,
	}
}

// ExactMatch builds a confident match produced by the learned payee store.
func ExactMatch(category, payee string) Result {
	return Result{
		Kind:       ResultMatch,
		Category:   category,
		Source:     SourceExactMatch,
		Confidence: 1.0,
		Payee:      payee,
	}
}

// MLMatch builds a confident match produced by the text classifier.
func MLMatch(category string, confidence float64) Result {
	return Result{
		Kind:       ResultMatch,
		Category:   category,
		Source:     SourceMachineLearning,
		Confidence: confidence,
	}
}

// MLSuggestion builds a below-threshold classifier suggestion.
func MLSuggestion(category string, confidence float64) Result {
	return Result{
		Kind:       ResultSuggestion,
		Category:   category,
		Source:     SourceMachineLearning,
		Confidence: confidence,
	}
}
