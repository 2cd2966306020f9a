// Package model defines the core domain models used throughout the application.
package model

import "time"

// RuleType selects the matching semantics of a categorization rule.
type RuleType string

// Rule type constants. Exactly one pattern semantics applies per type.
const (
	RuleRegex          RuleType = "REGEX"
	RuleContains       RuleType = "CONTAINS"
	RuleStartsWith     RuleType = "STARTS_WITH"
	RuleEndsWith       RuleType = "ENDS_WITH"
	RuleVariableSymbol RuleType = "VARIABLE_SYMBOL"
	RuleConstantSymbol RuleType = "CONSTANT_SYMBOL"
	RuleSpecificSymbol RuleType = "SPECIFIC_SYMBOL"
)

// Valid reports whether t is a known rule type.
func (t RuleType) Valid() bool {
	switch t {
	case RuleRegex, RuleContains, RuleStartsWith, RuleEndsWith,
		RuleVariableSymbol, RuleConstantSymbol, RuleSpecificSymbol:
		return true
	}
	return false
}

// Rule is a user-defined pattern rule mapping transactions to a category.
// Rules are owned by the caller's rule store; the engine holds a read-only,
// priority-sorted snapshot for the duration of a categorization pass.
type Rule struct {
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Type           RuleType  `json:"type"`
	Pattern        string    `json:"pattern"`
	Category       string    `json:"category"`
	Priority       int       `json:"priority"`
	IsActive       bool      `json:"is_active"`
	StopProcessing bool      `json:"stop_processing"`
}
