package model

import "strings"

// Transaction carries the attributes of a single bank transaction as seen by
// the categorization engine. It is an immutable per-call value: the engine
// never persists it or mutates the caller's records.
type Transaction struct {
	ID               string  `json:"id"`
	Description      string  `json:"description,omitempty"`
	Counterparty     string  `json:"counterparty,omitempty"`
	CounterpartyIBAN string  `json:"counterparty_iban,omitempty"`
	VariableSymbol   string  `json:"variable_symbol,omitempty"`
	ConstantSymbol   string  `json:"constant_symbol,omitempty"`
	SpecificSymbol   string  `json:"specific_symbol,omitempty"`
	Amount           float64 `json:"amount"`
	IsCredit         bool    `json:"is_credit"`
}

// ClassifierText synthesizes the free-text input for the statistical
// classifier from the description and counterparty name.
func (t *Transaction) ClassifierText() string {
	parts := make([]string, 0, 2)
	if s := strings.TrimSpace(t.Description); s != "" {
		parts = append(parts, s)
	}
	if s := strings.TrimSpace(t.Counterparty); s != "" {
		parts = append(parts, s)
	}
	return strings.Join(parts, " ")
}
