package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vmachacek/ledgermind/internal/model"
)

func TestMatcher_Match(t *testing.T) {
	tests := []struct {
		name     string
		rules    []model.Rule
		txn      model.Transaction
		wantID   string
		wantNone bool
	}{
		{
			name: "contains match is case insensitive",
			rules: []model.Rule{
				{ID: "r1", Name: "netflix", Type: model.RuleContains, Pattern: "netflix", Category: "entertainment", IsActive: true},
			},
			txn:    model.Transaction{Description: "NETFLIX.COM payment"},
			wantID: "r1",
		},
		{
			name: "starts with",
			rules: []model.Rule{
				{ID: "r1", Name: "atm", Type: model.RuleStartsWith, Pattern: "ATM ", Category: "cash", IsActive: true},
			},
			txn:    model.Transaction{Description: "atm withdrawal prague"},
			wantID: "r1",
		},
		{
			name: "ends with",
			rules: []model.Rule{
				{ID: "r1", Name: "fee", Type: model.RuleEndsWith, Pattern: "FEE", Category: "fees", IsActive: true},
			},
			txn:    model.Transaction{Description: "monthly account fee"},
			wantID: "r1",
		},
		{
			name: "regex against description",
			rules: []model.Rule{
				{ID: "r1", Name: "coffee", Type: model.RuleRegex, Pattern: `(?i)coffee|cafe`, Category: "dining", IsActive: true},
			},
			txn:    model.Transaction{Description: "STARBUCKS COFFEE 0042"},
			wantID: "r1",
		},
		{
			name: "variable symbol exact equality",
			rules: []model.Rule{
				{ID: "r1", Name: "rent", Type: model.RuleVariableSymbol, Pattern: "20240101", Category: "housing", IsActive: true},
			},
			txn:    model.Transaction{VariableSymbol: "20240101"},
			wantID: "r1",
		},
		{
			name: "variable symbol is not normalized",
			rules: []model.Rule{
				{ID: "r1", Name: "rent", Type: model.RuleVariableSymbol, Pattern: "0042", Category: "housing", IsActive: true},
			},
			txn:      model.Transaction{VariableSymbol: "42"},
			wantNone: true,
		},
		{
			name: "constant symbol",
			rules: []model.Rule{
				{ID: "r1", Name: "payroll", Type: model.RuleConstantSymbol, Pattern: "0008", Category: "salary", IsActive: true},
			},
			txn:    model.Transaction{ConstantSymbol: "0008"},
			wantID: "r1",
		},
		{
			name: "specific symbol",
			rules: []model.Rule{
				{ID: "r1", Name: "insurance", Type: model.RuleSpecificSymbol, Pattern: "555", Category: "insurance", IsActive: true},
			},
			txn:    model.Transaction{SpecificSymbol: "555"},
			wantID: "r1",
		},
		{
			name: "lower priority value wins",
			rules: []model.Rule{
				{ID: "low", Name: "broad", Type: model.RuleContains, Pattern: "store", Category: "shopping", Priority: 50, IsActive: true},
				{ID: "high", Name: "specific", Type: model.RuleContains, Pattern: "grocery store", Category: "groceries", Priority: 10, IsActive: true},
			},
			txn:    model.Transaction{Description: "ALBERT grocery store"},
			wantID: "high",
		},
		{
			name: "equal priority falls back to insertion order",
			rules: []model.Rule{
				{ID: "first", Name: "a", Type: model.RuleContains, Pattern: "shop", Category: "c1", Priority: 10, IsActive: true},
				{ID: "second", Name: "b", Type: model.RuleContains, Pattern: "shop", Category: "c2", Priority: 10, IsActive: true},
			},
			txn:    model.Transaction{Description: "web shop order"},
			wantID: "first",
		},
		{
			name: "inactive rule is never evaluated",
			rules: []model.Rule{
				{ID: "r1", Name: "off", Type: model.RuleContains, Pattern: "netflix", Category: "entertainment", IsActive: false},
			},
			txn:      model.Transaction{Description: "NETFLIX.COM"},
			wantNone: true,
		},
		{
			name: "invalid regex never matches",
			rules: []model.Rule{
				{ID: "bad", Name: "broken", Type: model.RuleRegex, Pattern: "([", Category: "x", Priority: 1, IsActive: true},
				{ID: "good", Name: "fallback", Type: model.RuleContains, Pattern: "netflix", Category: "entertainment", Priority: 2, IsActive: true},
			},
			txn:    model.Transaction{Description: "NETFLIX.COM"},
			wantID: "good",
		},
		{
			name: "empty pattern matches nothing",
			rules: []model.Rule{
				{ID: "r1", Name: "empty", Type: model.RuleContains, Pattern: "", Category: "x", IsActive: true},
			},
			txn:      model.Transaction{Description: "anything"},
			wantNone: true,
		},
		{
			name:     "no rules",
			rules:    nil,
			txn:      model.Transaction{Description: "anything"},
			wantNone: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewMatcher(tt.rules)

			got := m.Match(tt.txn)
			if tt.wantNone {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.wantID, got.ID)
		})
	}
}

func TestMatcher_MatchAll_StopProcessing(t *testing.T) {
	ruleSet := []model.Rule{
		{ID: "r1", Name: "first", Type: model.RuleContains, Pattern: "netflix", Category: "entertainment", Priority: 1, IsActive: true, StopProcessing: true},
		{ID: "r2", Name: "second", Type: model.RuleContains, Pattern: "netflix", Category: "subscriptions", Priority: 2, IsActive: true},
	}
	m := NewMatcher(ruleSet)

	matches := m.MatchAll(model.Transaction{Description: "NETFLIX.COM"})
	require.Len(t, matches, 1, "stop rule must terminate collection")
	assert.Equal(t, "r1", matches[0].ID)
}

func TestMatcher_MatchAll_CollectsWithoutStop(t *testing.T) {
	ruleSet := []model.Rule{
		{ID: "r1", Name: "first", Type: model.RuleContains, Pattern: "netflix", Category: "entertainment", Priority: 1, IsActive: true},
		{ID: "r2", Name: "second", Type: model.RuleContains, Pattern: "netflix", Category: "subscriptions", Priority: 2, IsActive: true},
	}
	m := NewMatcher(ruleSet)

	matches := m.MatchAll(model.Transaction{Description: "NETFLIX.COM"})
	require.Len(t, matches, 2)
	assert.Equal(t, "r1", matches[0].ID)
	assert.Equal(t, "r2", matches[1].ID)
}

func TestMatcher_ActiveCount(t *testing.T) {
	m := NewMatcher([]model.Rule{
		{ID: "r1", Type: model.RuleContains, Pattern: "a", IsActive: true},
		{ID: "r2", Type: model.RuleContains, Pattern: "b", IsActive: false},
	})
	assert.Equal(t, 1, m.ActiveCount())
}
