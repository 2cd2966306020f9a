// Package rules evaluates user-defined pattern rules against transactions.
package rules

import (
	"log/slog"
	"regexp"
	"sort"
	"strings"

	"github.com/vmachacek/ledgermind/internal/model"
)

// Matcher evaluates an ordered, active-only rule snapshot. It is immutable
// after construction, so a single Matcher may serve concurrent batch calls.
type Matcher struct {
	compiledRegex map[string]*regexp.Regexp
	rules         []model.Rule
}

// NewMatcher creates a matcher over the given rules. Inactive rules are
// dropped, the rest are sorted by ascending priority with insertion order as
// the tie-break. Regex patterns are compiled once here; a malformed pattern
// is logged and its rule never matches.
func NewMatcher(ruleSet []model.Rule) *Matcher {
	m := &Matcher{
		compiledRegex: make(map[string]*regexp.Regexp),
	}

	for _, rule := range ruleSet {
		if !rule.IsActive {
			continue
		}
		m.rules = append(m.rules, rule)
	}

	// Lower priority value evaluates first; stable sort preserves the
	// caller's insertion order for equal priorities.
	sort.SliceStable(m.rules, func(i, j int) bool {
		return m.rules[i].Priority < m.rules[j].Priority
	})

	for _, rule := range m.rules {
		if rule.Type != model.RuleRegex {
			continue
		}
		re, err := regexp.Compile(rule.Pattern)
		if err != nil {
			slog.Warn("Skipping rule with invalid regex pattern",
				"rule_id", rule.ID,
				"rule_name", rule.Name,
				"pattern", rule.Pattern,
				"error", err)
			continue
		}
		m.compiledRegex[rule.ID] = re
	}

	return m
}

// Match returns the first rule that matches the transaction, or nil.
// Evaluation is pure and deterministic so batch calls can run concurrently.
func (m *Matcher) Match(txn model.Transaction) *model.Rule {
	for i := range m.rules {
		if m.matchesRule(txn, &m.rules[i]) {
			return &m.rules[i]
		}
	}
	return nil
}

// MatchAll returns every matching rule in evaluation order. A matched rule
// with StopProcessing terminates collection, mirroring what a categorization
// pass would have seen. Used by rule diagnostics in the CLI.
func (m *Matcher) MatchAll(txn model.Transaction) []model.Rule {
	var matches []model.Rule
	for i := range m.rules {
		if !m.matchesRule(txn, &m.rules[i]) {
			continue
		}
		matches = append(matches, m.rules[i])
		if m.rules[i].StopProcessing {
			break
		}
	}
	return matches
}

// ActiveCount returns the number of active rules in the snapshot.
func (m *Matcher) ActiveCount() int {
	return len(m.rules)
}

// matchesRule checks if a transaction matches a specific rule.
func (m *Matcher) matchesRule(txn model.Transaction, rule *model.Rule) bool {
	switch rule.Type {
	case model.RuleRegex:
		re, ok := m.compiledRegex[rule.ID]
		if !ok {
			return false
		}
		return re.MatchString(txn.Description)
	case model.RuleContains:
		return containsFold(txn.Description, rule.Pattern)
	case model.RuleStartsWith:
		return hasPrefixFold(txn.Description, rule.Pattern)
	case model.RuleEndsWith:
		return hasSuffixFold(txn.Description, rule.Pattern)
	case model.RuleVariableSymbol:
		return rule.Pattern != "" && txn.VariableSymbol == rule.Pattern
	case model.RuleConstantSymbol:
		return rule.Pattern != "" && txn.ConstantSymbol == rule.Pattern
	case model.RuleSpecificSymbol:
		return rule.Pattern != "" && txn.SpecificSymbol == rule.Pattern
	}
	return false
}

func containsFold(s, substr string) bool {
	if substr == "" {
		return false
	}
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

func hasPrefixFold(s, prefix string) bool {
	if prefix == "" {
		return false
	}
	return strings.HasPrefix(strings.ToLower(s), strings.ToLower(prefix))
}

func hasSuffixFold(s, suffix string) bool {
	if suffix == "" {
		return false
	}
	return strings.HasSuffix(strings.ToLower(s), strings.ToLower(suffix))
}
