package storage

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/vmachacek/ledgermind/internal/common"
	"github.com/vmachacek/ledgermind/internal/model"
)

// Validation errors.
var (
	ErrNilContext   = errors.New("context cannot be nil")
	ErrEmptyString  = errors.New("string parameter cannot be empty")
	ErrNilParameter = errors.New("parameter cannot be nil")
	ErrInvalidRule  = errors.New("invalid rule")
	ErrInvalidEntry = errors.New("invalid learned payee entry")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validateRule validates a rule before persistence.
func validateRule(rule *model.Rule) error {
	if rule == nil {
		return fmt.Errorf("%w: rule", ErrNilParameter)
	}
	if strings.TrimSpace(rule.Name) == "" {
		return fmt.Errorf("%w: missing name", ErrInvalidRule)
	}
	if !rule.Type.Valid() {
		return fmt.Errorf("%w: unknown type %q", ErrInvalidRule, rule.Type)
	}
	if rule.Pattern == "" {
		return fmt.Errorf("%w: missing pattern", ErrInvalidRule)
	}
	if rule.Type == model.RuleRegex {
		if _, err := regexp.Compile(rule.Pattern); err != nil {
			return fmt.Errorf("%w: %v", common.ErrInvalidPattern, err)
		}
	}
	if strings.TrimSpace(rule.Category) == "" {
		return fmt.Errorf("%w: missing category", ErrInvalidRule)
	}
	return nil
}

// validateLearnedPayee validates a learned payee entry before persistence.
func validateLearnedPayee(entry *model.LearnedPayee) error {
	if entry == nil {
		return fmt.Errorf("%w: entry", ErrNilParameter)
	}
	if strings.TrimSpace(entry.Category) == "" {
		return fmt.Errorf("%w: missing category", ErrInvalidEntry)
	}

	switch entry.Tier {
	case model.TierPayeeIBAN:
		if entry.Payee == "" || entry.IBAN == "" {
			return fmt.Errorf("%w: combined tier requires payee and IBAN", ErrInvalidEntry)
		}
	case model.TierIBANOnly:
		if entry.IBAN == "" {
			return fmt.Errorf("%w: IBAN tier requires an IBAN", ErrInvalidEntry)
		}
	case model.TierPayeeOnly:
		if entry.Payee == "" {
			return fmt.Errorf("%w: payee tier requires a payee", ErrInvalidEntry)
		}
	default:
		return fmt.Errorf("%w: unknown tier %q", ErrInvalidEntry, entry.Tier)
	}

	return nil
}
