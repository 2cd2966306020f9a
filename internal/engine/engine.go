// Package engine implements the categorization waterfall: pattern rules,
// learned payee memory, then the statistical text classifier.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/vmachacek/ledgermind/internal/classifier"
	"github.com/vmachacek/ledgermind/internal/common"
	"github.com/vmachacek/ledgermind/internal/model"
	"github.com/vmachacek/ledgermind/internal/payee"
	"github.com/vmachacek/ledgermind/internal/rules"
	"github.com/vmachacek/ledgermind/internal/service"
)

// Engine orchestrates the three categorization stages. Aside from the two
// mutable stores (payee memory and classifier model) it is stateless per
// call: a categorization never writes anything.
type Engine struct {
	storage    service.Storage
	payees     PayeeMemory
	classifier TextClassifier

	matcherMu sync.RWMutex
	matcher   *rules.Matcher

	pendingMu sync.Mutex
	pending   []model.TrainingSample

	acceptThreshold float64
	batchWorkers    int
	pendingLimit    int
}

// Config holds configuration options for the categorization engine.
type Config struct {
	// AcceptThreshold promotes an ML result from Suggestion to Match.
	AcceptThreshold float64
	// BatchWorkers bounds concurrency inside CategorizeBatch.
	BatchWorkers int
	// PendingLimit caps the queue of learn-derived training samples.
	PendingLimit int
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		AcceptThreshold: 0.7,
		BatchWorkers:    4,
		PendingLimit:    1000,
	}
}

// New creates an engine with the default configuration.
func New(storage service.Storage) *Engine {
	return NewWithConfig(storage, DefaultConfig())
}

// NewWithConfig creates an engine backed by the host's persistent store.
func NewWithConfig(storage service.Storage, config Config) *Engine {
	if config.AcceptThreshold <= 0 || config.AcceptThreshold > 1 {
		config.AcceptThreshold = DefaultConfig().AcceptThreshold
	}
	if config.BatchWorkers <= 0 {
		config.BatchWorkers = DefaultConfig().BatchWorkers
	}
	if config.PendingLimit <= 0 {
		config.PendingLimit = DefaultConfig().PendingLimit
	}

	return &Engine{
		storage:         storage,
		payees:          payee.NewStore(),
		classifier:      classifier.New(),
		matcher:         rules.NewMatcher(nil),
		acceptThreshold: config.AcceptThreshold,
		batchWorkers:    config.BatchWorkers,
		pendingLimit:    config.PendingLimit,
	}
}

// Categorize runs a single transaction through the waterfall. Stages are
// tried in order and the first confident one wins; an indecisive outcome is
// a Suggestion or None, never an error.
func (e *Engine) Categorize(_ context.Context, txn model.Transaction) model.Result {
	if rule := e.currentMatcher().Match(txn); rule != nil {
		return model.RuleMatch(rule.Category, rule.ID, rule.Name)
	}

	if entry, ok := e.payees.Lookup(txn.Counterparty, txn.CounterpartyIBAN); ok {
		return model.ExactMatch(entry.Category, entry.Payee)
	}

	text := txn.ClassifierText()
	if text == "" {
		return model.NoResult()
	}

	category, confidence := e.classifier.Classify(text)
	if category == "" || confidence <= 0 {
		return model.NoResult()
	}
	if confidence >= e.acceptThreshold {
		return model.MLMatch(category, confidence)
	}
	return model.MLSuggestion(category, confidence)
}

// CategorizeBatch categorizes transactions concurrently and returns results
// in input order. All stages are read-only against shared loaded-once state,
// so the output is identical to calling Categorize per transaction. On
// context cancellation the already-computed prefix is returned with the
// context error.
func (e *Engine) CategorizeBatch(ctx context.Context, txns []model.Transaction) ([]model.Result, error) {
	results := make([]model.Result, len(txns))
	if len(txns) == 0 {
		return results, nil
	}

	workers := e.batchWorkers
	if workers > len(txns) {
		workers = len(txns)
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] = e.Categorize(ctx, txns[i])
			}
		}()
	}

	var err error
dispatch:
	for i := range txns {
		select {
		case <-ctx.Done():
			err = ctx.Err()
			break dispatch
		case jobs <- i:
		}
	}
	close(jobs)
	wg.Wait()

	return results, err
}

// Learn records a user correction in the payee memory and persists the
// written tiers. The category must exist in the host's category repository.
// The corrected payee text is queued as a candidate training sample; the
// classifier is never retrained here, to keep learn latency bounded.
func (e *Engine) Learn(ctx context.Context, payeeName, iban, category string) error {
	if _, err := e.storage.GetCategory(ctx, category); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return fmt.Errorf("%w: %s", common.ErrUnknownCategory, category)
		}
		return fmt.Errorf("failed to validate category: %w", err)
	}

	entries, err := e.payees.Learn(payeeName, iban, category)
	if err != nil {
		return err
	}

	if err := e.storage.SaveLearnedPayees(ctx, entries); err != nil {
		return fmt.Errorf("failed to persist learned payees: %w", err)
	}

	if payeeName != "" {
		e.enqueuePending(model.TrainingSample{Text: payeeName, Category: category})
	}

	slog.Info("Learned payee correction",
		"payee", payeeName,
		"iban", iban,
		"category", category,
		"tiers", len(entries))

	return nil
}

// Forget removes every learned tier keyed by the given payee. Returns true
// iff an entry existed.
func (e *Engine) Forget(ctx context.Context, payeeName string) (bool, error) {
	removed := e.payees.Forget(payeeName)

	if _, err := e.storage.DeleteLearnedPayee(ctx, payee.Normalize(payeeName)); err != nil {
		if !errors.Is(err, common.ErrNotFound) {
			return removed, fmt.Errorf("failed to delete learned payee: %w", err)
		}
	}

	return removed, nil
}

// UpdateRules replaces the engine's active rule snapshot. The previous
// matcher keeps serving in-flight categorizations until the swap.
func (e *Engine) UpdateRules(ruleSet []model.Rule) {
	matcher := rules.NewMatcher(ruleSet)

	e.matcherMu.Lock()
	e.matcher = matcher
	e.matcherMu.Unlock()

	slog.Debug("Rule snapshot replaced", "active_rules", matcher.ActiveCount())
}

// MatchingRules returns the rules a categorization pass would have evaluated
// as matching, in order, for diagnostics.
func (e *Engine) MatchingRules(txn model.Transaction) []model.Rule {
	return e.currentMatcher().MatchAll(txn)
}

// RetrainModel rebuilds the classifier from scratch. A concurrent retrain is
// rejected with a retryable error.
func (e *Engine) RetrainModel(_ context.Context, samples []model.TrainingSample) error {
	if err := e.classifier.Retrain(samples); err != nil {
		return err
	}

	slog.Info("Classifier retrained",
		"samples", len(samples),
		"categories", e.classifier.Categories(),
		"vocabulary", e.classifier.VocabularySize())

	return nil
}

// InitializeFromTransactions additively trains the classifier from existing
// categorized history, intended for first-run bootstrapping.
func (e *Engine) InitializeFromTransactions(_ context.Context, samples []model.TrainingSample) {
	e.classifier.Train(samples)

	slog.Info("Classifier bootstrapped",
		"samples", len(samples),
		"categories", e.classifier.Categories(),
		"vocabulary", e.classifier.VocabularySize())
}

// ExportLearnedPayees returns the payee memory keyed by its stable composite
// string for backup.
func (e *Engine) ExportLearnedPayees() map[string]string {
	return e.payees.Export()
}

// ImportLearnedPayees restores a backup into the payee memory, persists the
// result, and returns the number of entries applied.
func (e *Engine) ImportLearnedPayees(ctx context.Context, backup map[string]string) (int, error) {
	count := e.payees.Import(backup)

	if err := e.storage.SaveLearnedPayees(ctx, e.payees.Entries()); err != nil {
		return count, fmt.Errorf("failed to persist imported payees: %w", err)
	}

	return count, nil
}

// LoadFromDB rehydrates the payee memory and the rule snapshot from the
// host's persistent store at process start. Returns the number of learned
// payee entries loaded.
func (e *Engine) LoadFromDB(ctx context.Context) (int, error) {
	entries, err := e.storage.GetLearnedPayees(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to load learned payees: %w", err)
	}
	count := e.payees.Load(entries)

	activeRules, err := e.storage.GetActiveRules(ctx)
	if err != nil {
		return count, fmt.Errorf("failed to load rules: %w", err)
	}
	e.UpdateRules(activeRules)

	slog.Info("Engine rehydrated",
		"learned_payees", count,
		"active_rules", len(activeRules))

	return count, nil
}

// DrainPendingSamples returns and clears the learn-derived sample queue so
// the caller can fold it into the next retrain.
func (e *Engine) DrainPendingSamples() []model.TrainingSample {
	e.pendingMu.Lock()
	defer e.pendingMu.Unlock()

	drained := e.pending
	e.pending = nil
	return drained
}

func (e *Engine) enqueuePending(sample model.TrainingSample) {
	e.pendingMu.Lock()
	defer e.pendingMu.Unlock()

	if len(e.pending) >= e.pendingLimit {
		// Keep the most recent corrections.
		e.pending = e.pending[1:]
	}
	e.pending = append(e.pending, sample)
}

func (e *Engine) currentMatcher() *rules.Matcher {
	e.matcherMu.RLock()
	defer e.matcherMu.RUnlock()
	return e.matcher
}
