// Package service defines the interfaces between the engine, the host's
// persistent store, and the CLI surface.
package service

import (
	"context"
	"time"

	"github.com/vmachacek/ledgermind/internal/model"
)

// Storage is the host-owned persistent store the engine rehydrates from.
// The engine itself never holds a file or database handle; the caller opens
// the store and passes it in.
type Storage interface {
	CategoryStore
	RuleStore
	LearnedPayeeStore
	TrainingSampleStore

	Migrate(ctx context.Context) error
	Close() error
}

// CategoryStore manages category display metadata, used by the engine only
// to validate category identifiers chosen by the caller.
type CategoryStore interface {
	CreateCategory(ctx context.Context, name, description string) (*model.Category, error)
	GetCategory(ctx context.Context, name string) (*model.Category, error)
	GetCategories(ctx context.Context) ([]model.Category, error)
}

// RuleStore manages the user's pattern rules.
type RuleStore interface {
	CreateRule(ctx context.Context, rule *model.Rule) error
	GetRule(ctx context.Context, id string) (*model.Rule, error)
	GetActiveRules(ctx context.Context) ([]model.Rule, error)
	GetAllRules(ctx context.Context) ([]model.Rule, error)
	SetRuleActive(ctx context.Context, id string, active bool) error
	DeleteRule(ctx context.Context, id string) error
}

// LearnedPayeeStore persists the hierarchical payee-to-category memory.
type LearnedPayeeStore interface {
	SaveLearnedPayees(ctx context.Context, entries []model.LearnedPayee) error
	GetLearnedPayees(ctx context.Context) ([]model.LearnedPayee, error)
	DeleteLearnedPayee(ctx context.Context, normalizedPayee string) (int, error)
}

// TrainingSampleStore persists categorized history used to bootstrap the
// text classifier at process start.
type TrainingSampleStore interface {
	SaveTrainingSamples(ctx context.Context, samples []model.TrainingSample) error
	GetTrainingSamples(ctx context.Context) ([]model.TrainingSample, error)
}

// RetryOptions configures retry behavior.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}
