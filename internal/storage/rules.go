package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/vmachacek/ledgermind/internal/common"
	"github.com/vmachacek/ledgermind/internal/model"
)

// CreateRule creates a new categorization rule. An ID is assigned when the
// caller leaves it empty. The target category must exist and be active.
func (s *SQLiteStorage) CreateRule(ctx context.Context, rule *model.Rule) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateRule(rule); err != nil {
		return err
	}

	var categoryCount int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM categories WHERE name = ? AND is_active = 1",
		rule.Category).Scan(&categoryCount)
	if err != nil {
		return fmt.Errorf("failed to verify category: %w", err)
	}
	if categoryCount == 0 {
		return fmt.Errorf("%w: %s", common.ErrUnknownCategory, rule.Category)
	}

	if rule.ID == "" {
		rule.ID = uuid.NewString()
	}

	now := time.Now()
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO rules (id, name, type, pattern, category, priority, is_active, stop_processing, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, rule.ID, rule.Name, string(rule.Type), rule.Pattern, rule.Category,
		rule.Priority, rule.IsActive, rule.StopProcessing, now, now)
	if err != nil {
		return fmt.Errorf("failed to create rule: %w", err)
	}

	rule.CreatedAt = now
	rule.UpdatedAt = now

	return nil
}

// GetRule retrieves a rule by ID.
func (s *SQLiteStorage) GetRule(ctx context.Context, id string) (*model.Rule, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}

	var rule model.Rule
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, type, pattern, category, priority, is_active, stop_processing, created_at, updated_at
		FROM rules
		WHERE id = ?
	`, id).Scan(
		&rule.ID, &rule.Name, &rule.Type, &rule.Pattern, &rule.Category,
		&rule.Priority, &rule.IsActive, &rule.StopProcessing, &rule.CreatedAt, &rule.UpdatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get rule: %w", err)
	}

	return &rule, nil
}

// GetActiveRules retrieves all active rules ordered by ascending priority,
// with insertion order as the tie-break.
func (s *SQLiteStorage) GetActiveRules(ctx context.Context) ([]model.Rule, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return s.queryRules(ctx, `
		SELECT id, name, type, pattern, category, priority, is_active, stop_processing, created_at, updated_at
		FROM rules
		WHERE is_active = 1
		ORDER BY priority ASC, rowid ASC
	`)
}

// GetAllRules retrieves every rule, active or not, in evaluation order.
func (s *SQLiteStorage) GetAllRules(ctx context.Context) ([]model.Rule, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return s.queryRules(ctx, `
		SELECT id, name, type, pattern, category, priority, is_active, stop_processing, created_at, updated_at
		FROM rules
		ORDER BY priority ASC, rowid ASC
	`)
}

func (s *SQLiteStorage) queryRules(ctx context.Context, query string) ([]model.Rule, error) {
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query rules: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var ruleSet []model.Rule
	for rows.Next() {
		var rule model.Rule
		err := rows.Scan(
			&rule.ID, &rule.Name, &rule.Type, &rule.Pattern, &rule.Category,
			&rule.Priority, &rule.IsActive, &rule.StopProcessing, &rule.CreatedAt, &rule.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan rule: %w", err)
		}
		ruleSet = append(ruleSet, rule)
	}

	return ruleSet, rows.Err()
}

// SetRuleActive toggles a rule's active flag.
func (s *SQLiteStorage) SetRuleActive(ctx context.Context, id string, active bool) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(id, "id"); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE rules SET is_active = ?, updated_at = ? WHERE id = ?
	`, active, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to update rule: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return common.ErrNotFound
	}

	return nil
}

// DeleteRule deletes a rule by ID.
func (s *SQLiteStorage) DeleteRule(ctx context.Context, id string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(id, "id"); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `DELETE FROM rules WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete rule: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return common.ErrNotFound
	}

	return nil
}
