package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/vmachacek/ledgermind/internal/model"
)

// SaveLearnedPayees upserts learned payee entries. All entries are written
// in one transaction so a crash never leaves a partially updated tier set.
func (s *SQLiteStorage) SaveLearnedPayees(ctx context.Context, entries []model.LearnedPayee) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if len(entries) == 0 {
		return nil
	}
	for i := range entries {
		if err := validateLearnedPayee(&entries[i]); err != nil {
			return fmt.Errorf("entry at index %d: %w", i, err)
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO learned_payees (tier, payee, iban, category, last_updated)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(tier, payee, iban) DO UPDATE SET
			category = excluded.category,
			last_updated = excluded.last_updated
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, entry := range entries {
		updated := entry.LastUpdated
		if updated.IsZero() {
			updated = time.Now()
		}
		if _, err := stmt.ExecContext(ctx, string(entry.Tier), entry.Payee, entry.IBAN, entry.Category, updated); err != nil {
			return fmt.Errorf("failed to save learned payee: %w", err)
		}
	}

	return tx.Commit()
}

// GetLearnedPayees retrieves all learned payee entries.
func (s *SQLiteStorage) GetLearnedPayees(ctx context.Context) ([]model.LearnedPayee, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT tier, payee, iban, category, last_updated
		FROM learned_payees
		ORDER BY payee, tier
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query learned payees: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var entries []model.LearnedPayee
	for rows.Next() {
		var entry model.LearnedPayee
		if err := rows.Scan(&entry.Tier, &entry.Payee, &entry.IBAN, &entry.Category, &entry.LastUpdated); err != nil {
			return nil, fmt.Errorf("failed to scan learned payee: %w", err)
		}
		entries = append(entries, entry)
	}

	return entries, rows.Err()
}

// DeleteLearnedPayee removes every tier keyed by the given normalized payee
// and returns the number of rows removed.
func (s *SQLiteStorage) DeleteLearnedPayee(ctx context.Context, normalizedPayee string) (int, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}
	if err := validateString(normalizedPayee, "normalizedPayee"); err != nil {
		return 0, err
	}

	result, err := s.db.ExecContext(ctx, `
		DELETE FROM learned_payees WHERE payee = ?
	`, normalizedPayee)
	if err != nil {
		return 0, fmt.Errorf("failed to delete learned payee: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return int(affected), nil
}
