package storage

import (
	"context"
	"fmt"

	"github.com/vmachacek/ledgermind/internal/model"
)

// SaveTrainingSamples appends categorized history used to bootstrap the
// classifier. Saving zero samples is a no-op.
func (s *SQLiteStorage) SaveTrainingSamples(ctx context.Context, samples []model.TrainingSample) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if len(samples) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO training_samples (text, category) VALUES (?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, sample := range samples {
		if sample.Category == "" {
			continue
		}
		if _, err := stmt.ExecContext(ctx, sample.Text, sample.Category); err != nil {
			return fmt.Errorf("failed to save training sample: %w", err)
		}
	}

	return tx.Commit()
}

// GetTrainingSamples retrieves all stored training samples in insertion order.
func (s *SQLiteStorage) GetTrainingSamples(ctx context.Context) ([]model.TrainingSample, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT text, category FROM training_samples ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query training samples: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var samples []model.TrainingSample
	for rows.Next() {
		var sample model.TrainingSample
		if err := rows.Scan(&sample.Text, &sample.Category); err != nil {
			return nil, fmt.Errorf("failed to scan training sample: %w", err)
		}
		samples = append(samples, sample)
	}

	return samples, rows.Err()
}
