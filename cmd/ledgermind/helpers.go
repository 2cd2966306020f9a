package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/viper"

	"github.com/vmachacek/ledgermind/internal/engine"
	"github.com/vmachacek/ledgermind/internal/storage"
)

// Shared CLI styles.
var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	matchStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	suggestStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	noneStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Italic(true)
)

// databasePath resolves the SQLite path from config, falling back to the
// XDG-ish default under the user's home.
func databasePath() (string, error) {
	if path := viper.GetString("database.path"); path != "" {
		return path, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".local", "share", "ledgermind", "ledgermind.db"), nil
}

// openStorage opens and migrates the persistent store.
func openStorage(ctx context.Context) (*storage.SQLiteStorage, error) {
	path, err := databasePath()
	if err != nil {
		return nil, err
	}

	store, err := storage.NewSQLiteStorage(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// buildEngine opens storage, rehydrates the engine, and bootstraps the
// classifier from stored history. The caller owns closing the store.
func buildEngine(ctx context.Context) (*engine.Engine, *storage.SQLiteStorage, error) {
	store, err := openStorage(ctx)
	if err != nil {
		return nil, nil, err
	}

	eng := engine.NewWithConfig(store, engine.Config{
		AcceptThreshold: viper.GetFloat64("engine.accept_threshold"),
		BatchWorkers:    viper.GetInt("engine.batch_workers"),
	})

	if _, err := eng.LoadFromDB(ctx); err != nil {
		_ = store.Close()
		return nil, nil, err
	}

	samples, err := store.GetTrainingSamples(ctx)
	if err != nil {
		_ = store.Close()
		return nil, nil, fmt.Errorf("failed to load training samples: %w", err)
	}
	if len(samples) > 0 {
		eng.InitializeFromTransactions(ctx, samples)
	}

	return eng, store, nil
}
