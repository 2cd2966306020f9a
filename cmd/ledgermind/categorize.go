package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/vmachacek/ledgermind/internal/cache"
	"github.com/vmachacek/ledgermind/internal/engine"
	"github.com/vmachacek/ledgermind/internal/model"
)

func categorizeCmd() *cobra.Command {
	var (
		file         string
		outputJSON   bool
		description  string
		counterparty string
		iban         string
		varSymbol    string
		constSymbol  string
		specSymbol   string
		amount       float64
		isCredit     bool
	)

	cmd := &cobra.Command{
		Use:   "categorize",
		Short: "Categorize one transaction or a batch file",
		Long: `Categorize runs transactions through the engine waterfall: pattern
rules first, then the learned payee memory, then the text classifier.

Provide a JSON file of transactions with --file, or describe a single
transaction with flags.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			eng, store, err := buildEngine(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if file != "" {
				return categorizeFile(ctx, eng, file, outputJSON)
			}

			txn := model.Transaction{
				Description:      description,
				Counterparty:     counterparty,
				CounterpartyIBAN: iban,
				VariableSymbol:   varSymbol,
				ConstantSymbol:   constSymbol,
				SpecificSymbol:   specSymbol,
				Amount:           amount,
				IsCredit:         isCredit,
			}

			result := eng.Categorize(ctx, txn)
			if outputJSON {
				return printJSON(result)
			}
			fmt.Println(formatResult(result))
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "JSON file containing an array of transactions")
	cmd.Flags().BoolVar(&outputJSON, "json", false, "emit results as JSON")
	cmd.Flags().StringVar(&description, "description", "", "transaction description")
	cmd.Flags().StringVar(&counterparty, "counterparty", "", "counterparty name")
	cmd.Flags().StringVar(&iban, "iban", "", "counterparty IBAN")
	cmd.Flags().StringVar(&varSymbol, "vs", "", "variable symbol")
	cmd.Flags().StringVar(&constSymbol, "cs", "", "constant symbol")
	cmd.Flags().StringVar(&specSymbol, "ss", "", "specific symbol")
	cmd.Flags().Float64Var(&amount, "amount", 0, "signed amount")
	cmd.Flags().BoolVar(&isCredit, "credit", false, "transaction is a credit")

	return cmd
}

// categorizeFile evaluates a batch file in chunks, with a session cache so
// duplicate transaction IDs in the input are only evaluated once.
func categorizeFile(ctx context.Context, eng *engine.Engine, path string, outputJSON bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read transactions file: %w", err)
	}

	var txns []model.Transaction
	if err := json.Unmarshal(data, &txns); err != nil {
		return fmt.Errorf("failed to parse transactions file: %w", err)
	}

	sessionCache := cache.New(0)
	defer sessionCache.Close()

	chunkSize := viper.GetInt("engine.batch_chunk_size")
	if chunkSize <= 0 {
		chunkSize = 200
	}

	bar := progressbar.Default(int64(len(txns)), "categorizing")
	results := make([]model.Result, 0, len(txns))

	for start := 0; start < len(txns); start += chunkSize {
		end := start + chunkSize
		if end > len(txns) {
			end = len(txns)
		}
		chunk := txns[start:end]

		// Serve repeats from the session cache; evaluate the rest.
		pending := make([]model.Transaction, 0, len(chunk))
		pendingIdx := make([]int, 0, len(chunk))
		chunkResults := make([]model.Result, len(chunk))

		for i, txn := range chunk {
			if txn.ID != "" {
				if cached, ok := sessionCache.Get(txn.ID); ok {
					chunkResults[i] = cached
					continue
				}
			}
			pending = append(pending, txn)
			pendingIdx = append(pendingIdx, i)
		}

		evaluated, err := eng.CategorizeBatch(ctx, pending)
		if err != nil {
			return err
		}
		for j, result := range evaluated {
			chunkResults[pendingIdx[j]] = result
			if pending[j].ID != "" {
				sessionCache.Set(pending[j].ID, result)
			}
		}

		results = append(results, chunkResults...)
		_ = bar.Add(len(chunk))
	}

	if outputJSON {
		return printJSON(results)
	}

	for i, result := range results {
		fmt.Printf("%s  %s\n", labelStyle.Render(txns[i].ID), formatResult(result))
	}
	return nil
}

func formatResult(result model.Result) string {
	switch result.Kind {
	case model.ResultMatch:
		detail := string(result.Source)
		if result.Source == model.SourceRule {
			detail = fmt.Sprintf("rule %q", result.RuleName)
		}
		return matchStyle.Render(fmt.Sprintf("%s (%s)", result.Category, detail))
	case model.ResultSuggestion:
		return suggestStyle.Render(fmt.Sprintf("%s? (confidence %.2f)", result.Category, result.Confidence))
	default:
		return noneStyle.Render("uncategorized")
	}
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
