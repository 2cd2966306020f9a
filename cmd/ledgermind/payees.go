package main

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/spf13/cobra"

	"github.com/vmachacek/ledgermind/internal/model"
)

func payeesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "payees",
		Short: "Manage the learned payee memory",
		Long:  `List, search, export, and import learned payee-to-category entries.`,
	}

	cmd.AddCommand(payeesListCmd())
	cmd.AddCommand(payeesFindCmd())
	cmd.AddCommand(payeesExportCmd())
	cmd.AddCommand(payeesImportCmd())

	return cmd
}

func payeesListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List learned payee entries",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := openStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			entries, err := store.GetLearnedPayees(ctx)
			if err != nil {
				return err
			}

			if len(entries) == 0 {
				fmt.Println(noneStyle.Render("Nothing learned yet"))
				return nil
			}

			fmt.Println(headerStyle.Render(fmt.Sprintf("%-20s %-28s %-28s %s",
				"TIER", "PAYEE", "IBAN", "CATEGORY")))
			for _, entry := range entries {
				fmt.Printf("%-20s %-28s %-28s %s\n",
					entry.Tier, truncate(entry.Payee, 28), entry.IBAN, entry.Category)
			}
			return nil
		},
	}
}

func payeesFindCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "find <query>",
		Short: "Fuzzy-search learned payees",
		Long: `Find ranks learned payees by Levenshtein distance to the query,
useful for hunting near-duplicate payee spellings.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := openStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			entries, err := store.GetLearnedPayees(ctx)
			if err != nil {
				return err
			}

			byPayee := make(map[string]model.LearnedPayee)
			names := make([]string, 0, len(entries))
			for _, entry := range entries {
				if entry.Payee == "" {
					continue
				}
				if _, seen := byPayee[entry.Payee]; !seen {
					names = append(names, entry.Payee)
				}
				byPayee[entry.Payee] = entry
			}

			ranks := fuzzy.RankFindNormalizedFold(args[0], names)
			sort.Sort(ranks)

			if len(ranks) == 0 {
				fmt.Println(noneStyle.Render("No similar payees"))
				return nil
			}

			for _, rank := range ranks {
				entry := byPayee[rank.Target]
				fmt.Printf("%-28s %s\n", rank.Target, matchStyle.Render(entry.Category))
			}
			return nil
		},
	}
}

func payeesExportCmd() *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export learned payees for backup",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			eng, store, err := buildEngine(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			backup := eng.ExportLearnedPayees()

			if out == "" {
				return printJSON(backup)
			}

			data, err := json.MarshalIndent(backup, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to encode backup: %w", err)
			}
			if err := os.WriteFile(out, data, 0600); err != nil {
				return fmt.Errorf("failed to write backup: %w", err)
			}

			fmt.Println(matchStyle.Render(fmt.Sprintf("Exported %d entries to %s", len(backup), out)))
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default: stdout)")

	return cmd
}

func payeesImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Import a learned payee backup",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read backup: %w", err)
			}

			var backup map[string]string
			if err := json.Unmarshal(data, &backup); err != nil {
				return fmt.Errorf("failed to parse backup: %w", err)
			}

			eng, store, err := buildEngine(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			count, err := eng.ImportLearnedPayees(ctx, backup)
			if err != nil {
				return err
			}

			fmt.Println(matchStyle.Render(fmt.Sprintf("Imported %d entries", count)))
			return nil
		},
	}
}
