package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func statsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show engine statistics",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			eng, store, err := buildEngine(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			stats := eng.GetStats()

			fmt.Println(headerStyle.Render("Categorization engine"))
			fmt.Printf("%s %d\n", labelStyle.Render("Active rules:       "), stats.ActiveRules)
			fmt.Printf("%s %d\n", labelStyle.Render("Learned payee keys: "), stats.LearnedPayees)
			fmt.Printf("%s %d\n", labelStyle.Render("Trained categories: "), stats.MLClasses)
			fmt.Printf("%s %d\n", labelStyle.Render("Vocabulary size:    "), stats.MLVocabularySize)
			return nil
		},
	}
}
