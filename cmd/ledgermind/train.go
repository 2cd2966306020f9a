package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/vmachacek/ledgermind/internal/common"
	"github.com/vmachacek/ledgermind/internal/model"
	"github.com/vmachacek/ledgermind/internal/service"
)

func trainCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "train",
		Short: "Manage the text classifier's training data",
	}

	cmd.AddCommand(trainAddCmd())
	cmd.AddCommand(trainRetrainCmd())

	return cmd
}

func trainAddCmd() *cobra.Command {
	var (
		text     string
		category string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a categorized transaction text as training history",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := openStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if _, err := store.GetCategory(ctx, category); err != nil {
				return err
			}

			err = store.SaveTrainingSamples(ctx, []model.TrainingSample{
				{Text: text, Category: category},
			})
			if err != nil {
				return err
			}

			fmt.Println(matchStyle.Render("Sample recorded"))
			return nil
		},
	}

	cmd.Flags().StringVar(&text, "text", "", "transaction text (required)")
	cmd.Flags().StringVar(&category, "category", "", "category (required)")
	_ = cmd.MarkFlagRequired("text")
	_ = cmd.MarkFlagRequired("category")

	return cmd
}

func trainRetrainCmd() *cobra.Command {
	var includePending bool

	cmd := &cobra.Command{
		Use:   "retrain",
		Short: "Rebuild the classifier from stored history",
		Long: `Retrain discards the current model and rebuilds it from all stored
training samples. With --include-pending, corrections queued by learn
calls in this session are persisted and folded in first.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			eng, store, err := buildEngine(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if includePending {
				pending := eng.DrainPendingSamples()
				if len(pending) > 0 {
					if err := store.SaveTrainingSamples(ctx, pending); err != nil {
						return err
					}
				}
			}

			samples, err := store.GetTrainingSamples(ctx)
			if err != nil {
				return err
			}
			if len(samples) == 0 {
				return common.NewUserError(
					"no training samples stored; record some with 'train add' first",
					common.ErrModelNotTrained)
			}

			// A concurrent retrain is rejected with a retryable error, so
			// wait it out with backoff instead of failing the command.
			err = common.WithRetry(ctx, func() error {
				return eng.RetrainModel(ctx, samples)
			}, service.RetryOptions{
				MaxAttempts:  3,
				InitialDelay: 200 * time.Millisecond,
			})
			if err != nil {
				return err
			}

			stats := eng.GetStats()
			fmt.Println(matchStyle.Render(fmt.Sprintf(
				"Retrained on %d samples: %d categories, %d tokens",
				len(samples), stats.MLClasses, stats.MLVocabularySize)))
			return nil
		},
	}

	cmd.Flags().BoolVar(&includePending, "include-pending", false, "persist and include learn-queued samples")

	return cmd
}
