package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
)

func learnCmd() *cobra.Command {
	var (
		payeeName string
		iban      string
		category  string
	)

	cmd := &cobra.Command{
		Use:   "learn",
		Short: "Teach the engine a payee-to-category correction",
		Long: `Learn records a correction in the payee memory. At least one of
--payee and --iban is required; supplying both also fills the partial-key
tiers so future lookups with only one key still resolve.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			eng, store, err := buildEngine(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if err := eng.Learn(ctx, payeeName, iban, category); err != nil {
				return err
			}

			fmt.Println(matchStyle.Render(fmt.Sprintf("Learned: %s -> %s", displayKey(payeeName, iban), category)))
			return nil
		},
	}

	cmd.Flags().StringVar(&payeeName, "payee", "", "counterparty name")
	cmd.Flags().StringVar(&iban, "iban", "", "counterparty IBAN")
	cmd.Flags().StringVar(&category, "category", "", "target category (required)")
	_ = cmd.MarkFlagRequired("category")

	return cmd
}

func forgetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "forget <payee>",
		Short: "Remove all learned tiers for a payee",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			eng, store, err := buildEngine(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			removed, err := eng.Forget(ctx, args[0])
			if err != nil {
				return err
			}

			if removed {
				fmt.Println(matchStyle.Render(fmt.Sprintf("Forgot %q", args[0])))
			} else {
				slog.Warn("No learned entries for payee", "payee", args[0])
			}
			return nil
		},
	}
}

func displayKey(payeeName, iban string) string {
	switch {
	case payeeName != "" && iban != "":
		return fmt.Sprintf("%s (%s)", payeeName, iban)
	case payeeName != "":
		return payeeName
	default:
		return iban
	}
}
