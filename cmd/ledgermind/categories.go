package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func categoriesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "Manage categories",
	}

	cmd.AddCommand(categoriesListCmd())
	cmd.AddCommand(categoriesAddCmd())

	return cmd
}

func categoriesListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List active categories",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := openStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			categories, err := store.GetCategories(ctx)
			if err != nil {
				return err
			}

			if len(categories) == 0 {
				fmt.Println(noneStyle.Render("No categories yet"))
				return nil
			}

			for _, cat := range categories {
				if cat.Description != "" {
					fmt.Printf("%s  %s\n", cat.Name, labelStyle.Render(cat.Description))
				} else {
					fmt.Println(cat.Name)
				}
			}
			return nil
		},
	}
}

func categoriesAddCmd() *cobra.Command {
	var description string

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := openStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			cat, err := store.CreateCategory(ctx, args[0], description)
			if err != nil {
				return err
			}

			fmt.Println(matchStyle.Render(fmt.Sprintf("Created category %q", cat.Name)))
			return nil
		},
	}

	cmd.Flags().StringVar(&description, "description", "", "category description")

	return cmd
}
