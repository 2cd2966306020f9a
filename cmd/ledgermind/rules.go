package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vmachacek/ledgermind/internal/model"
)

func rulesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "Manage categorization pattern rules",
		Long:  `View, add, toggle, delete, and test pattern rules.`,
	}

	cmd.AddCommand(rulesListCmd())
	cmd.AddCommand(rulesAddCmd())
	cmd.AddCommand(rulesEnableCmd())
	cmd.AddCommand(rulesDisableCmd())
	cmd.AddCommand(rulesDeleteCmd())
	cmd.AddCommand(rulesTestCmd())

	return cmd
}

func rulesListCmd() *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List rules in evaluation order",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := openStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			var ruleSet []model.Rule
			if all {
				ruleSet, err = store.GetAllRules(ctx)
			} else {
				ruleSet, err = store.GetActiveRules(ctx)
			}
			if err != nil {
				return err
			}

			if len(ruleSet) == 0 {
				fmt.Println(noneStyle.Render("No rules defined yet"))
				return nil
			}

			fmt.Println(headerStyle.Render(fmt.Sprintf("%-10s %-24s %-16s %-24s %-20s %s",
				"PRIORITY", "NAME", "TYPE", "PATTERN", "CATEGORY", "FLAGS")))
			for _, rule := range ruleSet {
				var flags []string
				if rule.StopProcessing {
					flags = append(flags, "stop")
				}
				if !rule.IsActive {
					flags = append(flags, "inactive")
				}
				fmt.Printf("%-10d %-24s %-16s %-24s %-20s %s\n",
					rule.Priority, truncate(rule.Name, 24), rule.Type,
					truncate(rule.Pattern, 24), truncate(rule.Category, 20),
					strings.Join(flags, ","))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "include inactive rules")

	return cmd
}

func rulesAddCmd() *cobra.Command {
	var (
		name     string
		ruleType string
		pattern  string
		category string
		priority int
		stop     bool
		inactive bool
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a pattern rule",
		Long: `Add a rule. Types: regex, contains, starts-with, ends-with,
variable-symbol, constant-symbol, specific-symbol. Lower priority values
evaluate first.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			parsedType, err := parseRuleType(ruleType)
			if err != nil {
				return err
			}

			store, err := openStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			rule := model.Rule{
				Name:           name,
				Type:           parsedType,
				Pattern:        pattern,
				Category:       category,
				Priority:       priority,
				IsActive:       !inactive,
				StopProcessing: stop,
			}
			if err := store.CreateRule(ctx, &rule); err != nil {
				return err
			}

			fmt.Println(matchStyle.Render(fmt.Sprintf("Created rule %q (%s)", rule.Name, rule.ID)))
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "rule name (required)")
	cmd.Flags().StringVar(&ruleType, "type", "contains", "rule type")
	cmd.Flags().StringVar(&pattern, "pattern", "", "pattern to match (required)")
	cmd.Flags().StringVar(&category, "category", "", "target category (required)")
	cmd.Flags().IntVar(&priority, "priority", 100, "evaluation priority, lower first")
	cmd.Flags().BoolVar(&stop, "stop", false, "stop rule evaluation on match")
	cmd.Flags().BoolVar(&inactive, "inactive", false, "create the rule disabled")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("pattern")
	_ = cmd.MarkFlagRequired("category")

	return cmd
}

func rulesEnableCmd() *cobra.Command {
	return ruleToggleCmd("enable", true)
}

func rulesDisableCmd() *cobra.Command {
	return ruleToggleCmd("disable", false)
}

func ruleToggleCmd(verb string, active bool) *cobra.Command {
	short := strings.ToUpper(verb[:1]) + verb[1:] + " a rule"
	return &cobra.Command{
		Use:   verb + " <rule-id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := openStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if err := store.SetRuleActive(ctx, args[0], active); err != nil {
				return err
			}
			fmt.Println(matchStyle.Render(fmt.Sprintf("Rule %s %sd", args[0], verb)))
			return nil
		},
	}
}

func rulesDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <rule-id>",
		Short: "Delete a rule",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := openStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if err := store.DeleteRule(ctx, args[0]); err != nil {
				return err
			}
			fmt.Println(matchStyle.Render(fmt.Sprintf("Deleted rule %s", args[0])))
			return nil
		},
	}
}

func rulesTestCmd() *cobra.Command {
	var (
		description string
		varSymbol   string
		constSymbol string
		specSymbol  string
	)

	cmd := &cobra.Command{
		Use:   "test",
		Short: "Show which rules would match a transaction",
		Long: `Test evaluates the active rule set against a hypothetical transaction
and lists every matching rule in evaluation order. A stop rule ends the
list, exactly as it would end a categorization pass.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			eng, store, err := buildEngine(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			matches := eng.MatchingRules(model.Transaction{
				Description:    description,
				VariableSymbol: varSymbol,
				ConstantSymbol: constSymbol,
				SpecificSymbol: specSymbol,
			})

			if len(matches) == 0 {
				fmt.Println(noneStyle.Render("No rules match"))
				return nil
			}

			for _, rule := range matches {
				marker := ""
				if rule.StopProcessing {
					marker = " [stop]"
				}
				fmt.Printf("%s -> %s%s\n", rule.Name, matchStyle.Render(rule.Category), marker)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&description, "description", "", "transaction description")
	cmd.Flags().StringVar(&varSymbol, "vs", "", "variable symbol")
	cmd.Flags().StringVar(&constSymbol, "cs", "", "constant symbol")
	cmd.Flags().StringVar(&specSymbol, "ss", "", "specific symbol")

	return cmd
}

func parseRuleType(s string) (model.RuleType, error) {
	switch strings.ToLower(s) {
	case "regex":
		return model.RuleRegex, nil
	case "contains":
		return model.RuleContains, nil
	case "starts-with", "startswith", "prefix":
		return model.RuleStartsWith, nil
	case "ends-with", "endswith", "suffix":
		return model.RuleEndsWith, nil
	case "variable-symbol", "vs":
		return model.RuleVariableSymbol, nil
	case "constant-symbol", "cs":
		return model.RuleConstantSymbol, nil
	case "specific-symbol", "ss":
		return model.RuleSpecificSymbol, nil
	}
	return "", fmt.Errorf("unknown rule type: %s", s)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-1] + "…"
}
