package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kotoba-lab/questcore/internal/catalog"
)

var questionsCmd = &cobra.Command{
	Use:   "questions",
	Short: "List catalog questions (optionally filtered by category or type)",
	RunE: func(cmd *cobra.Command, args []string) error {
		category, _ := cmd.Flags().GetString("category")
		qtype, _ := cmd.Flags().GetString("type")
		listCategories, _ := cmd.Flags().GetBool("categories")

		cat, err := catalog.Default()
		if err != nil {
			return fmt.Errorf("load catalog: %w", err)
		}
		out := cmd.OutOrStdout()

		if listCategories {
			for _, c := range catalog.AllCategories() {
				fmt.Fprintf(out, "%-20s  %d\n", c, len(cat.QuestionsForCategory(c)))
			}
			return nil
		}

		var questions []catalog.Question
		if category != "" {
			c := catalog.Category(category)
			if !c.IsKnown() {
				return fmt.Errorf("unknown category %q", category)
			}
			questions = cat.QuestionsForCategory(c)
		} else {
			questions = cat.AllQuestions()
		}

		// Header.
		fmt.Fprintf(out, "%4s  %-6s  %-20s  %s\n", "ID", "Type", "Category", "Question")
		fmt.Fprintln(out, strings.Repeat("─", 80))

		n := 0
		for _, q := range questions {
			if qtype != "" && string(q.Type) != qtype {
				continue
			}
			fmt.Fprintf(out, "%4d  %-6s  %-20s  %s\n", q.ID, q.Type, q.Category, q.Prompt)
			n++
		}
		fmt.Fprintf(out, "\n%d questions\n", n)
		return nil
	},
}

func init() {
	questionsCmd.Flags().String("category", "", "Filter by grammar category")
	questionsCmd.Flags().String("type", "", "Filter by question type (select, input, sort)")
	questionsCmd.Flags().Bool("categories", false, "List categories with question counts")
}
