package cli

import (
	"net/url"

	"github.com/spf13/cobra"

	"github.com/mcoot/mindmaze/internal/api/response"
)

func newCategoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List question categories",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.Categories

			if err := client.Get("/api/v1/categories", &result); err != nil {
				return err
			}

			out.Print(result)
			return nil
		},
	}
}

func newQuestionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "questions <category>",
		Short: "List the questions of a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.Questions

			path := "/api/v1/categories/" + url.PathEscape(args[0]) + "/questions"
			if err := client.Get(path, &result); err != nil {
				return err
			}

			out.Print(result)
			return nil
		},
	}
}
