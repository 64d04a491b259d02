package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"subburn/internal/language"
)

func newLanguagesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "languages",
		Short: "List supported spoken languages",
		Args:  cobra.NoArgs,
		Annotations: map[string]string{
			"skipConfigLoad": "true",
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			codes := language.Codes()
			rows := make([][]string, 0, len(codes))
			for _, code := range codes {
				family := "segment"
				if language.RequiresChunked(code) {
					family = "chunked"
				}
				rows = append(rows, []string{code, language.Display(code), family})
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable(out,
				[]string{"Code", "Language", "Engine Family"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft}))
			return nil
		},
	}
}
