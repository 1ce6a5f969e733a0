// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"quizdeck/internal/models"
)

func newTreeCmd(connect connectFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "tree",
		Short: "Print the category tree with document IDs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := connect(cmd)
			if err != nil {
				return err
			}
			defer e.close()

			// Read from the store, not the cache, so the output reflects
			// what is committed.
			root, err := e.categories.Tree(cmd.Context())
			if err != nil {
				return err
			}
			printTree(e.out, root, 0)
			return nil
		},
	}
}

func printTree(w io.Writer, n *models.CategoryNode, indent int) {
	if n.ID == "" {
		fmt.Fprintln(w, n.Name)
	} else {
		fmt.Fprintf(w, "%s%s  [%s]\n", strings.Repeat("  ", indent), n.Name, n.ID)
	}
	for _, c := range n.Children {
		printTree(w, c, indent+1)
	}
}

func newQuestionsCmd(connect connectFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "questions CATEGORY_ID",
		Short: "List the questions stored under a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := connect(cmd)
			if err != nil {
				return err
			}
			defer e.close()

			ctx := cmd.Context()
			cat, err := e.categories.FindByID(ctx, args[0])
			if err != nil {
				return err
			}
			if cat == nil {
				return fmt.Errorf("category %s not found", args[0])
			}
			list, err := e.questions.ListByCategory(ctx, cat.ID)
			if err != nil {
				return err
			}

			fmt.Fprintf(e.out, "%s (%d questions)\n", cat.Name, len(list))
			tw := tabwriter.NewWriter(e.out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tAnswer\tQuestion")
			for i, q := range list {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", q.DisplayID(i, len(list)), q.AnswerLabel(), oneLine(q.Text))
			}
			return tw.Flush()
		},
	}
}

// oneLine flattens and shortens question text for table output.
func oneLine(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	if r := []rune(s); len(r) > 60 {
		return string(r[:57]) + "..."
	}
	return s
}
