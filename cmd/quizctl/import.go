// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"quizdeck/internal/importer"
)

type connectFunc func(cmd *cobra.Command) (*env, error)

func newImportCmd(connect connectFunc) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import category paths or question sheets",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "categories FILE",
		Short: "Replace the category tree with the paths in FILE",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			e, err := connect(cmd)
			if err != nil {
				return err
			}
			defer e.close()

			imp := importer.New(e.docs, e.categories, e.questions, e.tree)
			res, err := imp.ImportCategories(cmd.Context(), f)
			if err != nil {
				return fmt.Errorf("import categories: %w", err)
			}
			fmt.Fprintf(e.out, "categories: %d paths, %d created, %d deleted\n", res.Paths, res.Created, res.Deleted)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "questions FILE",
		Short: "Import the question sheet in FILE (.csv, .tsv, .txt or .xlsx)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			e, err := connect(cmd)
			if err != nil {
				return err
			}
			defer e.close()

			imp := importer.New(e.docs, e.categories, e.questions, e.tree)
			res, err := imp.ImportQuestionFile(cmd.Context(), filepath.Base(args[0]), f)
			if err != nil {
				return fmt.Errorf("import questions: %w", err)
			}
			fmt.Fprintf(e.out, "questions: %d rows, %d imported, %d skipped, %d categories created\n",
				res.Rows, res.Imported, res.Skipped, res.CategoriesCreated)
			return nil
		},
	})

	return cmd
}
