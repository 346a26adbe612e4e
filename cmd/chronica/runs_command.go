// Chronica - Playback History Import and Normalization
// Copyright 2026 The Chronica Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/chronica-app/chronica

package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/chronica-app/chronica/internal/database"
	"github.com/chronica-app/chronica/internal/models"
)

func newRunsCommand(ctx *commandContext) *cobra.Command {
	var limitFlag int

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List recent import runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withDatabase(func(db *database.DB) error {
				runs, err := db.ListImportRuns(cmd.Context(), limitFlag)
				if err != nil {
					return err
				}
				if len(runs) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No import runs recorded")
					return nil
				}

				fmt.Fprintln(cmd.OutOrStdout(), renderTable(
					[]string{"Started", "Source", "Format", "Imported", "Skipped", "Errors", "Total", "Dry run"},
					buildRunRows(runs),
					[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignRight, alignRight, alignLeft},
				))
				return nil
			})
		},
	}

	cmd.Flags().IntVar(&limitFlag, "limit", 20, "Maximum number of runs to list")

	return cmd
}

func buildRunRows(runs []*models.ImportRun) [][]string {
	rows := make([][]string, 0, len(runs))
	for _, run := range runs {
		rows = append(rows, []string{
			run.StartedAt.Format("2006-01-02 15:04"),
			run.Source,
			run.Format,
			strconv.Itoa(run.Imported),
			strconv.Itoa(run.Skipped),
			strconv.Itoa(run.Errors),
			strconv.Itoa(run.Total),
			yesNo(run.DryRun),
		})
	}
	return rows
}
