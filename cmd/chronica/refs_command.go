// Chronica - Playback History Import and Normalization
// Copyright 2026 The Chronica Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/chronica-app/chronica

package main

import (
	"fmt"
	"os"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/chronica-app/chronica/internal/database"
	"github.com/chronica-app/chronica/internal/models"
	"github.com/chronica-app/chronica/internal/validation"
)

func newRefsCommand(ctx *commandContext) *cobra.Command {
	refsCmd := &cobra.Command{
		Use:   "refs",
		Short: "Manage the user and library reference tables",
	}

	refsCmd.AddCommand(newRefsLoadCommand(ctx))
	refsCmd.AddCommand(newRefsShowCommand(ctx))

	return refsCmd
}

func newRefsLoadCommand(ctx *commandContext) *cobra.Command {
	var usersFlag string
	var itemsFlag string

	cmd := &cobra.Command{
		Use:   "load",
		Short: "Load reference tables from JSON exports",
		Long: `Load upserts user and library item references from JSON array files
([{"id": "...", "name": "..."}]). Imported sessions resolve their userId
and itemId against these tables; IDs with no reference are imported with
the reference omitted and an audit note.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			req := validation.RefsLoadRequest{Users: usersFlag, Items: itemsFlag}
			if verr := validation.ValidateStruct(&req); verr != nil {
				return verr
			}

			return ctx.withDatabase(func(db *database.DB) error {
				out := cmd.OutOrStdout()

				if usersFlag != "" {
					users, err := loadUsersFile(usersFlag)
					if err != nil {
						return err
					}
					count, err := db.UpsertUsers(cmd.Context(), users)
					if err != nil {
						return err
					}
					fmt.Fprintf(out, "Loaded %d users from %s\n", count, usersFlag)
				}

				if itemsFlag != "" {
					items, err := loadItemsFile(itemsFlag)
					if err != nil {
						return err
					}
					count, err := db.UpsertItems(cmd.Context(), items)
					if err != nil {
						return err
					}
					fmt.Fprintf(out, "Loaded %d library items from %s\n", count, itemsFlag)
				}

				users, items, err := db.ReferenceCounts(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "Reference store holds %d users and %d library items\n", users, items)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&usersFlag, "users", "", "JSON file of user references")
	cmd.Flags().StringVar(&itemsFlag, "items", "", "JSON file of library item references")

	return cmd
}

func newRefsShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show reference table counts",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withDatabase(func(db *database.DB) error {
				users, items, err := db.ReferenceCounts(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Reference store holds %d users and %d library items\n", users, items)
				return nil
			})
		},
	}
}

func loadUsersFile(path string) ([]*models.User, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read users file: %w", err)
	}
	var users []*models.User
	if err := json.Unmarshal(data, &users); err != nil {
		return nil, fmt.Errorf("parse users file %s: %w", path, err)
	}
	return users, nil
}

func loadItemsFile(path string) ([]*models.LibraryItem, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read items file: %w", err)
	}
	var items []*models.LibraryItem
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("parse items file %s: %w", path, err)
	}
	return items, nil
}
