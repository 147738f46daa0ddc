package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/catalog/database/seeders"
	"github.com/shashiranjanraj/catalog/pkg/app"
)

// withApp boots the application for a one-shot command and closes it after.
func withApp(ctx context.Context, fn func(*app.Application) error) error {
	a, err := app.Boot(ctx)
	if err != nil {
		return err
	}
	defer a.Close(context.Background()) //nolint:errcheck
	return fn(a)
}

// catalog db:indexes
var indexesCmd = &cobra.Command{
	Use:   "db:indexes",
	Short: "Create the product and supplier indexes",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd.Context(), func(a *app.Application) error {
			if err := a.EnsureIndexes(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "✅ Indexes ensured")
			return nil
		})
	},
}

// catalog seed
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Run all database seeders",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd.Context(), func(a *app.Application) error {
			fmt.Fprintln(cmd.OutOrStdout(), "Running seeders…")
			return seeders.RunAll(cmd.Context(), seeders.Repos{Suppliers: a.Suppliers, Products: a.Products}, cmd.OutOrStdout())
		})
	},
}
