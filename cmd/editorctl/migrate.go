package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/snehn77/Editor/pkg/database"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the session/history and draft store schemas",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := openEnv(envOptions{postgres: true, drafts: true})
			if err != nil {
				return err
			}
			defer e.Close()

			if err := database.MigratePostgres(e.pg); err != nil {
				return fmt.Errorf("migrate postgres: %w", err)
			}
			if err := database.MigrateDrafts(e.drafts); err != nil {
				return fmt.Errorf("migrate draft store: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "migrations applied")
			return nil
		},
	}
}
