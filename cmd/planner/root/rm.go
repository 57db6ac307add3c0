package root

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newRmCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"delete"},
		Short:   "Delete a task (it stays in the database, hidden)",
		Args: func(cmd *cobra.Command, args []string) error {
			return parseID(args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			t, err := lookup(ctx, current.store, args[0])
			if err != nil {
				return err
			}
			if err := current.store.SoftDelete(ctx, t.ID); err != nil {
				return err
			}
			current.log.Info("task deleted", "id", t.ID)
			fmt.Fprintf(cmd.OutOrStdout(), "deleted #%d %s\n", t.ID, t.Title)
			return nil
		},
	}

	return cmd
}
