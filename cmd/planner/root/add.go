package root

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"planner/internal/engine"
	"planner/internal/ui"
)

func newAddCmd() *cobra.Command {
	var category string
	var due string

	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Add a task",
		Example: `  planner add "Buy milk" -c home -d tomorrow
  planner add "Quarterly report" -c work -d +2w`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("title is required")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			eng := engine.New(current.store, engine.WithLogger(current.log))
			vm, err := eng.Dispatch(ctx, engine.Add{
				Title:    args[0],
				Category: strings.TrimPrefix(strings.TrimSpace(category), "#"),
				DueRaw:   due,
			})
			if err != nil {
				return err
			}
			if len(vm.Items) > 0 {
				it := vm.Items[0]
				fmt.Fprintf(cmd.OutOrStdout(), "added #%d %s\n", it.ID, ui.TaskLine(it))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&category, "category", "c", "", "Category tag (with or without #)")
	cmd.Flags().StringVarP(&due, "due", "d", "", "Due date (YYYY-MM-DD, today, tomorrow, +3d, +2w, or free text)")

	return cmd
}
