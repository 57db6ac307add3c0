package root

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"planner/internal/storage"
)

func parseID(args []string) error {
	if len(args) != 1 {
		return errors.New("id is required")
	}
	if _, err := strconv.ParseInt(args[0], 10, 64); err != nil {
		return errors.New("id must be an integer")
	}
	return nil
}

// lookup returns the live task with the given id. Deleted tasks are reported
// as missing.
func lookup(ctx context.Context, store *storage.Store, arg string) (*storage.Task, error) {
	id, _ := strconv.ParseInt(arg, 10, 64)
	t, err := store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if t == nil || t.Deleted {
		return nil, fmt.Errorf("no task #%d", id)
	}
	return t, nil
}

func newDoneCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "done <id>",
		Short: "Mark a task done",
		Args: func(cmd *cobra.Command, args []string) error {
			return parseID(args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			t, err := lookup(ctx, current.store, args[0])
			if err != nil {
				return err
			}
			if t.Done {
				fmt.Fprintf(cmd.OutOrStdout(), "#%d %s is already done\n", t.ID, t.Title)
				return nil
			}
			if err := current.store.MarkDone(ctx, t.ID); err != nil {
				return err
			}
			current.log.Info("task done", "id", t.ID)
			fmt.Fprintf(cmd.OutOrStdout(), "done #%d %s\n", t.ID, t.Title)
			return nil
		},
	}

	return cmd
}
