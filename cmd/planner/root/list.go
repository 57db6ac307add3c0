package root

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"planner/internal/engine"
	"planner/internal/ui"
)

func newListCmd() *cobra.Command {
	var category string
	var search string
	var completed bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List open tasks (or completed ones)",
		Args:  cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			set := 0
			for _, on := range []bool{category != "", search != "", completed} {
				if on {
					set++
				}
			}
			if set > 1 {
				return errors.New("--category, --search and --completed are mutually exclusive")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			eng := engine.New(current.store, engine.WithLogger(current.log))

			var c engine.Command = engine.ClearFilter{}
			switch {
			case completed:
				c = engine.SwitchView{View: engine.ViewCompleted}
			case category != "":
				c = engine.SetFilter{Tag: strings.TrimPrefix(category, "#")}
			case search != "":
				c = engine.SetSearch{Query: search}
			}
			vm, err := eng.Dispatch(ctx, c)
			if err != nil {
				return err
			}
			printViewModel(cmd, vm)
			return nil
		},
	}

	cmd.Flags().StringVarP(&category, "category", "c", "", "Only tasks in this category")
	cmd.Flags().StringVarP(&search, "search", "s", "", "Only tasks whose title contains this text")
	cmd.Flags().BoolVar(&completed, "completed", false, "List completed tasks")

	return cmd
}

func printViewModel(cmd *cobra.Command, vm engine.ViewModel) {
	out := cmd.OutOrStdout()
	if vm.Subtitle != "" {
		fmt.Fprintln(out, ui.Subtitle.Render(vm.Subtitle))
	}
	if len(vm.Items) == 0 {
		if vm.View == engine.ViewCompleted {
			fmt.Fprintln(out, ui.Dim.Render("No completed todos yet!"))
		} else {
			fmt.Fprintln(out, ui.Dim.Render("No todos yet!"))
		}
	}
	for _, it := range vm.Items {
		fmt.Fprintf(out, "%4d  %s\n", it.ID, ui.TaskLine(it))
	}
	if vm.View == engine.ViewDashboard {
		fmt.Fprintf(out, "\nTotal: %d  Done: %d  Progress: %d%%\n", vm.Total, vm.Completed, vm.Progress)
	}
}
