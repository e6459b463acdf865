package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newExportCmd(app *App) *cobra.Command {
	var groupID int64
	var outPath string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Dump a group's tasks as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.setup(); err != nil {
				return err
			}
			defer app.close()

			ctx := context.Background()
			if err := app.Board.LoadGroups(ctx); err != nil {
				return err
			}

			id := groupID
			if id == 0 {
				id = app.Board.SelectedGroupID()
			}
			if id == 0 {
				return fmt.Errorf("no groups to export")
			}
			if err := app.Board.SelectGroup(ctx, id); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if outPath != "" {
				f, err := os.Create(outPath)
				if err != nil {
					return err
				}
				defer f.Close()
				out = f
			}
			return app.Board.ExportJSON(out)
		},
	}

	cmd.Flags().Int64Var(&groupID, "group", 0, "Group id to export (default: first group)")
	cmd.Flags().StringVarP(&outPath, "output", "o", "", "Write to a file instead of stdout")
	return cmd
}
