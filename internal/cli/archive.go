package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func newArchiveCmd(app *App) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "archive",
		Short: "List locally archived task snapshots",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.setup(); err != nil {
				return err
			}
			defer app.close()

			tasks := app.Archive.List()

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(tasks)
			}

			if len(tasks) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "Nothing archived.")
				return nil
			}
			for _, at := range tasks {
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %-8s %-12s %3d%%  %s\n",
					at.ArchivedAt.Format("2006-01-02"), at.Priority, at.Status, at.Progress, at.Title)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit JSON")
	return cmd
}
