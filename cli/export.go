package cli

import (
	"errors"

	"github.com/spf13/cobra"
)

func (a *App) exportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "export <username>",
		Short: "Export the followings of one username and exit",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := a.fullDependencies(cmd)
			if err != nil {
				return err
			}
			defer d.Close()

			outcome := d.orchestrator.Run(cmd.Context(), args[0])
			if !outcome.OK() {
				return errors.New(outcome.Message)
			}

			printOutcome(a.stdout, outcome)
			return nil
		},
	}
}
