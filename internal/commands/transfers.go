package commands

import (
	"github.com/spf13/cobra"

	"github.com/tally-dev/tally/internal/recurring"
)

func newTransfersCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "transfers",
		Short: "Manage recurring transfers",
	}
	cmd.AddCommand(newTransfersProcessCommand())
	return cmd
}

func newTransfersProcessCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "process",
		Short: "Scan recurring transfers and execute the due ones",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			e, err := newEnv(ctx, cmd)
			if err != nil {
				return err
			}
			defer e.close()

			sched := recurring.NewScheduler(e.store, e.log, nil)
			return sched.ProcessDue(ctx)
		},
	}
	return cmd
}
