package commands

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/tally-dev/tally/internal/importer"
	"github.com/tally-dev/tally/internal/ingest"
)

func newWorkerCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "worker",
		Short: "Run the background ingest worker until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			e, err := newEnv(ctx, cmd)
			if err != nil {
				return err
			}
			defer e.close()

			svc := ingest.NewService(importer.DefaultRegistry(e.log), e.store, nil, e.log)
			w := ingest.NewWorker(svc, e.log)
			w.Start(ctx)
			e.log.Info().Msg("worker started")

			<-ctx.Done()
			e.log.Info().Msg("worker shutting down")
			w.Stop()
			return nil
		},
	}
}
