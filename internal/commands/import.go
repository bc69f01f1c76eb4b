package commands

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/tally-dev/tally/internal/importer"
	"github.com/tally-dev/tally/internal/ingest"
)

func newImportCommand() *cobra.Command {
	var instrumentID, accountID, userID string

	cmd := &cobra.Command{
		Use:   "import <statement.csv>",
		Short: "Import a bank statement export",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			e, err := newEnv(ctx, cmd)
			if err != nil {
				return err
			}
			defer e.close()

			instID, err := uuid.Parse(instrumentID)
			if err != nil {
				return fmt.Errorf("parsing instrument id: %w", err)
			}
			acctID, err := uuid.Parse(accountID)
			if err != nil {
				return fmt.Errorf("parsing account id: %w", err)
			}
			var user uuid.UUID
			if userID != "" {
				if user, err = uuid.Parse(userID); err != nil {
					return fmt.Errorf("parsing user id: %w", err)
				}
			}

			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("reading statement: %w", err)
			}

			svc := ingest.NewService(importer.DefaultRegistry(e.log), e.store, nil, e.log)
			summary, err := svc.Import(ctx, ingest.ImportRequest{
				InstrumentID: instID,
				AccountID:    acctID,
				UserID:       user,
				Data:         data,
			})
			if err != nil {
				return err
			}

			fmt.Printf("Imported %d transactions (%d duplicates skipped)\n", summary.Imported, summary.Duplicates)
			return nil
		},
	}

	cmd.Flags().StringVar(&instrumentID, "instrument", "", "instrument id (required)")
	_ = cmd.MarkFlagRequired("instrument")
	cmd.Flags().StringVar(&accountID, "account", "", "account id (required)")
	_ = cmd.MarkFlagRequired("account")
	cmd.Flags().StringVar(&userID, "user", "", "acting user id")

	return cmd
}
