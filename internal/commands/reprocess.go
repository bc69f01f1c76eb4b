package commands

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/tally-dev/tally/internal/importer"
	"github.com/tally-dev/tally/internal/ingest"
)

func newReprocessCommand() *cobra.Command {
	var instrumentID, accountID string

	cmd := &cobra.Command{
		Use:   "reprocess",
		Short: "Re-apply classification rules to an account's transactions",
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

			svc := ingest.NewService(importer.DefaultRegistry(e.log), e.store, nil, e.log)
			return svc.Reprocess(ctx, ingest.ReprocessRequest{
				InstrumentID: instID,
				AccountID:    acctID,
			})
		},
	}

	cmd.Flags().StringVar(&instrumentID, "instrument", "", "instrument id (required)")
	_ = cmd.MarkFlagRequired("instrument")
	cmd.Flags().StringVar(&accountID, "account", "", "account id (required)")
	_ = cmd.MarkFlagRequired("account")

	return cmd
}

func newRulesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "Manage classification rules",
	}
	cmd.AddCommand(newRulesRunCommand())
	return cmd
}

func newRulesRunCommand() *cobra.Command {
	var accountID string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Re-run classification rules over an account",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			e, err := newEnv(ctx, cmd)
			if err != nil {
				return err
			}
			defer e.close()

			acctID, err := uuid.Parse(accountID)
			if err != nil {
				return fmt.Errorf("parsing account id: %w", err)
			}

			svc := ingest.NewService(importer.DefaultRegistry(e.log), e.store, nil, e.log)
			return svc.RunRules(ctx, ingest.RunRulesRequest{AccountID: acctID})
		},
	}

	cmd.Flags().StringVar(&accountID, "account", "", "account id (required)")
	_ = cmd.MarkFlagRequired("account")

	return cmd
}
