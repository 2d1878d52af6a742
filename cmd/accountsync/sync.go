// Package accountsync handles the provider synchronization commands
package accountsync

import (
	"fmt"
	"io"
	"text/tabwriter"

	"fjacquet/finance-sync/cmd/root"
	"fjacquet/finance-sync/internal/logging"
	"fjacquet/finance-sync/internal/syncer"

	"github.com/spf13/cobra"
)

var (
	accountID  string
	userID     string
	all        bool
	force      bool
	credential string
)

// Cmd represents the sync command
var Cmd = &cobra.Command{
	Use:   "sync",
	Short: "Sync transactions from the bank data provider",
	Long: `Sync transactions from the bank data provider into the local store.
New transactions are classified and inserted, already known ones are skipped,
and the owner's budgets are reconciled afterwards.

Example:
  finance-sync sync --account 3f6c...
  finance-sync sync --user alice --all --force`,
	RunE: syncFunc,
}

func init() {
	Cmd.Flags().StringVarP(&accountID, "account", "a", "", "Local account id to sync")
	Cmd.Flags().StringVarP(&userID, "user", "u", "", "User whose linked accounts are synced with --all")
	Cmd.Flags().BoolVar(&all, "all", false, "Sync every linked account of --user")
	Cmd.Flags().BoolVarP(&force, "force", "f", false, "Force a full-history sync")
	Cmd.Flags().StringVar(&credential, "credential", "", "Provider credential (default provider.credential)")
}

func syncFunc(cmd *cobra.Command, args []string) error {
	if all == (accountID != "") {
		return fmt.Errorf("exactly one of --account or --all is required")
	}
	if all && userID == "" {
		return fmt.Errorf("--user is required with --all")
	}

	c, err := root.GetContainer()
	if err != nil {
		return err
	}
	orchestrator, err := c.GetOrchestrator()
	if err != nil {
		return err
	}
	cred := Credential(credential)

	if !all {
		inserted, err := orchestrator.SyncAccount(cmd.Context(), accountID, cred, force)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Account %s: %d new transactions\n", accountID, inserted)
		return nil
	}

	results, err := orchestrator.SyncAll(cmd.Context(), userID, cred, force)
	if werr := writeResults(cmd.OutOrStdout(), results); werr != nil {
		return werr
	}
	if err != nil {
		root.Log.WithError(err).Warn("Some accounts failed to sync",
			logging.Field{Key: logging.FieldUserID, Value: userID})
		return err
	}
	return nil
}

// Credential resolves the provider credential, falling back to the configured one.
func Credential(flag string) string {
	if flag != "" || root.AppConfig == nil {
		return flag
	}
	return root.AppConfig.Provider.Credential
}

func writeResults(w io.Writer, results []syncer.AccountResult) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ACCOUNT\tINSERTED\tSTATUS")
	for _, r := range results {
		status := "ok"
		if r.Err != nil {
			status = r.Err.Error()
		}
		fmt.Fprintf(tw, "%s\t%d\t%s\n", r.AccountID, r.Inserted, status)
	}
	return tw.Flush()
}
