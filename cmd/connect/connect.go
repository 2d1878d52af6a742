// Package connect links provider accounts to a user
package connect

import (
	"fmt"
	"io"
	"text/tabwriter"

	"fjacquet/finance-sync/cmd/accountsync"
	"fjacquet/finance-sync/cmd/root"
	"fjacquet/finance-sync/internal/currencyutils"
	"fjacquet/finance-sync/internal/models"

	"github.com/spf13/cobra"
)

var (
	userID     string
	credential string
	output     string
)

// Cmd represents the connect command
var Cmd = &cobra.Command{
	Use:   "connect",
	Short: "Link provider accounts to a user and run their first sync",
	Long: `Link every account reachable with the provider credential to the user,
then run a full first sync of each and reconcile the user's budgets.`,
	RunE: connectFunc,
}

func init() {
	Cmd.Flags().StringVarP(&userID, "user", "u", "", "User the accounts belong to (required)")
	Cmd.Flags().StringVar(&credential, "credential", "", "Provider credential (default provider.credential)")
	Cmd.Flags().StringVarP(&output, "output", "o", root.FormatText, "Output format: text, json or yaml")
	_ = Cmd.MarkFlagRequired("user")
}

func connectFunc(cmd *cobra.Command, args []string) error {
	c, err := root.GetContainer()
	if err != nil {
		return err
	}
	orchestrator, err := c.GetOrchestrator()
	if err != nil {
		return err
	}

	accounts, err := orchestrator.ConnectAccounts(cmd.Context(), userID, accountsync.Credential(credential))
	if err != nil {
		return err
	}

	return root.WriteOutput(cmd.OutOrStdout(), output, accounts, func(w io.Writer) error {
		return writeAccounts(w, accounts)
	})
}

func writeAccounts(w io.Writer, accounts []models.Account) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tIBAN\tBALANCE")
	for _, a := range accounts {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", a.ID, a.Name, a.IBAN, currencyutils.FormatAmount(a.Balance, a.Currency))
	}
	return tw.Flush()
}
