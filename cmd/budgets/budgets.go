// Package budgets handles budget reconciliation and listing commands
package budgets

import (
	"fmt"
	"io"
	"text/tabwriter"

	"fjacquet/finance-sync/cmd/root"
	"fjacquet/finance-sync/internal/currencyutils"
	"fjacquet/finance-sync/internal/importer"
	"fjacquet/finance-sync/internal/models"

	"github.com/spf13/cobra"
)

var (
	userID string
	output string
)

// Cmd represents the budgets command
var Cmd = &cobra.Command{
	Use:   "budgets",
	Short: "Reconcile and list monthly category budgets",
	Long: `Reconcile and list monthly category budgets. Budgets are derived from the
average monthly spending per category and are only ever created or raised,
never lowered.`,
}

// SyncCmd represents the budgets sync command
var SyncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Reconcile a user's budgets with their spending history",
	RunE:  syncFunc,
}

// ListCmd represents the budgets list command
var ListCmd = &cobra.Command{
	Use:   "list",
	Short: "List a user's budgets",
	RunE:  listFunc,
}

func init() {
	Cmd.PersistentFlags().StringVarP(&userID, "user", "u", "", "User id (required)")
	_ = Cmd.MarkPersistentFlagRequired("user")
	ListCmd.Flags().StringVarP(&output, "output", "o", root.FormatText, "Output format: text, json or yaml")

	Cmd.AddCommand(SyncCmd)
	Cmd.AddCommand(ListCmd)
}

func syncFunc(cmd *cobra.Command, args []string) error {
	c, err := root.GetContainer()
	if err != nil {
		return err
	}

	result, err := c.GetBudgetSynchronizer().Reconcile(cmd.Context(), userID)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Budgets for %s: %d created, %d updated, %d consolidated, %d unchanged\n",
		userID, result.Created, result.Updated, result.Consolidated, result.Unchanged)
	return nil
}

func listFunc(cmd *cobra.Command, args []string) error {
	c, err := root.GetContainer()
	if err != nil {
		return err
	}

	entries, err := c.GetStore().ListBudgets(cmd.Context(), userID)
	if err != nil {
		return err
	}

	return root.WriteOutput(cmd.OutOrStdout(), output, entries, func(w io.Writer) error {
		return writeBudgets(w, entries)
	})
}

func writeBudgets(w io.Writer, entries []models.BudgetEntry) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "CATEGORY\tCOST TYPE\tMONTHLY")
	for _, e := range entries {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", e.CategoryName, e.CostType, currencyutils.FormatAmount(e.Value, importer.DefaultCurrency))
	}
	return tw.Flush()
}
