// Package reclassify re-runs the classifier over stored transactions
package reclassify

import (
	"fmt"

	"fjacquet/finance-sync/cmd/root"

	"github.com/spf13/cobra"
)

var accountID string

// Cmd represents the reclassify command
var Cmd = &cobra.Command{
	Use:   "reclassify",
	Short: "Re-classify the stored transactions of an account",
	Long: `Re-classify the stored transactions of an account with the current rules.
Transactions whose category was set manually are left untouched.`,
	RunE: reclassifyFunc,
}

func init() {
	Cmd.Flags().StringVarP(&accountID, "account", "a", "", "Local account id (required)")
	_ = Cmd.MarkFlagRequired("account")
}

func reclassifyFunc(cmd *cobra.Command, args []string) error {
	c, err := root.GetContainer()
	if err != nil {
		return err
	}
	updated, err := c.GetReclassifier().Reclassify(cmd.Context(), accountID)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Account %s: %d transactions reclassified\n", accountID, updated)
	return nil
}
