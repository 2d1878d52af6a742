package importcsv

import (
	"fmt"
	"io"

	"fjacquet/finance-sync/cmd/root"
	"fjacquet/finance-sync/internal/fileutils"
	"fjacquet/finance-sync/internal/importer"
	"fjacquet/finance-sync/internal/logging"

	"github.com/spf13/cobra"
)

var (
	exportAccountID string
	exportOutput    string
)

// ExportCmd represents the export command
var ExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export an account's transactions to CSV",
	Long: `Export the stored, classified transactions of an account to CSV using the
configured csv.delimiter.

Example:
  finance-sync export --account 3f6c... --output transactions.csv`,
	RunE: exportFunc,
}

func init() {
	ExportCmd.Flags().StringVarP(&exportAccountID, "account", "a", "", "Local account id (required)")
	ExportCmd.Flags().StringVarP(&exportOutput, "output", "o", "-", "Output CSV file, - for stdout")
	_ = ExportCmd.MarkFlagRequired("account")
}

func exportFunc(cmd *cobra.Command, args []string) error {
	c, err := root.GetContainer()
	if err != nil {
		return err
	}

	records, err := c.GetStore().ListTransactions(cmd.Context(), exportAccountID)
	if err != nil {
		return err
	}

	var w io.Writer = cmd.OutOrStdout()
	if exportOutput != "-" {
		f, err := fileutils.CreateFile(exportOutput)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer func() { _ = f.Close() }()
		w = f
	}

	if err := importer.WriteTransactions(w, records, c.GetConfig().Delimiter()); err != nil {
		return err
	}
	root.Log.Info("Exported transactions",
		logging.Field{Key: logging.FieldAccountID, Value: exportAccountID},
		logging.Field{Key: logging.FieldCount, Value: len(records)})
	return nil
}
