// Package importcsv handles manual CSV import and export of transactions
package importcsv

import (
	"errors"
	"fmt"
	"io"

	"fjacquet/finance-sync/cmd/root"
	"fjacquet/finance-sync/internal/fileutils"
	"fjacquet/finance-sync/internal/logging"
	"fjacquet/finance-sync/internal/syncerror"

	"github.com/spf13/cobra"
)

var (
	accountID string
	input     string
)

// Cmd represents the import command
var Cmd = &cobra.Command{
	Use:   "import",
	Short: "Import transactions from a CSV file",
	Long: `Import transactions from a CSV file into an account. The file needs a header
with at least date, amount and description columns; merchant, currency and
external_id are optional. Both ',' and ';' separated files are accepted, and
Brazilian amounts such as "R$ 1.234,56" are understood.

Rows already imported are skipped, so re-importing the same file is safe.

Example:
  finance-sync import --account 3f6c... --input extrato.csv`,
	RunE: importFunc,
}

func init() {
	Cmd.Flags().StringVarP(&accountID, "account", "a", "", "Local account id (required)")
	Cmd.Flags().StringVarP(&input, "input", "i", "", "Input CSV file, - for stdin (required)")
	_ = Cmd.MarkFlagRequired("account")
	_ = Cmd.MarkFlagRequired("input")
}

func importFunc(cmd *cobra.Command, args []string) error {
	r, closeFn, err := openInput(cmd, input)
	if err != nil {
		return err
	}
	defer closeFn()

	c, err := root.GetContainer()
	if err != nil {
		return err
	}

	result, err := c.GetImporter().ImportCSV(cmd.Context(), accountID, r)
	var aborted *syncerror.ImportAbortedError
	if errors.As(err, &aborted) {
		writeRowErrors(cmd.ErrOrStderr(), aborted.Errors)
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Imported %d of %d rows (%d duplicates, %d invalid)\n",
		result.Inserted, result.Total, result.Duplicates, result.Invalid)
	writeRowErrors(cmd.ErrOrStderr(), result.Errors)
	if len(result.Errors) > 0 {
		root.Log.Warn("Some rows were not imported",
			logging.Field{Key: logging.FieldAccountID, Value: accountID},
			logging.Field{Key: logging.FieldCount, Value: len(result.Errors)})
	}
	return nil
}

func openInput(cmd *cobra.Command, path string) (io.Reader, func(), error) {
	if path == "-" {
		return cmd.InOrStdin(), func() {}, nil
	}
	f, err := fileutils.OpenFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open input file: %w", err)
	}
	return f, func() { _ = f.Close() }, nil
}

func writeRowErrors(w io.Writer, errs []error) {
	for _, err := range errs {
		fmt.Fprintf(w, "  %v\n", err)
	}
}
