// Package classify handles the one-off transaction classification command
package classify

import (
	"fmt"
	"io"

	"fjacquet/finance-sync/cmd/root"
	"fjacquet/finance-sync/internal/categorizer"
	"fjacquet/finance-sync/internal/container"
	"fjacquet/finance-sync/internal/currencyutils"
	"fjacquet/finance-sync/internal/logging"
	"fjacquet/finance-sync/internal/models"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var (
	description string
	merchant    string
	amount      string
	output      string
)

// Cmd represents the classify command
var Cmd = &cobra.Command{
	Use:   "classify",
	Short: "Classify a transaction description",
	Long: `Classify a transaction description and optional merchant name into a
category and subcategory using the built-in rules plus any rules file configured
under rules.file. A signed amount lets sign-dependent categories flip between
their income and expense variants.

Example:
  finance-sync classify -d "PIX ENVIADO IFOOD *RESTAURANTE" -a -42,90`,
	RunE: classifyFunc,
}

func init() {
	Cmd.Flags().StringVarP(&description, "description", "d", "", "Transaction description (required)")
	Cmd.Flags().StringVarP(&merchant, "merchant", "m", "", "Merchant name (optional)")
	Cmd.Flags().StringVarP(&amount, "amount", "a", "", "Signed transaction amount, e.g. -42,90 (optional)")
	Cmd.Flags().StringVarP(&output, "output", "o", root.FormatText, "Output format: text, json or yaml")
	_ = Cmd.MarkFlagRequired("description")
}

func classifyFunc(cmd *cobra.Command, args []string) error {
	var amt *decimal.Decimal
	if amount != "" {
		parsed, err := currencyutils.ParseAmount(amount)
		if err != nil {
			return fmt.Errorf("invalid amount %q: %w", amount, err)
		}
		amt = &parsed
	}

	classifier, err := getClassifier()
	if err != nil {
		return err
	}

	result := classifier.Classify(description, merchant, amt)
	root.Log.Debug("Transaction classified",
		logging.Field{Key: logging.FieldCategory, Value: result.Category},
		logging.Field{Key: logging.FieldSubcategory, Value: result.Subcategory},
		logging.Field{Key: logging.FieldConfidence, Value: result.Confidence})

	return root.WriteOutput(cmd.OutOrStdout(), output, result, func(w io.Writer) error {
		return writeText(w, result)
	})
}

// getClassifier avoids opening the database when no container exists yet.
func getClassifier() (*categorizer.Classifier, error) {
	if root.AppContainer != nil {
		return root.AppContainer.GetClassifier(), nil
	}
	if root.AppConfig == nil {
		return nil, fmt.Errorf("configuration not loaded")
	}
	return container.NewClassifier(root.AppConfig, root.Log)
}

func writeText(w io.Writer, r models.ClassificationResult) error {
	_, err := fmt.Fprintf(w, "Category:    %s\nSubcategory: %s\nConfidence:  %d\n", r.Category, r.Subcategory, r.Confidence)
	if err != nil {
		return err
	}
	if r.MatchedBy != "" {
		_, err = fmt.Fprintf(w, "Matched by:  %s\n", r.MatchedBy)
	}
	return err
}
