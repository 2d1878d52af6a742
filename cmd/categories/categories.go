// Package categories lists the categories the classifier can assign
package categories

import (
	"fmt"
	"io"
	"text/tabwriter"

	"fjacquet/finance-sync/cmd/root"
	"fjacquet/finance-sync/internal/container"
	"fjacquet/finance-sync/internal/models"

	"github.com/spf13/cobra"
)

var output string

// Cmd represents the categories command
var Cmd = &cobra.Command{
	Use:   "categories",
	Short: "List the known categories",
	Long:  `List every category and subcategory the classifier can assign, with its icon and color.`,
	RunE:  categoriesFunc,
}

func init() {
	Cmd.Flags().StringVarP(&output, "output", "o", root.FormatText, "Output format: text, json or yaml")
}

func categoriesFunc(cmd *cobra.Command, args []string) error {
	var list []models.CategoryInfo
	switch {
	case root.AppContainer != nil:
		list = root.AppContainer.GetClassifier().ListCategories()
	case root.AppConfig != nil:
		classifier, err := container.NewClassifier(root.AppConfig, root.Log)
		if err != nil {
			return err
		}
		list = classifier.ListCategories()
	default:
		return fmt.Errorf("configuration not loaded")
	}

	return root.WriteOutput(cmd.OutOrStdout(), output, list, func(w io.Writer) error {
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "CATEGORY\tSUBCATEGORY\tICON\tCOLOR")
		for _, c := range list {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", c.Category, c.Subcategory, c.Icon, c.Color)
		}
		return tw.Flush()
	})
}
