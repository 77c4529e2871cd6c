package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/cramkit/internal/catalog"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Import and browse the item catalog",
}

var catalogImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import items from a JSON, CSV or XLSX file",
	Long: `Import items from a catalog file. Items with an existing ID are replaced.

Supported formats are chosen by extension:
  .json   {"schema_version": "v1", "items": [...], "topic_weights": [...]}
  .csv    header: id,topic,category,weight,difficulty[,prompt]
  .xlsx   same columns as CSV; the first sheet unless --sheet is given`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sheet, _ := cmd.Flags().GetString("sheet")

		var opts []catalog.LoadOption
		if sheet != "" {
			opts = append(opts, catalog.WithSheet(sheet))
		}
		doc, err := catalog.LoadFile(args[0], opts...)
		if err != nil {
			return err
		}

		eng, closeFn, err := openEngine()
		if err != nil {
			return err
		}
		defer closeFn()

		res, err := eng.ImportCatalog(cmd.Context(), doc)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Imported %d items across %d topics.\n", res.Items, res.Topics)
		return nil
	},
}

var catalogListCmd = &cobra.Command{
	Use:   "list",
	Short: "List catalog items (optionally filtered by category or topic)",
	RunE: func(cmd *cobra.Command, args []string) error {
		category, _ := cmd.Flags().GetString("category")
		topic, _ := cmd.Flags().GetString("topic")

		eng, closeFn, err := openEngine()
		if err != nil {
			return err
		}
		defer closeFn()

		cat, err := eng.Catalog(cmd.Context())
		if err != nil {
			return err
		}
		if category == "" {
			return printItems(cmd, eng, cat.Filter("", topic))
		}

		items, err := eng.CategoryItems(cmd.Context(), category, topic)
		if err != nil {
			return err
		}
		if len(items) == 0 {
			return fmt.Errorf("no items found for category %q (have %v)", category, cat.Categories())
		}
		return printItems(cmd, eng, items)
	},
}

func init() {
	catalogImportCmd.Flags().String("sheet", "", "Worksheet to read from an XLSX file")
	catalogListCmd.Flags().String("category", "", "Only items in this category")
	catalogListCmd.Flags().String("topic", "", "Only items in this topic")

	catalogCmd.AddCommand(catalogImportCmd)
	catalogCmd.AddCommand(catalogListCmd)
}
