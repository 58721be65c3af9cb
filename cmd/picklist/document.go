package main

import (
	"metalflow-app/processor"
	"metalflow-app/wms/pickinglist"

	"github.com/spf13/cobra"
)

var (
	docFile      string
	docUser      string
	docRoutes    []string
	docSheetArea uint
	docCoilArea  uint
)

var parseCmd = &cobra.Command{
	Use:   "parse",
	Short: "Parse a picking list file and print it as JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := parseFileFlag(docFile)
		if err != nil {
			return err
		}
		return printJSON(cmd, doc)
	},
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a picking list file against the item master and user branch",
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := parseFileFlag(docFile)
		if err != nil {
			return err
		}
		db, err := openDB()
		if err != nil {
			return err
		}

		preview, err := pickinglist.NewService(db).PreviewDocument(commandContext(cmd), doc, docUser)
		if err != nil {
			return err
		}
		if err := printJSON(cmd, preview.Validation); err != nil {
			return err
		}
		return preview.Validation.Err()
	},
}

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Validate and commit a picking list file",
	RunE: func(cmd *cobra.Command, args []string) error {
		explicit, err := parseRoutes(docRoutes)
		if err != nil {
			return err
		}
		doc, err := parseFileFlag(docFile)
		if err != nil {
			return err
		}
		db, err := openDB()
		if err != nil {
			return err
		}

		// route eksplisit menimpa routing default per tipe line
		routing := processor.DefaultRouting{SheetAreaID: docSheetArea, CoilAreaID: docCoilArea}.For(doc)
		for line, area := range explicit {
			routing[line] = area
		}

		summary, err := newService(db).CommitDocument(commandContext(cmd), doc, docUser, routing, pickinglist.SourceCommand)
		if err != nil {
			return err
		}
		return printJSON(cmd, summary)
	},
}

func init() {
	parseCmd.Flags().StringVarP(&docFile, "file", "f", "", "Picking list file (.txt, .csv or .xlsx)")
	parseCmd.MarkFlagRequired("file")

	for _, c := range []*cobra.Command{validateCmd, importCmd} {
		c.Flags().StringVarP(&docFile, "file", "f", "", "Picking list file (.txt, .csv or .xlsx)")
		c.Flags().StringVar(&docUser, "user", "", "User ID used to resolve the branch")
		c.MarkFlagRequired("file")
		c.MarkFlagRequired("user")
	}
	importCmd.Flags().StringArrayVar(&docRoutes, "route", nil, "Line routing as LINE=AREA_ID, repeatable")
	importCmd.Flags().UintVar(&docSheetArea, "sheet-area", 0, "Default production area for Sheet lines")
	importCmd.Flags().UintVar(&docCoilArea, "coil-area", 0, "Default production area for Coil lines")

	rootCmd.AddCommand(parseCmd, validateCmd, importCmd)
}
